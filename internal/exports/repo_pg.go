package exports

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const pgSelectColumns = `id, owner_id, template, file_name, storage_key, content_type, size_bytes, page_count, created_at`

// Create inserts a new export row.
func (r *PGRepo) Create(ctx context.Context, exp Export) error {
	const query = `
INSERT INTO resume_exports (
    id,
    owner_id,
    template,
    file_name,
    storage_key,
    content_type,
    size_bytes,
    page_count,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.DB.ExecContext(ctx, query,
		exp.ID,
		exp.OwnerID,
		exp.Template,
		exp.FileName,
		exp.StorageKey,
		exp.ContentType,
		exp.SizeBytes,
		exp.PageCount,
		exp.CreatedAt,
	)
	return err
}

// GetByID fetches an export by ID for an owner.
func (r *PGRepo) GetByID(ctx context.Context, owner, id string) (Export, error) {
	query := `SELECT ` + pgSelectColumns + `
FROM resume_exports
WHERE owner_id = $1 AND id = $2
LIMIT 1`
	var exp Export
	err := r.DB.QueryRowContext(ctx, query, owner, id).Scan(
		&exp.ID,
		&exp.OwnerID,
		&exp.Template,
		&exp.FileName,
		&exp.StorageKey,
		&exp.ContentType,
		&exp.SizeBytes,
		&exp.PageCount,
		&exp.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Export{}, ErrNotFound
		}
		return Export{}, err
	}
	return exp, nil
}

// ListByOwner lists exports ordered newest-first.
func (r *PGRepo) ListByOwner(ctx context.Context, owner string, limit, offset int) ([]Export, error) {
	limit, offset = clampPage(limit, offset)
	query := `SELECT ` + pgSelectColumns + `
FROM resume_exports
WHERE owner_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, owner, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Export{}
	for rows.Next() {
		var exp Export
		if err := rows.Scan(
			&exp.ID,
			&exp.OwnerID,
			&exp.Template,
			&exp.FileName,
			&exp.StorageKey,
			&exp.ContentType,
			&exp.SizeBytes,
			&exp.PageCount,
			&exp.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, exp)
	}
	return out, rows.Err()
}

var _ Repo = (*PGRepo)(nil)
