package exports

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// SQLiteRepo implements Repo on SQLite. created_at is stored as Unix
// milliseconds so ordering works without date parsing.
type SQLiteRepo struct {
	DB *sql.DB
}

const sqliteSelectColumns = `id, owner_id, template, file_name, storage_key, content_type, size_bytes, page_count, created_at`

// Create inserts a new export row.
func (r *SQLiteRepo) Create(ctx context.Context, exp Export) error {
	const query = `
INSERT INTO resume_exports (id, owner_id, template, file_name, storage_key, content_type, size_bytes, page_count, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.DB.ExecContext(ctx, query,
		exp.ID,
		exp.OwnerID,
		exp.Template,
		exp.FileName,
		exp.StorageKey,
		exp.ContentType,
		exp.SizeBytes,
		exp.PageCount,
		exp.CreatedAt.UnixMilli(),
	)
	return err
}

// GetByID fetches an export by ID for an owner.
func (r *SQLiteRepo) GetByID(ctx context.Context, owner, id string) (Export, error) {
	query := `SELECT ` + sqliteSelectColumns + ` FROM resume_exports WHERE owner_id = ? AND id = ? LIMIT 1`
	exp, err := scanSQLite(r.DB.QueryRowContext(ctx, query, owner, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Export{}, ErrNotFound
		}
		return Export{}, err
	}
	return exp, nil
}

// ListByOwner lists exports ordered newest-first.
func (r *SQLiteRepo) ListByOwner(ctx context.Context, owner string, limit, offset int) ([]Export, error) {
	limit, offset = clampPage(limit, offset)
	query := `SELECT ` + sqliteSelectColumns + `
FROM resume_exports
WHERE owner_id = ?
ORDER BY created_at DESC
LIMIT ? OFFSET ?`
	rows, err := r.DB.QueryContext(ctx, query, owner, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Export{}
	for rows.Next() {
		exp, err := scanSQLite(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, exp)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLite(row rowScanner) (Export, error) {
	var exp Export
	var createdMs int64
	if err := row.Scan(
		&exp.ID,
		&exp.OwnerID,
		&exp.Template,
		&exp.FileName,
		&exp.StorageKey,
		&exp.ContentType,
		&exp.SizeBytes,
		&exp.PageCount,
		&createdMs,
	); err != nil {
		return Export{}, err
	}
	exp.CreatedAt = time.UnixMilli(createdMs).UTC()
	return exp, nil
}

var _ Repo = (*SQLiteRepo)(nil)
