package records

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Get returns the payload stored for owner and key.
func (r *PGRepo) Get(ctx context.Context, owner, key string) ([]byte, error) {
	const query = `
SELECT payload
FROM resume_records
WHERE owner_id = $1 AND storage_key = $2
LIMIT 1`
	var payload string
	if err := r.DB.QueryRowContext(ctx, query, owner, key).Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return []byte(payload), nil
}

// Put upserts the payload.
func (r *PGRepo) Put(ctx context.Context, owner, key string, payload []byte) error {
	const query = `
INSERT INTO resume_records (owner_id, storage_key, payload, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (owner_id, storage_key)
DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()`
	_, err := r.DB.ExecContext(ctx, query, owner, key, string(payload))
	return err
}

// Delete removes the payload if present.
func (r *PGRepo) Delete(ctx context.Context, owner, key string) error {
	const query = `DELETE FROM resume_records WHERE owner_id = $1 AND storage_key = $2`
	_, err := r.DB.ExecContext(ctx, query, owner, key)
	return err
}

var _ Repo = (*PGRepo)(nil)
