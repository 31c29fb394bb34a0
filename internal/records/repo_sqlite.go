package records

import (
	"context"
	"database/sql"
	"errors"
)

// SQLiteRepo implements Repo on a single-file SQLite database.
type SQLiteRepo struct {
	DB *sql.DB
}

// Get returns the payload stored for owner and key.
func (r *SQLiteRepo) Get(ctx context.Context, owner, key string) ([]byte, error) {
	const query = `SELECT payload FROM resume_records WHERE owner_id = ? AND storage_key = ? LIMIT 1`
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
func (r *SQLiteRepo) Put(ctx context.Context, owner, key string, payload []byte) error {
	const query = `
INSERT INTO resume_records (owner_id, storage_key, payload, updated_at)
VALUES (?, ?, ?, strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
ON CONFLICT (owner_id, storage_key)
DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`
	_, err := r.DB.ExecContext(ctx, query, owner, key, string(payload))
	return err
}

// Delete removes the payload if present.
func (r *SQLiteRepo) Delete(ctx context.Context, owner, key string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM resume_records WHERE owner_id = ? AND storage_key = ?`, owner, key)
	return err
}

var _ Repo = (*SQLiteRepo)(nil)
