// Package records persists resume records as key-value pairs scoped to an owner.
package records

import "context"

// Repo stores one opaque payload per (owner, key). Put replaces any previous value.
type Repo interface {
	Get(ctx context.Context, owner, key string) ([]byte, error)
	Put(ctx context.Context, owner, key string, payload []byte) error
	Delete(ctx context.Context, owner, key string) error
}
