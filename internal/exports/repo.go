package exports

import "context"

// Repo persists export metadata. Bytes live in the object store.
type Repo interface {
	Create(ctx context.Context, exp Export) error
	GetByID(ctx context.Context, owner, id string) (Export, error)
	ListByOwner(ctx context.Context, owner string, limit, offset int) ([]Export, error)
}

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
