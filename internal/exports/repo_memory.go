package exports

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string][]Export // owner -> exports
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string][]Export)}
}

// Create appends an export for its owner.
func (r *MemoryRepo) Create(ctx context.Context, exp Export) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[exp.OwnerID] = append(r.data[exp.OwnerID], exp)
	return nil
}

// GetByID returns an export by ID for an owner.
func (r *MemoryRepo) GetByID(ctx context.Context, owner, id string) (Export, error) {
	if err := ctx.Err(); err != nil {
		return Export{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, exp := range r.data[owner] {
		if exp.ID == id {
			return exp, nil
		}
	}
	return Export{}, ErrNotFound
}

// ListByOwner returns exports newest first, honoring limit/offset.
func (r *MemoryRepo) ListByOwner(ctx context.Context, owner string, limit, offset int) ([]Export, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	limit, offset = clampPage(limit, offset)

	r.mu.RLock()
	out := make([]Export, len(r.data[owner]))
	copy(out, r.data[owner])
	r.mu.RUnlock()

	if offset >= len(out) {
		return []Export{}, nil
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], nil
}

var _ Repo = (*MemoryRepo)(nil)
