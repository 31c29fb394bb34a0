package records

import (
	"context"
	"sync"
)

type memoryKey struct {
	owner string
	key   string
}

// MemoryRepo stores records in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[memoryKey][]byte
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[memoryKey][]byte)}
}

// Get returns a copy of the stored payload.
func (r *MemoryRepo) Get(ctx context.Context, owner, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	payload, ok := r.data[memoryKey{owner, key}]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), payload...), nil
}

// Put stores a copy of payload.
func (r *MemoryRepo) Put(ctx context.Context, owner, key string, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[memoryKey{owner, key}] = append([]byte(nil), payload...)
	return nil
}

// Delete removes the payload. Deleting a missing key is not an error.
func (r *MemoryRepo) Delete(ctx context.Context, owner, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data, memoryKey{owner, key})
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
