package workspace

import (
	"sort"
	"sync"
	"time"

	"resume-builder/internal/shared/metrics"
	"resume-builder/resume/form"
)

const (
	DefaultMaxWorkspaces = 1024
	DefaultIdleTTL       = 30 * time.Minute
)

type slot struct {
	mu       sync.Mutex
	form     *form.Form
	lastUsed time.Time // guarded by Registry.mu
}

// Registry holds one Form per owner, created empty on first use. Calls for
// the same owner are serialized; different owners proceed in parallel.
//
// The registry is bounded. Once it holds max workspaces, admitting a new
// owner first drops workspaces idle for longer than the TTL and then, if
// still full, the least recently used one that is not in use. Saved records
// are unaffected; an evicted owner starts again from an empty form.
type Registry struct {
	mu    sync.Mutex
	slots map[string]*slot
	max   int
	ttl   time.Duration
	now   func() time.Time
}

// NewRegistry constructs an empty Registry with the default limits.
func NewRegistry() *Registry {
	return NewBoundedRegistry(DefaultMaxWorkspaces, DefaultIdleTTL)
}

// NewBoundedRegistry constructs an empty Registry holding at most max
// workspaces. Non-positive arguments fall back to the defaults.
func NewBoundedRegistry(max int, idleTTL time.Duration) *Registry {
	if max <= 0 {
		max = DefaultMaxWorkspaces
	}
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}
	return &Registry{slots: make(map[string]*slot), max: max, ttl: idleTTL, now: time.Now}
}

// With runs fn with exclusive access to the owner's form.
func (r *Registry) With(owner string, fn func(f *form.Form) error) error {
	s := r.slot(owner)
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.form)
}

// Len reports how many workspaces are held.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.slots)
}

func (r *Registry) slot(owner string) *slot {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	s, ok := r.slots[owner]
	if !ok {
		if len(r.slots) >= r.max {
			r.evictLocked(now)
		}
		s = &slot{form: form.New()}
		r.slots[owner] = s
	}
	s.lastUsed = now
	return s
}

// evictLocked makes room for one more workspace. Slots held by a running
// call are never evicted, so the map may briefly exceed max under load.
func (r *Registry) evictLocked(now time.Time) {
	type candidate struct {
		key      string
		lastUsed time.Time
	}
	evicted := 0
	var idle []candidate
	for key, s := range r.slots {
		if !s.mu.TryLock() {
			continue
		}
		if now.Sub(s.lastUsed) > r.ttl {
			delete(r.slots, key)
			evicted++
		} else {
			idle = append(idle, candidate{key: key, lastUsed: s.lastUsed})
		}
		s.mu.Unlock()
	}
	sort.Slice(idle, func(i, j int) bool { return idle[i].lastUsed.Before(idle[j].lastUsed) })
	for _, c := range idle {
		if len(r.slots) < r.max {
			break
		}
		delete(r.slots, c.key)
		evicted++
	}
	if evicted > 0 {
		metrics.AddWorkspacesEvicted(evicted)
	}
}
