package task

import (
	"sync"
	"time"
)

// Registry holds the latest snapshot of every download the daemon knows
// about. Refreshes replace the contents wholesale; a failed refresh
// leaves the previous contents in place, so readers see a stale list
// rather than an empty one while the daemon is unreachable.
type Registry struct {
	mu        sync.RWMutex
	order     []string
	byGID     map[string]Snapshot
	updatedAt time.Time
}

func NewRegistry() *Registry {
	return &Registry{byGID: make(map[string]Snapshot)}
}

func (r *Registry) Replace(snapshots []Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.order = r.order[:0]
	r.byGID = make(map[string]Snapshot, len(snapshots))
	for _, s := range snapshots {
		if _, seen := r.byGID[s.GID]; seen {
			continue
		}
		r.order = append(r.order, s.GID)
		r.byGID[s.GID] = s
	}
	r.updatedAt = time.Now()
}

// All returns the snapshots in the order the daemon listed them.
// The returned slice is a copy.
func (r *Registry) All() []Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Snapshot, 0, len(r.order))
	for _, gid := range r.order {
		out = append(out, r.byGID[gid])
	}
	return out
}

func (r *Registry) Get(gid string) (Snapshot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byGID[gid]
	return s, ok
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.order)
}

// UpdatedAt is the time of the last successful refresh, zero before the
// first one.
func (r *Registry) UpdatedAt() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.updatedAt
}
