package thoughts

import (
	"context"
	"sync"
)

// MemoryRepo stores thoughts in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu      sync.RWMutex
	ordered []SavedThought
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

// Append inserts the thought at the head of the collection.
func (r *MemoryRepo) Append(ctx context.Context, thought SavedThought) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ordered = append([]SavedThought{thought}, r.ordered...)
	return nil
}

// Update replaces an existing record in place, keeping its position.
func (r *MemoryRepo) Update(ctx context.Context, thought SavedThought) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.ordered {
		if r.ordered[i].ID == thought.ID {
			r.ordered[i] = thought
			return nil
		}
	}
	return ErrNotFound
}

// Remove deletes a record; removing an unknown id is a no-op.
func (r *MemoryRepo) Remove(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.ordered {
		if r.ordered[i].ID == id {
			r.ordered = append(r.ordered[:i], r.ordered[i+1:]...)
			return nil
		}
	}
	return nil
}

// GetByID returns a record by its id.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (SavedThought, error) {
	if err := ctx.Err(); err != nil {
		return SavedThought{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.ordered {
		if r.ordered[i].ID == id {
			return r.ordered[i], nil
		}
	}
	return SavedThought{}, ErrNotFound
}

// All returns a copy of the collection, most-recent-first.
func (r *MemoryRepo) All(ctx context.Context) ([]SavedThought, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]SavedThought, len(r.ordered))
	copy(out, r.ordered)
	return out, nil
}

var _ Repo = (*MemoryRepo)(nil)
