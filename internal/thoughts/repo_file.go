package thoughts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"thoughts-backend/internal/shared/telemetry"
)

// FileRepo mirrors the collection into a single JSON file, the durable
// stand-in for the browser profile's local storage. The whole ordered array
// is rewritten after every mutation, so a mutating call returns only once the
// mirror reflects the new state. The file is exclusively owned by this repo.
type FileRepo struct {
	path string

	mu      sync.RWMutex
	ordered []SavedThought
}

// NewFileRepo opens the mirror at path, reading it once at startup. An absent
// or corrupt mirror degrades silently to an empty collection.
func NewFileRepo(path string) *FileRepo {
	r := &FileRepo{path: path}
	r.load()
	return r
}

func (r *FileRepo) load() {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			telemetry.Warn("thoughts.store.load_failed", map[string]any{"path": r.path, "error": err.Error()})
		}
		return
	}
	var stored []SavedThought
	if err := json.Unmarshal(raw, &stored); err != nil {
		telemetry.Warn("thoughts.store.corrupt", map[string]any{"path": r.path, "error": err.Error()})
		return
	}
	r.ordered = stored
}

// Append inserts the thought at the head of the collection and flushes.
func (r *FileRepo) Append(ctx context.Context, thought SavedThought) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	next := append([]SavedThought{thought}, r.ordered...)
	if err := r.persist(next); err != nil {
		return err
	}
	r.ordered = next
	return nil
}

// Update replaces an existing record in place, keeping its position, and flushes.
func (r *FileRepo) Update(ctx context.Context, thought SavedThought) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.ordered {
		if r.ordered[i].ID != thought.ID {
			continue
		}
		next := make([]SavedThought, len(r.ordered))
		copy(next, r.ordered)
		next[i] = thought
		if err := r.persist(next); err != nil {
			return err
		}
		r.ordered = next
		return nil
	}
	return ErrNotFound
}

// Remove deletes a record and flushes; removing an unknown id is a no-op.
func (r *FileRepo) Remove(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.ordered {
		if r.ordered[i].ID != id {
			continue
		}
		next := make([]SavedThought, 0, len(r.ordered)-1)
		next = append(next, r.ordered[:i]...)
		next = append(next, r.ordered[i+1:]...)
		if err := r.persist(next); err != nil {
			return err
		}
		r.ordered = next
		return nil
	}
	return nil
}

// GetByID returns a record by its id.
func (r *FileRepo) GetByID(ctx context.Context, id string) (SavedThought, error) {
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
func (r *FileRepo) All(ctx context.Context) ([]SavedThought, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]SavedThought, len(r.ordered))
	copy(out, r.ordered)
	return out, nil
}

// persist rewrites the mirror atomically: write to a temp file in the same
// directory, then rename over the target.
func (r *FileRepo) persist(records []SavedThought) error {
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal thoughts: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".saved_thoughts-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp mirror: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write mirror: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close mirror: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace mirror: %w", err)
	}
	return nil
}

var _ Repo = (*FileRepo)(nil)
