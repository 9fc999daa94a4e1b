package thoughts

import "context"

// Repo owns the authoritative ordered collection of SavedThought records and
// its durable mirror. Mutations are write-through: when a call returns, the
// mirror reflects the new state. Each mutation is atomic only with respect to
// itself; there are no multi-record transactions.
type Repo interface {
	// Append inserts at the head of the collection (most-recent-first).
	Append(ctx context.Context, thought SavedThought) error
	// Update replaces the named record's text/analysis/date in place;
	// returns ErrNotFound if the id does not exist.
	Update(ctx context.Context, thought SavedThought) error
	// Remove deletes the named record. Removing a nonexistent id is a no-op.
	Remove(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (SavedThought, error)
	// All returns the collection most-recent-first.
	All(ctx context.Context) ([]SavedThought, error)
}
