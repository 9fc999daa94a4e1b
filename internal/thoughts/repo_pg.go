package thoughts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres. Ordering is by creation time, so a
// record updated in place keeps its position, same as the file mirror.
type PGRepo struct {
	DB *sql.DB
}

// Append inserts a new thought.
func (r *PGRepo) Append(ctx context.Context, thought SavedThought) error {
	const query = `
INSERT INTO thoughts (id, body, display_date, analysis, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)`
	payload, err := json.Marshal(thought.Analysis)
	if err != nil {
		return fmt.Errorf("marshal analysis: %w", err)
	}
	_, err = r.DB.ExecContext(ctx, query,
		thought.ID,
		thought.Text,
		thought.Date,
		payload,
		thought.CreatedAt,
		thought.UpdatedAt,
	)
	return err
}

// Update replaces an existing record's text, analysis and display date.
func (r *PGRepo) Update(ctx context.Context, thought SavedThought) error {
	const query = `
UPDATE thoughts
SET body = $2, display_date = $3, analysis = $4, updated_at = $5
WHERE id = $1`
	payload, err := json.Marshal(thought.Analysis)
	if err != nil {
		return fmt.Errorf("marshal analysis: %w", err)
	}
	res, err := r.DB.ExecContext(ctx, query,
		thought.ID,
		thought.Text,
		thought.Date,
		payload,
		thought.UpdatedAt,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Remove deletes a record; removing an unknown id is a no-op.
func (r *PGRepo) Remove(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM thoughts WHERE id = $1`, id)
	return err
}

// GetByID returns a record by its id.
func (r *PGRepo) GetByID(ctx context.Context, id string) (SavedThought, error) {
	const query = `
SELECT id, body, display_date, analysis, created_at, updated_at
FROM thoughts
WHERE id = $1
LIMIT 1`
	row := r.DB.QueryRowContext(ctx, query, id)
	thought, err := scanThought(row)
	if errors.Is(err, sql.ErrNoRows) {
		return SavedThought{}, ErrNotFound
	}
	return thought, err
}

// All returns the collection most-recent-first.
func (r *PGRepo) All(ctx context.Context) ([]SavedThought, error) {
	const query = `
SELECT id, body, display_date, analysis, created_at, updated_at
FROM thoughts
ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SavedThought
	for rows.Next() {
		thought, err := scanThought(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, thought)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanThought(row rowScanner) (SavedThought, error) {
	var t SavedThought
	var analysisRaw []byte
	if err := row.Scan(&t.ID, &t.Text, &t.Date, &analysisRaw, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return SavedThought{}, err
	}
	if err := json.Unmarshal(analysisRaw, &t.Analysis); err != nil {
		return SavedThought{}, fmt.Errorf("unmarshal analysis for %s: %w", t.ID, err)
	}
	t.Analysis.normalize()
	return t, nil
}

var _ Repo = (*PGRepo)(nil)
