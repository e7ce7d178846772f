package store

import (
	"context"
	"fmt"
)

// Category is a subject with at least one published item.
type Category struct {
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Count int    `json:"count"`
}

// ListCategories returns subjects of published items, ordered by name.
func (s *Store) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT MIN(subject), subject_slug, COUNT(*)
		FROM contents WHERE published = 1
		GROUP BY subject_slug ORDER BY MIN(subject) COLLATE NOCASE`)
	if err != nil {
		return nil, fmt.Errorf("store: list categories: %w", err)
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.Name, &c.Slug, &c.Count); err != nil {
			return nil, fmt.Errorf("store: scan category: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list categories: %w", err)
	}
	return out, nil
}
