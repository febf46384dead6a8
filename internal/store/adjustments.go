package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

func (s *Store) RecordAdjustment(label string, delta int64) (*Adjustment, error) {
	now := time.Now().UTC()
	a := &Adjustment{
		ID:        uuid.New().String(),
		Label:     label,
		Delta:     delta,
		CreatedAt: now.Truncate(time.Second),
	}
	_, err := s.db.Exec(
		`INSERT INTO adjustments (id, label, delta, created_at) VALUES (?, ?, ?, ?)`,
		a.ID, a.Label, a.Delta, now.Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("record adjustment: %w", err)
	}
	return a, nil
}

// ListAdjustments returns adjustments for label, newest first. An empty label
// lists all of them.
func (s *Store) ListAdjustments(label string) ([]Adjustment, error) {
	query := `SELECT id, label, delta, created_at FROM adjustments`
	var args []any
	if label != "" {
		query += ` WHERE label = ?`
		args = append(args, label)
	}
	query += ` ORDER BY created_at DESC, rowid DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list adjustments: %w", err)
	}
	defer rows.Close()

	var out []Adjustment
	for rows.Next() {
		var a Adjustment
		var createdAt string
		if err := rows.Scan(&a.ID, &a.Label, &a.Delta, &createdAt); err != nil {
			return nil, err
		}
		a.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		out = append(out, a)
	}
	return out, rows.Err()
}
