package store

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

func (s *Store) RecordSession(label string, startedAt, endedAt time.Time, seconds int64, outcome string) (*Session, error) {
	id := uuid.New().String()
	_, err := s.db.Exec(
		`INSERT INTO sessions (id, label, started_at, ended_at, seconds, outcome) VALUES (?, ?, ?, ?, ?, ?)`,
		id, label, startedAt.UTC().Format(time.RFC3339), endedAt.UTC().Format(time.RFC3339), seconds, outcome,
	)
	if err != nil {
		return nil, fmt.Errorf("record session: %w", err)
	}
	return s.GetSession(id)
}

func (s *Store) GetSession(id string) (*Session, error) {
	e := &Session{}
	var startedAt, endedAt string
	err := s.db.QueryRow(
		`SELECT id, label, started_at, ended_at, seconds, outcome FROM sessions WHERE id = ?`, id,
	).Scan(&e.ID, &e.Label, &startedAt, &endedAt, &e.Seconds, &e.Outcome)
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", id, err)
	}
	e.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
	e.EndedAt, _ = time.Parse(time.RFC3339, endedAt)
	return e, nil
}

func (s *Store) ListSessions(f SessionFilter) ([]Session, error) {
	query := `SELECT id, label, started_at, ended_at, seconds, outcome FROM sessions WHERE 1=1`
	var args []any

	if f.Label != "" {
		query += ` AND label = ?`
		args = append(args, f.Label)
	}
	if f.From != nil {
		query += ` AND started_at >= ?`
		args = append(args, f.From.UTC().Format(time.RFC3339))
	}
	if f.To != nil {
		query += ` AND started_at < ?`
		args = append(args, f.To.UTC().Format(time.RFC3339))
	}
	query += ` ORDER BY started_at DESC, rowid DESC`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, f.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var e Session
		var startedAt, endedAt string
		if err := rows.Scan(&e.ID, &e.Label, &startedAt, &endedAt, &e.Seconds, &e.Outcome); err != nil {
			return nil, err
		}
		e.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
		e.EndedAt, _ = time.Parse(time.RFC3339, endedAt)
		sessions = append(sessions, e)
	}
	return sessions, rows.Err()
}

// GetDailySummary totals sessions started in [from, to) per label per day.
// Days are calendar days in from's location.
func (s *Store) GetDailySummary(from, to time.Time) ([]DailySummary, error) {
	rows, err := s.db.Query(`
		SELECT started_at, label, seconds
		FROM sessions
		WHERE started_at >= ? AND started_at < ?`,
		from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("daily summary: %w", err)
	}
	defer rows.Close()

	type dayLabel struct{ day, label string }
	totals := make(map[dayLabel]*DailySummary)
	for rows.Next() {
		var startedAt, label string
		var secs int64
		if err := rows.Scan(&startedAt, &label, &secs); err != nil {
			return nil, err
		}
		ts, err := time.Parse(time.RFC3339, startedAt)
		if err != nil {
			return nil, fmt.Errorf("daily summary: parse %q: %w", startedAt, err)
		}
		k := dayLabel{ts.In(from.Location()).Format("2006-01-02"), label}
		ds, ok := totals[k]
		if !ok {
			ds = &DailySummary{Date: k.day, Label: label}
			totals[k] = ds
		}
		ds.TotalSeconds += secs
		ds.SessionCount++
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	summaries := make([]DailySummary, 0, len(totals))
	for _, ds := range totals {
		summaries = append(summaries, *ds)
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Date != summaries[j].Date {
			return summaries[i].Date < summaries[j].Date
		}
		return summaries[i].Label < summaries[j].Label
	})
	return summaries, nil
}

// TotalCounted returns the seconds counted down for label across all sessions.
func (s *Store) TotalCounted(label string) (int64, error) {
	var total int64
	err := s.db.QueryRow(
		`SELECT COALESCE(SUM(seconds), 0) FROM sessions WHERE label = ?`, label,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("total counted %q: %w", label, err)
	}
	return total, nil
}
