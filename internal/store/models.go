package store

import "time"

// Session outcomes.
const (
	OutcomePaused      = "paused"
	OutcomeCompleted   = "completed"
	OutcomeInterrupted = "interrupted"
)

// Session is one finished countdown of an activity.
type Session struct {
	ID        string
	Label     string
	StartedAt time.Time
	EndedAt   time.Time
	Seconds   int64
	Outcome   string
}

// Adjustment is a manual change to an activity's budget.
type Adjustment struct {
	ID        string
	Label     string
	Delta     int64 // seconds
	CreatedAt time.Time
}

type Setting struct {
	Key   string
	Value string
}

// SessionFilter is used to filter sessions in queries.
type SessionFilter struct {
	Label string
	From  *time.Time
	To    *time.Time
	Limit int
}

// DailySummary is the time counted down per activity per day.
type DailySummary struct {
	Date         string
	Label        string
	TotalSeconds int64
	SessionCount int
}
