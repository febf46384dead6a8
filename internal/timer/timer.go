package timer

import (
	"fmt"
	"time"
)

const (
	// DefaultBudget is the budget of a new activity: 10,000 hours.
	DefaultBudget int64 = 10000 * 3600

	// StartLayout is the format of the informational creation timestamp.
	StartLayout = "2006-01-02 15:04:05"

	// UnknownStart is used for records written before start times were kept.
	UnknownStart = "Unknown"
)

// Timer tracks the time left on one activity. While paused, RemainingSeconds
// is authoritative. While running, the true value is RemainingSeconds minus
// the whole seconds elapsed since runningSince.
type Timer struct {
	Label            string
	RemainingSeconds int64
	StartTime        string

	paused       bool
	runningSince time.Time
	now          func() time.Time
}

type Option func(*Timer)

// WithRemaining sets the starting budget in seconds.
func WithRemaining(secs int64) Option {
	return func(t *Timer) { t.RemainingSeconds = secs }
}

// WithStartTime sets the creation timestamp instead of stamping the current time.
func WithStartTime(s string) Option {
	return func(t *Timer) { t.StartTime = s }
}

// WithClock replaces time.Now. Tests use it to simulate elapsed time.
func WithClock(now func() time.Time) Option {
	return func(t *Timer) {
		if now != nil {
			t.now = now
		}
	}
}

// New returns a paused timer for label.
func New(label string, opts ...Option) *Timer {
	t := &Timer{
		Label:            label,
		RemainingSeconds: DefaultBudget,
		paused:           true,
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.StartTime == "" {
		t.StartTime = t.now().Format(StartLayout)
	}
	return t
}

func (t *Timer) Paused() bool { return t.paused }

// Start marks the timer running from now. It is a no-op when already running.
func (t *Timer) Start() {
	if !t.paused {
		return
	}
	t.paused = false
	t.runningSince = t.now()
}

// Pause folds the elapsed seconds into RemainingSeconds. The result is not
// clamped and may be negative. It is a no-op when already paused.
func (t *Timer) Pause() {
	if t.paused {
		return
	}
	t.RemainingSeconds -= t.elapsed()
	t.paused = true
	t.runningSince = time.Time{}
}

// Snapshot returns the true remaining seconds without changing state.
func (t *Timer) Snapshot() int64 {
	if t.paused {
		return t.RemainingSeconds
	}
	return t.RemainingSeconds - t.elapsed()
}

// Display returns the snapshot clamped at zero as H:MM:SS.
func (t *Timer) Display() string {
	secs := t.Snapshot()
	if secs < 0 {
		secs = 0
	}
	return FormatHMS(secs)
}

// AddTime adjusts the budget by delta seconds. Negative deltas are allowed and
// the stored value is never clamped.
func (t *Timer) AddTime(delta int64) {
	t.RemainingSeconds += delta
}

// Complete forces the timer to zero and pauses it.
func (t *Timer) Complete() {
	t.RemainingSeconds = 0
	t.paused = true
	t.runningSince = time.Time{}
}

// Elapsed returns the whole seconds since the timer was started, or 0 when paused.
func (t *Timer) Elapsed() int64 {
	if t.paused {
		return 0
	}
	return t.elapsed()
}

func (t *Timer) elapsed() int64 {
	return int64(t.now().Sub(t.runningSince) / time.Second)
}

// FormatHMS renders seconds as H:MM:SS. Hours are not bounded at 24.
func FormatHMS(secs int64) string {
	sign := ""
	if secs < 0 {
		sign = "-"
		secs = -secs
	}
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%s%d:%02d:%02d", sign, h, m, s)
}
