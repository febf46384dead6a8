package tracker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sadopc/tenk/internal/logger"
	"github.com/sadopc/tenk/internal/progress"
	"github.com/sadopc/tenk/internal/session"
	"github.com/sadopc/tenk/internal/store"
	"github.com/sadopc/tenk/internal/timer"
)

var (
	ErrEmptyLabel     = errors.New("activity name is empty")
	ErrDuplicate      = errors.New("activity already exists")
	ErrNotFound       = errors.New("activity not found")
	ErrAlreadyRunning = errors.New("activity is already running")
	ErrAlreadyPaused  = errors.New("activity is already paused")
	ErrBusy           = errors.New("another activity is running")
)

// Activity is a read-only view of one activity.
type Activity struct {
	Label     string
	Remaining int64
	StartTime string
	Running   bool
}

// Display returns the remaining time as H:MM:SS, clamped at zero.
func (a Activity) Display() string {
	if a.Remaining < 0 {
		return timer.FormatHMS(0)
	}
	return timer.FormatHMS(a.Remaining)
}

// Tracker owns the progress store and at most one running timer. Every
// mutating operation persists immediately. It is not safe for concurrent use.
type Tracker struct {
	progress *progress.Store
	history  *store.Store
	now      func() time.Time
	interval time.Duration
	lockPath string

	active       *timer.Timer
	activeSince  time.Time
	activeBefore int64
}

type Option func(*Tracker)

// WithHistory records sessions and adjustments in h and reads the default
// budget from its settings.
func WithHistory(h *store.Store) Option {
	return func(t *Tracker) { t.history = h }
}

func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithInterval sets how often an interactive session redraws.
func WithInterval(d time.Duration) Option {
	return func(t *Tracker) { t.interval = d }
}

// WithLockPath guards interactive sessions with a lock file at path.
func WithLockPath(path string) Option {
	return func(t *Tracker) { t.lockPath = path }
}

func New(p *progress.Store, opts ...Option) *Tracker {
	t := &Tracker{
		progress: p,
		now:      time.Now,
		interval: time.Second,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// DefaultBudget is the budget given to new activities.
func (t *Tracker) DefaultBudget() int64 {
	if t.history == nil {
		return timer.DefaultBudget
	}
	hours := t.history.GetIntSetting(store.SettingDefaultBudgetHours, timer.DefaultBudget/3600)
	if hours <= 0 {
		return timer.DefaultBudget
	}
	return hours * 3600
}

// Create adds a new activity with the default budget.
func (t *Tracker) Create(label string) (Activity, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return Activity{}, ErrEmptyLabel
	}
	if t.progress.Has(label) {
		return Activity{}, fmt.Errorf("%w: %q", ErrDuplicate, label)
	}

	tm := timer.New(label, timer.WithRemaining(t.DefaultBudget()), timer.WithClock(t.now))
	if err := t.persist(tm); err != nil {
		return Activity{}, err
	}
	logger.Info("activity created", "label", label, "remaining", tm.RemainingSeconds)
	return activityOf(tm), nil
}

// List returns every activity in store order.
func (t *Tracker) List() []Activity {
	labels := t.progress.Labels()
	out := make([]Activity, 0, len(labels))
	for _, label := range labels {
		a, _ := t.Get(label)
		out = append(out, a)
	}
	return out
}

// Labels returns activity labels in store order.
func (t *Tracker) Labels() []string {
	return t.progress.Labels()
}

func (t *Tracker) Get(label string) (Activity, error) {
	if t.active != nil && t.active.Label == label {
		return activityOf(t.active), nil
	}
	r, ok := t.progress.Get(label)
	if !ok {
		return Activity{}, fmt.Errorf("%w: %q", ErrNotFound, label)
	}
	return Activity{Label: label, Remaining: r.RemainingSeconds, StartTime: r.StartTime}, nil
}

// Running returns the running activity, if any.
func (t *Tracker) Running() (Activity, bool) {
	if t.active == nil || t.active.Paused() {
		return Activity{}, false
	}
	return activityOf(t.active), true
}

// Start begins counting down label without blocking. Callers drive
// completion detection with Tick.
func (t *Tracker) Start(label string) error {
	tm, err := t.timerFor(label)
	if err != nil {
		return err
	}
	if !tm.Paused() {
		return fmt.Errorf("%w: %q", ErrAlreadyRunning, label)
	}
	if running, ok := t.Running(); ok {
		return fmt.Errorf("%w: %q", ErrBusy, running.Label)
	}

	t.activeBefore = tm.Snapshot()
	t.activeSince = t.now()
	tm.Start()
	t.active = tm
	logger.Info("activity started", "label", label, "remaining", t.activeBefore)
	return nil
}

// Pause stops label and persists the remaining time.
func (t *Tracker) Pause(label string) (Activity, error) {
	tm, err := t.timerFor(label)
	if err != nil {
		return Activity{}, err
	}
	if tm.Paused() {
		return activityOf(tm), fmt.Errorf("%w: %q", ErrAlreadyPaused, label)
	}

	outcome := store.OutcomePaused
	tm.Pause()
	if tm.RemainingSeconds <= 0 {
		tm.Complete()
		outcome = store.OutcomeCompleted
	}
	return t.finish(tm, outcome)
}

// Tick completes the running activity once its time is up. It reports the
// completed activity.
func (t *Tracker) Tick() (Activity, bool, error) {
	if t.active == nil || t.active.Paused() || t.active.Snapshot() > 0 {
		return Activity{}, false, nil
	}
	tm := t.active
	tm.Complete()
	a, err := t.finish(tm, store.OutcomeCompleted)
	return a, true, err
}

func (t *Tracker) finish(tm *timer.Timer, outcome string) (Activity, error) {
	counted := t.activeBefore - tm.RemainingSeconds
	t.recordSession(tm.Label, t.activeSince, t.now(), counted, outcome)
	if err := t.persist(tm); err != nil {
		return activityOf(tm), err
	}
	logger.Info("activity stopped", "label", tm.Label, "outcome", outcome, "remaining", tm.RemainingSeconds)
	return activityOf(tm), nil
}

// StartSession runs an interactive countdown for label until it completes,
// the pause key is read from keys, or ctx is cancelled. It blocks.
func (t *Tracker) StartSession(ctx context.Context, label string, keys session.KeyReader, out io.Writer) (session.Result, error) {
	tm, err := t.timerFor(label)
	if err != nil {
		return session.Result{}, err
	}
	if !tm.Paused() {
		return session.Result{}, fmt.Errorf("%w: %q", ErrAlreadyRunning, label)
	}
	if running, ok := t.Running(); ok {
		return session.Result{}, fmt.Errorf("%w: %q", ErrBusy, running.Label)
	}

	if t.lockPath != "" {
		lock, err := session.Acquire(t.lockPath, label)
		if err != nil {
			return session.Result{}, err
		}
		defer func() {
			if err := lock.Release(); err != nil {
				logger.Warn("release session lock", "error", err)
			}
		}()
	}

	t.active = tm
	res, err := session.Run(ctx, session.Config{
		Timer:    tm,
		Persist:  t.persist,
		Out:      out,
		Keys:     keys,
		Interval: t.interval,
		Now:      t.now,
	})
	t.recordSession(label, res.StartedAt, res.EndedAt, res.Counted, res.Outcome.String())
	return res, err
}

// AddTime adjusts label's budget by delta seconds and persists it. The stored
// value is not clamped at zero.
func (t *Tracker) AddTime(label string, delta int64) (Activity, error) {
	tm, err := t.timerFor(label)
	if err != nil {
		return Activity{}, err
	}
	tm.AddTime(delta)
	if t.active == tm && !tm.Paused() {
		// Manual adjustments are not counted toward the running session.
		t.activeBefore += delta
	}
	if err := t.persist(tm); err != nil {
		return activityOf(tm), err
	}
	if t.history != nil {
		if _, err := t.history.RecordAdjustment(label, delta); err != nil {
			logger.Warn("record adjustment", "label", label, "error", err)
		}
	}
	logger.Info("activity adjusted", "label", label, "delta", delta, "remaining", tm.Snapshot())
	return activityOf(tm), nil
}

// Remove deletes label permanently. Confirmation is the caller's job.
func (t *Tracker) Remove(label string) error {
	if !t.progress.Remove(label) {
		return fmt.Errorf("%w: %q", ErrNotFound, label)
	}
	if t.active != nil && t.active.Label == label {
		t.active = nil
	}
	if err := t.progress.Save(); err != nil {
		return err
	}
	logger.Info("activity removed", "label", label)
	return nil
}

// Shutdown pauses and persists the running activity, if any.
func (t *Tracker) Shutdown() (Activity, bool, error) {
	running, ok := t.Running()
	if !ok {
		return Activity{}, false, nil
	}
	a, err := t.Pause(running.Label)
	return a, true, err
}

func (t *Tracker) timerFor(label string) (*timer.Timer, error) {
	if t.active != nil && t.active.Label == label {
		return t.active, nil
	}
	r, ok := t.progress.Get(label)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, label)
	}
	return timer.New(label,
		timer.WithRemaining(r.RemainingSeconds),
		timer.WithStartTime(r.StartTime),
		timer.WithClock(t.now),
	), nil
}

// persist writes tm's current remaining time to the progress file.
func (t *Tracker) persist(tm *timer.Timer) error {
	t.progress.Upsert(tm.Label, progress.Record{
		RemainingSeconds: tm.Snapshot(),
		StartTime:        tm.StartTime,
	})
	if err := t.progress.Save(); err != nil {
		return err
	}
	return nil
}

func (t *Tracker) recordSession(label string, started, ended time.Time, counted int64, outcome string) {
	if t.history == nil {
		return
	}
	if _, err := t.history.RecordSession(label, started, ended, counted, outcome); err != nil {
		logger.Warn("record session", "label", label, "error", err)
	}
}

func activityOf(tm *timer.Timer) Activity {
	return Activity{
		Label:     tm.Label,
		Remaining: tm.Snapshot(),
		StartTime: tm.StartTime,
		Running:   !tm.Paused(),
	}
}
