package session

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/tenk/internal/logger"
	"github.com/sadopc/tenk/internal/timer"
)

// Outcome is how a countdown session ended.
type Outcome int

const (
	Paused Outcome = iota
	Completed
	Interrupted
)

func (o Outcome) String() string {
	switch o {
	case Completed:
		return "completed"
	case Interrupted:
		return "interrupted"
	default:
		return "paused"
	}
}

// ctrlC arrives as a byte when the terminal is in raw mode.
const ctrlC = 0x03

// KeyReader is the keystroke source of a session. Cancel unblocks a pending
// Read and reports whether cancellation is supported.
type KeyReader interface {
	io.Reader
	Cancel() bool
}

// rawMode is implemented by key readers backed by a terminal.
type rawMode interface {
	EnterRaw() (restore func(), err error)
}

// Config describes one countdown session.
type Config struct {
	Timer *timer.Timer
	// Persist is called with the paused timer once the session ends.
	Persist func(*timer.Timer) error
	Out     io.Writer
	// Keys may be nil, in which case only completion or ctx ends the session.
	Keys     KeyReader
	Interval time.Duration
	Now      func() time.Time
}

// Result summarizes a finished session.
type Result struct {
	Outcome   Outcome
	StartedAt time.Time
	EndedAt   time.Time
	// Counted is how far the remaining budget went down during the session.
	Counted   int64
	Remaining int64
}

var (
	labelStyle = lipgloss.NewStyle().Bold(true)
	clockStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#2ECC71")).Bold(true)
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
)

// Run starts cfg.Timer and counts it down until it completes, a pause key is
// read, or ctx is cancelled. The key listener and the ticker run
// concurrently; both are joined before Run returns unless the key reader
// cannot be cancelled, in which case the listener is left behind. The
// terminal mode is restored either way.
func Run(ctx context.Context, cfg Config) (Result, error) {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Second
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Out == nil {
		cfg.Out = io.Discard
	}

	t := cfg.Timer
	res := Result{StartedAt: cfg.Now()}
	before := t.Snapshot()

	ctx, interrupt := context.WithCancel(ctx)
	defer interrupt()

	restore := enterRaw(cfg.Keys)
	defer restore()

	pause := make(chan struct{})
	listenerDone := make(chan struct{})
	if cfg.Keys != nil {
		go func() {
			defer close(listenerDone)
			listen(cfg.Keys, pause, interrupt)
		}()
	} else {
		close(listenerDone)
	}

	t.Start()
	logger.Info("session started", "label", t.Label, "remaining", before)

	res.Outcome = countdown(ctx, cfg, pause)
	res.EndedAt = cfg.Now()
	res.Remaining = t.RemainingSeconds
	res.Counted = before - t.RemainingSeconds

	var perr error
	if cfg.Persist != nil {
		perr = cfg.Persist(t)
	}

	if cfg.Keys != nil && cfg.Keys.Cancel() {
		<-listenerDone
	}
	restore()

	logger.Info("session ended", "label", t.Label, "outcome", res.Outcome, "remaining", res.Remaining)
	report(cfg.Out, t, res.Outcome)

	if perr != nil {
		return res, fmt.Errorf("persist %q: %w", t.Label, perr)
	}
	return res, nil
}

func countdown(ctx context.Context, cfg Config, pause <-chan struct{}) Outcome {
	t := cfg.Timer
	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for {
		if t.Snapshot() <= 0 {
			t.Complete()
			return Completed
		}
		fmt.Fprintf(cfg.Out, "\rCounting down for '%s': %s %s",
			labelStyle.Render(t.Label), clockStyle.Render(t.Display()), hintStyle.Render("(Press 'p' to pause)"))

		select {
		case <-pause:
			return stop(t, Paused)
		case <-ctx.Done():
			return stop(t, Interrupted)
		case <-ticker.C:
		}
	}
}

// stop pauses t. A pause that lands at or past zero counts as completion.
func stop(t *timer.Timer, o Outcome) Outcome {
	t.Pause()
	if t.RemainingSeconds <= 0 {
		t.Complete()
		return Completed
	}
	return o
}

// enterRaw switches keys to raw mode when it is backed by a terminal. The
// returned func restores the previous mode and is safe to call more than once.
func enterRaw(keys KeyReader) func() {
	r, ok := keys.(rawMode)
	if !ok {
		return func() {}
	}
	restore, err := r.EnterRaw()
	if err != nil {
		logger.Warn("key listener without raw mode", "error", err)
		return func() {}
	}
	var once sync.Once
	return func() { once.Do(restore) }
}

// listen waits for a single pause key. Other keys are ignored. Ctrl+C is
// treated as an interrupt because raw mode swallows SIGINT.
func listen(keys KeyReader, pause chan<- struct{}, interrupt func()) {
	buf := make([]byte, 1)
	for {
		n, err := keys.Read(buf)
		if err != nil {
			return
		}
		if n == 0 {
			continue
		}
		switch buf[0] {
		case 'p', 'P':
			close(pause)
			return
		case ctrlC:
			interrupt()
			return
		}
	}
}

func report(w io.Writer, t *timer.Timer, o Outcome) {
	if o == Completed {
		fmt.Fprintf(w, "\nActivity '%s' completed!\n", t.Label)
		return
	}
	fmt.Fprintf(w, "\nActivity '%s' paused with %s remaining.\n", t.Label, t.Display())
}
