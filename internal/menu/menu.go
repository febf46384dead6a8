// Package menu is the numbered text menu front end.
package menu

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/sadopc/tenk/internal/logger"
	"github.com/sadopc/tenk/internal/session"
	"github.com/sadopc/tenk/internal/tracker"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	ruleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#E74C3C"))
)

// KeysFunc opens the keystroke source for one countdown session.
type KeysFunc func() (session.KeyReader, error)

type Menu struct {
	tracker *tracker.Tracker
	in      *bufio.Scanner
	out     io.Writer
	keys    KeysFunc

	// signals wraps the context of each countdown so SIGINT pauses it.
	signals func(context.Context) (context.Context, context.CancelFunc)
}

func New(t *tracker.Tracker, in io.Reader, out io.Writer, keys KeysFunc) *Menu {
	return &Menu{
		tracker: t,
		in:      bufio.NewScanner(in),
		out:     out,
		keys:    keys,
		signals: func(ctx context.Context) (context.Context, context.CancelFunc) {
			return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		},
	}
}

// Run shows the menu until the user exits or input ends.
func (m *Menu) Run(ctx context.Context) error {
	for {
		m.display()
		choice, ok := m.prompt("\nChoose an option: ")
		if !ok {
			return m.exit()
		}

		switch choice {
		case "1":
			m.create()
		case "2":
			if err := m.manage(ctx); err != nil {
				return err
			}
		case "3":
			m.remove()
		case "4":
			return m.exit()
		default:
			m.fail("Invalid option. Please try again.")
		}
	}
}

func (m *Menu) display() {
	hours := m.tracker.DefaultBudget() / 3600
	fmt.Fprintln(m.out, "\n"+titleStyle.Render("--- Activity Timer Menu ---"))
	fmt.Fprintf(m.out, "1. Set new activity (%s hours)\n", humanize.Comma(hours))
	fmt.Fprintln(m.out, "2. Start, resume, stop, or modify an activity")
	fmt.Fprintln(m.out, "3. Remove an activity")
	for i, a := range m.tracker.List() {
		fmt.Fprintf(m.out, "   %d. %s: %s remaining (Started on: %s)\n", i+1, a.Label, a.Display(), a.StartTime)
	}
	fmt.Fprintln(m.out, "4. Exit")
	fmt.Fprintln(m.out, ruleStyle.Render("---------------------------"))
}

func (m *Menu) create() {
	label, ok := m.prompt("Enter the name of the new activity: ")
	if !ok {
		return
	}
	a, err := m.tracker.Create(label)
	switch {
	case errors.Is(err, tracker.ErrDuplicate):
		m.fail(fmt.Sprintf("Activity '%s' already exists. Choose option 2 to start/resume it.", strings.TrimSpace(label)))
	case errors.Is(err, tracker.ErrEmptyLabel):
		m.fail("Activity name cannot be empty.")
	case err != nil:
		m.fail(fmt.Sprintf("Could not create activity: %v", err))
	default:
		fmt.Fprintf(m.out, "New activity '%s' created with %s hours.\n", a.Label, humanize.Comma(a.Remaining/3600))
	}
}

func (m *Menu) manage(ctx context.Context) error {
	if len(m.tracker.Labels()) == 0 {
		fmt.Fprintln(m.out, "No activities available. Create a new one first.")
		return nil
	}
	label, ok := m.pick("Enter the number of the activity to start/resume/stop or modify: ")
	if !ok {
		return nil
	}

	sub, _ := m.prompt("Enter 's' to start/resume, 'p' to pause/stop, or 'm' to modify time: ")
	switch strings.ToLower(sub) {
	case "s":
		return m.start(ctx, label)
	case "p":
		a, err := m.tracker.Pause(label)
		switch {
		case errors.Is(err, tracker.ErrAlreadyPaused):
			fmt.Fprintf(m.out, "Activity '%s' is already paused.\n", label)
		case err != nil:
			m.fail(fmt.Sprintf("Could not pause '%s': %v", label, err))
		default:
			fmt.Fprintf(m.out, "Activity '%s' paused with %s remaining.\n", label, a.Display())
		}
	case "m":
		m.modify(label)
	}
	return nil
}

func (m *Menu) start(ctx context.Context, label string) error {
	a, err := m.tracker.Get(label)
	if err != nil {
		m.fail(err.Error())
		return nil
	}
	if a.Running {
		fmt.Fprintf(m.out, "Activity '%s' is already running.\n", label)
		return nil
	}
	fmt.Fprintf(m.out, "Starting or resuming '%s' with %s remaining.\n", label, a.Display())

	var keys session.KeyReader
	if m.keys != nil {
		keys, err = m.keys()
		if err != nil {
			return err
		}
		if c, ok := keys.(io.Closer); ok {
			defer c.Close()
		}
	}

	sctx, stop := m.signals(ctx)
	defer stop()

	_, err = m.tracker.StartSession(sctx, label, keys, m.out)
	if errors.Is(err, session.ErrSessionActive) {
		m.fail(err.Error())
		return nil
	}
	if err != nil {
		// The countdown already reported its outcome; a failed save is not fatal.
		logger.Error("session", "label", label, "error", err)
		m.fail(fmt.Sprintf("Could not save progress: %v", err))
	}
	return nil
}

func (m *Menu) modify(label string) {
	raw, _ := m.prompt("Enter additional time in seconds to add (use negative numbers to subtract): ")
	delta, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		m.fail("Invalid time input. Please enter a number.")
		return
	}
	a, err := m.tracker.AddTime(label, delta)
	if err != nil {
		m.fail(fmt.Sprintf("Could not update '%s': %v", label, err))
		return
	}
	fmt.Fprintf(m.out, "Updated '%s'. New time remaining: %s.\n", label, a.Display())
}

func (m *Menu) remove() {
	labels := m.tracker.Labels()
	if len(labels) == 0 {
		fmt.Fprintln(m.out, "No activities available to remove.")
		return
	}
	fmt.Fprintln(m.out, "Select an activity to remove:")
	for i, label := range labels {
		fmt.Fprintf(m.out, "   %d. %s\n", i+1, label)
	}

	label, ok := m.pick("Enter the number of the activity to remove: ")
	if !ok {
		return
	}
	confirm, _ := m.prompt(fmt.Sprintf("Are you sure you want to remove '%s'? (y/n): ", label))
	if strings.ToLower(confirm) != "y" {
		fmt.Fprintln(m.out, "Removal cancelled.")
		return
	}
	if err := m.tracker.Remove(label); err != nil {
		m.fail(fmt.Sprintf("Could not remove '%s': %v", label, err))
		return
	}
	fmt.Fprintf(m.out, "Activity '%s' has been removed.\n", label)
}

func (m *Menu) exit() error {
	a, stopped, err := m.tracker.Shutdown()
	if err != nil {
		return err
	}
	if stopped {
		fmt.Fprintf(m.out, "Exiting. Progress saved for '%s' with %s remaining.\n", a.Label, a.Display())
	} else {
		fmt.Fprintln(m.out, "Exiting.")
	}
	return nil
}

// pick reads a 1-based activity number and resolves it to a label.
func (m *Menu) pick(question string) (string, bool) {
	raw, ok := m.prompt(question)
	if !ok {
		return "", false
	}
	labels := m.tracker.Labels()
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 || n > len(labels) {
		m.fail("Invalid selection. Try again.")
		return "", false
	}
	return labels[n-1], true
}

// prompt writes question and reads one line. It reports false once input ends.
func (m *Menu) prompt(question string) (string, bool) {
	fmt.Fprint(m.out, question)
	if !m.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}

func (m *Menu) fail(msg string) {
	fmt.Fprintln(m.out, errorStyle.Render(msg))
}
