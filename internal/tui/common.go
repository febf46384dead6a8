package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/tenk/internal/tracker"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDashboard viewState = iota
	viewHistory
	viewSettings
)

var viewNames = []string{"Dashboard", "History", "Settings"}

// --- Messages ---

type activityStartedMsg struct {
	label string
}

type activityStoppedMsg struct {
	activity  tracker.Activity
	completed bool
}

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func formatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func formatSeconds(secs int64) string {
	return formatDuration(time.Duration(secs) * time.Second)
}

func formatHours(secs int64) string {
	h := float64(secs) / 3600
	return fmt.Sprintf("%.1fh", h)
}

func errStatus(err error) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
	}
}

func status(format string, args ...any) tea.Cmd {
	text := fmt.Sprintf(format, args...)
	return func() tea.Msg { return statusMsg{text: text} }
}
