package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/tenk/internal/store"
	"github.com/sadopc/tenk/internal/tracker"
)

type dashboardModel struct {
	tracker    *tracker.Tracker
	store      *store.Store
	countdown  countdownModel
	activities activitiesModel
	width      int
	height     int

	todayTotal   int64
	todaySummary []store.DailySummary
}

func newDashboardModel(t *tracker.Tracker, s *store.Store) dashboardModel {
	return dashboardModel{
		tracker:    t,
		store:      s,
		countdown:  newCountdownModel(t),
		activities: newActivitiesModel(t),
	}
}

func (d dashboardModel) Init() tea.Cmd {
	return d.loadData()
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

func (d dashboardModel) isRunning() bool { return d.countdown.running() }
func (d dashboardModel) formActive() bool {
	return d.activities.formActive
}

type dashboardDataMsg struct {
	todayTotal   int64
	todaySummary []store.DailySummary
}

func (d dashboardModel) loadData() tea.Cmd {
	if d.store == nil {
		return nil
	}
	return func() tea.Msg {
		now := time.Now()
		dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		summary, _ := d.store.GetDailySummary(dayStart, dayStart.AddDate(0, 0, 1))

		var total int64
		for _, s := range summary {
			total += s.TotalSeconds
		}
		return dashboardDataMsg{todayTotal: total, todaySummary: summary}
	}
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		d.todayTotal = msg.todayTotal
		d.todaySummary = msg.todaySummary
		return d, nil

	case tickMsg:
		a, done, err := d.countdown.tick()
		d.activities.refresh()
		if err != nil {
			return d, errStatus(err)
		}
		if done {
			return d, tea.Batch(
				d.loadData(),
				func() tea.Msg { return activityStoppedMsg{activity: a, completed: true} },
			)
		}
		return d, nil

	case tea.KeyMsg:
		if d.activities.formActive {
			var cmd tea.Cmd
			d.activities, cmd = d.activities.update(msg)
			return d, cmd
		}

		switch {
		case key.Matches(msg, keys.Start):
			return d.startSelected()
		case key.Matches(msg, keys.Pause):
			return d.pauseRunning()
		}
	}

	var cmd tea.Cmd
	d.activities, cmd = d.activities.update(msg)
	return d, cmd
}

func (d dashboardModel) startSelected() (dashboardModel, tea.Cmd) {
	sel, ok := d.activities.selected()
	if !ok {
		return d, func() tea.Msg {
			return statusMsg{text: "No activities yet. Press n to create one.", isError: true}
		}
	}
	if err := d.countdown.start(sel.Label); err != nil {
		return d, errStatus(err)
	}
	d.activities.refresh()
	return d, func() tea.Msg { return activityStartedMsg{label: sel.Label} }
}

func (d dashboardModel) pauseRunning() (dashboardModel, tea.Cmd) {
	a, err := d.countdown.pause()
	d.activities.refresh()
	if err != nil {
		return d, errStatus(err)
	}
	return d, tea.Batch(
		d.loadData(),
		func() tea.Msg { return activityStoppedMsg{activity: a, completed: a.Remaining <= 0} },
	)
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}

	contentWidth := d.width - 4

	return lipgloss.JoinVertical(lipgloss.Left,
		d.renderCountdownPanel(contentWidth),
		d.activities.view(contentWidth),
		d.renderTodayPanel(contentWidth),
	)
}

func (d dashboardModel) renderCountdownPanel(w int) string {
	if d.countdown.running() {
		content := lipgloss.JoinVertical(lipgloss.Center,
			timerRunningStyle.Width(w-6).Render(d.countdown.display()),
			successStyle.Render("●  COUNTING DOWN"),
			highlightStyle.Render(d.countdown.label()),
		)
		return activePanelStyle.Width(w).Render(content)
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		timerStyle.Width(w-6).Render(d.countdown.display()),
		mutedStyle.Render("■  PAUSED"),
		mutedStyle.Render("Select an activity and press s to start"),
	)
	return panelStyle.Width(w).Render(content)
}

func (d dashboardModel) renderTodayPanel(w int) string {
	title := titleStyle.Render("Today")
	total := highlightStyle.Render(formatSeconds(d.todayTotal))
	header := fmt.Sprintf("%s  %s", title, total)

	if len(d.todaySummary) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			header,
			mutedStyle.Render("No sessions today"),
		)
		return panelStyle.Width(w).Render(content)
	}

	labels := d.tracker.Labels()
	var rows []string
	rows = append(rows, header)
	for _, s := range d.todaySummary {
		colorDot := lipgloss.NewStyle().Foreground(activityColor(labels, s.Label)).Render("●")
		rows = append(rows, fmt.Sprintf("  %s %-20s %s  (%d sessions)",
			colorDot,
			s.Label,
			formatSeconds(s.TotalSeconds),
			s.SessionCount,
		))
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
