package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/tenk/internal/store"
	"github.com/sadopc/tenk/internal/tracker"
)

const recentSessions = 8

type historyModel struct {
	tracker *tracker.Tracker
	store   *store.Store
	width   int
	height  int

	days      int
	offset    int // blocks of days back from today (0 = current)
	summaries []store.DailySummary
	recent    []store.Session

	chart barchart.Model
}

func newHistoryModel(t *tracker.Tracker, s *store.Store) historyModel {
	return historyModel{
		tracker: t,
		store:   s,
		days:    7,
		chart:   barchart.New(60, 12),
	}
}

func (h *historyModel) setSize(w, ht int) {
	h.width = w
	h.height = ht
}

type historyDataMsg struct {
	days      int
	summaries []store.DailySummary
	recent    []store.Session
}

func (h historyModel) refresh() tea.Cmd {
	if h.store == nil {
		return nil
	}
	return func() tea.Msg {
		days := int(h.store.GetIntSetting(store.SettingHistoryDays, 7))
		if days < 1 {
			days = 7
		}
		h.days = days
		from, to := h.dateRange()
		summaries, _ := h.store.GetDailySummary(from, to)
		recent, _ := h.store.ListSessions(store.SessionFilter{Limit: recentSessions})
		return historyDataMsg{days: days, summaries: summaries, recent: recent}
	}
}

// dateRange covers h.days local days ending today, shifted back by offset.
func (h historyModel) dateRange() (time.Time, time.Time) {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := today.AddDate(0, 0, 1-h.days*h.offset)
	return end.AddDate(0, 0, -h.days), end
}

func (h historyModel) update(msg tea.Msg) (historyModel, tea.Cmd) {
	switch msg := msg.(type) {
	case historyDataMsg:
		h.days = msg.days
		h.summaries = msg.summaries
		h.recent = msg.recent
		h.buildChart()
		return h, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			h.offset++
			return h, h.refresh()
		case key.Matches(msg, keys.Right):
			if h.offset > 0 {
				h.offset--
			}
			return h, h.refresh()
		}
	}
	return h, nil
}

func (h *historyModel) buildChart() {
	chartWidth := h.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if h.height > 30 {
		chartHeight = 16
	}

	h.chart = barchart.New(chartWidth, chartHeight)

	labels := h.tracker.Labels()
	from, to := h.dateRange()

	// Summaries are grouped by UTC date.
	var bars []barchart.BarData
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		dateStr := d.UTC().Format("2006-01-02")

		var values []barchart.BarValue
		for _, s := range h.summaries {
			if s.Date == dateStr {
				values = append(values, barchart.BarValue{
					Name:  s.Label,
					Value: float64(s.TotalSeconds) / 3600.0,
					Style: lipgloss.NewStyle().Foreground(activityColor(labels, s.Label)),
				})
			}
		}

		if len(values) == 0 {
			values = []barchart.BarValue{{Name: "", Value: 0, Style: lipgloss.NewStyle().Foreground(colorSubtle)}}
		}

		bars = append(bars, barchart.BarData{
			Label:  d.Format("Mon 02"),
			Values: values,
		})
	}

	h.chart.PushAll(bars)
	h.chart.Draw()
}

func (h historyModel) view() string {
	w := h.width - 4

	from, to := h.dateRange()
	dateLabel := mutedStyle.Render(fmt.Sprintf("%s - %s", from.Format("Jan 02"), to.AddDate(0, 0, -1).Format("Jan 02, 2006")))
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Hours invested"), "  ", dateLabel,
	)

	nav := mutedStyle.Render("  ←/→: navigate")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", h.chart.View(), "", h.renderLegend(), "", h.renderRecent(w), "", nav,
		),
	)
}

func (h historyModel) renderRecent(w int) string {
	if len(h.recent) == 0 {
		return mutedStyle.Render("  No sessions recorded yet")
	}

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-17s %-20s %10s  %s", "Started", "Activity", "Counted", "Outcome")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 60))))

	for _, s := range h.recent {
		outcome := s.Outcome
		if outcome == store.OutcomeCompleted {
			outcome = successStyle.Render(outcome)
		}
		rows = append(rows, fmt.Sprintf("  %-17s %-20s %10s  %s",
			s.StartedAt.Local().Format("2006-01-02 15:04"), s.Label, formatSeconds(s.Seconds), outcome,
		))
	}
	return strings.Join(rows, "\n")
}

func (h historyModel) renderLegend() string {
	labels := h.tracker.Labels()
	seen := make(map[string]bool)
	var items []string
	for _, s := range h.summaries {
		if seen[s.Label] {
			continue
		}
		seen[s.Label] = true
		dot := lipgloss.NewStyle().Foreground(activityColor(labels, s.Label)).Render("●")
		items = append(items, fmt.Sprintf("%s %s", dot, s.Label))
	}
	if len(items) == 0 {
		return ""
	}
	return "  " + strings.Join(items, "  ")
}
