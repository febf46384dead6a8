package cli

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/sadopc/tenk/internal/store"
	"github.com/sadopc/tenk/internal/timer"
)

type HistoryCmd struct {
	Label string `arg:"" optional:"" help:"Only show sessions of this activity."`
	Limit int    `help:"Maximum number of sessions to show." default:"20"`
	Days  int    `help:"Days covered by the daily totals. Defaults to the history_days setting."`
}

func (c *HistoryCmd) Run(ctx *Context) error {
	sessions, err := ctx.History.ListSessions(store.SessionFilter{Label: c.Label, Limit: c.Limit})
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Fprintln(ctx.Out, "No sessions recorded yet.")
		return nil
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers("Activity", "Started", "Ended", "Counted", "Outcome")
	for _, s := range sessions {
		t.Row(
			s.Label,
			s.StartedAt.Local().Format(timer.StartLayout),
			s.EndedAt.Local().Format("15:04:05"),
			timer.FormatHMS(s.Seconds),
			s.Outcome,
		)
	}
	fmt.Fprintln(ctx.Out, t.Render())

	days := int64(c.Days)
	if days <= 0 {
		days = ctx.History.GetIntSetting(store.SettingHistoryDays, 7)
	}
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -int(days-1))
	summaries, err := ctx.History.GetDailySummary(from, now.Add(time.Second))
	if err != nil {
		return err
	}

	fmt.Fprintf(ctx.Out, "\nLast %d days:\n", days)
	for _, ds := range summaries {
		if c.Label != "" && ds.Label != c.Label {
			continue
		}
		fmt.Fprintf(ctx.Out, "  %s  %-20s %s (%d sessions)\n", ds.Date, ds.Label, timer.FormatHMS(ds.TotalSeconds), ds.SessionCount)
	}
	return nil
}
