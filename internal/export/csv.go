package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/tenk/internal/store"
)

// Activity is one exported activity row.
type Activity struct {
	Label     string
	Remaining int64
	Invested  int64 // seconds counted down in recorded sessions
	StartTime string
}

func ToCSV(activities []Activity, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"Activity", "Remaining (s)", "Remaining", "Invested (s)", "Invested", "Started On"}); err != nil {
		return err
	}

	for _, a := range activities {
		row := []string{
			a.Label,
			fmt.Sprintf("%d", a.Remaining),
			formatDuration(a.Remaining),
			fmt.Sprintf("%d", a.Invested),
			formatDuration(a.Invested),
			a.StartTime,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func SessionsToCSV(sessions []store.Session, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"ID", "Activity", "Start", "End", "Duration (s)", "Duration", "Outcome"}); err != nil {
		return err
	}

	for _, s := range sessions {
		row := []string{
			s.ID,
			s.Label,
			s.StartedAt.Local().Format(time.RFC3339),
			s.EndedAt.Local().Format(time.RFC3339),
			fmt.Sprintf("%d", s.Seconds),
			formatDuration(s.Seconds),
			s.Outcome,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

// formatDuration clamps negative budgets to zero.
func formatDuration(secs int64) string {
	if secs < 0 {
		secs = 0
	}
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
