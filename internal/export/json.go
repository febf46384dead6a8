package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/tenk/internal/store"
)

type jsonExport struct {
	ExportedAt string         `json:"exported_at"`
	Activities []jsonActivity `json:"activities"`
	Sessions   []jsonSession  `json:"sessions"`
}

type jsonActivity struct {
	Label        string `json:"label"`
	RemainingSec int64  `json:"remaining_seconds"`
	Remaining    string `json:"remaining"`
	InvestedSec  int64  `json:"invested_seconds"`
	Invested     string `json:"invested"`
	StartTime    string `json:"start_time"`
}

type jsonSession struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	DurationSec int64  `json:"duration_seconds"`
	Duration    string `json:"duration"`
	Outcome     string `json:"outcome"`
}

func ToJSON(activities []Activity, sessions []store.Session, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
	}

	for _, a := range activities {
		export.Activities = append(export.Activities, jsonActivity{
			Label:        a.Label,
			RemainingSec: a.Remaining,
			Remaining:    formatDuration(a.Remaining),
			InvestedSec:  a.Invested,
			Invested:     formatDuration(a.Invested),
			StartTime:    a.StartTime,
		})
	}

	for _, s := range sessions {
		export.Sessions = append(export.Sessions, jsonSession{
			ID:          s.ID,
			Label:       s.Label,
			StartTime:   s.StartedAt.Local().Format(time.RFC3339),
			EndTime:     s.EndedAt.Local().Format(time.RFC3339),
			DurationSec: s.Seconds,
			Duration:    formatDuration(s.Seconds),
			Outcome:     s.Outcome,
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
