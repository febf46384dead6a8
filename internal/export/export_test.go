package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/tenk/internal/store"
)

func sampleData() ([]Activity, []store.Session) {
	now := time.Now().UTC()

	activities := []Activity{
		{Label: "Reading", Remaining: 35_999_995, Invested: 5, StartTime: "2024-03-01 09:30:00"},
		{Label: "Guitar", Remaining: 7200, Invested: 0, StartTime: "Unknown"},
	}

	sessions := []store.Session{
		{
			ID:        "a1",
			Label:     "Reading",
			StartedAt: now.Add(-1 * time.Hour),
			EndedAt:   now,
			Seconds:   3600,
			Outcome:   store.OutcomePaused,
		},
		{
			ID:        "a2",
			Label:     "Reading",
			StartedAt: now.Add(-30 * time.Minute),
			EndedAt:   now,
			Seconds:   1800,
			Outcome:   store.OutcomeCompleted,
		},
	}

	return activities, sessions
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	return records
}

// ============================================================
// CSV
// ============================================================

func TestToCSV(t *testing.T) {
	activities, _ := sampleData()
	path := filepath.Join(t.TempDir(), "activities.csv")

	if err := ToCSV(activities, path); err != nil {
		t.Fatalf("ToCSV: %v", err)
	}

	records := readCSV(t, path)
	if len(records) != 3 {
		t.Fatalf("expected 3 rows (1 header + 2 data), got %d", len(records))
	}
	if records[0][0] != "Activity" || records[0][5] != "Started On" {
		t.Fatalf("unexpected header %v", records[0])
	}

	row := records[1]
	if row[0] != "Reading" {
		t.Fatalf("label = %q", row[0])
	}
	if row[1] != "35999995" || row[2] != "9999:59:55" {
		t.Fatalf("remaining = %q / %q", row[1], row[2])
	}
	if row[3] != "5" || row[4] != "00:00:05" {
		t.Fatalf("invested = %q / %q", row[3], row[4])
	}
	if records[2][5] != "Unknown" {
		t.Fatalf("legacy start time = %q", records[2][5])
	}
}

func TestToCSVNegativeRemaining(t *testing.T) {
	path := filepath.Join(t.TempDir(), "neg.csv")
	if err := ToCSV([]Activity{{Label: "Go", Remaining: -100}}, path); err != nil {
		t.Fatal(err)
	}

	records := readCSV(t, path)
	if records[1][1] != "-100" {
		t.Fatalf("raw seconds should keep the stored value, got %q", records[1][1])
	}
	if records[1][2] != "00:00:00" {
		t.Fatalf("formatted remaining should clamp, got %q", records[1][2])
	}
}

func TestToCSVBadPath(t *testing.T) {
	if err := ToCSV(nil, "/nonexistent/dir/file.csv"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestToCSVSpecialCharacters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "special.csv")
	if err := ToCSV([]Activity{{Label: `Piano "scales", slow`}}, path); err != nil {
		t.Fatal(err)
	}

	records := readCSV(t, path)
	if records[1][0] != `Piano "scales", slow` {
		t.Fatalf("label mangled: %q", records[1][0])
	}
}

func TestSessionsToCSV(t *testing.T) {
	_, sessions := sampleData()
	path := filepath.Join(t.TempDir(), "sessions.csv")

	if err := SessionsToCSV(sessions, path); err != nil {
		t.Fatalf("SessionsToCSV: %v", err)
	}

	records := readCSV(t, path)
	if len(records) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(records))
	}
	if records[1][0] != "a1" || records[1][1] != "Reading" {
		t.Fatalf("unexpected row %v", records[1])
	}
	if records[1][4] != "3600" || records[1][5] != "01:00:00" {
		t.Fatalf("duration = %q / %q", records[1][4], records[1][5])
	}
	if records[2][6] != "completed" {
		t.Fatalf("outcome = %q", records[2][6])
	}
	if _, err := time.Parse(time.RFC3339, records[1][2]); err != nil {
		t.Fatalf("start is not RFC3339: %q", records[1][2])
	}
}

func TestSessionsToCSVBadPath(t *testing.T) {
	if err := SessionsToCSV(nil, "/nonexistent/dir/file.csv"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

// ============================================================
// JSON
// ============================================================

func TestToJSON(t *testing.T) {
	activities, sessions := sampleData()
	path := filepath.Join(t.TempDir(), "test.json")

	if err := ToJSON(activities, sessions, path); err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var result jsonExport
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if len(result.Activities) != 2 || len(result.Sessions) != 2 {
		t.Fatalf("got %d activities, %d sessions", len(result.Activities), len(result.Sessions))
	}
	if _, err := time.Parse(time.RFC3339, result.ExportedAt); err != nil {
		t.Fatalf("exported_at is not valid RFC3339: %q", result.ExportedAt)
	}

	a := result.Activities[0]
	if a.Label != "Reading" || a.RemainingSec != 35_999_995 || a.Remaining != "9999:59:55" {
		t.Fatalf("unexpected activity %+v", a)
	}

	s := result.Sessions[0]
	if s.ID != "a1" || s.DurationSec != 3600 || s.Duration != "01:00:00" || s.Outcome != "paused" {
		t.Fatalf("unexpected session %+v", s)
	}
	for _, s := range result.Sessions {
		if _, err := time.Parse(time.RFC3339, s.StartTime); err != nil {
			t.Fatalf("start_time is not valid RFC3339: %q", s.StartTime)
		}
	}
}

func TestToJSONEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")

	if err := ToJSON(nil, nil, path); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	var result jsonExport
	json.Unmarshal(data, &result)

	if result.Activities != nil || result.Sessions != nil {
		t.Fatal("lists should be nil/null for empty export")
	}
}

func TestToJSONBadPath(t *testing.T) {
	if err := ToJSON(nil, nil, "/nonexistent/dir/file.json"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestToJSONPrettyPrinted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pretty.json")
	ToJSON(nil, nil, path)

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "\n  ") {
		t.Fatal("JSON should be indented")
	}
}

// ============================================================
// formatDuration (internal helper)
// ============================================================

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		secs int64
		want string
	}{
		{-5, "00:00:00"},
		{0, "00:00:00"},
		{1, "00:00:01"},
		{60, "00:01:00"},
		{3600, "01:00:00"},
		{3661, "01:01:01"},
		{86400, "24:00:00"},
		{36_000_000, "10000:00:00"},
	}

	for _, tt := range tests {
		got := formatDuration(tt.secs)
		if got != tt.want {
			t.Errorf("formatDuration(%d) = %q, want %q", tt.secs, got, tt.want)
		}
	}
}
