package store

import (
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// recordAt is a test helper that records a session starting offset seconds ago.
func recordAt(t *testing.T, s *Store, label string, offset time.Duration, secs int64, outcome string) *Session {
	t.Helper()
	start := time.Now().UTC().Add(-offset)
	sess, err := s.RecordSession(label, start, start.Add(time.Duration(secs)*time.Second), secs, outcome)
	if err != nil {
		t.Fatalf("record session: %v", err)
	}
	return sess
}

// ============================================================
// Store initialization
// ============================================================

func TestNewMemory(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != 1 {
		t.Fatalf("expected user_version 1, got %d", version)
	}
}

func TestNewWithPath(t *testing.T) {
	dir := t.TempDir()
	path := DBPath(dir + "/sub")
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	s.Close()

	// Reopen: should succeed and not re-migrate.
	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	s2.Close()
}

func TestDefaultDataDir(t *testing.T) {
	dir, err := DefaultDataDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir == "" {
		t.Fatal("empty path")
	}
}

func TestMigrationIdempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.migrate(); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
}

// ============================================================
// Sessions
// ============================================================

func TestRecordAndGetSession(t *testing.T) {
	s := newTestStore(t)
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(25 * time.Minute)

	sess, err := s.RecordSession("Reading", start, end, 1500, OutcomePaused)
	if err != nil {
		t.Fatal(err)
	}
	if sess.ID == "" {
		t.Fatal("expected generated ID")
	}
	if sess.Label != "Reading" || sess.Seconds != 1500 || sess.Outcome != OutcomePaused {
		t.Fatalf("unexpected session: %+v", sess)
	}
	if !sess.StartedAt.Equal(start) || !sess.EndedAt.Equal(end) {
		t.Fatalf("times not round-tripped: %+v", sess)
	}
}

func TestGetSessionNotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetSession("missing"); err == nil {
		t.Fatal("expected error for missing session")
	}
}

func TestListSessionsFilterAndOrder(t *testing.T) {
	s := newTestStore(t)
	recordAt(t, s, "Reading", 3*time.Hour, 60, OutcomePaused)
	recordAt(t, s, "Piano", 2*time.Hour, 120, OutcomePaused)
	latest := recordAt(t, s, "Reading", time.Hour, 30, OutcomeCompleted)

	all, err := s.ListSessions(SessionFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 sessions, got %d", len(all))
	}
	if all[0].ID != latest.ID {
		t.Fatal("sessions should be newest first")
	}

	reading, _ := s.ListSessions(SessionFilter{Label: "Reading"})
	if len(reading) != 2 {
		t.Fatalf("expected 2 Reading sessions, got %d", len(reading))
	}

	limited, _ := s.ListSessions(SessionFilter{Limit: 1})
	if len(limited) != 1 {
		t.Fatalf("expected 1 session, got %d", len(limited))
	}

	from := time.Now().Add(-90 * time.Minute)
	recent, _ := s.ListSessions(SessionFilter{From: &from})
	if len(recent) != 1 || recent[0].ID != latest.ID {
		t.Fatalf("from filter returned %+v", recent)
	}

	to := time.Now().Add(-150 * time.Minute)
	older, _ := s.ListSessions(SessionFilter{To: &to})
	if len(older) != 1 || older[0].Label != "Reading" {
		t.Fatalf("to filter returned %+v", older)
	}
}

func TestDailySummary(t *testing.T) {
	s := newTestStore(t)
	day := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	s.RecordSession("Reading", day, day.Add(time.Hour), 3600, OutcomePaused)
	s.RecordSession("Reading", day.Add(2*time.Hour), day.Add(3*time.Hour), 1800, OutcomePaused)
	s.RecordSession("Piano", day.Add(4*time.Hour), day.Add(5*time.Hour), 600, OutcomePaused)
	s.RecordSession("Piano", day.AddDate(0, 0, 1), day.AddDate(0, 0, 1).Add(time.Hour), 900, OutcomePaused)

	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	summaries, err := s.GetDailySummary(from, from.AddDate(0, 0, 1))
	if err != nil {
		t.Fatal(err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d: %+v", len(summaries), summaries)
	}
	// Ordered by day then label.
	if summaries[0].Label != "Piano" || summaries[0].TotalSeconds != 600 {
		t.Fatalf("unexpected first summary %+v", summaries[0])
	}
	if summaries[1].Label != "Reading" || summaries[1].TotalSeconds != 5400 || summaries[1].SessionCount != 2 {
		t.Fatalf("unexpected second summary %+v", summaries[1])
	}
	if summaries[1].Date != "2024-03-01" {
		t.Fatalf("unexpected date %q", summaries[1].Date)
	}
}

func TestDailySummaryUsesCallerDays(t *testing.T) {
	s := newTestStore(t)
	// 20:30 UTC on Mar 1 is 01:30 on Mar 2 at UTC+5.
	started := time.Date(2024, 3, 1, 20, 30, 0, 0, time.UTC)
	s.RecordSession("Reading", started, started.Add(time.Hour), 3600, OutcomePaused)

	zone := time.FixedZone("UTC+5", 5*3600)
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, zone)
	summaries, err := s.GetDailySummary(from, from.AddDate(0, 0, 2))
	if err != nil {
		t.Fatal(err)
	}
	if len(summaries) != 1 || summaries[0].Date != "2024-03-02" {
		t.Fatalf("expected one summary on 2024-03-02, got %+v", summaries)
	}
}

func TestTotalCounted(t *testing.T) {
	s := newTestStore(t)
	if total, err := s.TotalCounted("Reading"); err != nil || total != 0 {
		t.Fatalf("expected 0, got %d (%v)", total, err)
	}
	recordAt(t, s, "Reading", time.Hour, 100, OutcomePaused)
	recordAt(t, s, "Reading", time.Minute, 50, OutcomeCompleted)
	recordAt(t, s, "Piano", time.Minute, 7, OutcomePaused)

	total, err := s.TotalCounted("Reading")
	if err != nil {
		t.Fatal(err)
	}
	if total != 150 {
		t.Fatalf("expected 150, got %d", total)
	}
}

// ============================================================
// Adjustments
// ============================================================

func TestRecordAndListAdjustments(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.RecordAdjustment("Reading", -3600); err != nil {
		t.Fatal(err)
	}
	if _, err := s.RecordAdjustment("Piano", 60); err != nil {
		t.Fatal(err)
	}
	last, err := s.RecordAdjustment("Reading", 120)
	if err != nil {
		t.Fatal(err)
	}

	reading, err := s.ListAdjustments("Reading")
	if err != nil {
		t.Fatal(err)
	}
	if len(reading) != 2 {
		t.Fatalf("expected 2 adjustments, got %d", len(reading))
	}
	if reading[0].ID != last.ID || reading[0].Delta != 120 {
		t.Fatalf("expected newest first, got %+v", reading[0])
	}

	all, _ := s.ListAdjustments("")
	if len(all) != 3 {
		t.Fatalf("expected 3 adjustments, got %d", len(all))
	}
}

// ============================================================
// Settings
// ============================================================

func TestDefaultSettings(t *testing.T) {
	s := newTestStore(t)

	v, err := s.GetSetting(SettingDefaultBudgetHours)
	if err != nil {
		t.Fatal(err)
	}
	if v != "10000" {
		t.Fatalf("expected 10000, got %q", v)
	}
	if n := s.GetIntSetting(SettingHistoryDays, 0); n != 7 {
		t.Fatalf("expected 7, got %d", n)
	}
}

func TestSetSetting(t *testing.T) {
	s := newTestStore(t)
	if err := s.SetSetting(SettingDefaultBudgetHours, "500"); err != nil {
		t.Fatal(err)
	}
	if n := s.GetIntSetting(SettingDefaultBudgetHours, 0); n != 500 {
		t.Fatalf("expected 500, got %d", n)
	}
}

func TestGetIntSettingFallback(t *testing.T) {
	s := newTestStore(t)
	if n := s.GetIntSetting("missing", 42); n != 42 {
		t.Fatalf("expected fallback 42, got %d", n)
	}
	s.SetSetting(SettingHistoryDays, "lots")
	if n := s.GetIntSetting(SettingHistoryDays, 7); n != 7 {
		t.Fatalf("expected fallback 7, got %d", n)
	}
}

func TestGetAllSettings(t *testing.T) {
	s := newTestStore(t)
	settings, err := s.GetAllSettings()
	if err != nil {
		t.Fatal(err)
	}
	if len(settings) != 2 {
		t.Fatalf("expected 2 settings, got %d", len(settings))
	}
	if settings[0].Key != SettingDefaultBudgetHours {
		t.Fatalf("settings should be ordered by key, got %q first", settings[0].Key)
	}
}
