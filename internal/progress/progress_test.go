package progress

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/sadopc/tenk/internal/timer"
)

func newTestStore(t *testing.T, contents string) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultPath)
	if contents != "" {
		if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
	}
	s := New(path)
	if err := s.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	return s
}

func TestLoadMissingFile(t *testing.T) {
	s := newTestStore(t, "")
	if s.Len() != 0 {
		t.Fatalf("expected empty store, got %d", s.Len())
	}
}

func TestLoadEmptyFile(t *testing.T) {
	s := newTestStore(t, "  \n")
	if s.Len() != 0 {
		t.Fatalf("expected empty store, got %d", s.Len())
	}
}

func TestLoadStructured(t *testing.T) {
	s := newTestStore(t, `{"Reading": {"remaining_seconds": 35999995, "start_time": "2024-03-01 09:30:00"}}`)

	r, ok := s.Get("Reading")
	if !ok {
		t.Fatal("Reading not loaded")
	}
	if r.RemainingSeconds != 35_999_995 || r.StartTime != "2024-03-01 09:30:00" {
		t.Fatalf("unexpected record: %+v", r)
	}
}

func TestLoadLegacy(t *testing.T) {
	s := newTestStore(t, `{"Guitar": 3600, "Reading": {"remaining_seconds": 10, "start_time": "2024-03-01 09:30:00"}}`)

	r, ok := s.Get("Guitar")
	if !ok {
		t.Fatal("legacy entry not loaded")
	}
	if r.RemainingSeconds != 3600 || r.StartTime != timer.UnknownStart {
		t.Fatalf("unexpected legacy record: %+v", r)
	}
}

func TestLoadPreservesOrder(t *testing.T) {
	s := newTestStore(t, `{"zeta": 1, "alpha": 2, "mid": {"remaining_seconds": 3, "start_time": "x"}}`)

	want := []string{"zeta", "alpha", "mid"}
	if got := s.Labels(); !reflect.DeepEqual(got, want) {
		t.Fatalf("labels = %v, want %v", got, want)
	}
}

func TestLoadCorruptFile(t *testing.T) {
	for _, contents := range []string{
		`not json`,
		`[1, 2, 3]`,
		`{"Reading": "ten hours"}`,
		`{"Reading": {"remaining_seconds": "x"}}`,
		`{"Reading": 1`,
	} {
		path := filepath.Join(t.TempDir(), DefaultPath)
		if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := New(path).Load(); err == nil {
			t.Errorf("expected error for %q", contents)
		}
	}
}

func TestSaveRoundTrip(t *testing.T) {
	s := newTestStore(t, "")
	s.Upsert("Reading", Record{RemainingSeconds: 36_000_000, StartTime: "2024-03-01 09:30:00"})
	s.Upsert("Piano", Record{RemainingSeconds: -5, StartTime: "2024-03-02 10:00:00"})
	if err := s.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	first, _ := os.ReadFile(s.Path())

	reloaded := New(s.Path())
	if err := reloaded.Load(); err != nil {
		t.Fatal(err)
	}
	if err := reloaded.Save(); err != nil {
		t.Fatal(err)
	}
	second, _ := os.ReadFile(s.Path())

	if string(first) != string(second) {
		t.Fatalf("round trip changed content:\n%s\n%s", first, second)
	}
	if got := reloaded.Labels(); !reflect.DeepEqual(got, []string{"Reading", "Piano"}) {
		t.Fatalf("unexpected order %v", got)
	}
}

func TestSaveLayout(t *testing.T) {
	s := newTestStore(t, "")
	s.Upsert("Reading", Record{RemainingSeconds: 35_999_995, StartTime: "2024-03-01 09:30:00"})
	s.Upsert("Piano", Record{RemainingSeconds: -5, StartTime: "Unknown"})
	if err := s.Save(); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(s.Path())
	want := `{"Reading": {"remaining_seconds": 35999995, "start_time": "2024-03-01 09:30:00"}, ` +
		`"Piano": {"remaining_seconds": -5, "start_time": "Unknown"}}`
	if string(data) != want {
		t.Fatalf("unexpected layout:\n got %s\nwant %s", data, want)
	}
}

func TestSaveUpgradesLegacy(t *testing.T) {
	s := newTestStore(t, `{"Guitar": 3600}`)
	if err := s.Save(); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(s.Path())
	var raw map[string]map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("saved file is not in structured form: %v\n%s", err, data)
	}
	if raw["Guitar"]["start_time"] != timer.UnknownStart {
		t.Fatalf("expected Unknown start time, got %v", raw["Guitar"]["start_time"])
	}
	if raw["Guitar"]["remaining_seconds"] != float64(3600) {
		t.Fatalf("unexpected remaining %v", raw["Guitar"]["remaining_seconds"])
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", DefaultPath)
	s := New(path)
	s.Upsert("Reading", Record{RemainingSeconds: 1, StartTime: "x"})
	if err := s.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("file not written: %v", err)
	}
}

func TestUpsertExistingKeepsPosition(t *testing.T) {
	s := New("unused.json")
	s.Upsert("a", Record{RemainingSeconds: 1})
	s.Upsert("b", Record{RemainingSeconds: 2})
	s.Upsert("a", Record{RemainingSeconds: 3})

	if got := s.Labels(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("unexpected labels %v", got)
	}
	if r, _ := s.Get("a"); r.RemainingSeconds != 3 {
		t.Fatalf("upsert did not replace record: %+v", r)
	}
}

func TestRemove(t *testing.T) {
	s := New("unused.json")
	s.Upsert("a", Record{})
	s.Upsert("b", Record{})
	s.Upsert("c", Record{})

	if !s.Remove("b") {
		t.Fatal("remove should report existing label")
	}
	if s.Remove("b") {
		t.Fatal("second remove should report missing label")
	}
	if s.Has("b") {
		t.Fatal("b should be gone")
	}
	if got := s.Labels(); !reflect.DeepEqual(got, []string{"a", "c"}) {
		t.Fatalf("unexpected labels %v", got)
	}
}

func TestLabelsReturnsCopy(t *testing.T) {
	s := New("unused.json")
	s.Upsert("a", Record{})
	labels := s.Labels()
	labels[0] = "mutated"
	if s.Labels()[0] != "a" {
		t.Fatal("Labels must not expose internal slice")
	}
}
