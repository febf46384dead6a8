package progress

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sadopc/tenk/internal/timer"
)

// DefaultPath is the progress file, relative to the working directory.
const DefaultPath = "activity_progress.json"

// Record is the persisted state of one activity.
type Record struct {
	RemainingSeconds int64  `json:"remaining_seconds"`
	StartTime        string `json:"start_time"`
}

// UnmarshalJSON accepts both the structured form and the legacy form where
// the value is the bare number of remaining seconds.
func (r *Record) UnmarshalJSON(data []byte) error {
	var secs int64
	if err := json.Unmarshal(data, &secs); err == nil {
		r.RemainingSeconds = secs
		r.StartTime = timer.UnknownStart
		return nil
	}

	type plain Record
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	if p.StartTime == "" {
		p.StartTime = timer.UnknownStart
	}
	*r = Record(p)
	return nil
}

// Store maps activity labels to records and keeps them in file order.
type Store struct {
	path    string
	labels  []string
	records map[string]Record
}

// New returns an empty store backed by path. Call Load to read it.
func New(path string) *Store {
	return &Store{
		path:    path,
		records: make(map[string]Record),
	}
}

func (s *Store) Path() string { return s.path }

// Load replaces the in-memory mapping with the file contents. A missing or
// empty file yields an empty mapping.
func (s *Store) Load() error {
	s.labels = nil
	s.records = make(map[string]Record)

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read progress: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("parse progress %s: %w", s.path, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("parse progress %s: expected object, got %v", s.path, tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("parse progress %s: %w", s.path, err)
		}
		label, ok := tok.(string)
		if !ok {
			return fmt.Errorf("parse progress %s: unexpected key %v", s.path, tok)
		}
		var r Record
		if err := dec.Decode(&r); err != nil {
			return fmt.Errorf("parse progress %s: activity %q: %w", s.path, label, err)
		}
		s.Upsert(label, r)
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("parse progress %s: %w", s.path, err)
	}
	return nil
}

// Save overwrites the backing file with every record in order. The write is
// not atomic.
func (s *Store) Save() error {
	data, err := s.MarshalJSON()
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create progress directory: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write progress: %w", err)
	}
	return nil
}

// MarshalJSON encodes the mapping as a single object, preserving label order.
// Every level uses ", " and ": " separators.
func (s *Store) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, label := range s.labels {
		if i > 0 {
			buf.WriteString(", ")
		}
		if err := writeString(&buf, label); err != nil {
			return nil, err
		}
		buf.WriteString(": ")
		if err := s.records[label].write(&buf); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (r Record) write(buf *bytes.Buffer) error {
	buf.WriteString(`{"remaining_seconds": `)
	buf.WriteString(strconv.FormatInt(r.RemainingSeconds, 10))
	buf.WriteString(`, "start_time": `)
	if err := writeString(buf, r.StartTime); err != nil {
		return err
	}
	buf.WriteByte('}')
	return nil
}

func writeString(buf *bytes.Buffer, v string) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

// Upsert sets the record for label. New labels are appended.
func (s *Store) Upsert(label string, r Record) {
	if _, ok := s.records[label]; !ok {
		s.labels = append(s.labels, label)
	}
	s.records[label] = r
}

// Remove deletes label and reports whether it existed.
func (s *Store) Remove(label string) bool {
	if _, ok := s.records[label]; !ok {
		return false
	}
	delete(s.records, label)
	for i, l := range s.labels {
		if l == label {
			s.labels = append(s.labels[:i], s.labels[i+1:]...)
			break
		}
	}
	return true
}

func (s *Store) Get(label string) (Record, bool) {
	r, ok := s.records[label]
	return r, ok
}

func (s *Store) Has(label string) bool {
	_, ok := s.records[label]
	return ok
}

// Labels returns the labels in file order.
func (s *Store) Labels() []string {
	out := make([]string, len(s.labels))
	copy(out, s.labels)
	return out
}

func (s *Store) Len() int { return len(s.labels) }
