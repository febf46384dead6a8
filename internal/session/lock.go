package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"
)

// ErrSessionActive is returned when another live process holds the lock.
var ErrSessionActive = errors.New("another countdown session is active")

var findProcessFunc = ps.FindProcess

// LockFile is the lock file name inside the data directory.
const LockFile = "session.lock"

// Lock marks a running countdown so a second process cannot start one.
type Lock struct {
	path string
}

// Acquire writes "pid|label" to path. A lock left behind by a process that
// no longer exists is replaced.
func Acquire(path, label string) (*Lock, error) {
	if pid, holder, ok := readLock(path); ok {
		if pid != os.Getpid() && alive(pid) {
			return nil, fmt.Errorf("%w: %q (pid %d)", ErrSessionActive, holder, pid)
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("remove stale lock: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil, ErrSessionActive
		}
		return nil, fmt.Errorf("create lock: %w", err)
	}
	defer f.Close()
	if _, err := fmt.Fprintf(f, "%d|%s", os.Getpid(), label); err != nil {
		return nil, fmt.Errorf("write lock: %w", err)
	}
	return &Lock{path: path}, nil
}

// Release removes the lock file.
func (l *Lock) Release() error {
	if err := os.Remove(l.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("release lock: %w", err)
	}
	return nil
}

// Holder reports the process and label recorded in the lock at path, if the
// holder is still alive.
func Holder(path string) (pid int, label string, ok bool) {
	pid, label, ok = readLock(path)
	if !ok || !alive(pid) {
		return 0, "", false
	}
	return pid, label, true
}

func readLock(path string) (int, string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, "", false
	}
	pidStr, label, found := strings.Cut(strings.TrimSpace(string(data)), "|")
	if !found {
		// Malformed locks are treated as stale.
		return -1, "", true
	}
	pid, err := strconv.Atoi(pidStr)
	if err != nil {
		return -1, "", true
	}
	return pid, label, true
}

func alive(pid int) bool {
	if pid <= 0 {
		return false
	}
	p, err := findProcessFunc(pid)
	return err == nil && p != nil
}
