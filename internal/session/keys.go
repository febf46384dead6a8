package session

import (
	"fmt"
	"os"

	"github.com/muesli/cancelreader"
	"golang.org/x/term"
)

// TerminalKeys reads keystrokes from a terminal through a cancellable reader.
type TerminalKeys struct {
	cancelreader.CancelReader
	fd int
}

// NewTerminalKeys wraps f, usually os.Stdin. Close it when the session ends.
func NewTerminalKeys(f *os.File) (*TerminalKeys, error) {
	r, err := cancelreader.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("key reader: %w", err)
	}
	return &TerminalKeys{CancelReader: r, fd: int(f.Fd())}, nil
}

// EnterRaw switches the terminal to unbuffered no-echo input. The returned
// func restores the previous mode. Non-terminals are left alone.
func (k *TerminalKeys) EnterRaw() (func(), error) {
	if !term.IsTerminal(k.fd) {
		return func() {}, nil
	}
	state, err := term.MakeRaw(k.fd)
	if err != nil {
		return nil, fmt.Errorf("raw mode: %w", err)
	}
	return func() { _ = term.Restore(k.fd, state) }, nil
}
