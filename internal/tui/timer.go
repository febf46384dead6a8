package tui

import (
	"errors"

	"github.com/sadopc/tenk/internal/tracker"
)

var errNothingRunning = errors.New("nothing is running")

// countdownModel follows the running activity. The tracker owns the timing;
// this only caches what the view shows.
type countdownModel struct {
	tracker *tracker.Tracker

	current tracker.Activity
	active  bool
}

func newCountdownModel(t *tracker.Tracker) countdownModel {
	c := countdownModel{tracker: t}
	c.refresh()
	return c
}

func (c *countdownModel) start(label string) error {
	if err := c.tracker.Start(label); err != nil {
		return err
	}
	c.refresh()
	return nil
}

func (c *countdownModel) pause() (tracker.Activity, error) {
	if !c.active {
		return tracker.Activity{}, errNothingRunning
	}
	a, err := c.tracker.Pause(c.current.Label)
	c.refresh()
	return a, err
}

// tick reports the activity that just ran out of time, if any.
func (c *countdownModel) tick() (tracker.Activity, bool, error) {
	a, done, err := c.tracker.Tick()
	c.refresh()
	return a, done, err
}

func (c *countdownModel) refresh() {
	c.current, c.active = c.tracker.Running()
}

func (c countdownModel) running() bool {
	return c.active
}

func (c countdownModel) label() string {
	return c.current.Label
}

func (c countdownModel) display() string {
	if !c.active {
		return "0:00:00"
	}
	return c.current.Display()
}
