package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4")).Padding(0, 1)

type CreateCmd struct {
	Label string `arg:"" help:"Name of the new activity."`
}

func (c *CreateCmd) Run(ctx *Context) error {
	a, err := ctx.Tracker.Create(c.Label)
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.Out, "New activity '%s' created with %s hours.\n", a.Label, humanize.Comma(a.Remaining/3600))
	return nil
}

type ListCmd struct{}

func (c *ListCmd) Run(ctx *Context) error {
	activities := ctx.Tracker.List()
	if len(activities) == 0 {
		fmt.Fprintln(ctx.Out, "No activities yet. Create one with 'tenk create NAME'.")
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
		Headers("#", "Activity", "Remaining", "Started On")
	for i, a := range activities {
		t.Row(fmt.Sprintf("%d", i+1), a.Label, a.Display(), a.StartTime)
	}
	fmt.Fprintln(ctx.Out, t.Render())
	return nil
}

type StartCmd struct {
	Label string `arg:"" help:"Activity to count down."`
}

func (c *StartCmd) Run(ctx *Context) error {
	a, err := ctx.Tracker.Get(c.Label)
	if err != nil {
		return err
	}
	keys, err := ctx.keys()
	if err != nil {
		return err
	}
	if cl, ok := keys.(io.Closer); ok {
		defer cl.Close()
	}

	sctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(ctx.Out, "Starting or resuming '%s' with %s remaining.\n", a.Label, a.Display())
	_, err = ctx.Tracker.StartSession(sctx, a.Label, keys, ctx.Out)
	return err
}

type AddCmd struct {
	Label   string `arg:"" help:"Activity to adjust."`
	Seconds int64  `arg:"" help:"Seconds to add. Negative values subtract; put -- before them."`
}

func (c *AddCmd) Run(ctx *Context) error {
	a, err := ctx.Tracker.AddTime(c.Label, c.Seconds)
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.Out, "Updated '%s'. New time remaining: %s.\n", a.Label, a.Display())
	return nil
}

type RemoveCmd struct {
	Label string `arg:"" help:"Activity to remove."`
	Yes   bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *RemoveCmd) Run(ctx *Context) error {
	if _, err := ctx.Tracker.Get(c.Label); err != nil {
		return err
	}

	if !c.Yes {
		confirmed := false
		err := huh.NewConfirm().
			Title(fmt.Sprintf("Are you sure you want to remove '%s'?", c.Label)).
			Affirmative("Yes").
			Negative("No").
			Value(&confirmed).
			Run()
		if err != nil && !errors.Is(err, huh.ErrUserAborted) {
			return fmt.Errorf("confirm: %w", err)
		}
		if !confirmed {
			fmt.Fprintln(ctx.Out, "Removal cancelled.")
			return nil
		}
	}

	if err := ctx.Tracker.Remove(c.Label); err != nil {
		return err
	}
	fmt.Fprintf(ctx.Out, "Activity '%s' has been removed.\n", c.Label)
	return nil
}
