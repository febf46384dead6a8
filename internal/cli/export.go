package cli

import (
	"fmt"

	"github.com/sadopc/tenk/internal/export"
	"github.com/sadopc/tenk/internal/logger"
	"github.com/sadopc/tenk/internal/store"
)

type ExportCmd struct {
	Format   string `help:"Output format." enum:"csv,json" default:"csv"`
	Out      string `help:"Output path. Defaults to tenk-export.<format>." type:"path"`
	Sessions bool   `help:"Export session history instead of activities (CSV only)."`
}

func (c *ExportCmd) Run(ctx *Context) error {
	out := c.Out
	if out == "" {
		out = "tenk-export." + c.Format
	}

	sessions, err := ctx.History.ListSessions(store.SessionFilter{})
	if err != nil {
		return err
	}

	switch {
	case c.Format == "json":
		err = export.ToJSON(c.activities(ctx), sessions, out)
	case c.Sessions:
		err = export.SessionsToCSV(sessions, out)
	default:
		err = export.ToCSV(c.activities(ctx), out)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.Out, "Exported to %s\n", out)
	return nil
}

func (c *ExportCmd) activities(ctx *Context) []export.Activity {
	var rows []export.Activity
	for _, a := range ctx.Tracker.List() {
		invested, err := ctx.History.TotalCounted(a.Label)
		if err != nil {
			logger.Warn("total counted", "label", a.Label, "error", err)
		}
		rows = append(rows, export.Activity{
			Label:     a.Label,
			Remaining: a.Remaining,
			Invested:  invested,
			StartTime: a.StartTime,
		})
	}
	return rows
}
