package cli

import (
	"context"

	"github.com/sadopc/tenk/internal/menu"
)

type MenuCmd struct{}

func (c *MenuCmd) Run(ctx *Context) error {
	return menu.New(ctx.Tracker, ctx.Stdin, ctx.Out, ctx.keys).Run(context.Background())
}
