package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/sadopc/tenk/internal/cli"
	"github.com/sadopc/tenk/internal/logger"
)

func main() {
	var root cli.Root
	kctx := kong.Parse(&root,
		kong.Name("tenk"),
		kong.Description("Count down the 10,000 hours it takes to master something."),
		kong.UsageOnError(),
	)

	appCtx, err := cli.Open(root.Globals)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	err = kctx.Run(appCtx)
	appCtx.Close()
	if err != nil {
		logger.Error("command failed", "command", kctx.Command(), "error", err)
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
