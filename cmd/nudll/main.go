package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/willibrandon/nudll/cmd/nudll/cli"
	"github.com/willibrandon/nudll/cmd/nudll/commands"
)

// Version information (set via ldflags during build)
var (
	version = "0.0.0-dev"
	commit  = "unknown"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	cli.Version = version
	cli.Commit = commit
	cli.Date = date
	cli.BuiltBy = builtBy

	cli.SetupVersion()

	commands.BindDownload(cli.Root(), cli.Console)
	cli.AddCommand(commands.NewVersionCommand(cli.Console))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		if errors.Is(err, context.Canceled) || ctx.Err() != nil {
			_, _ = fmt.Fprintln(os.Stderr, "Error: interrupted")
			return 130 // 128 + SIGINT
		}
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
