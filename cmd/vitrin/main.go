// Command vitrin resolves catalog headers and renders catalogs for the
// editor, the public viewer and PDF/PNG export.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vitrinhq/vitrin/internal/cli"
	verrors "github.com/vitrinhq/vitrin/pkg/errors"
)

// Exit codes. Scripts importing catalogs in bulk branch on these to tell a
// bad catalog apart from a missing one or a failed export.
const (
	exitFailure     = 1
	exitInvalid     = 2
	exitNotFound    = 3
	exitInterrupted = 130
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx)
	if err == nil {
		return
	}
	code := exitCode(err)
	if code != exitInterrupted {
		fmt.Fprintln(os.Stderr, "vitrin:", verrors.UserMessage(err))
	}
	stop()
	os.Exit(code)
}

func run(ctx context.Context) error {
	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()

	var verbose bool
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug detail (cache hits, header collisions)")

	// The level has to be set before the root pre-run installs the log hooks.
	inner := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		if inner == nil {
			return nil
		}
		return inner(cmd, args)
	}

	return root.ExecuteContext(ctx)
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		return exitInterrupted
	case verrors.IsValidation(err):
		return exitInvalid
	case verrors.IsNotFound(err):
		return exitNotFound
	}
	return exitFailure
}
