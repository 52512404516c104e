package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dressup/internal/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	c := cli.New(os.Stderr, cli.LogInfo)
	err := execute(ctx, c)
	cancel()
	if err != nil {
		os.Exit(c.Fail(err))
	}
}

func execute(ctx context.Context, c *cli.CLI) error {
	var verbose bool

	root := c.RootCommand()
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	// The level is only known once flags are parsed.
	attach := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		if attach != nil {
			return attach(cmd, args)
		}
		return nil
	}

	return root.ExecuteContext(ctx)
}
