package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/crates/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)
	runner := NewRunner(RunnerOpts{Logger: logger})

	if err := runner.app().Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		}
		logger.Fatalf("application error: %v", err)
	}
}

// app builds the root command with the global flags.
func (r *Runner) app() *cli.Command {
	return &cli.Command{
		Name:    "crates",
		Usage:   "Browse albums and manage their songs",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging",
			},
		},
		Before:   r.bootstrap,
		After:    r.shutdown,
		Writer:   r.output,
		Commands: r.register(),
	}
}
