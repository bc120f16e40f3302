// stepgen generates step builders for Go struct types.
//
// Mark a struct with a builder directive and run stepgen in its package
// directory, typically through go generate:
//
//	//go:generate go run github.com/syssam/stepgen/cmd/stepgen generate
//
//	//stepgen:builder strategy=STRICT
//	type Car struct {
//		Make  string `step:"mandatory"`
//		Model string
//	}
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/syssam/stepgen/config"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	short := commit
	if len(commit) > 7 {
		short = commit[:7]
	}
	return fmt.Sprintf("%s (%s) %s", version, short, date)
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	os.Exit(run(os.Args, os.Stdout))
}

// run executes the command line and returns the process exit code.
func run(args []string, out io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(&Controller{Out: out}).Run(ctx, args); err != nil {
		log.Error().Err(err).Msg("stepgen failed")
		return 1
	}
	return 0
}

func newApp(ctrl *Controller) *cli.Command {
	return &cli.Command{
		Name:    "stepgen",
		Usage:   "Generate staged step builders for Go struct types",
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log level (trace, debug, info, warn, error, fatal, panic)",
				Sources: cli.EnvVars("STEPGEN_LOG_LEVEL"),
				Value:   "info",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "project file; defaults to the nearest " + config.FileName,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			level, err := zerolog.ParseLevel(c.String("log-level"))
			if err != nil {
				return ctx, fmt.Errorf("failed to parse log level: %w", err)
			}
			log.Logger = log.Level(level)
			ctrl.Log = log.Logger.With().Str("run", uuid.NewString()).Logger()
			ctrl.ConfigPath = c.String("config")
			return ctx, nil
		},
		Commands: []*cli.Command{
			{
				Name:      "generate",
				Aliases:   []string{"gen"},
				Usage:     "Generate the builders of a package",
				ArgsUsage: "[dir]",
				Flags:     generateFlags(),
				Action: func(ctx context.Context, c *cli.Command) error {
					return ctrl.Generate(ctx, c)
				},
			},
			{
				Name:      "describe",
				Usage:     "Print the builder protocols of a package",
				ArgsUsage: "[dir]",
				Flags: append(generateFlags(),
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "output format (json, yaml, msgpack)",
						Value:   "json",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "output file; defaults to stdout",
					},
				),
				Action: func(ctx context.Context, c *cli.Command) error {
					return ctrl.Describe(ctx, c)
				},
			},
			{
				Name:      "watch",
				Usage:     "Generate, then regenerate whenever the package changes",
				ArgsUsage: "[dir]",
				Flags: append(generateFlags(),
					&cli.DurationFlag{
						Name:  "debounce",
						Usage: "quiet period before regenerating",
					},
				),
				Action: func(ctx context.Context, c *cli.Command) error {
					return ctrl.Watch(ctx, c)
				},
			},
			{
				Name:      "init",
				Usage:     "Create a " + config.FileName + " project file",
				ArgsUsage: "[dir]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "strategy",
						Usage: "default strategy (OPEN, STRICT, STEP_WISE)",
						Value: "OPEN",
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					return ctrl.Init(ctx, c)
				},
			},
		},
	}
}

func generateFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "target",
			Aliases: []string{"t"},
			Usage:   "output directory; defaults to the source directory",
		},
		&cli.StringFlag{
			Name:  "package",
			Usage: "output package name; defaults to the source package",
		},
		&cli.StringFlag{
			Name:  "source-package",
			Usage: "import path of the source package when generating into another package",
		},
		&cli.StringFlag{
			Name:  "strategy",
			Usage: "default strategy (OPEN, STRICT, STEP_WISE)",
		},
		&cli.IntFlag{
			Name:  "workers",
			Usage: "number of types generated concurrently",
		},
		&cli.StringSliceFlag{
			Name:  "type",
			Usage: "struct type to generate in addition to the annotated ones",
		},
	}
}
