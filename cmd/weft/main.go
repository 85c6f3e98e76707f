package main

import (
	"context"
	"log/slog"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/weftlabs/weft/pkg/log"
)

func main() {
	root := &cli.Command{
		Name:                  "weft",
		Usage:                 "Inspect and edit workflow graphs",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Storage URL (file://<dir> or postgres://...)",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Edit event bus provider (gochannel, kafka)",
				Value:   "gochannel",
				Sources: cli.EnvVars("EVENT_BUS_TYPE"),
			},
			&cli.BoolFlag{
				Name:    "tracing",
				Usage:   "Export command spans via OTLP",
				Sources: cli.EnvVars("WEFT_TRACING"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "inspect",
				Usage:     "Print a stored workflow",
				ArgsUsage: "<workflow-id>",
				Action: func(ctx context.Context, command *cli.Command) error {
					return runInspect(ctx, command)
				},
			},
			{
				Name:      "validate",
				Usage:     "Validate a stored workflow against the storage contract and node-type schemas",
				ArgsUsage: "<workflow-id>",
				Action: func(ctx context.Context, command *cli.Command) error {
					return runValidate(ctx, command)
				},
			},
			{
				Name:      "normalize",
				Usage:     "Round-trip a stored workflow, filling default ports",
				ArgsUsage: "<workflow-id>",
				Action: func(ctx context.Context, command *cli.Command) error {
					return runNormalize(ctx, command)
				},
			},
			{
				Name:      "insert",
				Usage:     "Insert a node into a stored workflow, splicing it onto a connection when source and target are given",
				ArgsUsage: "<workflow-id>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "type",
						Usage:    "Node type of the inserted node",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "name",
						Usage: "Node name (defaults to the type)",
					},
					&cli.StringFlag{
						Name:  "source",
						Usage: "Source node id of the connection gesture",
					},
					&cli.StringFlag{
						Name:  "target",
						Usage: "Target node id of the connection gesture",
					},
					&cli.StringFlag{
						Name:  "source-output",
						Usage: "Source output port (defaults to main)",
					},
					&cli.StringFlag{
						Name:  "target-input",
						Usage: "Target input port (defaults to main)",
					},
					&cli.FloatFlag{
						Name:  "x",
						Usage: "Explicit x position when no connection gesture is given",
					},
					&cli.FloatFlag{
						Name:  "y",
						Usage: "Explicit y position when no connection gesture is given",
					},
				},
				Action: func(ctx context.Context, command *cli.Command) error {
					return runInsert(ctx, command)
				},
			},
		},
	}

	if err := root.Run(context.Background(), os.Args); err != nil {
		log.Setup("error")
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}
