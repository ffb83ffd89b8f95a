// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/allisson/go-shop-api/cmd/app/commands"
)

const version = "1.0.0"

func main() {
	cmd := &cli.Command{
		Name:    "shop-api",
		Usage:   "Online shop API",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:  "server",
				Usage: "Start the API server, metrics server, and outbox relay",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunServer(ctx, version)
				},
			},
			{
				Name:  "worker",
				Usage: "Start the domain event consumer",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunWorker(ctx, version)
				},
			},
			{
				Name:  "migrate",
				Usage: "Run database migrations",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunMigrations()
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}
