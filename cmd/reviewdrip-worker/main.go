// Package main provides the ReviewDrip background worker: the enrollment
// sweep and the analytics event consumer.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	cli "github.com/urfave/cli/v3"

	"github.com/reviewdrip/reviewdrip/pkg/campaign"
	"github.com/reviewdrip/reviewdrip/pkg/cmd"
	"github.com/reviewdrip/reviewdrip/pkg/dispatch"
	"github.com/reviewdrip/reviewdrip/pkg/log"
	"github.com/reviewdrip/reviewdrip/pkg/otelhelper"
)

func main() {
	logger := log.WithModule("worker")

	command := &cli.Command{
		Name:                  "reviewdrip-worker",
		Usage:                 "Run the drip campaign scheduler and analytics consumer",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Database connection URL for persistence",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus type (kafka, gochannel)",
				Value:   "gochannel",
				Sources: cli.EnvVars("EVENT_BUS_TYPE"),
			},
			&cli.StringFlag{
				Name:    "sweep-cron",
				Usage:   "Cron expression for the enrollment sweep",
				Value:   campaign.DefaultSweepExpression,
				Sources: cli.EnvVars("SWEEP_CRON"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger.InfoContext(ctx, "Initializing ReviewDrip worker")

			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			tracerProvider, err := otelhelper.InitTracer(ctx, "reviewdrip-worker")
			if err != nil {
				return fmt.Errorf("failed to initialize tracer: %w", err)
			}

			defer func() {
				if err := tracerProvider.Shutdown(ctx); err != nil {
					logger.ErrorContext(ctx, "Failed to shutdown tracer provider", "error", err)
				}
			}()

			persistence := cmd.NewPersistence(command.String("database-url"))

			defer func() {
				if err := persistence.Close(ctx); err != nil {
					logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
				}
			}()

			eventBus := cmd.NewEventBus(command.String("event-bus"), logger)
			defer func() {
				if err := eventBus.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			consumer := NewAnalyticsConsumer(eventBus, tracerProvider.Tracer("reviewdrip-worker"), logger)
			if err := consumer.Start(ctx); err != nil {
				return err
			}

			sender := campaign.NewSender(dispatch.NewLogDispatcher(logger), logger)

			scheduler, err := campaign.NewScheduler(persistence, sender, logger, command.String("sweep-cron"))
			if err != nil {
				return err
			}

			logger.InfoContext(ctx, "Starting enrollment sweep", "cron", command.String("sweep-cron"))

			if err := scheduler.Run(ctx); err != nil && ctx.Err() == nil {
				return err
			}

			return nil
		},
	}

	err := command.Run(context.Background(), os.Args)
	if err != nil {
		panic(err)
	}
}
