// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/tfarias/rachao/internal/api/auth"
	"github.com/tfarias/rachao/internal/api/matches"
	"github.com/tfarias/rachao/internal/api/teams"
	"github.com/tfarias/rachao/internal/config"
	"github.com/tfarias/rachao/internal/db"
	"github.com/tfarias/rachao/internal/discipline"
	"github.com/tfarias/rachao/internal/league"
	"github.com/tfarias/rachao/internal/mvp"
	"github.com/tfarias/rachao/internal/notify"
	"github.com/tfarias/rachao/internal/punishment"
	"github.com/tfarias/rachao/internal/scheduler"
)

const defaultConfigPath = "config/config.yaml"

func setupLogger(environment string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", configPath).Msg("Failed to load configuration")
	}

	setupLogger(cfg.App.Environment)

	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		log.Fatal().Err(err).Str("timezone", cfg.App.Timezone).Msg("Invalid timezone")
	}

	database, err := db.NewFromConfig(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer database.Close()

	engine, err := league.NewEngine(database, loc)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build match engine")
	}
	tracker, err := discipline.NewTracker(database, discipline.Policy{
		YellowCardThreshold: cfg.Discipline.YellowCardThreshold,
		YellowCardGames:     cfg.Discipline.YellowCardGames,
		RedCardGames:        cfg.Discipline.RedCardGames,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build discipline tracker")
	}
	workflow, err := punishment.NewWorkflow(database, loc)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build punishment workflow")
	}
	tally, err := mvp.NewTally(database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build MVP tally")
	}

	// Suspension progress is settled inside the same transaction that
	// finalizes a match, whichever path finalizes it.
	engine.SetFinalizeHook(tracker)
	workflow.SetFinalizeHook(tracker)

	auth.InitHandlers(database, cfg)
	matches.InitHandlers(database, engine, tracker, workflow, tally, loc)
	teams.InitHandlers(database)

	var emailClient notify.EmailSender
	if cfg.Notifications.Enabled {
		sesClient, err := notify.NewSESClient(
			cfg.Notifications.AccessKeyID,
			cfg.Notifications.SecretAccessKey,
			cfg.Notifications.AWSRegion,
			cfg.Notifications.Sender,
		)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to build SES client")
		}
		emailClient = sesClient
	}
	if emailClient != nil {
		engine.SetEmailSender(emailClient)
		tracker.SetEmailSender(emailClient)
		workflow.SetEmailSender(emailClient)
	}

	if err := scheduler.Init(); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize scheduler")
	}
	if emailClient != nil {
		if err := scheduler.RegisterReportReminderJob(database, emailClient, cfg.Scheduler.ReportReminderCron); err != nil {
			log.Fatal().Err(err).Msg("Failed to register report reminder job")
		}
	}
	if err := scheduler.RegisterSessionCleanupJob("0 3 * * *"); err != nil {
		log.Fatal().Err(err).Msg("Failed to register session cleanup job")
	}
	if err := scheduler.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start scheduler")
	}

	server := newServer(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Int("port", cfg.App.Port).Str("environment", cfg.App.Environment).Msg("Starting server")
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		log.Info().Msg("Shutting down server")
		if err := scheduler.Stop(); err != nil {
			log.Error().Err(err).Msg("Scheduler shutdown error")
		}
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Server terminated with error")
		os.Exit(1)
	}
}
