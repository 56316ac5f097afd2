package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/tacmedikal/fieldtrack-api/internal/config"
	"github.com/tacmedikal/fieldtrack-api/internal/email"
	"github.com/tacmedikal/fieldtrack-api/internal/repository/postgres"
	reportService "github.com/tacmedikal/fieldtrack-api/internal/service/report"
	"github.com/tacmedikal/fieldtrack-api/internal/worker"
	"github.com/tacmedikal/fieldtrack-api/pkg/logger"
	"github.com/tacmedikal/fieldtrack-api/pkg/metrics"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	registry := prometheus.NewRegistry()
	appMetrics := metrics.NewMetrics(registry, "fieldtrack", "worker")

	userRepo := postgres.NewUserRepository(db)
	customerRepo := postgres.NewCustomerRepository(db)
	doctorRepo := postgres.NewDoctorRepository(db)
	visitRepo := postgres.NewVisitRepository(db)
	snapshotRepo := postgres.NewSnapshotRepository(db)

	var mailSender email.Sender
	if cfg.Email.Enabled {
		mailSender = email.NewSMTPSender(email.Config{
			Host:     cfg.Email.Host,
			Port:     cfg.Email.Port,
			Username: cfg.Email.Username,
			Password: cfg.Email.Password,
			From:     cfg.Email.From,
		})
	} else {
		mailSender = email.NewLogSender(appLogger)
	}

	reportSvc := reportService.NewService(visitRepo, customerRepo, doctorRepo, userRepo, cfg.Report.MonthlyTarget)
	snapshotter := worker.NewSnapshotter(
		snapshotRepo, visitRepo, customerRepo, doctorRepo, userRepo,
		reportSvc, mailSender, appLogger, appMetrics,
	)

	scheduler := cron.New()

	if _, err := scheduler.AddFunc(cfg.Worker.SnapshotSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if err := snapshotter.RunDailySnapshot(ctx); err != nil {
			log.Error().Err(err).Msg("daily snapshot failed")
		}
	}); err != nil {
		log.Fatal().Err(err).Msg("invalid snapshot schedule")
	}

	if _, err := scheduler.AddFunc(cfg.Worker.SummarySchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if err := snapshotter.RunWeeklySummary(ctx); err != nil {
			log.Error().Err(err).Msg("weekly summary failed")
		}
	}); err != nil {
		log.Fatal().Err(err).Msg("invalid summary schedule")
	}

	scheduler.Start()
	log.Info().
		Str("snapshot_schedule", cfg.Worker.SnapshotSchedule).
		Str("summary_schedule", cfg.Worker.SummarySchedule).
		Msg("worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("stopping worker")
	<-scheduler.Stop().Done()
	log.Info().Msg("worker stopped")
}
