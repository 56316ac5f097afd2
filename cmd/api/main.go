package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"github.com/tacmedikal/fieldtrack-api/internal/config"
	"github.com/tacmedikal/fieldtrack-api/internal/email"
	"github.com/tacmedikal/fieldtrack-api/internal/handler"
	authHandler "github.com/tacmedikal/fieldtrack-api/internal/handler/auth"
	calendarHandler "github.com/tacmedikal/fieldtrack-api/internal/handler/calendar"
	customerHandler "github.com/tacmedikal/fieldtrack-api/internal/handler/customer"
	doctorHandler "github.com/tacmedikal/fieldtrack-api/internal/handler/doctor"
	orderHandler "github.com/tacmedikal/fieldtrack-api/internal/handler/order"
	productHandler "github.com/tacmedikal/fieldtrack-api/internal/handler/product"
	reportHandler "github.com/tacmedikal/fieldtrack-api/internal/handler/report"
	userHandler "github.com/tacmedikal/fieldtrack-api/internal/handler/user"
	visitHandler "github.com/tacmedikal/fieldtrack-api/internal/handler/visit"
	"github.com/tacmedikal/fieldtrack-api/internal/middleware"
	"github.com/tacmedikal/fieldtrack-api/internal/repository/postgres"
	"github.com/tacmedikal/fieldtrack-api/internal/router"
	authService "github.com/tacmedikal/fieldtrack-api/internal/service/auth"
	"github.com/tacmedikal/fieldtrack-api/internal/service/calendarsync"
	customerService "github.com/tacmedikal/fieldtrack-api/internal/service/customer"
	doctorService "github.com/tacmedikal/fieldtrack-api/internal/service/doctor"
	orderService "github.com/tacmedikal/fieldtrack-api/internal/service/order"
	productService "github.com/tacmedikal/fieldtrack-api/internal/service/product"
	reportService "github.com/tacmedikal/fieldtrack-api/internal/service/report"
	userService "github.com/tacmedikal/fieldtrack-api/internal/service/user"
	visitService "github.com/tacmedikal/fieldtrack-api/internal/service/visit"
	"github.com/tacmedikal/fieldtrack-api/pkg/auth"
	"github.com/tacmedikal/fieldtrack-api/pkg/calendar"
	"github.com/tacmedikal/fieldtrack-api/pkg/logger"
	"github.com/tacmedikal/fieldtrack-api/pkg/metrics"
	"github.com/tacmedikal/fieldtrack-api/pkg/prefs"
	"github.com/tacmedikal/fieldtrack-api/pkg/security"
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

	prefStore, err := prefs.NewRedisStore(prefs.RedisConfig{URL: cfg.Redis.URL})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	appMetrics := metrics.NewMetrics(registry, "fieldtrack", "api")

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	customerRepo := postgres.NewCustomerRepository(db)
	doctorRepo := postgres.NewDoctorRepository(db)
	visitRepo := postgres.NewVisitRepository(db)
	productRepo := postgres.NewProductRepository(db)
	orderRepo := postgres.NewOrderRepository(db)

	// External services
	var calendarProvider calendar.Provider
	if cfg.Calendar.GatewayURL != "" {
		calendarProvider = calendar.NewGatewayProvider(calendar.GatewayConfig{
			BaseURL: cfg.Calendar.GatewayURL,
			APIKey:  cfg.Calendar.APIKey,
		})
	} else {
		appLogger.Warn("no calendar gateway configured, using in-memory provider")
		calendarProvider = calendar.NewMemoryProvider()
	}

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

	tokens := auth.NewJWTService(auth.Config{
		Secret:             cfg.JWT.Secret,
		RefreshSecret:      cfg.JWT.RefreshSecret,
		ExpiryHours:        cfg.JWT.ExpiryHours,
		RefreshExpiryHours: cfg.JWT.RefreshExpiryHours,
	})
	hasher := security.NewBcryptHasher(cfg.Security.BcryptCost)

	// Services
	authSvc := authService.NewService(userRepo, hasher, tokens, appLogger, cfg.Report.AdminEmails)
	userSvc := userService.NewService(userRepo, appLogger)
	customerSvc := customerService.NewService(customerRepo)
	doctorSvc := doctorService.NewService(doctorRepo, customerRepo)
	calendarSvc := calendarsync.NewService(calendarProvider, prefStore, appLogger, appMetrics)
	visitSvc := visitService.NewService(visitRepo, customerRepo, doctorRepo, calendarSvc, appLogger, appMetrics)
	productSvc := productService.NewService(productRepo)
	orderSvc := orderService.NewService(orderRepo, productRepo, userRepo, mailSender, appLogger)
	reportSvc := reportService.NewService(visitRepo, customerRepo, doctorRepo, userRepo, cfg.Report.MonthlyTarget)

	authMiddleware := middleware.NewAuthMiddleware(tokens)

	r := router.NewRouter(cfg.Server, authMiddleware, registry, router.Handlers{
		Base:     handler.NewHandler(),
		Auth:     authHandler.NewHandler(authSvc),
		User:     userHandler.NewHandler(userSvc),
		Customer: customerHandler.NewHandler(customerSvc, doctorSvc),
		Doctor:   doctorHandler.NewHandler(doctorSvc),
		Visit:    visitHandler.NewHandler(visitSvc),
		Product:  productHandler.NewHandler(productSvc),
		Order:    orderHandler.NewHandler(orderSvc),
		Report:   reportHandler.NewHandler(reportSvc),
		Calendar: calendarHandler.NewHandler(calendarSvc),
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server stopped")
}
