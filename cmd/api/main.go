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
	"github.com/rs/zerolog"

	"github.com/medfront/ehr-admin-api/internal/config"
	"github.com/medfront/ehr-admin-api/internal/ehr"
	"github.com/medfront/ehr-admin-api/internal/handler"
	allergyHandler "github.com/medfront/ehr-admin-api/internal/handler/allergy"
	appointmentHandler "github.com/medfront/ehr-admin-api/internal/handler/appointment"
	authHandler "github.com/medfront/ehr-admin-api/internal/handler/auth"
	conditionHandler "github.com/medfront/ehr-admin-api/internal/handler/condition"
	dashboardHandler "github.com/medfront/ehr-admin-api/internal/handler/dashboard"
	medicationHandler "github.com/medfront/ehr-admin-api/internal/handler/medication"
	patientHandler "github.com/medfront/ehr-admin-api/internal/handler/patient"
	vitalsHandler "github.com/medfront/ehr-admin-api/internal/handler/vitals"
	"github.com/medfront/ehr-admin-api/internal/middleware"
	"github.com/medfront/ehr-admin-api/internal/model"
	"github.com/medfront/ehr-admin-api/internal/router"
	allergyService "github.com/medfront/ehr-admin-api/internal/service/allergy"
	appointmentService "github.com/medfront/ehr-admin-api/internal/service/appointment"
	authService "github.com/medfront/ehr-admin-api/internal/service/auth"
	conditionService "github.com/medfront/ehr-admin-api/internal/service/condition"
	medicationService "github.com/medfront/ehr-admin-api/internal/service/medication"
	patientService "github.com/medfront/ehr-admin-api/internal/service/patient"
	vitalService "github.com/medfront/ehr-admin-api/internal/service/vital"
	"github.com/medfront/ehr-admin-api/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := logger.NewLogger(&logger.Config{
		Level:  level,
		Pretty: cfg.Logging.Pretty,
	}).Zerolog()

	if err := cfg.EHR.ValidateCredentials(); err != nil {
		log.Fatal().Err(err).Msg("invalid upstream configuration")
	}
	if cfg.EHR.MockMode() {
		log.Warn().Msg("mock mode active; upstream calls are served from canned data")
	}

	if err := model.RegisterValidations(); err != nil {
		log.Fatal().Err(err).Msg("failed to register validation rules")
	}

	registry := prometheus.NewRegistry()

	// Upstream plumbing: one authenticator for both the service account and
	// the cookie flow, one token provider for the clinical services.
	authenticator := ehr.NewAuthenticator(cfg.EHR, log)
	tokens := ehr.NewTokenProvider(cfg.EHR, log)
	client := ehr.NewClient(cfg.EHR, tokens, cfg.Breaker, ehr.NewMetrics(registry), log)

	fhirBase := cfg.EHR.FHIRBaseURL()
	patientSvc := patientService.NewService(client, fhirBase)
	medicationSvc := medicationService.NewService(client, fhirBase)
	allergySvc := allergyService.NewService(client, fhirBase)
	conditionSvc := conditionService.NewService(client, fhirBase)
	vitalSvc := vitalService.NewService(client, fhirBase)
	appointmentSvc := appointmentService.NewService()
	sessionSvc := authService.NewService(cfg.Session)

	if cfg.EHR.MockMode() {
		appointmentSvc.Seed(12)
	}

	secure := cfg.EHR.Production()
	mock := cfg.EHR.MockMode()
	r := router.New(
		router.Config{
			RateLimitEnabled:  cfg.RateLimit.Enabled,
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
			RequestTimeout:    cfg.Server.RequestTimeout,
			CORS:              corsConfig(cfg.Security),
			Production:        secure,
		},
		log,
		registry,
		handler.NewHandler(nil),
		authHandler.NewHandler(authenticator, sessionSvc, secure),
		patientHandler.NewHandler(patientSvc, authenticator, mock, secure),
		medicationHandler.NewHandler(medicationSvc),
		allergyHandler.NewHandler(allergySvc),
		conditionHandler.NewHandler(conditionSvc),
		vitalsHandler.NewHandler(vitalSvc),
		appointmentHandler.NewHandler(appointmentSvc),
		dashboardHandler.NewHandler(patientSvc, appointmentSvc, mock),
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}

func corsConfig(sec config.SecurityConfig) middleware.CORSConfig {
	cors := middleware.DefaultCORSConfig()
	if len(sec.AllowedOrigins) > 0 {
		cors.AllowOrigins = sec.AllowedOrigins
	}
	return cors
}
