// Entry point for the HRMS console
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"hrms.console/internal/config"
	"hrms.console/internal/core"
	"hrms.console/internal/hrms"
	"hrms.console/internal/store"
	"hrms.console/internal/web"
	"hrms.console/internal/web/handler"
	"hrms.console/pkg/logger"
	"hrms.console/pkg/telemetry"
)

func main() {
	// Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Could not load configuration")
	}

	// Configure structured logging
	logger.Setup("hrms-console", cfg.IsLocalDev)

	// Configure OpenTelemetry Tracing
	shutdownTracer, err := telemetry.InitTracer("hrms-console", cfg.OTLPEndpoint, cfg.IsLocalDev)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to init tracer")
	}
	defer func() {
		_ = shutdownTracer(context.Background())
	}()

	// API client against the remote system of record
	client := hrms.NewHTTPClient(cfg.APIURL, time.Duration(cfg.HTTPTimeoutSeconds)*time.Second)
	log.Info().Str("api_url", cfg.APIURL).Msg("API client configured")

	// Per-view stores and the write-path coordinator
	employees := store.NewEmployeeStore(client)
	attendance := store.NewAttendanceView(client, employees)
	dashboard := store.NewDashboardStore(client)
	summaries := store.NewSummaryCache(client)
	coordinator := core.NewCoordinator(client, employees, attendance, summaries)

	console, err := handler.NewConsole(client, coordinator, employees, attendance, dashboard, summaries)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build console handlers")
	}

	// Setup router and server
	router := web.NewRouter(console)

	// Wrap the router with OpenTelemetry middleware to create spans for each request
	h := otelhttp.NewHandler(router, "console")

	serverAddr := ":" + cfg.ServerPort
	srv := &http.Server{
		Addr:    serverAddr,
		Handler: h,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", cfg.ServerPort).Msg("HRMS console starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down console...")

	// The context is used to inform the server it has 5 seconds to finish
	// the requests it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Console exiting")
}
