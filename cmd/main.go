package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"marksentry/internal/config"
	"marksentry/internal/database"
	"marksentry/internal/exporter"
	"marksentry/internal/handler"
	"marksentry/internal/logger"
	"marksentry/internal/metrics"
	"marksentry/internal/service"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	envFile := flag.String("env", ".env", "optional dotenv file")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	log := logger.New(cfg.Log, os.Stdout)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := database.InitDB(cfg.DB)
	if err != nil {
		return err
	}

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// Initialize services
	sessions := service.NewSessionService(cfg.RollPrefix, cfg.SessionTTL, log)
	sessions.OnChange(func(active int) { m.ActiveSessions.Set(float64(active)) })
	visits := service.NewVisitCounter(database.NewKVStore(db))
	encoder := exporter.New(cfg.SheetName)

	// Initialize handlers
	exportHandler := handler.NewExportHandler(sessions, encoder, cfg.ExportFileName, m, log)
	r := handler.NewRouter(handler.Handlers{
		Form:    handler.NewFormHandler(sessions, visits, exportHandler, m, log),
		Records: handler.NewRecordHandler(sessions, m, log),
		Export:  exportHandler,
		Stream:  handler.NewStreamHandler(sessions, log),
		Visits:  handler.NewVisitHandler(visits, log),
		Metrics: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})

	h := handlers.CORS(
		handlers.AllowedOrigins(cfg.AllowedOrigins),
		handlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
		handlers.AllowCredentials(),
	)(r)
	h = handlers.RecoveryHandler(handlers.RecoveryLogger(logger.RecoveryLogger{Logger: log}))(h)

	go sessions.Run(ctx, cfg.SweepInterval)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server running", slog.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	log.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
