package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/household-portal/internal/calendar"
	"github.com/example/household-portal/internal/config"
	httptransport "github.com/example/household-portal/internal/http"
	"github.com/example/household-portal/internal/logging"
	"github.com/example/household-portal/internal/persistence/sqlite"
	"github.com/example/household-portal/internal/schedule"
)

func main() {
	configPath := flag.String("config", "portal.yaml", "path to the YAML configuration file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.New("info").Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.LogLevel)

	pool, err := sqlite.NewConnectionPool(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := pool.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := sqlite.Migrate(context.Background(), pool); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	stores := calendar.Stores{
		Tasks:          sqlite.NewTaskRepository(pool),
		Leave:          sqlite.NewLeaveRepository(pool),
		ChildLogs:      sqlite.NewChildLogRepository(pool),
		ImportantDates: sqlite.NewImportantDateRepository(pool),
		Schedules:      sqlite.NewScheduleRepository(pool),
	}

	aggregator := calendar.NewAggregator(stores, time.Now, logger)
	scheduleService := schedule.NewService(stores.Schedules, nil, time.Now, logger)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Calendar:  httptransport.NewCalendarHandler(aggregator, cfg.Sources, logger),
		Schedules: httptransport.NewScheduleHandler(scheduleService, logger),
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
		},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("portal API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}
