package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"taskboard/internal/notify"
	"taskboard/internal/server"
	"taskboard/internal/storage/sqlite"
	"taskboard/internal/tasks"
	"taskboard/internal/util"
)

func main() {
	addrFlag := flag.String("addr", util.EnvOrDefault("TASKBOARD_ADDR", ":"+util.EnvOrDefault("PORT", "8000")), "HTTP listen address")
	dbFlag := flag.String("db", util.EnvOrDefault("TASKBOARD_DB_PATH", ""), "Path to sqlite database file; empty keeps tasks in memory only")
	staticFlag := flag.String("static", util.EnvOrDefault("TASKBOARD_STATIC_DIR", "frontend"), "Directory with the frontend")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	logger.Info("Fluid Task Board API v1.0.0")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	storeOpts := []tasks.Option{tasks.WithLogger(logger)}
	if *dbFlag != "" {
		repo, err := sqlite.Open(*dbFlag, logger)
		if err != nil {
			logger.Error("unable to open database", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer repo.Close()
		storeOpts = append(storeOpts, tasks.WithRepository(repo))
	} else {
		logger.Info("no database configured; tasks are kept in memory only")
	}

	store := tasks.New(storeOpts...)
	if err := store.Load(ctx); err != nil {
		logger.Error("unable to restore tasks", slog.String("error", err.Error()))
		os.Exit(1)
	}

	mailCfg := notify.Config{
		Host:     util.EnvOrDefault("SMTP_HOST", "smtp.gmail.com"),
		Port:     util.EnvIntOrDefault("SMTP_PORT", 465),
		Username: os.Getenv("GMAIL_USER"),
		Password: os.Getenv("GMAIL_APP_PASSWORD"),
	}
	if !mailCfg.Configured() {
		logger.Warn("email relay not configured; confirmation requests will fail")
	}
	mailer := notify.NewMailer(mailCfg, logger)

	srv := server.New(store, mailer, logger, *staticFlag)

	httpServer := &http.Server{
		Addr:              *addrFlag,
		Handler:           srv.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting server", slog.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped unexpectedly", slog.String("error", err.Error()))
		stop()
		os.Exit(1)
	}

	logger.Info("server stopped")
}
