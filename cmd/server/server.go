package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/quipper/poc/housejobs/internal/config"
	jobsHandler "github.com/quipper/poc/housejobs/internal/controller/http/jobs"
	slackPlatform "github.com/quipper/poc/housejobs/internal/platform/slack"
	peopleSqlite "github.com/quipper/poc/housejobs/internal/repositories/people/sqlite"
	"github.com/quipper/poc/housejobs/internal/roster"
	"github.com/quipper/poc/housejobs/pkg/common/correlation"
	"github.com/quipper/poc/housejobs/pkg/common/instancelock"
	"github.com/quipper/poc/housejobs/pkg/common/logger"
	"github.com/quipper/poc/housejobs/pkg/common/peoplecache"
)

// Slack callbacks are small; the largest is a view submission with full state.
const maxBodySize = 1 << 20

func serve(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	logger.Info("starting house jobs bot")

	// One process owns the store and its cache.
	lock, err := instancelock.Acquire(cfg.SQLitePath)
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("release lock: %v", err)
		}
	}()

	repo, err := peopleSqlite.NewSQLiteRepo(cfg.SQLitePath)
	if err != nil {
		return fmt.Errorf("init people repo: %w", err)
	}
	defer repo.Disconnect()

	svc := roster.NewService(repo, peoplecache.New())
	if err := svc.Load(context.Background()); err != nil {
		return err
	}

	h := jobsHandler.NewHandler(
		svc,
		slackPlatform.NewClient(cfg.BotToken, cfg.APIURL),
		correlation.NewSigner(cfg.SigningSecret, 0),
		jobsHandler.Options{
			SigningSecret: cfg.SigningSecret,
			Command:       cfg.Command,
			AllowedUsers:  cfg.AllowedUsers(),
		},
	)
	router := chi.NewRouter()
	router.Use(middleware.RequestSize(maxBodySize))
	router.Use(middleware.Recoverer)
	router.Mount("/", h.Router())

	addr := ":" + cfg.Port
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening on %s (command %s)", addr, cfg.Command)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)
	select {
	case <-stop:
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	}
	logger.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown: %v", err)
	}
	logger.Info("server stopped")
	return nil
}
