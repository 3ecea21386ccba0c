package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anujdalvisuperk/calling-assistant/internal/accounts"
	"github.com/anujdalvisuperk/calling-assistant/internal/auth"
	"github.com/anujdalvisuperk/calling-assistant/internal/calls"
	"github.com/anujdalvisuperk/calling-assistant/internal/config"
	"github.com/anujdalvisuperk/calling-assistant/internal/httpapi"
	"github.com/anujdalvisuperk/calling-assistant/internal/reporting"
	"github.com/anujdalvisuperk/calling-assistant/internal/tasks"
	"github.com/anujdalvisuperk/calling-assistant/internal/whatsapp"
	"github.com/anujdalvisuperk/calling-assistant/pkg/logger"
	"github.com/anujdalvisuperk/calling-assistant/pkg/utils"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Local development convenience; a missing .env is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	authManager, err := auth.NewManager(cfg.Auth)
	if err != nil {
		log.Error("auth init failed", "err", err)
		os.Exit(1)
	}

	db, err := utils.OpenPostgres(rootCtx, "pgx", cfg.PostgresDSN(), utils.PostgresPoolConfig{})
	if err != nil {
		log.Error("postgres init failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	rdb, err := utils.OpenRedis(rootCtx, utils.RedisConfig{Addr: cfg.RedisAddr()})
	if err != nil {
		log.Error("redis init failed", "err", err)
		os.Exit(1)
	}
	defer rdb.Close()

	// Service wiring
	taskRepo := tasks.NewSQLRepo(db)
	lease := tasks.NewRedisLease(rdb, 0)
	dispatcher := whatsapp.NewClient(cfg.Wati)

	handlers := httpapi.Handlers{
		Accounts:  accounts.NewService(accounts.NewSQLRepo(db), authManager),
		Tasks:     tasks.NewService(taskRepo, lease),
		Calls:     calls.NewService(taskRepo, calls.NewSQLStore(db), dispatcher, lease),
		Reporting: reporting.NewService(reporting.NewSQLRepo(db)),
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))

	registerRoutes(r, handlers, authManager, db)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
}
