package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/BruksfildServices01/ninsaude-scheduler/internal/audit"
	"github.com/BruksfildServices01/ninsaude-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/ninsaude-scheduler/internal/db"
	"github.com/BruksfildServices01/ninsaude-scheduler/internal/infra/ninsaude"
	"github.com/BruksfildServices01/ninsaude-scheduler/internal/logger"
	"github.com/BruksfildServices01/ninsaude-scheduler/internal/metrics"
	"github.com/BruksfildServices01/ninsaude-scheduler/internal/routes"
)

const shutdownTimeout = 15 * time.Second

func main() {

	cfg := config.Load()

	log := logger.New(cfg.LogLevel)
	defer log.Sync()

	if cfg.InsecureWebhookSecret() {
		log.Warn("WEBHOOK_SECRET is unset or uses the default value; /webhook is not protected")
	}

	// ======================================================
	// 🔧 INFRA
	// ======================================================
	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		log.Fatal("failed to connect to database", "error", err)
	}

	var sink audit.Sink = audit.NewLogSink(log)
	if db != nil {
		sink = audit.NewGormSink(db)
		log.Info("audit trail stored in database")
	}
	dispatcher := audit.NewDispatcher(sink, log, cfg.AuditQueueSize)

	m := metrics.New(prometheus.DefaultRegisterer)

	client, err := ninsaude.New(ninsaude.Config{
		BaseURL:      cfg.NinsaudeBaseURL,
		RefreshToken: cfg.NinsaudeRefreshToken,
		Account:      cfg.NinsaudeAccount,
		Timeout:      cfg.NinsaudeTimeout,
	}, log, m)
	if err != nil {
		log.Fatal("invalid ninsaude configuration", "error", err)
	}

	// ======================================================
	// 🌐 HTTP
	// ======================================================
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	routes.RegisterRoutes(r, routes.Deps{
		Config:  cfg,
		Logger:  log,
		Metrics: m,
		Gateway: client,
		Audit:   dispatcher,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		log.Info("server running", "addr", cfg.Addr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server", "error", err)
		}
	}()

	// ======================================================
	// 🛑 SHUTDOWN
	// ======================================================
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown", "error", err)
	}
	if err := dispatcher.Close(ctx); err != nil {
		log.Error("audit queue not drained", "error", err)
	}
	if err := dbpkg.Close(db); err != nil {
		log.Error("database close", "error", err)
	}
}
