// cmd/console-server — 管理台主入口。
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/multi-agent/agent-console/internal/agent"
	"github.com/multi-agent/agent-console/internal/config"
	"github.com/multi-agent/agent-console/internal/console"
	"github.com/multi-agent/agent-console/internal/database"
	"github.com/multi-agent/agent-console/internal/session"
	"github.com/multi-agent/agent-console/internal/store"
	"github.com/multi-agent/agent-console/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// .env 缺失不是错误, 容器环境直接用环境变量
	_ = godotenv.Load()

	cfg := config.Load()
	logger.Init(cfg.AppEnv)
	logger.SetLevel(cfg.LogLevel)
	if cfg.LogDir != "" {
		if err := logger.InitWithFile(cfg.LogDir); err != nil {
			logger.Warn("file logging disabled", logger.FieldError, err.Error())
		}
		defer logger.ShutdownFileHandler()
	}

	pool, err := database.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("database init failed", logger.FieldError, err.Error())
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, "./migrations"); err != nil {
		logger.Fatal("migration failed", logger.FieldError, err.Error())
	}

	stores := &console.Stores{
		Session: store.NewSessionStore(pool),
		Skill:   store.NewSkillStore(pool),
		MCP:     store.NewMCPServerStore(pool),
		Preset:  store.NewAgentPresetStore(pool),
	}
	if n, err := store.SeedDefaultPresets(ctx, stores.Preset); err != nil {
		logger.Warn("preset seeding failed", logger.FieldError, err.Error())
	} else if n > 0 {
		logger.Info("default presets seeded", logger.FieldCount, n)
	}

	client := agent.NewClient(cfg)
	hub := console.NewHub(cfg.WSSendBuffer, cfg.ConsoleDevMode)
	sessions := session.NewManager(session.ClientTransport{Client: client}, stores.Session, hub.Observer())
	srv := console.NewServer(cfg, client, sessions, stores, hub)

	httpSrv := &http.Server{
		Addr:    cfg.ConsoleListenAddr,
		Handler: srv.Engine(),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("console starting", logger.FieldAddr, cfg.ConsoleListenAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("console exited", logger.FieldError, err.Error())
	}
}
