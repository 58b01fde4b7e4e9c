package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/text/language"

	"github.com/DPlauder/meisterplan/internal/config"
	"github.com/DPlauder/meisterplan/internal/db"
	"github.com/DPlauder/meisterplan/internal/gateway"
	"github.com/DPlauder/meisterplan/internal/logging"
	"github.com/DPlauder/meisterplan/internal/observe"
	"github.com/DPlauder/meisterplan/internal/session"
	"github.com/DPlauder/meisterplan/internal/store"
	"github.com/DPlauder/meisterplan/internal/web"
	"github.com/DPlauder/meisterplan/internal/web/templates"
)

const pruneInterval = time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	auditStore := store.NewAuditStore(database, logger)
	if cfg.AuditRetention > 0 {
		go pruneAudit(ctx, auditStore, cfg.AuditRetention, logger)
	}

	sessions, closeSessions, err := newSessionStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize session store", "error", err)
		return
	}
	defer closeSessions()

	collation, err := language.Parse(cfg.Collation)
	if err != nil {
		logger.Warn("unknown collation, using German", "collation", cfg.Collation, "error", err)
		collation = language.German
	}

	client := gateway.NewClient(cfg.GatewayURL, cfg.GatewayTimeout)
	server := web.NewServer(
		client,
		sessions,
		auditStore,
		observe.Multi{observe.NewLogger(logger), auditStore},
		templates.FS,
		web.Options{Collation: collation, ResetDelay: cfg.FormResetDelay},
		logger,
	)

	logger.Info("using gateway", "url", client.BaseURL())
	if err := server.ListenAndServe(ctx, cfg.ListenAddr); err != nil {
		logger.Error("server error", "error", err)
	}
}

func newSessionStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (session.Store, func(), error) {
	switch cfg.SessionBackend {
	case "redis":
		rdb, err := session.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("using redis session backend")
		return session.NewRedisStore(rdb, cfg.SessionTTL), func() {
			if err := rdb.Close(); err != nil {
				logger.Error("failed to close redis", "error", err)
			}
		}, nil
	default:
		logger.Info("using in-memory session backend")
		return session.NewMemoryStore(cfg.SessionTTL), func() {}, nil
	}
}

// pruneAudit drops audit events older than retention until ctx is done.
func pruneAudit(ctx context.Context, s *store.AuditStore, retention time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()
	for {
		n, err := s.Prune(ctx, time.Now().Add(-retention))
		if err != nil {
			logger.Error("failed to prune audit events", "error", err)
		} else if n > 0 {
			logger.Info("pruned audit events", "count", n)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
