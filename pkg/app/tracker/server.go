// Package tracker implements app.Runner for the gas tracker process.
package tracker

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/chainsafe/ethgas/pkg/alerts"
	"github.com/chainsafe/ethgas/pkg/api"
	"github.com/chainsafe/ethgas/pkg/app/httpserver"
	"github.com/chainsafe/ethgas/pkg/auth"
	"github.com/chainsafe/ethgas/pkg/config"
	"github.com/chainsafe/ethgas/pkg/ethereum"
	"github.com/chainsafe/ethgas/pkg/history"
	"github.com/chainsafe/ethgas/pkg/networks"
	"github.com/chainsafe/ethgas/pkg/pgutil"
	"github.com/chainsafe/ethgas/pkg/pricefeed"
	trackerengine "github.com/chainsafe/ethgas/pkg/tracker"
	"github.com/chainsafe/ethgas/pkg/webhooks"
)

const (
	defaultGracefulShutdownTimeout = 30 * time.Second
	defaultHTTPIdleTimeout         = 60 * time.Second
)

// Server holds configuration for the tracker process.
type Server struct {
	cfg *config.Config
}

// NewServer initializes a new tracker Server.
func NewServer(cfg *config.Config) *Server {
	return &Server{cfg: cfg}
}

// Run starts the tracker engine and the HTTP API server.
// It blocks until an OS shutdown signal is received or a fatal server
// error occurs.
func (s *Server) Run() error {
	if s.cfg == nil {
		return fmt.Errorf("nil config")
	}
	cfg := s.cfg

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting gas tracker",
		zap.Strings("networks", cfg.Tracker.Networks),
		zap.String("history_backend", cfg.Tracker.History.Backend))

	store, err := s.openStore(logger)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	readers, err := s.buildReaders(logger)
	if err != nil {
		return err
	}

	priceOpts := []pricefeed.Option{pricefeed.WithCacheTTL(cfg.Pricefeed.CacheTTL)}
	if cfg.Pricefeed.BaseURL != "" {
		priceOpts = append(priceOpts, pricefeed.WithBaseURL(cfg.Pricefeed.BaseURL))
	}
	priceClient := pricefeed.NewClient(priceOpts...)

	watcher := s.buildWatcher(logger)

	engine, err := trackerengine.NewEngine(&cfg.Tracker, readers, priceClient, store, watcher, logger)
	if err != nil {
		return fmt.Errorf("create tracker engine: %w", err)
	}
	if err := engine.Start(ctx); err != nil {
		return fmt.Errorf("start tracker engine: %w", err)
	}
	defer engine.Stop()

	apiOpts := []api.Option{api.WithLogger(logger)}
	if cfg.Auth.Enabled {
		validator, err := auth.NewValidator(cfg.Auth.Secret, cfg.Auth.Issuer)
		if err != nil {
			return fmt.Errorf("create auth validator: %w", err)
		}
		apiOpts = append(apiOpts, api.WithValidator(validator))
		logger.Info("Auth enabled for mutating endpoints", zap.String("issuer", cfg.Auth.Issuer))
	}

	router := api.NewServer(engine, store, watcher, apiOpts...).Router()
	httpServer := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  defaultHTTPIdleTimeout,
	}

	return httpserver.ServeAndWait(ctx, logger, httpServer, defaultGracefulShutdownTimeout)
}

func (s *Server) openStore(logger *zap.Logger) (history.Store, error) {
	switch s.cfg.Tracker.History.Backend {
	case config.HistoryBackendPostgres:
		db, err := pgutil.ConnectDB(&s.cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connect history db: %w", err)
		}
		logger.Info("History database connection established",
			zap.String("host", s.cfg.Database.Host),
			zap.String("database", s.cfg.Database.Database))
		return history.NewPGStoreOwned(db), nil
	default:
		path := s.cfg.Tracker.History.Path
		if path == "" {
			path = history.DefaultFilePath()
		}
		store, err := history.NewFileStore(path)
		if err != nil {
			return nil, fmt.Errorf("open history file: %w", err)
		}
		logger.Info("History file opened", zap.String("path", path))
		return store, nil
	}
}

func (s *Server) buildReaders(logger *zap.Logger) (map[string]trackerengine.ChainReader, error) {
	readers := make(map[string]trackerengine.ChainReader, len(s.cfg.Tracker.Networks))
	for _, id := range s.cfg.Tracker.Networks {
		net, err := networks.Get(id)
		if err != nil {
			return nil, err
		}
		if override, ok := s.cfg.Tracker.RPCOverrides[id]; ok {
			net, err = net.WithRPCURL(override)
			if err != nil {
				return nil, err
			}
		}
		client, err := ethereum.NewClient(net.RPCURL,
			ethereum.WithNetwork(id),
			ethereum.WithLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("create rpc client for %s: %w", id, err)
		}
		readers[id] = client
	}
	return readers, nil
}

func (s *Server) buildWatcher(logger *zap.Logger) *alerts.Watcher {
	opts := []alerts.WatcherOption{alerts.WithLogger(logger)}
	if len(s.cfg.Alerts.Webhooks) > 0 {
		sender := webhooks.NewSender(s.cfg.Alerts.Webhooks, webhooks.WithLogger(logger))
		opts = append(opts, alerts.WithNotifier(sender))
		logger.Info("Webhook notifications enabled", zap.Int("urls", len(s.cfg.Alerts.Webhooks)))
	}

	watcher := alerts.NewWatcher(opts...)
	for _, rule := range s.cfg.Alerts.Rules {
		added := watcher.Add(alerts.Rule{Network: rule.Network, Threshold: rule.Threshold})
		logger.Info("Seeded alert rule",
			zap.String("rule_id", added.ID.String()),
			zap.String("network", added.Network),
			zap.Float64("threshold", added.Threshold))
	}
	return watcher
}
