package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/chemtrack/chemical-tracker/internal/api"
	"github.com/chemtrack/chemical-tracker/internal/api/metrics"
	"github.com/chemtrack/chemical-tracker/internal/core/ports"
	"github.com/chemtrack/chemical-tracker/internal/core/service"
	"github.com/chemtrack/chemical-tracker/internal/infrastructure/chain"
	redisdb "github.com/chemtrack/chemical-tracker/internal/infrastructure/db/redis"
	"github.com/chemtrack/chemical-tracker/internal/infrastructure/geo"
	"github.com/chemtrack/chemical-tracker/internal/infrastructure/memory"
	"github.com/chemtrack/chemical-tracker/internal/pkg/config"
	"github.com/chemtrack/chemical-tracker/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title           ChemTrack Dashboard API
// @version         1.0
// @description     Role-gated dashboard API driving the ChemicalTracker ledger contract.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Supervisor loop. Each iteration is one application generation:
	// logout and a network change both tear the generation down and
	// rebuild it from scratch, which resets every session and rebinds
	// the wallet. A signal ends the loop.
	for {
		reason, err := run(ctx, cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("server failed")
		}
		if reason == "" {
			log.Info().Msg("server stopped")
			return
		}
		metrics.ReloadsTotal.WithLabelValues(reason).Inc()
		log.Info().Str("reason", reason).Msg("reloading application")
	}
}

// reloader is the channel-backed ReloadRequester handed to the services.
// The first requested reason wins; later requests within the same
// generation are dropped because the teardown is already underway.
type reloader struct {
	ch chan string
}

func newReloader() *reloader {
	return &reloader{ch: make(chan string, 1)}
}

func (r *reloader) RequestReload(reason string) {
	select {
	case r.ch <- reason:
	default:
	}
}

// run builds and serves one application generation. It returns the
// reload reason when a rebuild was requested, or "" on signal-driven
// shutdown.
func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) (string, error) {
	genCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	reload := newReloader()

	// --- Batch read cache (optional) ---
	var (
		rdb   *goredis.Client
		cache ports.BatchCache
	)
	if cfg.Redis.Addr != "" {
		client, err := redisdb.Connect(genCtx, redisdb.Config{
			Addr: cfg.Redis.Addr,
			DB:   cfg.Redis.DB,
		})
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, batch cache disabled")
		} else {
			rdb = client
			cache = redisdb.NewBatchCache(client, cfg.Redis.CacheTTL)
			defer func() { _ = client.Close() }()
		}
	}

	// --- Wallet provider (optional) ---
	var (
		provider ports.Provider
		events   ports.ProviderEvents
		factory  service.BindingFactory
	)
	if cfg.Chain.RPCURL != "" {
		client := chain.NewClient(cfg.Chain.RPCURL, 0)
		chainProvider := chain.NewProvider(client)
		watcher := chain.NewWatcher(chainProvider, cfg.Chain.PollInterval, log)
		watcher.Start(genCtx)

		provider = chainProvider
		events = watcher
		factory = func(contractAddress string) ports.ContractBinding {
			return chain.NewBinding(client, contractAddress)
		}
	}

	// --- Core services ---
	wallet := service.NewWalletService(provider, events, factory, reload, cfg.Chain.ContractAddress, log)
	if err := wallet.Initialize(genCtx); err != nil {
		log.Warn().Err(err).Msg("wallet bootstrap incomplete, remote calls will fail")
	}

	transferGas := ports.GasPolicy{
		Limit:    cfg.Chain.TransferGasLimit,
		PriceWei: cfg.Chain.TransferGasPriceWei(),
	}
	batches := service.NewBatchService(wallet, cache, transferGas, log)

	registry := memory.NewSessionRegistry()
	sessions := service.NewSessionService(registry, reload, cfg.JWTSecret, cfg.SessionTTL, log)

	locator := geo.NewLocator(cfg.Geo.LookupURL, cfg.Geo.Timeout)

	e := api.NewRouter(api.Dependencies{
		SessionService:  sessions,
		SessionRegistry: registry,
		BatchService:    batches,
		Locator:         locator,
		Provider:        provider,
		Redis:           rdb,
		JWTSecret:       cfg.JWTSecret,
		Log:             log,
	})

	serveErr := make(chan error, 1)
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server listening")

	shutdown := func() {
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()
		if err := e.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown failed")
		}
	}

	select {
	case err := <-serveErr:
		return "", err
	case <-ctx.Done():
		shutdown()
		return "", nil
	case reason := <-reload.ch:
		shutdown()
		registry.Reset()
		return reason, nil
	}
}
