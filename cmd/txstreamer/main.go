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

	"golang.org/x/sync/errgroup"

	"tx_streamer/internal/adapters/api"
	"tx_streamer/internal/adapters/discovery"
	"tx_streamer/internal/adapters/rpc"
	"tx_streamer/internal/adapters/storage/memory/discovery_state"
	"tx_streamer/internal/adapters/storage/memory/subscription"
	"tx_streamer/internal/config"
	"tx_streamer/internal/core/application"
	"tx_streamer/internal/logger"
	"tx_streamer/pkg/txstream"
)

const shutdownTimeout = 15 * time.Second

// main is entry point of application.
func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file (default: config/config.yml)")
	flag.Parse()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	appLogger, err := logger.NewAppLogger(cfg.Logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	logMsg := "Configuration loaded successfully"
	if *configFile != "" {
		appLogger.Info(logMsg, "configFile", *configFile)
	} else {
		appLogger.Info(logMsg, "configFile", config.DefaultConfigFilePath+" (default)")
	}

	// A zero timeout leaves attempts bounded only by the caller context.
	httpClient := &http.Client{Timeout: cfg.RPC.RequestTimeout()}

	pool := rpc.NewPool(cfg.RPC.StaticEndpoints)
	rpcClient, err := rpc.NewClient(pool, httpClient, appLogger)
	if err != nil {
		appLogger.Error("Failed to create RPC client", "error", err)
		os.Exit(1)
	}
	fetcher, err := rpc.NewBlockFetcher(rpcClient, appLogger)
	if err != nil {
		appLogger.Error("Failed to create block fetcher", "error", err)
		os.Exit(1)
	}

	subRepo := subscription.NewInMemorySubscriptionRepo()
	stateRepo := discovery_state.NewInMemoryDiscoveryStateRepo()

	streamService, err := application.NewStreamService(fetcher, subRepo, appLogger, cfg.Stream)
	if err != nil {
		appLogger.Error("Failed to create stream service", "error", err)
		os.Exit(1)
	}
	var streamer txstream.Streamer = streamService

	apiServer, err := api.NewServer(streamer, api.NewAuthenticator(cfg.Auth), pool, subRepo, stateRepo, appLogger, &cfg.Server)
	if err != nil {
		appLogger.Error("Failed to create API server", "error", err)
		os.Exit(1)
	}

	var refresher *discovery.Refresher
	if cfg.Discovery.Enabled {
		refresher, err = newRefresher(cfg, pool, rpcClient, stateRepo, appLogger)
		if err != nil {
			appLogger.Error("Failed to create endpoint discovery", "error", err)
			os.Exit(1)
		}
	} else {
		appLogger.Info("Endpoint discovery disabled, using static endpoints", "endpoints", pool.Size())
	}

	if err := gracefulShutdown(appLogger, apiServer, refresher); err != nil {
		appLogger.Error("Application stopped with error", "error", err)
		os.Exit(1)
	}

	appLogger.Info("Application shut down gracefully.")
}

// newRefresher wires the discovery sources. Static endpoints always take part so
// they survive a refresh.
func newRefresher(
	cfg *config.Config,
	pool *rpc.Pool,
	rpcClient *rpc.Client,
	stateRepo *discovery_state.InMemoryDiscoveryStateRepo,
	appLogger logger.AppLogger,
) (*discovery.Refresher, error) {
	listClient := &http.Client{Timeout: cfg.RPC.RequestTimeout()}
	chainlist, err := discovery.NewChainlistSource(cfg.Discovery.ChainlistURL, cfg.Discovery.ChainID, listClient)
	if err != nil {
		return nil, err
	}
	sources := []discovery.Source{discovery.NewStaticSource(cfg.RPC.StaticEndpoints), chainlist}

	var prober *discovery.Prober
	if cfg.Discovery.Probe {
		prober, err = discovery.NewProber(rpcClient, cfg.Discovery.ProbeTimeout(), cfg.Discovery.MaxConcurrentProbes, appLogger)
		if err != nil {
			return nil, err
		}
	}

	return discovery.NewRefresher(pool, stateRepo, prober, cfg.Discovery.RefreshInterval(), appLogger, sources...)
}

// gracefulShutdown runs the API server and endpoint discovery until a signal
// arrives or one of them fails, then stops both.
func gracefulShutdown(appLogger logger.AppLogger, apiServer *api.Server, refresher *discovery.Refresher) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	if refresher != nil {
		g.Go(func() error {
			return refresher.Run(gctx)
		})
	}

	g.Go(func() error {
		if err := apiServer.Start(); err != nil {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		if ctx.Err() != nil {
			appLogger.Info("Shutting down due to OS signal...")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := apiServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server shutdown error: %w", err)
		}
		return nil
	})

	return g.Wait()
}
