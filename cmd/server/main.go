package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"courier-tracking-service/internal/adapters/cache"
	"courier-tracking-service/internal/adapters/events"
	"courier-tracking-service/internal/adapters/locationcheck"
	"courier-tracking-service/internal/adapters/repositories"
	"courier-tracking-service/internal/adapters/routing"
	"courier-tracking-service/internal/api"
	"courier-tracking-service/internal/config"
	"courier-tracking-service/internal/mapview"
	"courier-tracking-service/internal/platform/db"
	"courier-tracking-service/internal/platform/logger"
	"courier-tracking-service/internal/platform/redisx"
	"courier-tracking-service/internal/ports"
	"courier-tracking-service/internal/services/sampler"
	"courier-tracking-service/internal/services/tracking"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// main is the application composition root.
// It wires concrete adapters (Postgres, Redis, RabbitMQ, route APIs) behind
// ports and runs the HTTP server until SIGINT/SIGTERM.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zlog, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zlog.Sync() }()
	zap.ReplaceGlobals(zlog)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, zlog); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, zlog *zap.Logger) error {
	sqlDB, err := db.Open(cfg.Database.URL)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := repositories.InitSchema(sqlDB); err != nil {
		return err
	}

	orders := repositories.NewPostgresOrderRepository(sqlDB, zlog)
	shared := repositories.NewPostgresSharedLocationRepository(sqlDB, zlog)

	var locations ports.CourierLocationStore = orders
	if cfg.Redis.Addr != "" {
		client, err := redisx.Open(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return err
		}
		defer client.Close()
		locations = repositories.NewRedisLocationStore(client, 24*time.Hour, zlog)
		zlog.Info("courier locations stored in redis", zap.String("addr", cfg.Redis.Addr))
	}

	var publisher ports.EventPublisher = events.NopPublisher{}
	if cfg.RabbitMQ.URL != "" {
		p, err := events.DialRabbitPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, zlog)
		if err != nil {
			return err
		}
		defer p.Close()
		publisher = p
		zlog.Info("location events enabled", zap.String("exchange", cfg.RabbitMQ.Exchange))
	}

	routes, geocoder, err := buildRouting(cfg.Routing, sqlDB, zlog)
	if err != nil {
		return err
	}

	var checker ports.LocationChecker = locationcheck.NewStoreChecker(shared)
	if cfg.Check.URL != "" {
		checker = locationcheck.NewHTTPChecker(cfg.Check.URL, zlog)
	}

	renderOpts := mapview.DefaultOptions()
	renderOpts.PaddingRatio = cfg.Tracking.BoundsPadding

	sessions := tracking.NewRegistry(tracking.Deps{
		Orders:    orders,
		Locations: locations,
		Routes:    routes,
		Log:       zlog,
	}, renderOpts, cfg.Tracking.SessionIdleTTL)
	defer sessions.Close()

	samplers := sampler.NewManager(sampler.Deps{
		Orders: orders,
		Store:  locations,
		Events: publisher,
		Log:    zlog,
	}, cfg.Tracking.LinkPushInterval, cfg.Tracking.SamplerIdleTTL)
	defer samplers.Close()

	router := api.NewRouter(api.Deps{
		Orders:   orders,
		Sessions: sessions,
		Samplers: samplers,
		Checker:  checker,
		Shared:   shared,
		Geocoder: geocoder,
		Log:      zlog,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		zlog.Info("server listening", zap.String("addr", srv.Addr), zap.String("route_provider", cfg.Routing.Provider))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		zlog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// buildRouting selects the route backend. Reverse geocoding needs an ORS
// key and stays disabled without one.
func buildRouting(
	cfg config.RoutingConfig,
	sqlDB *sql.DB,
	zlog *zap.Logger,
) (ports.RouteProvider, ports.ReverseGeocoder, error) {
	var (
		routes   ports.RouteProvider
		geocoder ports.ReverseGeocoder
	)

	if cfg.ORSAPIKey != "" {
		geocodeCache := cache.NewSQLReverseGeocodeCache(sqlDB, zlog)
		ors, err := routing.NewORSClient(cfg.ORSAPIKey, cfg.ORSBaseURL, cfg.ORSProfile, geocodeCache, zlog)
		if err != nil {
			return nil, nil, err
		}
		geocoder = ors
		if cfg.Provider == "ors" {
			routes = ors
		}
	}

	if cfg.Provider == "function" {
		fn, err := routing.NewFunctionClient(cfg.FunctionURL, cfg.FunctionKey, zlog)
		if err != nil {
			return nil, nil, err
		}
		routes = fn
	}

	if routes == nil {
		return nil, nil, errors.New("no route provider configured")
	}
	return routes, geocoder, nil
}
