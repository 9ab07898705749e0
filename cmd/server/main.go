// Command server runs the laundry order API.
//
// @title                       Laundry Order API
// @version                     1.0
// @description                 Order management for a laundry shop: customers, services, orders and their status lifecycle.
// @BasePath                    /api
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"github.com/mylaundry/order-system/internal/api"
	"github.com/mylaundry/order-system/internal/api/handler"
	"github.com/mylaundry/order-system/internal/api/metrics"
	"github.com/mylaundry/order-system/internal/core/ports"
	"github.com/mylaundry/order-system/internal/core/service"
	"github.com/mylaundry/order-system/internal/infrastructure/db/file"
	"github.com/mylaundry/order-system/internal/infrastructure/db/mongo"
	"github.com/mylaundry/order-system/internal/infrastructure/db/postgres"
	rediscache "github.com/mylaundry/order-system/internal/infrastructure/db/redis"
	"github.com/mylaundry/order-system/internal/infrastructure/queue"
	"github.com/mylaundry/order-system/internal/pkg/config"
	"github.com/mylaundry/order-system/pkg/logger"
)

const shutdownGrace = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

// stores groups the repositories of the selected backend.
type stores struct {
	users   ports.UserRepository
	catalog ports.CatalogRepository
	orders  ports.OrderRepository
	events  ports.EventRepository
	check   handler.DependencyCheck
	close   func()
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "laundry-api",
	})
	log.Info().Str("env", cfg.Env).Str("store", cfg.Store.Driver).Msg("starting")

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.close()

	checks := []handler.DependencyCheck{st.check}

	catalog := st.catalog
	if cfg.Redis.Addr != "" {
		rdb, err := rediscache.Connect(ctx, rediscache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, catalog cache disabled")
		} else {
			defer rdb.Close()
			catalog = rediscache.NewCatalogCache(st.catalog, rdb, cfg.Redis.CacheTTL, logger.Component("catalog_cache"))
			checks = append(checks, handler.DependencyCheck{
				Name: "redis",
				Ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
			})
		}
	}

	if err := service.EnsureCatalog(ctx, catalog, log); err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	if err := service.EnsureAdmin(ctx, st.users, service.AdminSeed{
		Username: cfg.Admin.Username,
		Password: cfg.Admin.Password,
		FullName: cfg.Admin.FullName,
		Cost:     cfg.Auth.BcryptCost,
	}, log); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	history := service.NewHistoryService(st.orders, st.events, logger.Component("history"))
	dispatcher := queue.NewDispatcher(cfg.HistoryWorkers, history, logger.Component("dispatcher")).
		WithDepthGauge(m.QueueDepth())
	dispatcher.Start(ctx)

	tokens := service.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authService := service.NewAuthService(st.users, tokens, cfg.Auth.BcryptCost, logger.Component("auth")).
		WithLoginRecorder(m)
	orderService := service.NewOrderService(st.orders, catalog, st.users, st.events, logger.Component("orders")).
		WithPublisher(dispatcher).
		WithRecorder(m)

	e := api.NewRouter(api.Deps{
		Auth:     authService,
		Orders:   orderService,
		Verifier: tokens,
		Checks:   checks,
		Registry: reg,
		Logger:   logger.Component("http"),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			dispatcher.Stop()
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}

	// Handlers are drained, so nothing enqueues any more.
	dispatcher.Stop()
	log.Info().Msg("stopped")
	return nil
}

func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	switch cfg.Store.Driver {
	case config.DriverMongo:
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, fmt.Errorf("mongo: %w", err)
		}
		if err := mongo.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, fmt.Errorf("mongo indexes: %w", err)
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")
		return &stores{
			users:   mongo.NewUserRepository(db),
			catalog: mongo.NewCatalogRepository(db),
			orders:  mongo.NewOrderRepository(db),
			events:  mongo.NewEventRepository(db),
			check: handler.DependencyCheck{
				Name: "mongodb",
				Ping: func(ctx context.Context) error { return client.Ping(ctx, nil) },
			},
			close: func() { _ = client.Disconnect(context.Background()) },
		}, nil

	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("postgres schema: %w", err)
		}
		log.Info().Msg("connected to postgres")
		return &stores{
			users:   postgres.NewUserRepository(pool),
			catalog: postgres.NewCatalogRepository(pool),
			orders:  postgres.NewOrderRepository(pool),
			events:  postgres.NewEventRepository(pool),
			check:   handler.DependencyCheck{Name: "postgres", Ping: pool.Ping},
			close:   pool.Close,
		}, nil

	default:
		store, err := file.Open(cfg.Store.DataDir)
		if err != nil {
			return nil, fmt.Errorf("file store: %w", err)
		}
		log.Info().Str("dir", store.Dir()).Msg("using flat-file store")
		return &stores{
			users:   file.NewUserRepository(store),
			catalog: file.NewCatalogRepository(store),
			orders:  file.NewOrderRepository(store),
			events:  file.NewEventRepository(store),
			check: handler.DependencyCheck{
				Name: "store",
				Ping: func(context.Context) error { return store.Ping() },
			},
			close: func() {},
		}, nil
	}
}
