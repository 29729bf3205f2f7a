package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/angelmondragon/storefront/api/controllers"
	"github.com/angelmondragon/storefront/api/routes"
	"github.com/angelmondragon/storefront/api/views"
	"github.com/angelmondragon/storefront/internal/address"
	"github.com/angelmondragon/storefront/internal/auth"
	"github.com/angelmondragon/storefront/internal/cart"
	"github.com/angelmondragon/storefront/internal/catalog"
	"github.com/angelmondragon/storefront/internal/checkout"
	"github.com/angelmondragon/storefront/internal/orders"
	"github.com/angelmondragon/storefront/internal/users"
	"github.com/angelmondragon/storefront/internal/wishlist"
	"github.com/angelmondragon/storefront/pkg/auth/session"
	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/db"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/metrics"
	"github.com/angelmondragon/storefront/pkg/migrate"
	"github.com/angelmondragon/storefront/pkg/redis"
	"github.com/angelmondragon/storefront/pkg/storage"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "storefront stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, dbClient.Close()) }()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, redisClient.Close()) }()

	sessions, err := session.NewManager(redisClient, cfg.Session)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	conn := dbClient.DB()
	productRepo := catalog.NewRepository(conn)
	cartRepo := cart.NewRepository(conn)
	addressRepo := address.NewRepository(conn)

	authSvc, err := auth.NewService(auth.ServiceParams{
		DB:             dbClient,
		Users:          users.NewRepository(conn),
		Sessions:       sessions,
		SessionConfig:  cfg.Session,
		PasswordConfig: cfg.Password,
		SetupSecret:    cfg.Admin.SetupSecret,
		Logger:         logg,
	})
	if err != nil {
		return err
	}
	catalogSvc, err := catalog.NewService(productRepo, logg)
	if err != nil {
		return err
	}
	cartSvc, err := cart.NewService(cartRepo, productRepo)
	if err != nil {
		return err
	}
	wishlistSvc, err := wishlist.NewService(wishlist.ServiceParams{
		Repo:     wishlist.NewRepository(conn),
		Products: productRepo,
	})
	if err != nil {
		return err
	}
	addressSvc, err := address.NewService(dbClient, addressRepo)
	if err != nil {
		return err
	}
	checkoutSvc, err := checkout.NewService(cartSvc, addressSvc)
	if err != nil {
		return err
	}
	ordersSvc, err := orders.NewService(orders.ServiceParams{
		DB:        dbClient,
		Orders:    orders.NewRepository(conn),
		Cart:      cartRepo,
		Addresses: addressRepo,
		Products:  productRepo,
		Metrics:   metrics.NewOrderMetrics(reg),
		Logger:    logg,
	})
	if err != nil {
		return err
	}

	if cfg.FeatureFlags.SeedCatalog {
		inserted, err := catalogSvc.Seed(ctx)
		if err != nil {
			return err
		}
		logg.Info(logg.WithField(ctx, "inserted", inserted), "catalog seeded")
	}

	images, err := storage.NewLocal(cfg.Uploads, logg)
	if err != nil {
		return err
	}
	renderer, err := views.New("/static")
	if err != nil {
		return err
	}

	handler := routes.NewRouter(cfg, logg, routes.Deps{
		Views:     renderer,
		Images:    images,
		RateStore: redisClient,
		Gatherer:  reg,
		Metrics:   metrics.NewHTTPMetrics(reg),
		Pingers: map[string]controllers.Pinger{
			"db":    dbClient,
			"redis": redisClient,
		},
		Auth:      authSvc,
		Catalog:   catalogSvc,
		Cart:      cartSvc,
		Wishlist:  wishlistSvc,
		Addresses: addressSvc,
		Checkout:  checkoutSvc,
		Orders:    ordersSvc,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverCtx := logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "addr": server.Addr})
	logg.Info(serverCtx, "starting storefront server")

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logg.Info(serverCtx, "shutting down storefront server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
