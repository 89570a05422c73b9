package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/orderbridge/orderbridge-backend/api/routes"
	"github.com/orderbridge/orderbridge-backend/internal/orders"
	"github.com/orderbridge/orderbridge-backend/internal/recon"
	"github.com/orderbridge/orderbridge-backend/internal/returns"
	"github.com/orderbridge/orderbridge-backend/pkg/config"
	"github.com/orderbridge/orderbridge-backend/pkg/db"
	"github.com/orderbridge/orderbridge-backend/pkg/logger"
	"github.com/orderbridge/orderbridge-backend/pkg/metrics"
	"github.com/orderbridge/orderbridge-backend/pkg/migrate"
	"github.com/orderbridge/orderbridge-backend/pkg/zinc"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "api"

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	zincClient, err := zinc.NewClient(context.Background(), cfg.Zinc, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create upstream client", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	sweepMetrics := metrics.NewSweepMetrics(registry)

	ordersRepo := orders.NewRepository(dbClient.DB())
	returnsRepo := returns.NewRepository(dbClient.DB())

	engine, err := recon.NewEngine(recon.EngineParams{
		Logger:  logg,
		Orders:  ordersRepo,
		Returns: returnsRepo,
		Events:  recon.NewEventRepository(dbClient.DB()),
		Gateway: zincClient,
		Metrics: sweepMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create reconciliation engine", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(orders.ServiceParams{
		Logger:     logg,
		Repo:       ordersRepo,
		Gateway:    zincClient,
		Reconciler: engine,
		Zinc:       cfg.Zinc,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	returnsService, err := returns.NewService(returns.ServiceParams{
		Logger:  logg,
		Repo:    returnsRepo,
		Orders:  ordersRepo,
		Gateway: zincClient,
		Zinc:    cfg.Zinc,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create returns service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:   cfg,
			Logger:   logg,
			DB:       dbClient,
			Orders:   ordersService,
			Returns:  returnsService,
			Webhooks: engine,
			Sweeper:  engine,
			Metrics:  registry,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
