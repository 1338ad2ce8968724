package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/chirayupatel9/palm-cafe-pos/internal/cafeapi"
	"github.com/chirayupatel9/palm-cafe-pos/internal/pos"
	"github.com/chirayupatel9/palm-cafe-pos/pkg/config"
	"github.com/chirayupatel9/palm-cafe-pos/pkg/enums"
	"github.com/chirayupatel9/palm-cafe-pos/pkg/logger"
	"github.com/chirayupatel9/palm-cafe-pos/pkg/metrics"
	"github.com/chirayupatel9/palm-cafe-pos/pkg/redis"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "pos-terminal"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "pos-terminal",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	role, err := enums.ParseOperatorRole(cfg.Terminal.OperatorRole)
	if err != nil {
		logg.Error(context.Background(), "unknown operator role", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	backend, err := cafeapi.New(cfg.Server, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to build backend client", err)
		os.Exit(1)
	}

	engineMetrics := metrics.NewEngineMetrics(prometheus.DefaultRegisterer)

	session, err := pos.New(pos.Params{
		Tenant:    cfg.Terminal.Tenant,
		Operator:  pos.Operator{Name: cfg.Terminal.OperatorName, Role: role},
		Quoter:    backend,
		Directory: backend,
		OrdersAPI: backend,
		KV:        redisClient,
		Pricing:   cfg.Pricing,
		Session:   cfg.Session,
		Lookup:    cfg.Lookup,
		Logger:    logg,
		Metrics:   engineMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to build order session", err)
		os.Exit(1)
	}
	defer session.Close()

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"tenant":   cfg.Terminal.Tenant,
		"operator": cfg.Terminal.OperatorName,
	})

	if err := session.Rehydrate(ctx); err != nil {
		logg.Warn(ctx, "session rehydrate incomplete")
	}

	options := backend.PaymentMethods(ctx)
	logg.Info(logg.WithField(ctx, "payment_methods", len(options)), "terminal ready")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logg.Info(ctx, "terminal shutting down")
}
