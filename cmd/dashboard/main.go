package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/Alwanly/fleet-dashboard/internal/config"
	"github.com/Alwanly/fleet-dashboard/internal/dashboard/handler"
	"github.com/Alwanly/fleet-dashboard/pkg/deps"
	"github.com/Alwanly/fleet-dashboard/pkg/logger"
	"github.com/Alwanly/fleet-dashboard/pkg/middleware"
	"github.com/Alwanly/fleet-dashboard/pkg/poll"
	"github.com/Alwanly/fleet-dashboard/pkg/pubsub"
	"github.com/Alwanly/fleet-dashboard/pkg/retry"
	"github.com/Alwanly/fleet-dashboard/pkg/visibility"
)

func main() {
	feedsFile := pflag.StringP("config", "c", "", "YAML file with per-feed interval/enabled overrides (overrides FEEDS_FILE)")
	addr := pflag.String("addr", "", "listen address (overrides DASHBOARD_ADDR)")
	fleetURL := pflag.String("fleet-api", "", "fleet admin API base URL (overrides FLEET_API_URL)")
	pflag.Parse()

	log, err := logger.NewLoggerFromEnv("dashboard")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	log.Info("starting dashboard service")

	cfg, err := config.LoadDashboardConfigWith(config.DashboardOverrides{
		Addr:        *addr,
		FleetAPIURL: *fleetURL,
		FeedsFile:   *feedsFile,
	})
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}

	log.Info("configuration loaded",
		logger.String("server_addr", cfg.ServerAddr),
		logger.String("fleet_api_url", cfg.FleetAPIURL),
		logger.Duration("request_timeout", cfg.RequestTimeout),
		logger.String("resume", string(cfg.Resume)),
		logger.Bool("coalesce_feeds", cfg.CoalesceFeeds),
		logger.Int("feed_overrides", len(cfg.Feeds)),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d := deps.App{
		Logger: log,
		Poller: poll.NewGroup(log.Component("poller")),
	}

	var source visibility.Source
	if cfg.RedisEnabled() {
		pub, err := connectRedis(ctx, cfg, log)
		if err != nil {
			log.WithError(err).Error("failed to initialize redis pub/sub, visibility is local only",
				logger.String("mode", "local"))
		} else {
			d.Pub = pub
			source = visibility.NewPubSubSource(pub, cfg.VisibilityChannel, log)
			log.Info("redis pub/sub initialized",
				logger.String("host", cfg.RedisHost),
				logger.Int("port", cfg.RedisPort),
				logger.String("channel", cfg.VisibilityChannel))
		}
	} else {
		log.Info("no redis configuration provided; visibility is local only")
	}

	d.Signal = visibility.NewSignal(source, log.Component("visibility"))
	visibility.SetDefault(d.Signal)

	app := fiber.New(fiber.Config{
		AppName:               "Fleet Dashboard",
		DisableStartupMessage: true,
		ErrorHandler:          middleware.ErrorHandler(log),
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.CanonicalLoggerMiddleware(log, "/health"))
	d.Fiber = app

	h, err := handler.NewHandler(d, cfg)
	if err != nil {
		log.WithError(err).Fatal("failed to build dashboard")
	}

	gErr, gCtx := errgroup.WithContext(ctx)

	if err := h.Board.Start(gCtx); err != nil {
		log.WithError(err).Fatal("failed to start polling")
	}

	gErr.Go(func() error {
		log.Info("dashboard service is running", logger.String("address", cfg.ServerAddr))
		if err := app.Listen(cfg.ServerAddr); err != nil {
			cancel()
			return err
		}
		return nil
	})

	gErr.Go(func() error {
		<-gCtx.Done()

		if err := h.Board.Stop(); err != nil {
			log.WithError(err).Warn("failed to stop polling cleanly")
		}

		if err := app.Shutdown(); err != nil {
			log.WithError(err).Error("failed to shutdown fiber app")
			return err
		}

		if d.Pub != nil {
			if err := d.Pub.Close(); err != nil {
				log.WithError(err).Warn("failed to close redis pub/sub")
			}
		}
		return nil
	})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Info("shutdown signal received")
		cancel()
	}()

	if err := gErr.Wait(); err != nil {
		log.WithError(err).Fatal("dashboard service encountered an error")
	}

	log.Info("dashboard service stopped gracefully")
}

func connectRedis(ctx context.Context, cfg *config.DashboardConfig, log *logger.CanonicalLogger) (pubsub.PubSub, error) {
	var pub pubsub.PubSub
	err := retry.WithExponentialBackoff(ctx, retry.Config{
		MaxRetries:     4,
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     5 * time.Second,
		Jitter:         true,
		OnRetry: func(attempt int, wait time.Duration, err error) {
			log.Warn("redis not reachable, retrying",
				logger.Int("attempt", attempt),
				logger.Duration("wait", wait),
				logger.String("error", err.Error()))
		},
	}, func(ctx context.Context) error {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		p, err := pubsub.NewRedisPubSub(pingCtx, pubsub.RedisConfig{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, log)
		if err != nil {
			return err
		}
		pub = p
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("redis %s:%d: %w", cfg.RedisHost, cfg.RedisPort, err)
	}
	return pub, nil
}
