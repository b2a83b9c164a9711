package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/Alwanly/fleet-dashboard/internal/config"
	"github.com/Alwanly/fleet-dashboard/internal/mockapi/handler"
	"github.com/Alwanly/fleet-dashboard/pkg/database"
	"github.com/Alwanly/fleet-dashboard/pkg/deps"
	"github.com/Alwanly/fleet-dashboard/pkg/logger"
	"github.com/Alwanly/fleet-dashboard/pkg/middleware"
)

func main() {
	log, err := logger.NewLoggerFromEnv("mockapi")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	log.Info("starting mock fleet api")

	cfg, err := config.LoadMockAPIConfig()
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}

	log.Info("configuration loaded",
		logger.String("server_addr", cfg.ServerAddr),
		logger.String("database_path", cfg.DatabasePath),
		logger.Int("seed_nodes", cfg.SeedNodes),
		logger.Duration("heartbeat", cfg.Heartbeat),
	)

	db, err := database.NewSQLiteDB(cfg.DatabasePath)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize database")
	}

	if err := database.RunMigrations(db); err != nil {
		log.WithError(err).Fatal("failed to migrate database")
	}
	if err := database.SeedInitialData(db, cfg.SeedNodes); err != nil {
		log.WithError(err).Fatal("failed to seed database")
	}
	log.Info("database ready", logger.String("path", cfg.DatabasePath))

	app := fiber.New(fiber.Config{
		AppName:               "Mock Fleet API",
		DisableStartupMessage: true,
		ErrorHandler:          middleware.ErrorHandler(log),
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.CanonicalLoggerMiddleware(log, "/health"))

	h := handler.NewHandler(deps.App{
		Fiber:    app,
		Database: db,
		Logger:   log,
	})

	ctx, cancel := context.WithCancel(context.Background())
	gErr, gCtx := errgroup.WithContext(ctx)

	gErr.Go(func() error {
		log.Info("mock fleet api is running", logger.String("address", cfg.ServerAddr))
		if err := app.Listen(cfg.ServerAddr); err != nil {
			cancel()
			return err
		}
		return nil
	})

	if cfg.Heartbeat > 0 {
		gErr.Go(func() error {
			ticker := time.NewTicker(cfg.Heartbeat)
			defer ticker.Stop()
			for {
				select {
				case <-gCtx.Done():
					return nil
				case now := <-ticker.C:
					if err := h.Repo.Heartbeat(gCtx, now.UTC()); err != nil && gCtx.Err() == nil {
						log.WithError(err).Warn("heartbeat failed")
					}
				}
			}
		})
	}

	gErr.Go(func() error {
		<-gCtx.Done()

		if err := app.Shutdown(); err != nil {
			log.WithError(err).Error("failed to shutdown fiber app")
			return err
		}

		conn, err := db.DB()
		if err != nil {
			log.WithError(err).Error("failed to get database connection")
			return err
		}
		if err := conn.Close(); err != nil {
			log.WithError(err).Error("failed to close database")
			return err
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
		log.WithError(err).Fatal("mock fleet api encountered an error")
	}

	log.Info("mock fleet api stopped gracefully")
}
