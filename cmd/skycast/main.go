package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "skycast/internal/api/http"
	"skycast/internal/app"
	"skycast/internal/config"
	"skycast/internal/geo"
	"skycast/internal/store"
	"skycast/internal/weather"
	"skycast/internal/weather/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Local settings and recent-search database.
	local, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open local store: %v", err)
	}
	defer local.Close()

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	provider := providers.NewOpenWeatherClient(httpClient, cfg.OpenWeatherAPIKey)
	service := weather.NewService(provider, time.Local)
	locator := geo.NewIPLocator(httpClient, cfg.GeolocateTimeout)

	ctrl, err := app.NewController(service, provider, locator, local, app.LogRenderer{}, app.Options{
		RefreshInterval: cfg.RefreshInterval,
		SuggestDebounce: cfg.SuggestDebounce,
		DefaultLocation: weather.Coordinates{Lat: cfg.DefaultLat, Lon: cfg.DefaultLon},
	})
	if err != nil {
		log.Fatalf("failed to build controller: %v", err)
	}
	defer ctrl.Close()

	// Startup: prefer the device location, fall back to the default city.
	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	if _, err := ctrl.UseDeviceLocation(startupCtx); err != nil {
		log.Printf("INFO: device location unavailable, using default: %v", err)
		if _, err := ctrl.Refresh(startupCtx); err != nil {
			log.Printf("ERROR: initial fetch failed: %v", err)
		}
	}
	cancelStartup()

	if ctrl.Settings().AutoRefresh {
		if err := ctrl.StartAutoRefresh(); err != nil {
			log.Printf("ERROR: failed to start auto refresh: %v", err)
		}
	}

	// Basic app configuration
	fa := fiber.New(fiber.Config{
		AppName:               "skycast",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	fa.Use(logger.New())
	fa.Use(recover.New())

	// Basic health endpoint
	fa.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "skycast",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(fa, ctrl)

	go func() {
		if err := fa.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := fa.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
