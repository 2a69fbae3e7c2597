package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.temporal.io/sdk/client"

	"github.com/samirrijal/accessroute/internal/adapters/fixture"
	"github.com/samirrijal/accessroute/internal/adapters/http"
	natsadapter "github.com/samirrijal/accessroute/internal/adapters/nats"
	"github.com/samirrijal/accessroute/internal/adapters/ors"
	"github.com/samirrijal/accessroute/internal/adapters/overpass"
	"github.com/samirrijal/accessroute/internal/adapters/postgres"
	"github.com/samirrijal/accessroute/internal/adapters/valkey"
	"github.com/samirrijal/accessroute/internal/adapters/wheelmap"
	"github.com/samirrijal/accessroute/internal/core/ports"
	"github.com/samirrijal/accessroute/internal/core/usecases"
	"github.com/samirrijal/accessroute/internal/pkg/config"
	"github.com/samirrijal/accessroute/internal/pkg/httpclient"
	"github.com/samirrijal/accessroute/internal/pkg/logging"
	"github.com/samirrijal/accessroute/internal/pkg/metrics"
	"github.com/samirrijal/accessroute/internal/pkg/telemetry"
	"github.com/samirrijal/accessroute/internal/workflows"
)

var version = "dev"

// providers bundles the external data sources used by the services.
type providers struct {
	directions ports.DirectionsProvider
	isochrones ports.IsochroneProvider
	lookup     ports.PlaceLookupProvider
	pois       ports.POIProvider
}

func newProviders(cfg config.ProvidersConfig) providers {
	if cfg.Offline {
		fx := fixture.New()
		return providers{directions: fx, isochrones: fx, lookup: fx, pois: fx}
	}

	orsClient := ors.NewClient(
		httpclient.New("openrouteservice", cfg.OpenRouteService.Timeout),
		cfg.OpenRouteService.BaseURL, cfg.OpenRouteService.APIKey,
	)
	return providers{
		directions: orsClient,
		isochrones: orsClient,
		lookup: wheelmap.NewClient(
			httpclient.New("wheelmap", cfg.Wheelmap.Timeout),
			cfg.Wheelmap.BaseURL, cfg.Wheelmap.APIKey, cfg.Wheelmap.Limit,
		),
		pois: overpass.NewClient(httpclient.New("overpass", cfg.Overpass.Timeout), cfg.Overpass.URL),
	}
}

func main() {
	cfg, err := config.Load("accessroute-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPEndpoint)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	deps := &http.Dependencies{
		DB:      db,
		Offline: cfg.Providers.Offline,
		Version: version,
	}

	// Cache
	var cache ports.CacheService
	if vc, err := valkey.New(cfg.Valkey.Addr); err != nil {
		slog.Warn("valkey unavailable, caching disabled", "error", err)
	} else {
		defer vc.Close()
		cache = vc
		deps.Cache = vc
	}

	// NATS change feed
	var events ports.EventPublisher
	if pub, err := natsadapter.NewPublisher(cfg.NATS.URL); err != nil {
		slog.Warn("nats unavailable, change events disabled", "error", err)
	} else {
		defer pub.Close()
		events = pub
		deps.NATS = pub
	}

	// Temporal
	var scheduler ports.HazardScheduler
	tc, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
		Logger:    logging.Temporal(slog.Default()),
	})
	if err != nil {
		slog.Warn("temporal unavailable, hazard expiry disabled", "error", err)
	} else {
		defer tc.Close()
		scheduler = workflows.NewScheduler(tc, cfg.Temporal.TaskQueue,
			cfg.Community.HazardExpiry(), cfg.Community.HazardExpiryMinUpvotes)
	}

	// Use cases
	p := newProviders(cfg.Providers)
	deps.Routes = usecases.NewRouteService(p.directions, p.isochrones, cache)
	deps.Places = usecases.NewPlaceService(p.lookup, p.pois, cache)
	deps.Hazards = usecases.NewHazardService(postgres.NewHazardRepo(db), events, scheduler, cache)
	deps.Forum = usecases.NewForumService(postgres.NewForumRepo(db), events, cache)

	// Cross-instance cache invalidation
	if events != nil {
		sub, err := natsadapter.NewSubscriber(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats subscriber unavailable", "error", err)
		} else {
			defer sub.Close()
			if err := sub.SubscribeChanges(ctx, usecases.ChangeInvalidator(deps.Hazards, deps.Forum)); err != nil {
				slog.Warn("change subscription failed", "error", err)
			}
		}
	}

	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				metrics.UpdateDBPoolMetrics(db.Stat())
			}
		}
	}()

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    256 * 1024,
		AppName:      "AccessRoute API",
	})
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173",
		AllowMethods:     "GET,POST,PATCH,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, If-None-Match",
		ExposeHeaders:    "ETag, Link, Location, Deprecation, Sunset",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr, "offline", cfg.Providers.Offline)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
