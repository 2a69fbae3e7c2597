package main

import (
	"context"
	"log"
	"log/slog"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	natsadapter "github.com/samirrijal/accessroute/internal/adapters/nats"
	"github.com/samirrijal/accessroute/internal/adapters/postgres"
	"github.com/samirrijal/accessroute/internal/core/ports"
	"github.com/samirrijal/accessroute/internal/core/usecases"
	"github.com/samirrijal/accessroute/internal/pkg/config"
	"github.com/samirrijal/accessroute/internal/pkg/logging"
	"github.com/samirrijal/accessroute/internal/workflows"
)

func main() {
	cfg, err := config.Load("accessroute-worker")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	db, err := postgres.New(context.Background(), cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
		Logger:    logging.Temporal(slog.Default()),
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})

	w.RegisterWorkflow(workflows.HazardExpiryWorkflow)
	// Expiry resolutions are announced so API instances drop their caches.
	var events ports.EventPublisher
	if pub, err := natsadapter.NewPublisher(cfg.NATS.URL); err != nil {
		slog.Warn("nats unavailable, expiry events disabled", "error", err)
	} else {
		defer pub.Close()
		events = pub
	}

	w.RegisterActivity(&workflows.HazardActivities{
		Hazards: usecases.NewHazardService(postgres.NewHazardRepo(db), events, nil, nil),
	})

	slog.Info("hazard expiry worker started", "task_queue", cfg.Temporal.TaskQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}
