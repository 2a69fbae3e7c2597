package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/samirrijal/accessroute/internal/adapters/postgres"
	"github.com/samirrijal/accessroute/internal/pkg/config"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: migrate <up>")
	}

	cfg, err := config.Load("accessroute-migrate")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	switch os.Args[1] {
	case "up":
		applied, err := db.Migrate(ctx)
		if err != nil {
			log.Fatalf("migrate: %v", err)
		}
		for _, f := range applied {
			fmt.Printf("OK  %s\n", f)
		}
		log.Println("all migrations applied")
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
}
