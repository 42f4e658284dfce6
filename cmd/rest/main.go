package main

import (
	"context"
	"fmt"
	"log"

	"github.com/Tusharjain-19/split-payment/internal/bootstrap"
	"github.com/Tusharjain-19/split-payment/internal/config"
	"github.com/Tusharjain-19/split-payment/internal/server"
	"github.com/Tusharjain-19/split-payment/internal/tracer"
	"github.com/Tusharjain-19/split-payment/pkg/database"

	"github.com/robfig/cron/v3"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)
	defer container.Close()

	// 4. Start Background Services
	go func() {
		log.Println("Background: Starting Consumer Service...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()

	// 5. Schedule the expiry sweep
	c := cron.New()
	_, err = c.AddFunc(fmt.Sprintf("@every %s", cfg.Payment.SweepInterval), func() {
		if _, err := container.ExpiryWorker.Sweep(context.Background()); err != nil {
			log.Printf("Background Expiry Sweep Error: %v", err)
		}
	})
	if err != nil {
		log.Panicf("Unable to schedule expiry sweep: %v", err)
	}
	c.Start()
	defer c.Stop()

	// 6. Initialize Server
	srv := server.New(cfg, container)

	// 7. Run Server
	log.Fatal(srv.Run())
}
