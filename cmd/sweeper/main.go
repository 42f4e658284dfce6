// Standalone expiry sweeper. The REST process runs the same sweep on a cron
// schedule; this binary exists for one-off runs and for deployments that want
// the sweep isolated from the API.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Tusharjain-19/split-payment/internal/bootstrap"
	"github.com/Tusharjain-19/split-payment/internal/config"
	"github.com/Tusharjain-19/split-payment/pkg/database"
)

func main() {
	cfg := config.Load()

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	container := bootstrap.NewContainer(gormDB, cfg)
	defer container.Close()

	// Notifications still need the consumer; an expired master with settled
	// legs sends a failure email like any other compensation.
	go func() {
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()

	log.Printf("✅ Expiry sweeper running (interval: %s)", cfg.Payment.SweepInterval)

	ticker := time.NewTicker(cfg.Payment.SweepInterval)
	defer ticker.Stop()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-ticker.C:
			swept, err := container.ExpiryWorker.Sweep(context.Background())
			if err != nil {
				log.Printf("Sweep Error: %v", err)
				continue
			}
			if swept > 0 {
				log.Printf("Sweep: handled %d expired master(s)", swept)
			}
		case <-stop:
			log.Println("Expiry sweeper shutting down")
			return
		}
	}
}
