package main

import (
	"log"
	"os"

	"github.com/Tusharjain-19/split-payment/internal/model"
	"github.com/Tusharjain-19/split-payment/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting GORM Migration...")

	// 3. Pre-Migration: Extensions (Things GORM AutoMigrate doesn't do)
	log.Println("Step 1: Setting up Extensions...")

	setupSQL := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	}

	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	// 4. AutoMigrate All Models
	log.Println("Step 2: Running AutoMigrate...")

	models := []interface{}{
		&model.MasterTransaction{},
		&model.SubTransaction{},
		&model.Refund{},
		&model.AuditLog{},
		&model.EmailLog{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// 5. Post-Migration: Indexes the hot paths rely on
	log.Println("Step 3: Creating Indexes...")

	postMigrationSQL := []string{
		// Sweeper scan: PENDING masters past their deadline
		`CREATE INDEX IF NOT EXISTS idx_master_transactions_status_expires_at ON master_transactions (status, expires_at);`,
		// Resolve pass: all legs of one master
		`CREATE INDEX IF NOT EXISTS idx_sub_transactions_master_txn_id ON sub_transactions (master_txn_id);`,
		// Audit trail lookup per master
		`CREATE INDEX IF NOT EXISTS idx_audit_logs_master_txn_id ON audit_logs (master_txn_id);`,
	}

	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute post-migration SQL: %v. Continuing...", err)
		}
	}

	log.Println("✅ Migration completed successfully")
}
