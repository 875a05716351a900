package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN environment variable is required")
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get DB: %v", err)
	}

	sql := `
	CREATE TABLE IF NOT EXISTS orders (
	  id CHAR(36) NOT NULL,
	  payment_id VARCHAR(64) NULL,
	  receipt_number VARCHAR(64) NOT NULL DEFAULT '',
	  name VARCHAR(255) NOT NULL DEFAULT '',
	  email VARCHAR(255) NOT NULL DEFAULT '',
	  product VARCHAR(255) NOT NULL DEFAULT '',
	  subtotal_cents INT NOT NULL DEFAULT 0,
	  shipping_cents INT NOT NULL DEFAULT 0,
	  total_cents INT NOT NULL DEFAULT 0,
	  shipping_method VARCHAR(64) NOT NULL DEFAULT '',
	  zip VARCHAR(16) NOT NULL DEFAULT '',
	  email_sharing_consent VARCHAR(8) NOT NULL DEFAULT '',
	  order_date DATETIME(3) NULL,
	  ship_date DATETIME(3) NULL,
	  receive_date DATETIME(3) NULL,
	  label_url VARCHAR(512) NOT NULL DEFAULT '',
	  label_transaction_id VARCHAR(64) NOT NULL DEFAULT '',
	  tracking_url VARCHAR(512) NOT NULL DEFAULT '',
	  pickup_status VARCHAR(32) NOT NULL DEFAULT '',
	  pickup_confirmation VARCHAR(64) NOT NULL DEFAULT '',
	  local_pickup VARCHAR(8) NOT NULL DEFAULT '',
	  created_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
	  updated_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3) ON UPDATE CURRENT_TIMESTAMP(3),
	  PRIMARY KEY (id),
	  UNIQUE KEY ux_orders_payment_id (payment_id),
	  KEY ix_orders_label_transaction_id (label_transaction_id),
	  KEY ix_orders_pickup_status (pickup_status)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;

	CREATE TABLE IF NOT EXISTS intake_events (
	  id CHAR(36) NOT NULL,
	  payment_id VARCHAR(64) NOT NULL,
	  charge_id VARCHAR(64) NOT NULL DEFAULT '',
	  payload_json JSON NULL,
	  received_at DATETIME(3) NOT NULL,
	  processed_at DATETIME(3) NULL,
	  process_err VARCHAR(512) NULL,
	  created_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
	  PRIMARY KEY (id),
	  UNIQUE KEY ux_intake_events_payment_id (payment_id),
	  KEY ix_intake_events_charge_id (charge_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;
	`

	if _, err := sqlDB.Exec(sql); err != nil {
		log.Fatalf("Failed to create tables: %v", err)
	}

	log.Println("✓ orders table created successfully")
	log.Println("✓ intake_events table created successfully")
}
