package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds everything the fulfillment services need at process start.
// Values come from the environment; main loads .env via godotenv first.
// The storage factory reads its own STORAGE_* variables separately.
type Config struct {
	DBDSN    string `validate:"required"`
	HTTPAddr string

	Timezone      string `validate:"required"`
	RetentionDays int    `validate:"min=1"`

	Stripe StripeConfig
	Inbox  InboxConfig
	Shippo ShippoConfig
	Sender SenderAddress
	SMTP   SMTPConfig
}

type StripeConfig struct {
	APIBase string `validate:"required,url"`
	Token   string `validate:"required"`

	// Inbox search filters for payment notifications.
	NotificationsFrom string `validate:"required,email"`
	SubjectFilter     string `validate:"required"`
}

type InboxConfig struct {
	APIBase string `validate:"required,url"`
	Token   string `validate:"required"`
	UserID  string `validate:"required"`
}

type ShippoConfig struct {
	APIBase        string `validate:"required,url"`
	Token          string `validate:"required"`
	CarrierAccount string `validate:"required"`
	LabelFileType  string `validate:"required"`

	// Pickup location fields required by the broker's pickups API.
	PickupLocationType string
	PickupBuildingType string
	PickupInstructions string
}

// SenderAddress is the fixed ship-from / pickup address.
type SenderAddress struct {
	Name        string `validate:"required"`
	Company     string
	Street1     string `validate:"required"`
	Street2     string
	City        string `validate:"required"`
	State       string `validate:"required"`
	Zip         string `validate:"required"`
	Country     string `validate:"required"`
	Phone       string
	Email       string `validate:"required,email"`
	Residential bool
}

type SMTPConfig struct {
	Host          string `validate:"required"`
	Port          string `validate:"required"`
	User          string
	Pass          string
	TLSMode       string // "", "tls", "starttls"
	SkipVerifyTLS bool

	From     string `validate:"required,email"`
	FromName string

	// Operator address for internal alerts (new local pickups).
	Operator string `validate:"required,email"`
}

func Load() (Config, error) {
	cfg := Config{
		DBDSN:    os.Getenv("DB_DSN"),
		HTTPAddr: envOr("HTTP_ADDR", ":8080"),

		Timezone:      envOr("TIMEZONE", "America/New_York"),
		RetentionDays: envIntOr("RETENTION_DAYS", 7),

		Stripe: StripeConfig{
			APIBase:           envOr("STRIPE_API_BASE", "https://api.stripe.com/v1"),
			Token:             os.Getenv("STRIPE_API_TOKEN"),
			NotificationsFrom: envOr("STRIPE_NOTIFICATIONS_EMAIL", "notifications@stripe.com"),
			SubjectFilter:     envOr("STRIPE_SUBJECT_FILTER", "Payment"),
		},
		Inbox: InboxConfig{
			APIBase: envOr("INBOX_API_BASE", "https://gmail.googleapis.com/gmail/v1"),
			Token:   os.Getenv("INBOX_API_TOKEN"),
			UserID:  envOr("INBOX_USER_ID", "me"),
		},
		Shippo: ShippoConfig{
			APIBase:            envOr("SHIPPO_API_BASE", "https://api.goshippo.com"),
			Token:              os.Getenv("SHIPPO_API_TOKEN"),
			CarrierAccount:     os.Getenv("SHIPPO_USPS_CARRIER_ACCOUNT"),
			LabelFileType:      envOr("SHIPPO_LABEL_TYPE", "PDF_4x6"),
			PickupLocationType: os.Getenv("PICKUP_LOCATION_TYPE"),
			PickupBuildingType: os.Getenv("PICKUP_BUILDING_TYPE"),
			PickupInstructions: os.Getenv("PICKUP_INSTRUCTIONS"),
		},
		Sender: SenderAddress{
			Name:        os.Getenv("SENDER_NAME"),
			Company:     os.Getenv("SENDER_COMPANY"),
			Street1:     os.Getenv("SENDER_STREET1"),
			Street2:     os.Getenv("SENDER_STREET2"),
			City:        os.Getenv("SENDER_CITY"),
			State:       os.Getenv("SENDER_STATE"),
			Zip:         os.Getenv("SENDER_ZIP"),
			Country:     envOr("SENDER_COUNTRY", "US"),
			Phone:       os.Getenv("SENDER_PHONE"),
			Email:       os.Getenv("SENDER_EMAIL"),
			Residential: envBool("SENDER_RESIDENTIAL"),
		},
		SMTP: SMTPConfig{
			Host:          os.Getenv("SMTP_HOST"),
			Port:          envOr("SMTP_PORT", "587"),
			User:          os.Getenv("SMTP_USER"),
			Pass:          os.Getenv("SMTP_PASS"),
			TLSMode:       envOr("SMTP_TLS_MODE", "starttls"),
			SkipVerifyTLS: envBool("SMTP_SKIP_VERIFY_TLS"),
			From:          envOr("EMAIL_FROM", "orders@dctransistor.com"),
			FromName:      envOr("EMAIL_FROM_NAME", "DCTransistor Orders"),
			Operator:      envOr("EMAIL_OPERATOR", "orders@dctransistor.com"),
		},
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return Config{}, fmt.Errorf("config: invalid TIMEZONE %q: %w", cfg.Timezone, err)
	}
	return cfg, nil
}

// Location resolves the configured timezone. Load already verified it parses.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envIntOr(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envBool(k string) bool {
	v, _ := strconv.ParseBool(os.Getenv(k))
	return v
}
