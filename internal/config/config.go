package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string
	TallyURL    string
	ListenAddr  string

	// SellerState decides the CGST/SGST vs IGST split on invoices.
	SellerState string

	// TallyCompany overrides the company book vouchers are imported into.
	TallyCompany string

	AutoSyncIntervalMinutes int
	RetryIntervalMinutes    int
	LogCleanupIntervalHours int
	ShutdownTimeoutSeconds  int

	GCSBucket     string
	PubSubProject string
	PubSubTopic   string

	LogLevel string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error in production)
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	tallyURL := os.Getenv("TALLY_URL")
	if tallyURL == "" {
		return nil, fmt.Errorf("TALLY_URL is required")
	}

	sellerState := os.Getenv("SELLER_STATE")
	if sellerState == "" {
		fmt.Println("Warning: SELLER_STATE not set, all invoices will be treated as interstate")
	}

	return &Config{
		DatabaseURL:             dbURL,
		TallyURL:                tallyURL,
		ListenAddr:              envOr("LISTEN_ADDR", ":8080"),
		SellerState:             sellerState,
		TallyCompany:            os.Getenv("TALLY_COMPANY"),
		AutoSyncIntervalMinutes: envIntOr("AUTO_SYNC_INTERVAL_MINUTES", 60),
		RetryIntervalMinutes:    envIntOr("INVOICE_RETRY_INTERVAL_MINUTES", 60),
		LogCleanupIntervalHours: envIntOr("LOG_CLEANUP_INTERVAL_HOURS", 168),
		ShutdownTimeoutSeconds:  envIntOr("SHUTDOWN_TIMEOUT_SECONDS", 30),
		GCSBucket:               os.Getenv("GCS_BUCKET"),
		PubSubProject:           os.Getenv("PUBSUB_PROJECT_ID"),
		PubSubTopic:             os.Getenv("PUBSUB_TOPIC"),
		LogLevel:                envOr("LOG_LEVEL", "info"),
	}, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
