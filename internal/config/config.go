// Package config loads server and client settings from the environment.
// An optional .env file in the working directory is read first.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Payment provider names accepted in PAYMENTS_PROVIDER.
const (
	ProviderVenmo  = "venmo"
	ProviderLedger = "ledger"
)

// Server holds settings for cmd/server.
type Server struct {
	Port   int
	DBPath string

	// PaymentsProvider is "venmo" or "ledger". When empty it is venmo if a token is set.
	PaymentsProvider string
	VenmoAccessToken string
	VenmoBaseURL     string
	// LedgerFriends is the static friends list served by the ledger provider.
	LedgerFriends []string

	TesseractPath string

	// AuthSecret enables bearer-token auth when non-empty.
	AuthSecret       string
	AuthPasswordHash string
	TokenTTL         time.Duration
}

// Client holds settings for cmd/billsplit.
type Client struct {
	APIBaseURL string
	Token      string
	LogFile    string
}

// LoadServer reads the server configuration.
func LoadServer() (*Server, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	port, err := strconv.Atoi(getEnv("PORT", "5000"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}
	ttl, err := time.ParseDuration(getEnv("TOKEN_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_TTL: %w", err)
	}

	cfg := &Server{
		Port:             port,
		DBPath:           getEnv("DB_PATH", "./data/billsplit.db"),
		PaymentsProvider: strings.ToLower(os.Getenv("PAYMENTS_PROVIDER")),
		VenmoAccessToken: os.Getenv("VENMO_ACCESS_TOKEN"),
		VenmoBaseURL:     getEnv("VENMO_BASE_URL", "https://api.venmo.com/v1"),
		LedgerFriends:    splitList(os.Getenv("LEDGER_FRIENDS")),
		TesseractPath:    getEnv("TESSERACT_PATH", "tesseract"),
		AuthSecret:       os.Getenv("AUTH_SECRET"),
		AuthPasswordHash: os.Getenv("AUTH_PASSWORD_HASH"),
		TokenTTL:         ttl,
	}
	if cfg.PaymentsProvider == "" && cfg.VenmoAccessToken != "" {
		cfg.PaymentsProvider = ProviderVenmo
	}

	switch cfg.PaymentsProvider {
	case "", ProviderVenmo, ProviderLedger:
	default:
		return nil, fmt.Errorf("unknown PAYMENTS_PROVIDER %q", cfg.PaymentsProvider)
	}
	if cfg.AuthSecret != "" && cfg.AuthPasswordHash == "" {
		return nil, errors.New("AUTH_PASSWORD_HASH is required when AUTH_SECRET is set")
	}

	return cfg, nil
}

// AuthEnabled reports whether requests must carry a bearer token.
func (s *Server) AuthEnabled() bool {
	return s.AuthSecret != ""
}

// LoadClient reads the client configuration.
func LoadClient() (*Client, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}
	return &Client{
		APIBaseURL: strings.TrimRight(getEnv("BILLSPLIT_API_URL", "http://localhost:5000"), "/"),
		Token:      os.Getenv("BILLSPLIT_TOKEN"),
		LogFile:    getEnv("BILLSPLIT_LOG_FILE", "billsplit.log"),
	}, nil
}

// loadDotEnv loads .env if present. A missing file is not an error.
func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
