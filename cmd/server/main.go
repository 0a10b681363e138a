package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/billsplit/internal/auth"
	"github.com/mmynk/billsplit/internal/config"
	"github.com/mmynk/billsplit/internal/metrics"
	"github.com/mmynk/billsplit/internal/middleware"
	"github.com/mmynk/billsplit/internal/payments"
	"github.com/mmynk/billsplit/internal/receipt"
	"github.com/mmynk/billsplit/internal/service"
	"github.com/mmynk/billsplit/internal/storage/sqlite"
	"github.com/mmynk/billsplit/pkg/logging"
)

func main() {
	logging.Setup()

	cfg, err := config.LoadServer()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize SQLite storage
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	provider, err := newProvider(cfg, store)
	if err != nil {
		slog.Error("Failed to initialize payments", "error", err)
		os.Exit(1)
	}

	m := metrics.New()
	scanner := receipt.NewScanner(receipt.NewTesseract(cfg.TesseractPath))
	routes := service.RouterConfig{
		Receipts: service.NewReceiptService(store, scanner, provider, m),
		Bills:    service.NewBillService(store),
		Metrics:  m,
	}
	if cfg.AuthEnabled() {
		jwtManager := auth.NewJWTManager(cfg.AuthSecret, cfg.TokenTTL)
		routes.JWT = jwtManager
		routes.Auth = service.NewAuthService(auth.NewPasswordAuthenticator(cfg.AuthPasswordHash), jwtManager)
		slog.Info("Authentication enabled", "token_ttl", cfg.TokenTTL)
	} else {
		slog.Warn("Authentication disabled, set AUTH_SECRET to require tokens")
	}

	handler := middleware.RequestLogger(middleware.CORS(service.NewRouter(routes)))

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	h2cHandler := h2c.NewHandler(handler, &http2.Server{})

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           h2cHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	slog.Info("Server starting", "address", addr, "url", fmt.Sprintf("http://localhost%s", addr))
	if err := server.ListenAndServe(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

// newProvider picks the payments backend. A Venmo setup without a token leaves
// payments unconfigured, and the friends and payment endpoints report it.
func newProvider(cfg *config.Server, store *sqlite.SQLiteStore) (payments.Provider, error) {
	switch cfg.PaymentsProvider {
	case config.ProviderLedger:
		ledger, err := payments.NewLedger(store.DB(), cfg.LedgerFriends)
		if err != nil {
			return nil, err
		}
		slog.Info("Payments provider initialized", "provider", "ledger", "friends", len(cfg.LedgerFriends))
		return ledger, nil
	default:
		if cfg.VenmoAccessToken == "" {
			slog.Warn("VENMO_ACCESS_TOKEN not set, payments client not initialized")
			return nil, nil
		}
		slog.Info("Payments provider initialized", "provider", "venmo", "base_url", cfg.VenmoBaseURL)
		return payments.NewVenmo(cfg.VenmoBaseURL, cfg.VenmoAccessToken, nil), nil
	}
}
