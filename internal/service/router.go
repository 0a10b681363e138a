package service

import (
	"net/http"

	"connectrpc.com/connect"
	"github.com/gorilla/mux"

	"github.com/mmynk/billsplit/internal/auth"
	"github.com/mmynk/billsplit/internal/metrics"
	"github.com/mmynk/billsplit/internal/middleware"
	"github.com/mmynk/billsplit/internal/rpc"
)

// RouterConfig holds the services mounted by NewRouter.
type RouterConfig struct {
	Receipts *ReceiptService
	Bills    *BillService
	Metrics  *metrics.Metrics

	// Auth and JWT are nil when the server runs without authentication.
	Auth *AuthService
	JWT  *auth.JWTManager
}

// NewRouter wires the REST endpoints, the Connect BillService and /metrics.
func NewRouter(cfg RouterConfig) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.Instrument(cfg.Metrics))

	protect := func(h http.HandlerFunc) http.Handler {
		if cfg.JWT == nil {
			return h
		}
		return middleware.RequireAuthHTTP(cfg.JWT)(h)
	}

	// Public
	r.HandleFunc("/test", cfg.Receipts.Test).Methods(http.MethodGet)
	r.Handle("/metrics", cfg.Metrics.Handler()).Methods(http.MethodGet)
	if cfg.Auth != nil {
		r.HandleFunc("/login", cfg.Auth.Login).Methods(http.MethodPost)
	}

	// Mobile client
	r.Handle("/parse-receipt", protect(cfg.Receipts.ParseReceipt)).Methods(http.MethodPost)
	r.Handle("/friends-list", protect(cfg.Receipts.FriendsList)).Methods(http.MethodGet)
	r.Handle("/get-friends-list", protect(cfg.Receipts.FriendsList)).Methods(http.MethodGet)
	r.Handle("/assign-items", protect(cfg.Receipts.AssignItems)).Methods(http.MethodPost)
	r.Handle("/request-payments", protect(cfg.Receipts.RequestPayments)).Methods(http.MethodPost)
	r.Handle("/receipts/{id}/chart.png", protect(cfg.Bills.Chart)).Methods(http.MethodGet)

	// RPC
	var interceptors []connect.Interceptor
	if cfg.JWT != nil {
		interceptors = append(interceptors, middleware.RequireAuth(cfg.JWT))
	}
	interceptors = append(interceptors, middleware.LoggingInterceptor())
	billPath, billHandler := rpc.NewBillServiceHandler(cfg.Bills, connect.WithInterceptors(interceptors...))
	r.PathPrefix(billPath).Handler(billHandler)

	return r
}
