// Package handler exposes the kiosk core over HTTP. It carries no business
// logic: requests are decoded to primitives, delegated to the purchase
// service or repositories, and structured results are encoded back as JSON.
package handler

import (
	"net/http"

	"github.com/aquatap/kiosk/internal/domain/ledger"
	"github.com/aquatap/kiosk/internal/domain/purchase"
	"github.com/aquatap/kiosk/internal/domain/user"
)

// Handler holds the core dependencies for all HTTP endpoints.
type Handler struct {
	svc       *purchase.Service
	users     user.Repository
	ledger    ledger.Repository
	analytics ledger.AnalyticsRepository
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(
	svc *purchase.Service,
	users user.Repository,
	txs ledger.Repository,
	analytics ledger.AnalyticsRepository,
) *Handler {
	return &Handler{
		svc:       svc,
		users:     users,
		ledger:    txs,
		analytics: analytics,
	}
}

// Register mounts all API routes on the given mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/users", h.registerUser)
	mux.HandleFunc("GET /api/users/{id}", h.userProfile)
	mux.HandleFunc("POST /api/users/{id}/topup", h.topUp)
	mux.HandleFunc("POST /api/users/{id}/pass", h.buyPass)
	mux.HandleFunc("POST /api/purchases", h.purchaseWater)
	mux.HandleFunc("GET /api/transactions", h.listTransactions)
	mux.HandleFunc("GET /api/analytics", h.adminAnalytics)
	mux.HandleFunc("GET /api/tariff", h.tariff)
}
