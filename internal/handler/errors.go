package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/aquatap/kiosk/internal/domain/ledger"
	"github.com/aquatap/kiosk/internal/domain/purchase"
	"github.com/aquatap/kiosk/internal/domain/user"
)

// respondError maps domain errors to HTTP status codes and writes the
// {code, message} body. Unknown errors become opaque 500s and are logged;
// the core itself never logs.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, user.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, purchase.ErrInvalidQuantity),
		errors.Is(err, purchase.ErrInvalidAmount),
		errors.Is(err, purchase.ErrInvalidPaymentMethod),
		errors.Is(err, purchase.ErrInvalidPassKind),
		errors.Is(err, purchase.ErrInvalidName):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, user.ErrRegistryFull),
		errors.Is(err, ledger.ErrLedgerFull):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		var ifErr *purchase.InsufficientFundsError
		if errors.As(err, &ifErr) {
			writeError(w, http.StatusPaymentRequired, ifErr.Error())
			return
		}
		zctx.From(r.Context()).Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
