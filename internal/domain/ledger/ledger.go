// Package ledger defines the append-only transaction log and the aggregate
// analytics derived from it.
package ledger

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/aquatap/kiosk/internal/domain/pricing"
)

// ErrLedgerFull is returned by Append when a configured ledger capacity limit
// has been reached.
var ErrLedgerFull = errors.New("transaction ledger capacity reached")

// PaymentMethod enumerates how a purchase was paid.
type PaymentMethod string

const (
	Cash    PaymentMethod = "cash"
	Digital PaymentMethod = "digital"
)

// ParsePaymentMethod converts a wire value to a PaymentMethod.
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	switch PaymentMethod(s) {
	case Cash:
		return Cash, true
	case Digital:
		return Digital, true
	default:
		return "", false
	}
}

// Transaction records one completed water purchase. Transactions are
// immutable once appended; ID order equals time order.
type Transaction struct {
	ID            int64
	UserID        int64
	Amount        decimal.Decimal // final amount paid
	Liters        decimal.Decimal
	PaymentMethod PaymentMethod
	Fee           decimal.Decimal
	Discount      decimal.Decimal
	CreatedAt     time.Time
}

// BaseCost reconstructs the pre-discount, pre-fee cost of the purchase.
// Since Amount = BaseCost - Discount + Fee, the fold inverts it.
func (t *Transaction) BaseCost() decimal.Decimal {
	return t.Amount.Add(t.Discount).Sub(t.Fee)
}

// Bulk reports whether the purchase met the bulk threshold.
func (t *Transaction) Bulk() bool {
	return t.Liters.GreaterThanOrEqual(pricing.BulkMinLiters)
}

// Repository is the append-only transaction log.
type Repository interface {
	// Append assigns the next sequential ID and stores the transaction.
	// Returns ErrLedgerFull when a capacity limit is configured and reached.
	Append(ctx context.Context, t *Transaction) error
	// List returns all transactions in append order.
	List(ctx context.Context) ([]Transaction, error)
	// ListByUser returns the given user's transactions in append order.
	ListByUser(ctx context.Context, userID int64) ([]Transaction, error)
	// Count returns the number of recorded transactions.
	Count(ctx context.Context) (int, error)
}

// Analytics is the materialized fold over completed purchases and pass
// purchase events. It is maintained incrementally and must stay recomputable
// from the ledger; PassHolders is the exception, since pass purchases are not
// ledger rows.
type Analytics struct {
	TotalRevenue   decimal.Decimal
	TotalFees      decimal.Decimal
	TotalDiscounts decimal.Decimal

	CashTransactions    int
	DigitalTransactions int
	BulkPurchases       int
	PassHolders         int
}

// NetRevenue returns revenue plus collected fees minus granted discounts.
func (a *Analytics) NetRevenue() decimal.Decimal {
	return a.TotalRevenue.Add(a.TotalFees).Sub(a.TotalDiscounts)
}

// Fold applies one completed purchase to the aggregates. Revenue accrues on
// base cost, not on the amount actually charged.
func (a *Analytics) Fold(t *Transaction) {
	a.TotalRevenue = a.TotalRevenue.Add(t.BaseCost())
	a.TotalFees = a.TotalFees.Add(t.Fee)
	a.TotalDiscounts = a.TotalDiscounts.Add(t.Discount)

	switch t.PaymentMethod {
	case Cash:
		a.CashTransactions++
	case Digital:
		a.DigitalTransactions++
	}
	if t.Bulk() {
		a.BulkPurchases++
	}
}

// Recompute derives Analytics from scratch by folding the full ledger.
// Used to cross-check the incrementally maintained aggregates.
func Recompute(txs []Transaction) Analytics {
	var a Analytics
	a.TotalRevenue = decimal.Zero
	a.TotalFees = decimal.Zero
	a.TotalDiscounts = decimal.Zero
	for i := range txs {
		a.Fold(&txs[i])
	}
	return a
}

// ConsistentWith reports whether the ledger-derived fields of a and b match.
// PassHolders is excluded: it is sourced from pass purchase events that the
// transaction ledger does not carry.
func (a Analytics) ConsistentWith(b Analytics) bool {
	return a.TotalRevenue.Equal(b.TotalRevenue) &&
		a.TotalFees.Equal(b.TotalFees) &&
		a.TotalDiscounts.Equal(b.TotalDiscounts) &&
		a.CashTransactions == b.CashTransactions &&
		a.DigitalTransactions == b.DigitalTransactions &&
		a.BulkPurchases == b.BulkPurchases
}

// AnalyticsRepository maintains the incremental aggregates.
type AnalyticsRepository interface {
	// RecordPurchase folds one completed purchase into the aggregates.
	RecordPurchase(ctx context.Context, t *Transaction) error
	// RecordPassPurchase counts one pass purchase event.
	RecordPassPurchase(ctx context.Context) error
	// Snapshot returns a copy of the current aggregates.
	Snapshot(ctx context.Context) (Analytics, error)
}
