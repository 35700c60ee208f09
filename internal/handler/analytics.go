package handler

import (
	"net/http"

	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/aquatap/kiosk/internal/domain/ledger"
	"github.com/aquatap/kiosk/internal/domain/pricing"
)

func (h *Handler) adminAnalytics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	snap, err := h.analytics.Snapshot(ctx)
	if err != nil {
		respondError(w, r, err)
		return
	}
	txs, err := h.ledger.List(ctx)
	if err != nil {
		respondError(w, r, err)
		return
	}
	userCount, err := h.users.Count(ctx)
	if err != nil {
		respondError(w, r, err)
		return
	}

	// Cross-check the maintained aggregates against a full ledger fold.
	consistent := snap.ConsistentWith(ledger.Recompute(txs))

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		money(e, "total_revenue", snap.TotalRevenue)
		money(e, "total_fees_collected", snap.TotalFees)
		money(e, "total_discounts_given", snap.TotalDiscounts)
		money(e, "net_revenue", snap.NetRevenue())
		e.FieldStart("cash_transactions")
		e.Int(snap.CashTransactions)
		e.FieldStart("digital_transactions")
		e.Int(snap.DigitalTransactions)
		e.FieldStart("bulk_purchases")
		e.Int(snap.BulkPurchases)
		e.FieldStart("pass_holders")
		e.Int(snap.PassHolders)
		e.FieldStart("total_users")
		e.Int(userCount)
		e.FieldStart("total_transactions")
		e.Int(len(txs))
		e.FieldStart("consistent")
		e.Bool(consistent)
		e.ObjEnd()
	})
}

func (h *Handler) tariff(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		money(e, "price_per_liter", pricing.PricePerLiter)
		money(e, "digital_fee", pricing.DigitalFee)
		e.FieldStart("bulk_min_liters")
		e.Float64(pricing.BulkMinLiters.InexactFloat64())
		money(e, "loyalty_threshold", pricing.LoyaltyThreshold)
		e.FieldStart("redeem_block_points")
		e.Int(pricing.RedeemBlockPoints)
		money(e, "redeem_discount", pricing.RedeemDiscount)
		e.FieldStart("weekly_pass")
		encodePass(e, pricing.WeeklyPassCost, pricing.WeeklyPassDays)
		e.FieldStart("monthly_pass")
		encodePass(e, pricing.MonthlyPassCost, pricing.MonthlyPassDays)
		money(e, "topup_bonus_min", pricing.TopUpBonusMin)
		e.ObjEnd()
	})
}

func encodePass(e *jx.Encoder, cost decimal.Decimal, days int) {
	e.ObjStart()
	e.FieldStart("cost")
	e.Float64(cost.InexactFloat64())
	e.FieldStart("days")
	e.Int(days)
	e.ObjEnd()
}
