package handler

import (
	"net/http"
	"strconv"

	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/aquatap/kiosk/internal/domain/ledger"
	"github.com/aquatap/kiosk/internal/domain/purchase"
)

type purchaseRequest struct {
	UserID int64
	Liters decimal.Decimal
	Method string
}

func decodePurchaseRequest(data []byte) (purchaseRequest, error) {
	var req purchaseRequest
	d := jx.DecodeBytes(data)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "user_id":
			v, err := d.Int64()
			if err != nil {
				return err
			}
			req.UserID = v
		case "liters":
			v, err := d.Float64()
			if err != nil {
				return err
			}
			req.Liters = decimal.NewFromFloat(v)
		case "payment_method":
			v, err := d.Str()
			if err != nil {
				return err
			}
			req.Method = v
		default:
			return d.Skip()
		}
		return nil
	})
	return req, err
}

func (h *Handler) purchaseWater(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	req, err := decodePurchaseRequest(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed JSON")
		return
	}

	method, ok := ledger.ParsePaymentMethod(req.Method)
	if !ok {
		respondError(w, r, purchase.ErrInvalidPaymentMethod)
		return
	}

	receipt, err := h.svc.Purchase(r.Context(), req.UserID, req.Liters, method)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeReceipt(e, receipt)
	})
}

func (h *Handler) listTransactions(w http.ResponseWriter, r *http.Request) {
	var (
		txs []ledger.Transaction
		err error
	)
	if v := r.URL.Query().Get("user_id"); v != "" {
		id, perr := strconv.ParseInt(v, 10, 64)
		if perr != nil || id <= 0 {
			writeError(w, http.StatusBadRequest, "invalid user_id")
			return
		}
		txs, err = h.ledger.ListByUser(r.Context(), id)
	} else {
		txs, err = h.ledger.List(r.Context())
	}
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("transactions")
		e.ArrStart()
		for i := range txs {
			encodeTransaction(e, &txs[i])
		}
		e.ArrEnd()
		e.ObjEnd()
	})
}

func encodeReceipt(e *jx.Encoder, r *purchase.Receipt) {
	e.ObjStart()
	e.FieldStart("transaction_id")
	e.Int64(r.TransactionID)
	e.FieldStart("user_id")
	e.Int64(r.UserID)
	e.FieldStart("liters")
	e.Float64(r.Liters.InexactFloat64())
	money(e, "base_cost", r.BaseCost)
	money(e, "discount", r.Discount)
	money(e, "fee", r.Fee)
	money(e, "final_amount", r.FinalAmount)
	e.FieldStart("payment_method")
	e.Str(string(r.PaymentMethod))
	money(e, "wallet_balance", r.WalletBalance)
	e.FieldStart("loyalty_points")
	e.Int(r.LoyaltyPoints)
	e.FieldStart("points_earned")
	e.Int(r.PointsEarned)
	e.FieldStart("points_redeemed")
	e.Int(r.PointsRedeemed)
	timeField(e, "created_at", r.CreatedAt)
	e.ObjEnd()
}

func encodeTransaction(e *jx.Encoder, t *ledger.Transaction) {
	e.ObjStart()
	e.FieldStart("id")
	e.Int64(t.ID)
	e.FieldStart("user_id")
	e.Int64(t.UserID)
	money(e, "amount", t.Amount)
	e.FieldStart("liters")
	e.Float64(t.Liters.InexactFloat64())
	e.FieldStart("payment_method")
	e.Str(string(t.PaymentMethod))
	money(e, "fee", t.Fee)
	money(e, "discount", t.Discount)
	timeField(e, "created_at", t.CreatedAt)
	e.ObjEnd()
}
