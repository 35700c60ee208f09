package handler

import (
	"net/http"
	"strconv"

	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/aquatap/kiosk/internal/domain/purchase"
	"github.com/aquatap/kiosk/internal/domain/user"
)

// userID parses the {id} path segment.
func userID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}

type registerRequest struct {
	Name    string
	Phone   string
	Student bool
}

func decodeRegisterRequest(data []byte) (registerRequest, error) {
	var req registerRequest
	d := jx.DecodeBytes(data)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "name":
			v, err := d.Str()
			if err != nil {
				return err
			}
			req.Name = v
		case "phone":
			v, err := d.Str()
			if err != nil {
				return err
			}
			req.Phone = v
		case "student":
			v, err := d.Bool()
			if err != nil {
				return err
			}
			req.Student = v
		default:
			return d.Skip()
		}
		return nil
	})
	return req, err
}

func (h *Handler) registerUser(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	req, err := decodeRegisterRequest(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed JSON")
		return
	}

	u, err := h.svc.Register(r.Context(), req.Name, req.Phone, req.Student)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, func(e *jx.Encoder) {
		encodeUser(e, u)
	})
}

func (h *Handler) userProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	p, err := h.svc.Profile(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeProfile(e, p)
	})
}

type amountRequest struct {
	Amount decimal.Decimal
}

func decodeAmountRequest(data []byte) (amountRequest, error) {
	var req amountRequest
	d := jx.DecodeBytes(data)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "amount":
			v, err := d.Float64()
			if err != nil {
				return err
			}
			req.Amount = decimal.NewFromFloat(v)
		default:
			return d.Skip()
		}
		return nil
	})
	return req, err
}

func (h *Handler) topUp(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	req, err := decodeAmountRequest(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed JSON")
		return
	}

	res, err := h.svc.TopUp(r.Context(), id, req.Amount)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("user_id")
		e.Int64(res.UserID)
		money(e, "amount", res.Amount)
		money(e, "bonus", res.Bonus)
		money(e, "balance", res.Balance)
		e.ObjEnd()
	})
}

type passRequest struct {
	Kind string
}

func decodePassRequest(data []byte) (passRequest, error) {
	var req passRequest
	d := jx.DecodeBytes(data)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "kind":
			v, err := d.Str()
			if err != nil {
				return err
			}
			req.Kind = v
		default:
			return d.Skip()
		}
		return nil
	})
	return req, err
}

func (h *Handler) buyPass(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	req, err := decodePassRequest(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed JSON")
		return
	}

	kind, ok := user.ParsePassKind(req.Kind)
	if !ok {
		respondError(w, r, purchase.ErrInvalidPassKind)
		return
	}

	res, err := h.svc.BuyPass(r.Context(), id, kind)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("user_id")
		e.Int64(res.UserID)
		e.FieldStart("kind")
		e.Str(string(res.Kind))
		money(e, "cost", res.Cost)
		timeField(e, "valid_until", res.ValidUntil)
		money(e, "balance", res.WalletBalance)
		e.ObjEnd()
	})
}

func encodeUser(e *jx.Encoder, u *user.User) {
	e.ObjStart()
	e.FieldStart("id")
	e.Int64(u.ID)
	e.FieldStart("name")
	e.Str(u.Name)
	e.FieldStart("phone")
	e.Str(u.Phone)
	e.FieldStart("student")
	e.Bool(u.Student)
	money(e, "wallet_balance", u.WalletBalance)
	money(e, "total_spent", u.TotalSpent)
	e.FieldStart("transaction_count")
	e.Int(u.TransactionCount)
	e.FieldStart("loyalty_points")
	e.Int(u.LoyaltyPoints)
	e.FieldStart("pass_kind")
	e.Str(string(u.PassKind))
	if u.PassKind != user.PassNone && u.PassKind != "" {
		timeField(e, "pass_expiry", u.PassExpiry)
	}
	e.ObjEnd()
}

func encodeProfile(e *jx.Encoder, p *purchase.Profile) {
	e.ObjStart()
	e.FieldStart("user")
	encodeUser(e, &p.User)
	e.FieldStart("pass_valid")
	e.Bool(p.PassValid)
	e.FieldStart("pass_days_left")
	e.Int(p.PassDaysLeft)
	money(e, "potential_fees", p.PotentialFees)
	money(e, "pass_savings", p.PassSavings)
	e.ObjEnd()
}
