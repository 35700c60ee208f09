// Package purchase composes the pass validator, discount engine, and fee
// optimizer into atomic kiosk operations: water purchases, pass purchases,
// wallet top-ups, registration, and profile views.
package purchase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/aquatap/kiosk/internal/domain/ledger"
	"github.com/aquatap/kiosk/internal/domain/pricing"
	"github.com/aquatap/kiosk/internal/domain/user"
)

// Sentinel errors for operation validation.
var (
	ErrInvalidQuantity      = errors.New("liters must be greater than 0")
	ErrInvalidAmount        = errors.New("amount must be greater than 0")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrInvalidPassKind      = errors.New("invalid pass kind")
	ErrInvalidName          = errors.New("name required")
)

// InsufficientFundsError indicates the wallet balance cannot cover a charge.
type InsufficientFundsError struct {
	Required  decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: required %s, available %s",
		e.Required.StringFixed(2), e.Available.StringFixed(2))
}

// Receipt is the structured result of a completed water purchase.
type Receipt struct {
	TransactionID  int64
	UserID         int64
	Liters         decimal.Decimal
	BaseCost       decimal.Decimal
	Discount       decimal.Decimal
	Fee            decimal.Decimal
	FinalAmount    decimal.Decimal
	PaymentMethod  ledger.PaymentMethod
	WalletBalance  decimal.Decimal
	LoyaltyPoints  int
	PointsEarned   int
	PointsRedeemed int
	CreatedAt      time.Time
}

// PassReceipt is the structured result of a completed pass purchase.
type PassReceipt struct {
	UserID        int64
	Kind          user.PassKind
	Cost          decimal.Decimal
	ValidUntil    time.Time
	WalletBalance decimal.Decimal
}

// TopUpResult is the structured result of a wallet top-up.
type TopUpResult struct {
	UserID  int64
	Amount  decimal.Decimal
	Bonus   decimal.Decimal
	Balance decimal.Decimal
}

// Profile is a read-only user view with pass status recomputed at call time
// and a pass break-even hint derived from past usage.
type Profile struct {
	User user.User

	PassValid    bool
	PassDaysLeft int

	// PotentialFees is what the user's transaction count would cost in
	// digital fees without any waiver; PassSavings is positive when a
	// monthly pass would have been cheaper.
	PotentialFees decimal.Decimal
	PassSavings   decimal.Decimal
}

// Service is the purchase orchestrator. All mutating operations run under a
// single mutex so each one is an atomic critical section: either every
// precondition passes and all state changes land, or nothing changes.
type Service struct {
	mu        sync.Mutex
	users     user.Repository
	ledger    ledger.Repository
	analytics ledger.AnalyticsRepository
	now       func() time.Time
}

// NewService creates a purchase Service with the required dependencies.
func NewService(users user.Repository, txs ledger.Repository, analytics ledger.AnalyticsRepository) *Service {
	return &Service{
		users:     users,
		ledger:    txs,
		analytics: analytics,
		now:       time.Now,
	}
}

// Register creates a user with the next sequential ID and zeroed financial
// fields.
func (s *Service) Register(ctx context.Context, name, phone string, student bool) (*user.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u := &user.User{
		Name:          name,
		Phone:         strings.TrimSpace(phone),
		Student:       student,
		WalletBalance: decimal.Zero,
		TotalSpent:    decimal.Zero,
		PassKind:      user.PassNone,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, errors.Wrap(err, "create user")
	}
	return u, nil
}

// Purchase executes a water purchase: quote the stacked discount, decide the
// fee, check funds for digital payments, then commit wallet, loyalty, ledger,
// and analytics updates together. On any failure no state changes.
func (s *Service) Purchase(ctx context.Context, userID int64, liters decimal.Decimal, method ledger.PaymentMethod) (*Receipt, error) {
	if liters.Sign() <= 0 {
		return nil, ErrInvalidQuantity
	}
	if method != ledger.Cash && method != ledger.Digital {
		return nil, ErrInvalidPaymentMethod
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.now()

	quote := pricing.NewQuote(u, liters)
	baseCost := quote.BaseCost
	discount := quote.Total()

	fee := decimal.Zero
	if method == ledger.Digital {
		fee = pricing.Fee(u.PassValidAt(now), liters, discount)
	}
	finalAmount := baseCost.Sub(discount).Add(fee).Round(2)

	if method == ledger.Digital {
		if u.WalletBalance.LessThan(finalAmount) {
			return nil, &InsufficientFundsError{Required: finalAmount, Available: u.WalletBalance}
		}
		u.WalletBalance = u.WalletBalance.Sub(finalAmount)
	}

	// Redemption deduction happens before the award, so a purchase that
	// consumed a point block still earns points on its base cost.
	if quote.RedeemedPoints > 0 {
		u.LoyaltyPoints -= quote.RedeemedPoints
	}
	earned := pricing.LoyaltyPointsEarned(baseCost)
	u.LoyaltyPoints += earned
	u.TotalSpent = u.TotalSpent.Add(baseCost)
	u.TransactionCount++

	t := &ledger.Transaction{
		UserID:        u.ID,
		Amount:        finalAmount,
		Liters:        liters,
		PaymentMethod: method,
		Fee:           fee,
		Discount:      discount,
		CreatedAt:     now,
	}
	// Append first: it is the only commit step that can fail (capacity), and
	// the user mutations above are still local to our copy at this point.
	if err := s.ledger.Append(ctx, t); err != nil {
		return nil, errors.Wrap(err, "append transaction")
	}
	if err := s.users.Update(ctx, u); err != nil {
		return nil, errors.Wrap(err, "update user")
	}
	if err := s.analytics.RecordPurchase(ctx, t); err != nil {
		return nil, errors.Wrap(err, "record purchase")
	}

	return &Receipt{
		TransactionID:  t.ID,
		UserID:         u.ID,
		Liters:         liters,
		BaseCost:       baseCost,
		Discount:       discount,
		Fee:            fee,
		FinalAmount:    finalAmount,
		PaymentMethod:  method,
		WalletBalance:  u.WalletBalance,
		LoyaltyPoints:  u.LoyaltyPoints,
		PointsEarned:   earned,
		PointsRedeemed: quote.RedeemedPoints,
		CreatedAt:      now,
	}, nil
}

// BuyPass purchases a weekly or monthly pass from the wallet. A new pass
// overwrites any existing one: the expiry is set to now plus the full
// duration, discarding remaining validity of the old pass.
func (s *Service) BuyPass(ctx context.Context, userID int64, kind user.PassKind) (*PassReceipt, error) {
	cost, validity, ok := pricing.PassTariff(kind)
	if !ok {
		return nil, ErrInvalidPassKind
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if u.WalletBalance.LessThan(cost) {
		return nil, &InsufficientFundsError{Required: cost, Available: u.WalletBalance}
	}

	u.WalletBalance = u.WalletBalance.Sub(cost)
	u.PassKind = kind
	u.PassExpiry = s.now().Add(validity)

	if err := s.users.Update(ctx, u); err != nil {
		return nil, errors.Wrap(err, "update user")
	}
	if err := s.analytics.RecordPassPurchase(ctx); err != nil {
		return nil, errors.Wrap(err, "record pass purchase")
	}

	return &PassReceipt{
		UserID:        u.ID,
		Kind:          kind,
		Cost:          cost,
		ValidUntil:    u.PassExpiry,
		WalletBalance: u.WalletBalance,
	}, nil
}

// TopUp credits the wallet. Top-ups at or above the bonus threshold earn an
// additional 2% bonus credit computed on the topped-up amount.
func (s *Service) TopUp(ctx context.Context, userID int64, amount decimal.Decimal) (*TopUpResult, error) {
	if amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	bonus := pricing.TopUpBonus(amount)
	u.WalletBalance = u.WalletBalance.Add(amount).Add(bonus)

	if err := s.users.Update(ctx, u); err != nil {
		return nil, errors.Wrap(err, "update user")
	}

	return &TopUpResult{
		UserID:  u.ID,
		Amount:  amount,
		Bonus:   bonus,
		Balance: u.WalletBalance,
	}, nil
}

// Profile returns the user with pass validity recomputed at call time and the
// monthly pass break-even hint.
func (s *Service) Profile(ctx context.Context, userID int64) (*Profile, error) {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.now()

	potential := decimal.NewFromInt(int64(u.TransactionCount)).Mul(pricing.DigitalFee)
	savings := decimal.Zero
	if potential.GreaterThan(pricing.MonthlyPassCost) {
		savings = potential.Sub(pricing.MonthlyPassCost)
	}

	return &Profile{
		User:          *u,
		PassValid:     u.PassValidAt(now),
		PassDaysLeft:  u.PassDaysLeftAt(now),
		PotentialFees: potential,
		PassSavings:   savings,
	}, nil
}
