package user

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned when a requested user does not exist.
	ErrNotFound = errors.New("user not found")
	// ErrRegistryFull is returned by Create when a configured registry
	// capacity limit has been reached.
	ErrRegistryFull = errors.New("user registry capacity reached")
)

// PassKind enumerates the fee-waiver pass subscriptions a user can hold.
type PassKind string

const (
	PassNone    PassKind = "none"
	PassWeekly  PassKind = "weekly"
	PassMonthly PassKind = "monthly"
)

// ParsePassKind converts a wire value to a purchasable PassKind.
// PassNone is not purchasable and is rejected.
func ParsePassKind(s string) (PassKind, bool) {
	switch PassKind(s) {
	case PassWeekly:
		return PassWeekly, true
	case PassMonthly:
		return PassMonthly, true
	default:
		return "", false
	}
}

// User is a registered kiosk customer with wallet, loyalty, and pass state.
type User struct {
	ID      int64
	Name    string
	Phone   string
	Student bool

	WalletBalance    decimal.Decimal
	TotalSpent       decimal.Decimal
	TransactionCount int
	LoyaltyPoints    int

	PassKind   PassKind
	PassExpiry time.Time
}

// PassValidAt reports whether the user's pass waives digital payment fees at
// the given instant. Expiry is lazy: an expired pass keeps its kind and
// expiry fields, so validity must always be recomputed from both rather than
// trusted from the kind alone.
func (u *User) PassValidAt(now time.Time) bool {
	return u.PassKind != PassNone && u.PassKind != "" && now.Before(u.PassExpiry)
}

// PassDaysLeftAt returns the whole days of pass validity remaining, or 0 when
// no pass is valid.
func (u *User) PassDaysLeftAt(now time.Time) int {
	if !u.PassValidAt(now) {
		return 0
	}
	return int(u.PassExpiry.Sub(now).Hours() / 24)
}

// Repository defines persistence operations for the user registry.
// Implementations return defensive copies: mutating a returned User has no
// effect until it is passed back to Update.
type Repository interface {
	// Create assigns the next sequential ID and stores the user.
	// Returns ErrRegistryFull when a capacity limit is configured and reached.
	Create(ctx context.Context, u *User) error
	// Get returns the user with the given ID or ErrNotFound.
	Get(ctx context.Context, id int64) (*User, error)
	// Update replaces the stored user. Returns ErrNotFound for unknown IDs.
	Update(ctx context.Context, u *User) error
	// Count returns the number of registered users.
	Count(ctx context.Context) (int, error)
}
