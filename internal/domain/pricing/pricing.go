// Package pricing holds the kiosk tariff and the pure pricing rules: the
// stacked discount quote and the digital fee waiver strategy. Nothing in this
// package mutates state; redeeming loyalty points is the orchestrator's job.
package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/aquatap/kiosk/internal/domain/user"
)

// Tariff constants. Money values are exact decimals.
var (
	// PricePerLiter is the base water price before discounts and fees.
	PricePerLiter = decimal.RequireFromString("2.00")
	// DigitalFee is the flat fee for digital payments when no waiver applies.
	DigitalFee = decimal.RequireFromString("1.00")
	// BulkMinLiters is the bulk threshold: at or above it the digital fee is
	// waived and tiered bulk discounts unlock.
	BulkMinLiters = decimal.NewFromInt(10)
	// LoyaltyThreshold is the lifetime spend that unlocks the percentage
	// loyalty discount.
	LoyaltyThreshold = decimal.RequireFromString("50.00")
	// RedeemDiscount is the flat discount granted per redeemed point block.
	RedeemDiscount = decimal.RequireFromString("5.00")
	// WeeklyPassCost and MonthlyPassCost are the pass prices.
	WeeklyPassCost  = decimal.RequireFromString("15.00")
	MonthlyPassCost = decimal.RequireFromString("50.00")
	// TopUpBonusMin is the minimum top-up amount that earns the bonus credit.
	TopUpBonusMin = decimal.NewFromInt(100)

	studentRate    = decimal.RequireFromString("0.10")
	loyaltyRate    = decimal.RequireFromString("0.05")
	topUpBonusRate = decimal.RequireFromString("0.02")

	bulkTier20 = decimal.NewFromInt(20)
	bulkTier15 = decimal.NewFromInt(15)
)

const (
	// RedeemBlockPoints is the loyalty point cost of one redemption block.
	// At most one block is redeemed per purchase.
	RedeemBlockPoints = 100

	// WeeklyPassDays and MonthlyPassDays are the pass validity windows.
	WeeklyPassDays  = 7
	MonthlyPassDays = 30
)

// BaseCost returns liters * PricePerLiter, before any discount or fee.
func BaseCost(liters decimal.Decimal) decimal.Decimal {
	return liters.Mul(PricePerLiter)
}

// PassTariff returns the cost and validity duration for a purchasable pass
// kind. ok is false for PassNone or unknown kinds.
func PassTariff(kind user.PassKind) (cost decimal.Decimal, validity time.Duration, ok bool) {
	switch kind {
	case user.PassWeekly:
		return WeeklyPassCost, WeeklyPassDays * 24 * time.Hour, true
	case user.PassMonthly:
		return MonthlyPassCost, MonthlyPassDays * 24 * time.Hour, true
	default:
		return decimal.Zero, 0, false
	}
}

// TopUpBonus returns the bonus credit for a wallet top-up: 2% of the topped-up
// amount when it is at or above TopUpBonusMin, zero otherwise. The bonus is
// computed on the top-up amount, never on the resulting balance.
func TopUpBonus(amount decimal.Decimal) decimal.Decimal {
	if amount.LessThan(TopUpBonusMin) {
		return decimal.Zero
	}
	return amount.Mul(topUpBonusRate)
}

// Quote is the component breakdown of the discount for a single purchase.
// Components stack additively and are evaluated independently of each other
// and of the eventual fee outcome: the full discount applies even on cash
// payments where there is no fee to offset.
type Quote struct {
	BaseCost decimal.Decimal

	Student    decimal.Decimal
	Bulk       decimal.Decimal
	Loyalty    decimal.Decimal
	Redemption decimal.Decimal

	// RedeemedPoints is the loyalty point cost of the Redemption component,
	// 0 or RedeemBlockPoints. The caller deducts it as an explicit state
	// transition after accepting the quote.
	RedeemedPoints int
}

// Total returns the stacked discount, rounded to 2 decimal places.
func (q Quote) Total() decimal.Decimal {
	return q.Student.Add(q.Bulk).Add(q.Loyalty).Add(q.Redemption).Round(2)
}

// NewQuote computes the discount breakdown for the given user snapshot and
// quantity. The loyalty percentage uses lifetime spend as of before this
// purchase. NewQuote never mutates the user.
func NewQuote(u *user.User, liters decimal.Decimal) Quote {
	q := Quote{BaseCost: BaseCost(liters)}

	if u.Student {
		q.Student = q.BaseCost.Mul(studentRate)
	}

	q.Bulk = bulkDiscount(liters)

	if u.TotalSpent.GreaterThanOrEqual(LoyaltyThreshold) {
		q.Loyalty = u.TotalSpent.Mul(loyaltyRate)
	}

	if u.LoyaltyPoints >= RedeemBlockPoints {
		q.Redemption = RedeemDiscount
		q.RedeemedPoints = RedeemBlockPoints
	}

	return q
}

// bulkDiscount is a step function of quantity: >=20 -> 4, >=15 -> 3,
// >=10 -> 2, below the bulk threshold -> 0.
func bulkDiscount(liters decimal.Decimal) decimal.Decimal {
	switch {
	case liters.GreaterThanOrEqual(bulkTier20):
		return decimal.NewFromInt(4)
	case liters.GreaterThanOrEqual(bulkTier15):
		return decimal.NewFromInt(3)
	case liters.GreaterThanOrEqual(BulkMinLiters):
		return decimal.NewFromInt(2)
	default:
		return decimal.Zero
	}
}

// Fee decides the digital payment fee. The strategies are priority ordered
// and the first match wins: a valid pass waives the fee unconditionally, then
// the bulk threshold, then full absorption when the discount covers the fee.
// Otherwise the discount partially absorbs the fee, floored at zero.
// Cash payments never reach this function; their fee is always zero.
func Fee(passValid bool, liters, discount decimal.Decimal) decimal.Decimal {
	switch {
	case passValid:
		return decimal.Zero
	case liters.GreaterThanOrEqual(BulkMinLiters):
		return decimal.Zero
	case discount.GreaterThanOrEqual(DigitalFee):
		return decimal.Zero
	default:
		fee := DigitalFee.Sub(discount)
		if fee.IsNegative() {
			return decimal.Zero
		}
		return fee
	}
}

// LoyaltyPointsEarned returns the points awarded for a purchase: one point
// per whole currency unit of base cost, truncated toward zero.
func LoyaltyPointsEarned(baseCost decimal.Decimal) int {
	return int(baseCost.IntPart())
}
