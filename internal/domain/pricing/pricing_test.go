package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aquatap/kiosk/internal/domain/user"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestBaseCost(t *testing.T) {
	assert.True(t, dec("10.00").Equal(BaseCost(decimal.NewFromInt(5))))
	assert.True(t, dec("19.98").Equal(BaseCost(dec("9.99"))))
}

func TestBulkDiscount_ExactSteps(t *testing.T) {
	tests := []struct {
		liters string
		want   string
	}{
		{"9.99", "0"},
		{"10", "2"},
		{"14.99", "2"},
		{"15", "3"},
		{"19.99", "3"},
		{"20", "4"},
		{"100", "4"},
		{"1", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.liters, func(t *testing.T) {
			got := bulkDiscount(dec(tt.liters))
			assert.True(t, dec(tt.want).Equal(got), "liters=%s got=%s", tt.liters, got)
		})
	}
}

func TestNewQuote_NoEligibleComponents(t *testing.T) {
	u := &user.User{TotalSpent: dec("49.99"), LoyaltyPoints: 99}

	q := NewQuote(u, dec("9.99"))

	assert.True(t, q.Total().IsZero())
	assert.Zero(t, q.RedeemedPoints)
}

func TestNewQuote_StudentDiscount(t *testing.T) {
	u := &user.User{Student: true}

	q := NewQuote(u, decimal.NewFromInt(5))

	// 10% of base cost 10.00.
	assert.True(t, dec("1.00").Equal(q.Student))
	assert.True(t, dec("1.00").Equal(q.Total()))
}

func TestNewQuote_LoyaltyPercentage(t *testing.T) {
	t.Run("below threshold", func(t *testing.T) {
		u := &user.User{TotalSpent: dec("49.99")}
		q := NewQuote(u, decimal.NewFromInt(1))
		assert.True(t, q.Loyalty.IsZero())
	})

	t.Run("at threshold uses pre-purchase lifetime spend", func(t *testing.T) {
		u := &user.User{TotalSpent: dec("50.00")}
		q := NewQuote(u, decimal.NewFromInt(1))
		assert.True(t, dec("2.50").Equal(q.Loyalty))
	})
}

func TestNewQuote_RedemptionOncePerPurchase(t *testing.T) {
	u := &user.User{LoyaltyPoints: 250}

	q := NewQuote(u, decimal.NewFromInt(1))

	assert.True(t, dec("5.00").Equal(q.Redemption))
	assert.Equal(t, RedeemBlockPoints, q.RedeemedPoints)
	// NewQuote never mutates the snapshot.
	assert.Equal(t, 250, u.LoyaltyPoints)
}

func TestNewQuote_ComponentsStackAdditively(t *testing.T) {
	u := &user.User{
		Student:       true,
		TotalSpent:    dec("100.00"),
		LoyaltyPoints: 150,
	}

	q := NewQuote(u, decimal.NewFromInt(20))

	// Student 10% of 40.00 = 4.00, bulk tier 4.00, loyalty 5% of 100 = 5.00,
	// redemption 5.00.
	require.True(t, dec("4.00").Equal(q.Student), "student=%s", q.Student)
	require.True(t, dec("4.00").Equal(q.Bulk))
	require.True(t, dec("5.00").Equal(q.Loyalty))
	require.True(t, dec("5.00").Equal(q.Redemption))
	assert.True(t, dec("18.00").Equal(q.Total()))
}

func TestFee_PriorityOrder(t *testing.T) {
	tests := []struct {
		name      string
		passValid bool
		liters    string
		discount  string
		want      string
	}{
		{"valid pass wins at 1 liter and zero discount", true, "1", "0", "0"},
		{"bulk threshold waives without pass", false, "10", "0", "0"},
		{"discount absorbs fee exactly", false, "1", "1.00", "0"},
		{"discount above fee still zero", false, "1", "5.00", "0"},
		{"partial absorption", false, "1", "0.50", "0.50"},
		{"no waiver full fee", false, "1", "0", "1.00"},
		{"just below bulk threshold", false, "9.99", "0", "1.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fee(tt.passValid, dec(tt.liters), dec(tt.discount))
			assert.True(t, dec(tt.want).Equal(got), "got=%s", got)
		})
	}
}

func TestLoyaltyPointsEarned_Truncates(t *testing.T) {
	assert.Equal(t, 19, LoyaltyPointsEarned(dec("19.99")))
	assert.Equal(t, 20, LoyaltyPointsEarned(dec("20.00")))
	assert.Equal(t, 0, LoyaltyPointsEarned(dec("0.99")))
}

func TestPassTariff(t *testing.T) {
	cost, validity, ok := PassTariff(user.PassWeekly)
	require.True(t, ok)
	assert.True(t, dec("15.00").Equal(cost))
	assert.Equal(t, WeeklyPassDays*24, int(validity.Hours()))

	cost, validity, ok = PassTariff(user.PassMonthly)
	require.True(t, ok)
	assert.True(t, dec("50.00").Equal(cost))
	assert.Equal(t, MonthlyPassDays*24, int(validity.Hours()))

	_, _, ok = PassTariff(user.PassNone)
	assert.False(t, ok)
}

func TestTopUpBonus(t *testing.T) {
	assert.True(t, dec("2.00").Equal(TopUpBonus(decimal.NewFromInt(100))))
	assert.True(t, TopUpBonus(dec("99.99")).IsZero())
	assert.True(t, dec("4.00").Equal(TopUpBonus(decimal.NewFromInt(200))))
}
