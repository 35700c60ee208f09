package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestTransaction_BaseCost(t *testing.T) {
	// final = base - discount + fee, so base = final + discount - fee.
	tx := Transaction{
		Amount:   dec("9.00"),
		Discount: dec("2.00"),
		Fee:      dec("1.00"),
	}
	assert.True(t, dec("10.00").Equal(tx.BaseCost()))
}

func TestTransaction_Bulk(t *testing.T) {
	assert.True(t, (&Transaction{Liters: dec("10")}).Bulk())
	assert.False(t, (&Transaction{Liters: dec("9.99")}).Bulk())
}

func TestParsePaymentMethod(t *testing.T) {
	m, ok := ParsePaymentMethod("cash")
	assert.True(t, ok)
	assert.Equal(t, Cash, m)

	m, ok = ParsePaymentMethod("digital")
	assert.True(t, ok)
	assert.Equal(t, Digital, m)

	_, ok = ParsePaymentMethod("crypto")
	assert.False(t, ok)
}

func TestRecompute_MatchesIncrementalFold(t *testing.T) {
	now := time.Now()
	txs := []Transaction{
		{ID: 1, UserID: 1, Amount: dec("3.00"), Liters: dec("1"), PaymentMethod: Digital, Fee: dec("1.00"), Discount: decimal.Zero, CreatedAt: now},
		{ID: 2, UserID: 1, Amount: dec("18.00"), Liters: dec("10"), PaymentMethod: Cash, Fee: decimal.Zero, Discount: dec("2.00"), CreatedAt: now},
		{ID: 3, UserID: 2, Amount: dec("31.00"), Liters: dec("20"), PaymentMethod: Digital, Fee: decimal.Zero, Discount: dec("9.00"), CreatedAt: now},
	}

	var incremental Analytics
	for i := range txs {
		incremental.Fold(&txs[i])
	}
	recomputed := Recompute(txs)

	assert.True(t, incremental.ConsistentWith(recomputed))
	// Bases: 2.00 + 20.00 + 40.00.
	assert.True(t, dec("62.00").Equal(recomputed.TotalRevenue), "revenue=%s", recomputed.TotalRevenue)
	assert.True(t, dec("1.00").Equal(recomputed.TotalFees))
	assert.True(t, dec("11.00").Equal(recomputed.TotalDiscounts))
	assert.Equal(t, 1, recomputed.CashTransactions)
	assert.Equal(t, 2, recomputed.DigitalTransactions)
	assert.Equal(t, 2, recomputed.BulkPurchases)
}

func TestAnalytics_NetRevenue(t *testing.T) {
	a := Analytics{
		TotalRevenue:   dec("100.00"),
		TotalFees:      dec("5.00"),
		TotalDiscounts: dec("12.00"),
	}
	assert.True(t, dec("93.00").Equal(a.NetRevenue()))
}

func TestConsistentWith_IgnoresPassHolders(t *testing.T) {
	a := Analytics{TotalRevenue: dec("10.00"), PassHolders: 3}
	b := Analytics{TotalRevenue: dec("10.00"), PassHolders: 0}
	assert.True(t, a.ConsistentWith(b))

	b.TotalRevenue = dec("11.00")
	assert.False(t, a.ConsistentWith(b))
}
