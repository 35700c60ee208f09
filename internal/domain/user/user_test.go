package user

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPassValidAt(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		kind   PassKind
		expiry time.Time
		want   bool
	}{
		{"no pass", PassNone, time.Time{}, false},
		{"weekly pass before expiry", PassWeekly, now.Add(time.Hour), true},
		{"monthly pass before expiry", PassMonthly, now.Add(24 * time.Hour), true},
		{"expired pass with stale kind", PassMonthly, now.Add(-time.Second), false},
		{"expiry exactly now", PassWeekly, now, false},
		{"zero-value kind", "", now.Add(time.Hour), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &User{PassKind: tt.kind, PassExpiry: tt.expiry}
			assert.Equal(t, tt.want, u.PassValidAt(now))
		})
	}
}

func TestPassDaysLeftAt(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	u := &User{PassKind: PassMonthly, PassExpiry: now.Add(30 * 24 * time.Hour)}
	assert.Equal(t, 30, u.PassDaysLeftAt(now))

	// Partial days truncate.
	u.PassExpiry = now.Add(36 * time.Hour)
	assert.Equal(t, 1, u.PassDaysLeftAt(now))

	u.PassExpiry = now.Add(-time.Hour)
	assert.Equal(t, 0, u.PassDaysLeftAt(now))
}

func TestParsePassKind(t *testing.T) {
	k, ok := ParsePassKind("weekly")
	assert.True(t, ok)
	assert.Equal(t, PassWeekly, k)

	k, ok = ParsePassKind("monthly")
	assert.True(t, ok)
	assert.Equal(t, PassMonthly, k)

	_, ok = ParsePassKind("none")
	assert.False(t, ok)
	_, ok = ParsePassKind("yearly")
	assert.False(t, ok)
}
