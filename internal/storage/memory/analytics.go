package memory

import (
	"context"
	"sync"

	"github.com/aquatap/kiosk/internal/domain/ledger"
)

var _ ledger.AnalyticsRepository = (*AnalyticsStore)(nil)

// AnalyticsStore maintains the incremental analytics aggregates in memory.
// It is only ever written through RecordPurchase and RecordPassPurchase, so
// the aggregates stay a pure fold over the recorded events.
type AnalyticsStore struct {
	mu sync.RWMutex
	a  ledger.Analytics
}

// NewAnalyticsStore creates an AnalyticsStore with zeroed aggregates.
func NewAnalyticsStore() *AnalyticsStore {
	return &AnalyticsStore{}
}

// RecordPurchase folds one completed purchase into the aggregates.
func (s *AnalyticsStore) RecordPurchase(_ context.Context, t *ledger.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.a.Fold(t)
	return nil
}

// RecordPassPurchase counts one pass purchase event.
func (s *AnalyticsStore) RecordPassPurchase(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.a.PassHolders++
	return nil
}

// Snapshot returns a copy of the current aggregates.
func (s *AnalyticsStore) Snapshot(_ context.Context) (ledger.Analytics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.a, nil
}
