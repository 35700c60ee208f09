// Package memory provides the in-process implementations of the domain
// repositories. State lives for the lifetime of the process; there is no
// persistence across restarts. Capacity limits are optional and disabled by
// default (0 = unbounded).
package memory

import (
	"context"
	"sync"

	"github.com/aquatap/kiosk/internal/domain/user"
)

var _ user.Repository = (*UserStore)(nil)

// UserStore is an in-memory user registry keyed by ID.
type UserStore struct {
	mu       sync.RWMutex
	users    map[int64]user.User
	nextID   int64
	maxUsers int
}

// NewUserStore creates a UserStore. maxUsers of 0 means unbounded.
func NewUserStore(maxUsers int) *UserStore {
	return &UserStore{
		users:    make(map[int64]user.User),
		maxUsers: maxUsers,
	}
}

// Create assigns the next sequential ID and stores a copy of the user.
func (s *UserStore) Create(_ context.Context, u *user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.maxUsers > 0 && len(s.users) >= s.maxUsers {
		return user.ErrRegistryFull
	}

	s.nextID++
	u.ID = s.nextID
	s.users[u.ID] = *u
	return nil
}

// Get returns a copy of the user with the given ID.
func (s *UserStore) Get(_ context.Context, id int64) (*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return &u, nil
}

// Update replaces the stored user with a copy of u.
func (s *UserStore) Update(_ context.Context, u *user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[u.ID]; !ok {
		return user.ErrNotFound
	}
	s.users[u.ID] = *u
	return nil
}

// Count returns the number of registered users.
func (s *UserStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users), nil
}
