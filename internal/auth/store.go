package auth

import (
	"context"
	"sync"

	"wispgate/internal/structs"
	"wispgate/pkg/utils"
)

// UserStore holds gateway login accounts.
type UserStore interface {
	Lookup(ctx context.Context, username string) (structs.User, error)
	Create(ctx context.Context, user structs.User) error
}

type memoryStore struct {
	mu    sync.RWMutex
	users map[string]structs.User
}

// NewMemoryStore builds the fallback store used when no database is
// configured. It is seeded with two well-known demo accounts so the
// gateway is usable out of the box.
func NewMemoryStore() UserStore {
	store := &memoryStore{users: map[string]structs.User{}}

	demoClientID := int64(1)
	seed := []struct {
		username string
		password string
		email    string
		isAdmin  bool
		clientID *int64
	}{
		{"admin", "admin123", "admin@wispgate.local", true, nil},
		{"demo", "demo123", "demo@wispgate.local", false, &demoClientID},
	}

	for _, u := range seed {
		hash, err := utils.HashPassword(u.password)
		if err != nil {
			continue
		}
		store.users[u.username] = structs.User{
			Username:     u.username,
			PasswordHash: hash,
			Email:        u.email,
			IsAdmin:      u.isAdmin,
			ClientID:     u.clientID,
		}
	}

	return store
}

func (s *memoryStore) Lookup(_ context.Context, username string) (structs.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[username]
	if !ok {
		return structs.User{}, structs.ErrNotFound
	}
	return user, nil
}

func (s *memoryStore) Create(_ context.Context, user structs.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.Username]; ok {
		return structs.ErrUserExists
	}
	s.users[user.Username] = user
	return nil
}
