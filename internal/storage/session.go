package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/enoturismo/recorridos/internal/domain"
)

// SessionStore caches users resolved from auth API tokens. Tokens are hashed
// before they are used as keys.
type SessionStore struct {
	store Store
	ttl   time.Duration
}

func NewSessionStore(store Store, ttl time.Duration) *SessionStore {
	return &SessionStore{
		store: store,
		ttl:   ttl,
	}
}

func sessionKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "session:" + hex.EncodeToString(sum[:])
}

// GetSession returns the cached user for token, or nil when there is none.
func (s *SessionStore) GetSession(ctx context.Context, token string) (*domain.User, error) {
	data, err := s.store.Get(ctx, sessionKey(token))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}

		return nil, err
	}

	var user domain.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("corrupt session entry: %w", err)
	}

	return &user, nil
}

func (s *SessionStore) SetSession(ctx context.Context, token string, user *domain.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}

	return s.store.Set(ctx, sessionKey(token), data, s.ttl)
}

func (s *SessionStore) RemoveSession(ctx context.Context, token string) error {
	return s.store.Remove(ctx, sessionKey(token))
}
