package cart

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	pkgerrors "github.com/rmagtibay/tindera-backend/pkg/errors"
	"github.com/rmagtibay/tindera-backend/pkg/redis"
)

// SessionStore persists carts keyed by register session.
type SessionStore interface {
	Load(ctx context.Context, sessionID string) (*Cart, error)
	Save(ctx context.Context, sessionID string, cart *Cart) error
	Clear(ctx context.Context, sessionID string) error
}

type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore returns a SessionStore backed by Redis. Saved carts expire
// after ttl so abandoned sessions clean themselves up.
func NewRedisStore(client *redis.Client, ttl time.Duration) (SessionStore, error) {
	if client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart: redis client is required")
	}
	if ttl <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart: session ttl must be positive")
	}
	return &redisStore{client: client, ttl: ttl}, nil
}

func (s *redisStore) Load(ctx context.Context, sessionID string) (*Cart, error) {
	raw, err := s.client.Get(ctx, s.client.CartKey(sessionID))
	if err != nil {
		if errors.Is(err, redis.ErrKeyNotFound) {
			return NewCart(), nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cart: failed to load session")
	}

	var cart Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "cart: failed to decode session")
	}
	if cart.Lines == nil {
		cart.Lines = []Line{}
	}
	return &cart, nil
}

func (s *redisStore) Save(ctx context.Context, sessionID string, cart *Cart) error {
	raw, err := json.Marshal(cart)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "cart: failed to encode session")
	}
	if err := s.client.Set(ctx, s.client.CartKey(sessionID), string(raw), s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cart: failed to save session")
	}
	return nil
}

func (s *redisStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.client.CartKey(sessionID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cart: failed to clear session")
	}
	return nil
}
