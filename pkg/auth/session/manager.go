package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/angelmondragon/storefront/pkg/config"
	redisclient "github.com/angelmondragon/storefront/pkg/redis"
	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
)

// ErrSessionNotFound signals a revoked, expired or unknown session id.
var ErrSessionNotFound = errors.New("session not found")

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type sessionKeyer interface {
	AccessSessionKey(accessID string) string
}

// Manager registers signed-in sessions in Redis so they can be revoked before the token expires.
type Manager struct {
	store sessionStore
	keyer sessionKeyer
	ttl   time.Duration
}

// AccessSessionChecker exposes the read-only surface needed by middleware.
type AccessSessionChecker interface {
	Lookup(ctx context.Context, accessID string) (uint, error)
}

// NewManager constructs a session manager backed by Redis.
func NewManager(client *redisclient.Client, cfg config.SessionConfig) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	ttl := cfg.TTL()
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}

	return &Manager{
		store: client,
		keyer: client,
		ttl:   ttl,
	}, nil
}

// Register records the session id as belonging to accountID for the session TTL.
func (m *Manager) Register(ctx context.Context, accessID string, accountID uint) error {
	if strings.TrimSpace(accessID) == "" {
		return fmt.Errorf("access id is required")
	}
	if accountID == 0 {
		return fmt.Errorf("account id is required")
	}
	return m.store.Set(ctx, m.keyer.AccessSessionKey(accessID), strconv.FormatUint(uint64(accountID), 10), m.ttl)
}

// Lookup returns the account bound to the session id, or ErrSessionNotFound.
func (m *Manager) Lookup(ctx context.Context, accessID string) (uint, error) {
	if strings.TrimSpace(accessID) == "" {
		return 0, ErrSessionNotFound
	}
	raw, err := m.store.Get(ctx, m.keyer.AccessSessionKey(accessID))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return 0, ErrSessionNotFound
		}
		return 0, err
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, ErrSessionNotFound
	}
	return uint(id), nil
}

// HasSession reports whether the provided access ID is still registered.
func (m *Manager) HasSession(ctx context.Context, accessID string) (bool, error) {
	if _, err := m.Lookup(ctx, accessID); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Revoke deletes the session mapping tied to the access identifier.
func (m *Manager) Revoke(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return fmt.Errorf("access id is required")
	}
	return m.store.Del(ctx, m.keyer.AccessSessionKey(accessID))
}

// TTL exposes the configured session lifetime.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// NewAccessID produces an identifier used as the JWT jti and Redis key.
func NewAccessID() string {
	return uuid.NewString()
}
