package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ProviderTokenCache holds provider-issued access tokens for the duration
// of a session, keyed by account email and provider. Logout flows read the
// cached token when the client did not present one, then clear it.
type ProviderTokenCache interface {
	Store(ctx context.Context, email string, provider Provider, token string, ttl time.Duration) error
	// Load returns ErrProviderTokenNotFound when nothing is cached.
	Load(ctx context.Context, email string, provider Provider) (string, error)
	Clear(ctx context.Context, email string, provider Provider) error
}

type cachedToken struct {
	token     string
	expiresAt time.Time
}

// MemoryProviderTokenCache is a thread-safe in-memory cache with lazy
// expiry, suitable for single-process deployments and tests.
type MemoryProviderTokenCache struct {
	mu     sync.Mutex
	tokens map[string]cachedToken
	now    func() time.Time
}

// NewMemoryProviderTokenCache creates an empty in-memory cache.
func NewMemoryProviderTokenCache() *MemoryProviderTokenCache {
	return &MemoryProviderTokenCache{
		tokens: make(map[string]cachedToken),
		now:    time.Now,
	}
}

func (c *MemoryProviderTokenCache) Store(_ context.Context, email string, provider Provider, token string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens[providerTokenKey(email, provider)] = cachedToken{
		token:     token,
		expiresAt: c.now().Add(ttl),
	}
	return nil
}

func (c *MemoryProviderTokenCache) Load(_ context.Context, email string, provider Provider) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := providerTokenKey(email, provider)
	entry, ok := c.tokens[key]
	if !ok {
		return "", ErrProviderTokenNotFound
	}
	if !entry.expiresAt.After(c.now()) {
		delete(c.tokens, key)
		return "", ErrProviderTokenNotFound
	}
	return entry.token, nil
}

func (c *MemoryProviderTokenCache) Clear(_ context.Context, email string, provider Provider) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.tokens, providerTokenKey(email, provider))
	return nil
}

// RedisProviderTokenCache shares cached provider tokens across instances.
// Expiry is delegated to Redis TTLs.
type RedisProviderTokenCache struct {
	client redis.UniversalClient
}

// NewRedisProviderTokenCache creates a cache over the given Redis client.
func NewRedisProviderTokenCache(client redis.UniversalClient) *RedisProviderTokenCache {
	return &RedisProviderTokenCache{client: client}
}

func (c *RedisProviderTokenCache) Store(ctx context.Context, email string, provider Provider, token string, ttl time.Duration) error {
	if err := c.client.Set(ctx, providerTokenKey(email, provider), token, ttl).Err(); err != nil {
		return fmt.Errorf("store provider token: %w", err)
	}
	return nil
}

func (c *RedisProviderTokenCache) Load(ctx context.Context, email string, provider Provider) (string, error) {
	token, err := c.client.Get(ctx, providerTokenKey(email, provider)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrProviderTokenNotFound
		}
		return "", fmt.Errorf("load provider token: %w", err)
	}
	return token, nil
}

func (c *RedisProviderTokenCache) Clear(ctx context.Context, email string, provider Provider) error {
	if err := c.client.Del(ctx, providerTokenKey(email, provider)).Err(); err != nil {
		return fmt.Errorf("clear provider token: %w", err)
	}
	return nil
}

func providerTokenKey(email string, provider Provider) string {
	return fmt.Sprintf("provider_token:%s:%s", provider, email)
}
