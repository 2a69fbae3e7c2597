package valkey

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/valkey-io/valkey-go"
)

// ErrMiss is returned by Get when the key does not exist.
var ErrMiss = errors.New("cache miss")

// KeyPrefix namespaces every key written by the service.
const KeyPrefix = "accessroute:"

// Cache implements ports.CacheService using Valkey (Redis-compatible).
type Cache struct {
	client valkey.Client
}

// New connects to addr. It fails when the server cannot be reached.
func New(addr string) (*Cache, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{addr},
		Dialer:      net.Dialer{Timeout: 3 * time.Second},
	})
	if err != nil {
		return nil, fmt.Errorf("valkey connect %s: %w", addr, err)
	}
	return &Cache{client: client}, nil
}

// Get returns the value stored under key, or ErrMiss.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := c.client.Do(ctx, c.client.B().Get().Key(KeyPrefix+key).Build()).AsBytes()
	switch {
	case valkey.IsValkeyNil(err):
		return nil, ErrMiss
	case err != nil:
		return nil, fmt.Errorf("valkey get %s: %w", key, err)
	}
	return b, nil
}

// Set stores value under key for ttlSeconds.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	cmd := c.client.B().Set().
		Key(KeyPrefix + key).
		Value(valkey.BinaryString(value)).
		Ex(time.Duration(ttlSeconds) * time.Second).
		Build()
	return c.client.Do(ctx, cmd).Error()
}

// Delete removes keys in one round trip. Deleting nothing is a no-op.
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = KeyPrefix + k
	}
	return c.client.Do(ctx, c.client.B().Del().Key(prefixed...).Build()).Error()
}

// Ping checks connectivity.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Do(ctx, c.client.B().Ping().Build()).Error()
}

// Close releases the client.
func (c *Cache) Close() {
	c.client.Close()
}
