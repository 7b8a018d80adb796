package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bolavila/config"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/valkey-io/valkey-go"
)

const opTimeout = 5 * time.Second

// Cache is a thin valkey wrapper used to keep the last reconciliation
// report per kind. The engine never depends on it for correctness; a
// missing or unconfigured cache only means no report history.
type Cache struct {
	client valkey.Client
	log    logger.Logger
}

// New connects to valkey when an address is configured. With no address
// it returns a disabled cache whose operations are no-ops.
func New(config config.Config) (*Cache, error) {
	log := logger.New("cache")

	if config.CacheAddress == "" || config.CachePort == 0 {
		log.Info("cache not configured, report history disabled")
		return &Cache{log: log}, nil
	}

	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{fmt.Sprintf("%s:%d", config.CacheAddress, config.CachePort)},
	})
	if err != nil {
		return nil, log.Err("failed to create valkey client", err)
	}

	log.Info("cache initialized", "address", config.CacheAddress)
	return &Cache{client: client, log: log}, nil
}

func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

// SetJSON stores a value as JSON under key with the given TTL.
func (c *Cache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if !c.Enabled() {
		return nil
	}
	log := c.log.Function("SetJSON")

	data, err := json.Marshal(value)
	if err != nil {
		return log.Err("failed to marshal cache value", err, "key", key)
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	return c.client.Do(ctx,
		c.client.B().Set().Key(key).Value(string(data)).Ex(ttl).Build(),
	).Error()
}

// GetJSON loads a value by key into out, reporting whether it was found.
func (c *Cache) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	if !c.Enabled() {
		return false, nil
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	data, err := c.client.Do(ctx, c.client.B().Get().Key(key).Build()).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return false, nil
		}
		return false, err
	}

	if data == "" {
		return false, nil
	}

	if err := json.Unmarshal([]byte(data), out); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Cache) Close() {
	if c.Enabled() {
		c.client.Close()
	}
}
