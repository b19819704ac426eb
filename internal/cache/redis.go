package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pdrpinto/gridpath"
	backend "github.com/redis/go-redis/v9"
)

// Redis is a Cache shared between processes through a Redis server.
type Redis struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

var _ Cache = (*Redis)(nil)

type Option func(*Redis)

// WithTTL sets the expiration for cached results.
func WithTTL(ttl time.Duration) Option {
	return func(r *Redis) {
		r.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(r *Redis) {
		r.prefix = prefix
	}
}

// NewRedis connects to the server at address.
func NewRedis(address, password string, db int, opts ...Option) *Redis {
	return NewRedisFromClient(backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	}), opts...)
}

// NewRedisFromClient wraps an existing client.
func NewRedisFromClient(client *backend.Client, opts ...Option) *Redis {
	r := &Redis{
		client: client,
		prefix: "gridpath:path:",
		ttl:    0, // No expiration by default
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Redis) key(key Key) string {
	return r.prefix + key.String()
}

// Get loads a cached result.
func (r *Redis) Get(ctx context.Context, key Key) (gridpath.Result, bool, error) {
	val, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return gridpath.Result{}, false, nil
		}
		return gridpath.Result{}, false, fmt.Errorf("failed to get from redis: %w", err)
	}

	var result gridpath.Result
	if err := json.Unmarshal(val, &result); err != nil {
		return gridpath.Result{}, false, fmt.Errorf("failed to unmarshal result: %w", err)
	}
	if result.Path == nil {
		result.Path = gridpath.Path{}
	}
	return result, true, nil
}

// Put stores a result.
func (r *Redis) Put(ctx context.Context, key Key, result gridpath.Result) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	if err := r.client.Set(ctx, r.key(key), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Ping checks connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the redis client.
func (r *Redis) Close() error {
	return r.client.Close()
}
