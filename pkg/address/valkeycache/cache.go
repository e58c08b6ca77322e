package valkeycache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"
)

// ErrMiss reports a key that is not cached.
var ErrMiss = errors.New("valkeycache: miss")

// Cache is the byte store the repositories read through.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Client is a Cache backed by a Valkey server.
type Client struct {
	client valkey.Client
}

// Dial connects to the Valkey server at addr.
func Dial(addr string) (*Client, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{addr},
	})
	if err != nil {
		return nil, fmt.Errorf("valkeycache: connect %s: %w", addr, err)
	}
	return &Client{client: client}, nil
}

// Get returns the cached value or ErrMiss.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	resp := c.client.Do(ctx, c.client.B().Get().Key(key).Build())
	if err := resp.Error(); err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, ErrMiss
		}
		return nil, err
	}
	return resp.AsBytes()
}

// Set stores value under key. A non-positive ttl stores it without expiry.
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return c.client.Do(ctx, c.client.B().Set().Key(key).Value(string(value)).Build()).Error()
	}
	return c.client.Do(ctx, c.client.B().Set().Key(key).Value(string(value)).Ex(ttl).Build()).Error()
}

// Ping checks the connection.
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Do(ctx, c.client.B().Ping().Build()).Error()
}

// Close releases the client.
func (c *Client) Close() {
	c.client.Close()
}
