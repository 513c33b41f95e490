// Package redis publishes listing lifecycle notifications over a pub/sub
// channel for downstream consumers.
package redis

import (
	"context"
	"encoding/json"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/SKR-SG/ASP/internal/engine"
)

// Dial connects and verifies the connection with a ping.
func Dial(addr, password string, db int) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}

// Notifier publishes engine listing events to one Redis channel.
type Notifier struct {
	rdb     *goredis.Client
	channel string
}

// NewNotifier creates a notifier on the given channel.
func NewNotifier(rdb *goredis.Client, channel string) *Notifier {
	return &Notifier{rdb: rdb, channel: channel}
}

// ListingChanged publishes one event. Publishing is fire-and-forget for
// the engine; an error only surfaces in logs at the call site.
func (n *Notifier) ListingChanged(ctx context.Context, event engine.ListingEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal listing event: %w", err)
	}
	if err := n.rdb.Publish(ctx, n.channel, data).Err(); err != nil {
		return fmt.Errorf("publish listing event: %w", err)
	}
	return nil
}
