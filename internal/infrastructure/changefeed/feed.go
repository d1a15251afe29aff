// internal/infrastructure/changefeed/feed.go
package changefeed

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Op identifies the kind of change an event describes
type Op string

const (
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Event describes a single row change in one of the mirrored tables
type Event struct {
	Table string `json:"table"`
	Op    Op     `json:"op"`
	ID    uint   `json:"id"`
}

// Publisher is the narrow contract admin services use to announce changes
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Feed broadcasts row-change events over a Redis pub/sub channel. Delivery is
// best effort: subscribers that miss events converge on the next full load.
type Feed struct {
	client  *redis.Client
	channel string
}

// NewFeed creates a change feed on the given pub/sub channel
func NewFeed(client *redis.Client, channel string) *Feed {
	return &Feed{
		client:  client,
		channel: channel,
	}
}

// Publish broadcasts a change event to all subscribers
func (f *Feed) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to serialize change event: %w", err)
	}

	if err := f.client.Publish(ctx, f.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish change event: %w", err)
	}

	return nil
}

// Subscribe returns a channel of decoded change events. The subscription is
// closed when the context is cancelled.
func (f *Feed) Subscribe(ctx context.Context) <-chan Event {
	sub := f.client.Subscribe(ctx, f.channel)
	events := make(chan Event)

	go func() {
		defer close(events)
		defer sub.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-sub.Channel():
				if !ok {
					return
				}

				var event Event
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					logrus.WithError(err).Warn("Discarding malformed change event")
					continue
				}

				select {
				case events <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return events
}

// NopPublisher discards all events. It stands in for the feed in tests and
// when live updates are disabled.
type NopPublisher struct{}

// Publish discards the event
func (NopPublisher) Publish(ctx context.Context, event Event) error {
	return nil
}
