package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/brightpath/institute-api/internal/config"
	"github.com/brightpath/institute-api/internal/model"
	"github.com/brightpath/institute-api/internal/notify"
)

// ActivityPublisher fans events out to the admin live feed.
type ActivityPublisher interface {
	Publish(ctx context.Context, ev model.ActivityEvent) error
}

// ActivityFeed publishes activity events on a Redis PubSub channel.
type ActivityFeed struct {
	rdb *redis.Client
}

// NewActivityFeed creates a new ActivityFeed.
func NewActivityFeed(rdb *redis.Client) *ActivityFeed {
	return &ActivityFeed{rdb: rdb}
}

func (f *ActivityFeed) Publish(ctx context.Context, ev model.ActivityEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal activity: %w", err)
	}
	return f.rdb.Publish(ctx, config.CacheKey.ActivityChannel(), payload).Err()
}

// Subscribe opens a subscription to the activity channel. Callers close it.
func (f *ActivityFeed) Subscribe(ctx context.Context) *redis.PubSub {
	return f.rdb.Subscribe(ctx, config.CacheKey.ActivityChannel())
}

// enqueue hands a notification to the outbox. Failures never reach the caller.
func enqueue(ctx context.Context, q notify.Queue, log zerolog.Logger, n notify.Notification) {
	if q == nil || len(n.To) == 0 {
		return
	}
	if err := q.Enqueue(ctx, n); err != nil {
		log.Warn().Err(err).Str("kind", string(n.Kind)).Msg("Failed to enqueue notification")
	}
}

// publish pushes an activity event. Failures never reach the caller.
func publish(ctx context.Context, feed ActivityPublisher, log zerolog.Logger, ev model.ActivityEvent) {
	if feed == nil {
		return
	}
	if err := feed.Publish(ctx, ev); err != nil {
		log.Warn().Err(err).Str("kind", string(ev.Kind)).Msg("Failed to publish activity")
	}
}
