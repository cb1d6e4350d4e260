package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/brightpath/institute-api/internal/config"
	"github.com/brightpath/institute-api/internal/model"
)

var ErrInvalidDays = errors.New("days must be between 1 and 90")

const (
	analyticsRetention = 120 * 24 * time.Hour
	maxAnalyticsDays   = 90
)

// AnalyticsCounter stores per-day event counters.
type AnalyticsCounter interface {
	Incr(ctx context.Context, day time.Time, field string) error
	Day(ctx context.Context, day time.Time) (map[string]int64, error)
}

// RedisAnalyticsCounter keeps one hash per UTC day.
type RedisAnalyticsCounter struct {
	rdb *redis.Client
}

// NewRedisAnalyticsCounter creates a new RedisAnalyticsCounter.
func NewRedisAnalyticsCounter(rdb *redis.Client) *RedisAnalyticsCounter {
	return &RedisAnalyticsCounter{rdb: rdb}
}

func (c *RedisAnalyticsCounter) Incr(ctx context.Context, day time.Time, field string) error {
	key := config.CacheKey.AnalyticsDayKey(day)
	pipe := c.rdb.TxPipeline()
	pipe.HIncrBy(ctx, key, field, 1)
	pipe.Expire(ctx, key, analyticsRetention)
	_, err := pipe.Exec(ctx)
	return err
}

func (c *RedisAnalyticsCounter) Day(ctx context.Context, day time.Time) (map[string]int64, error) {
	raw, err := c.rdb.HGetAll(ctx, config.CacheKey.AnalyticsDayKey(day)).Result()
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(raw))
	for k, v := range raw {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			continue
		}
		counts[k] = n
	}
	return counts, nil
}

// AnalyticsService records public page events and summarizes them.
type AnalyticsService struct {
	counter AnalyticsCounter
	feed    ActivityPublisher
	log     zerolog.Logger
	now     func() time.Time
}

// NewAnalyticsService creates a new AnalyticsService.
func NewAnalyticsService(counter AnalyticsCounter, feed ActivityPublisher, log zerolog.Logger) *AnalyticsService {
	return &AnalyticsService{
		counter: counter,
		feed:    feed,
		log:     log.With().Str("component", "analytics_service").Logger(),
		now:     time.Now,
	}
}

// Record counts the event under its name and under "name:page" when a page is set.
func (s *AnalyticsService) Record(ctx context.Context, ev model.AnalyticsEvent) error {
	now := s.now().UTC()
	if err := s.counter.Incr(ctx, now, ev.Event); err != nil {
		return fmt.Errorf("count event: %w", err)
	}
	if ev.Page != "" {
		if err := s.counter.Incr(ctx, now, ev.Event+":"+ev.Page); err != nil {
			return fmt.Errorf("count page event: %w", err)
		}
	}

	fields := map[string]string{"event": ev.Event}
	if ev.Page != "" {
		fields["page"] = ev.Page
	}
	if ev.Label != "" {
		fields["label"] = ev.Label
	}
	publish(ctx, s.feed, s.log, model.ActivityEvent{
		Kind:    model.ActivityAnalytics,
		Summary: ev.Event,
		Fields:  fields,
		At:      now,
	})
	return nil
}

// Summary returns the counters for the last n days, oldest first.
func (s *AnalyticsService) Summary(ctx context.Context, days int) ([]model.AnalyticsDay, error) {
	if days < 1 || days > maxAnalyticsDays {
		return nil, ErrInvalidDays
	}

	today := s.now().UTC().Truncate(24 * time.Hour)
	out := make([]model.AnalyticsDay, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		counts, err := s.counter.Day(ctx, day)
		if err != nil {
			return nil, fmt.Errorf("read day %s: %w", day.Format(time.DateOnly), err)
		}
		out = append(out, model.AnalyticsDay{Date: day.Format(time.DateOnly), Counts: counts})
	}
	return out, nil
}
