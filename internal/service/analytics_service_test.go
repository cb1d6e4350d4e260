package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/brightpath/institute-api/internal/model"
)

type memCounter struct {
	days map[string]map[string]int64
}

func (c *memCounter) Incr(_ context.Context, day time.Time, field string) error {
	key := day.UTC().Format(time.DateOnly)
	if c.days[key] == nil {
		c.days[key] = map[string]int64{}
	}
	c.days[key][field]++
	return nil
}

func (c *memCounter) Day(_ context.Context, day time.Time) (map[string]int64, error) {
	out := map[string]int64{}
	for k, v := range c.days[day.UTC().Format(time.DateOnly)] {
		out[k] = v
	}
	return out, nil
}

func TestAnalyticsRecordAndSummary(t *testing.T) {
	ctx := context.Background()
	counter := &memCounter{days: map[string]map[string]int64{}}
	feed := &fakeFeed{}
	svc := NewAnalyticsService(counter, feed, zerolog.Nop())

	day1 := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	svc.now = fixedClock(day1)
	svc.Record(ctx, model.AnalyticsEvent{Event: "page_view", Page: "/courses"})
	svc.Record(ctx, model.AnalyticsEvent{Event: "page_view", Page: "/courses"})

	svc.now = fixedClock(day1.Add(24 * time.Hour))
	svc.Record(ctx, model.AnalyticsEvent{Event: "register_click"})

	days, err := svc.Summary(ctx, 3)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if len(days) != 3 {
		t.Fatalf("days = %d, want 3", len(days))
	}
	if days[0].Date != "2025-05-31" || len(days[0].Counts) != 0 {
		t.Errorf("first day = %+v", days[0])
	}
	if days[1].Counts["page_view"] != 2 || days[1].Counts["page_view:/courses"] != 2 {
		t.Errorf("second day = %+v", days[1])
	}
	if days[2].Date != "2025-06-02" || days[2].Counts["register_click"] != 1 {
		t.Errorf("third day = %+v", days[2])
	}
	if len(feed.events) != 3 || feed.events[0].Kind != model.ActivityAnalytics {
		t.Errorf("activity events = %d", len(feed.events))
	}
}

func TestAnalyticsSummaryBounds(t *testing.T) {
	svc := NewAnalyticsService(&memCounter{days: map[string]map[string]int64{}}, nil, zerolog.Nop())
	for _, days := range []int{0, -1, 91} {
		if _, err := svc.Summary(context.Background(), days); !errors.Is(err, ErrInvalidDays) {
			t.Errorf("days=%d: err = %v, want ErrInvalidDays", days, err)
		}
	}
}
