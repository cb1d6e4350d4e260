package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/brightpath/institute-api/internal/config"
	"github.com/brightpath/institute-api/internal/metrics"
	"github.com/brightpath/institute-api/internal/notify"
)

const (
	PollTimeout    = 1 * time.Second
	PromoteBatch   = 100
	DefaultMaxWait = 30 * time.Minute
)

var errNoRecipients = errors.New("notification has no recipients")

// Renderer turns a notification job into subject and HTML body.
type Renderer interface {
	Render(ctx context.Context, n notify.Notification) (string, string, error)
}

// RetryPolicy decides how long a failed job waits and when it is given up on.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// Delay is BaseDelay * 2^attempt, capped at MaxDelay. attempt counts earlier failures.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	d := p.BaseDelay
	for i := 0; i < attempt; i++ {
		d *= 2
		if d >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	if d > p.MaxDelay {
		return p.MaxDelay
	}
	return d
}

// Exhausted reports whether a job that has failed attempts times is dead.
func (p RetryPolicy) Exhausted(attempts int) bool {
	return attempts >= p.MaxAttempts
}

// NotificationWorker consumes the notification queue, renders each job and
// hands it to the mail transport. Failed jobs wait in a Redis sorted set
// scored by their due time and are moved back to the queue when due.
type NotificationWorker struct {
	rdb      *redis.Client
	renderer Renderer
	sender   notify.Sender
	policy   RetryPolicy
	from     string
	log      zerolog.Logger
	now      func() time.Time
}

// NewNotificationWorker creates a new NotificationWorker.
func NewNotificationWorker(rdb *redis.Client, renderer Renderer, sender notify.Sender, policy RetryPolicy, from string, log zerolog.Logger) *NotificationWorker {
	if policy.MaxDelay <= 0 {
		policy.MaxDelay = DefaultMaxWait
	}
	return &NotificationWorker{
		rdb:      rdb,
		renderer: renderer,
		sender:   sender,
		policy:   policy,
		from:     from,
		log:      log.With().Str("component", "notification_worker").Logger(),
		now:      time.Now,
	}
}

// Start begins the infinite worker loop. Call in a goroutine.
func (w *NotificationWorker) Start(ctx context.Context) {
	w.log.Info().Msg("Worker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopping...")
			// Drain remaining items before exit.
			w.drain(context.Background())
			w.log.Info().Msg("Worker stopped")
			return
		default:
			w.promoteDue(ctx)
			w.processNext(ctx)
		}
	}
}

func (w *NotificationWorker) processNext(ctx context.Context) {
	// BLPop blocks until an item is available or timeout.
	result, err := w.rdb.BLPop(ctx, PollTimeout, config.WorkerKey.NotificationQueue).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
			w.log.Error().Err(err).Msg("BLPop error")
		}
		return
	}
	if len(result) < 2 {
		return
	}
	w.handle(ctx, result[1])
}

// handle delivers one raw job and schedules a retry or dead-letters it on failure.
func (w *NotificationWorker) handle(ctx context.Context, raw string) {
	var n notify.Notification
	if err := json.Unmarshal([]byte(raw), &n); err != nil {
		w.log.Error().Err(err).Msg("Unmarshal error, job dead-lettered")
		w.rdb.RPush(ctx, config.WorkerKey.NotificationDeadLetter, raw)
		return
	}

	err := w.deliver(ctx, n)
	if err == nil {
		metrics.NotificationsProcessed.WithLabelValues(string(n.Kind), "sent").Inc()
		return
	}

	delay := w.policy.Delay(n.Attempts)
	n.Attempts++
	n.LastError = err.Error()
	logEvt := w.log.Warn().Err(err).Str("id", n.ID).Str("kind", string(n.Kind)).Int("attempts", n.Attempts)

	payload, _ := json.Marshal(n)
	if permanent(err) || w.policy.Exhausted(n.Attempts) {
		metrics.NotificationsProcessed.WithLabelValues(string(n.Kind), "dead").Inc()
		logEvt.Msg("Delivery failed, job dead-lettered")
		if err := w.rdb.RPush(ctx, config.WorkerKey.NotificationDeadLetter, payload).Err(); err != nil {
			w.log.Error().Err(err).Str("id", n.ID).Msg("Dead-letter push failed")
		}
		return
	}

	metrics.NotificationsProcessed.WithLabelValues(string(n.Kind), "retried").Inc()
	due := w.now().Add(delay)
	logEvt.Time("retry_at", due).Msg("Delivery failed, retry scheduled")
	if err := w.rdb.ZAdd(ctx, config.WorkerKey.NotificationRetrySet, redis.Z{
		Score:  float64(due.UnixMilli()),
		Member: string(payload),
	}).Err(); err != nil {
		w.log.Error().Err(err).Str("id", n.ID).Msg("Retry schedule failed")
	}
}

// permanent reports failures that retrying cannot fix.
func permanent(err error) bool {
	return errors.Is(err, notify.ErrUnknownKind) || errors.Is(err, errNoRecipients)
}

// deliver renders and sends n.
func (w *NotificationWorker) deliver(ctx context.Context, n notify.Notification) error {
	if len(n.To) == 0 {
		return errNoRecipients
	}
	subject, body, err := w.renderer.Render(ctx, n)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	res, err := w.sender.Send(ctx, notify.Message{
		To:      n.To,
		From:    w.from,
		Subject: subject,
		HTML:    body,
	})
	if err != nil {
		return fmt.Errorf("send: %w", err)
	}
	w.log.Debug().Str("id", n.ID).Str("kind", string(n.Kind)).Str("message_id", res.MessageID).Msg("Notification sent")
	return nil
}

// promoteDue moves retry jobs whose due time has passed back onto the queue.
// ZRem decides ownership, so concurrent workers never promote a job twice.
func (w *NotificationWorker) promoteDue(ctx context.Context) {
	due, err := w.rdb.ZRangeByScore(ctx, config.WorkerKey.NotificationRetrySet, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   strconv.FormatInt(w.now().UnixMilli(), 10),
		Count: PromoteBatch,
	}).Result()
	if err != nil {
		if ctx.Err() == nil {
			w.log.Error().Err(err).Msg("Retry scan error")
		}
		return
	}

	for _, member := range due {
		removed, err := w.rdb.ZRem(ctx, config.WorkerKey.NotificationRetrySet, member).Result()
		if err != nil || removed == 0 {
			continue
		}
		if err := w.rdb.RPush(ctx, config.WorkerKey.NotificationQueue, member).Err(); err != nil {
			w.log.Error().Err(err).Msg("Retry promote failed")
		}
	}
}

// drain processes all remaining items in the queue before shutdown.
func (w *NotificationWorker) drain(ctx context.Context) {
	drained := 0
	for {
		result, err := w.rdb.LPop(ctx, config.WorkerKey.NotificationQueue).Result()
		if err != nil {
			break
		}
		w.handle(ctx, result)
		drained++
	}

	if drained > 0 {
		w.log.Info().Int("count", drained).Msg("Drained remaining items")
	}
}
