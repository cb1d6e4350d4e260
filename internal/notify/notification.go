package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/brightpath/institute-api/internal/config"
)

// Kind identifies which message a notification renders.
type Kind string

const (
	KindRegistrationConfirmation Kind = "registration_confirmation"
	KindPaymentConfirmation      Kind = "payment_confirmation"
	KindPaymentAdminAlert        Kind = "payment_admin_alert"
	KindGrievanceConfirmation    Kind = "grievance_confirmation"
	KindGrievanceStatusUpdate    Kind = "grievance_status_update"
	KindContactAdminAlert        Kind = "contact_admin_alert"
)

// Notification is one outbox job. Data feeds the template placeholders.
type Notification struct {
	ID         string            `json:"id"`
	Kind       Kind              `json:"kind"`
	To         []string          `json:"to"`
	Data       map[string]string `json:"data"`
	Attempts   int               `json:"attempts"`
	LastError  string            `json:"last_error,omitempty"`
	EnqueuedAt time.Time         `json:"enqueued_at"`
}

// Queue accepts notifications for asynchronous delivery.
type Queue interface {
	Enqueue(ctx context.Context, n Notification) error
}

// RedisQueue pushes notifications onto the worker's Redis list.
type RedisQueue struct {
	rdb *redis.Client
}

// NewRedisQueue creates a new RedisQueue.
func NewRedisQueue(rdb *redis.Client) *RedisQueue {
	return &RedisQueue{rdb: rdb}
}

// Enqueue stamps the job and appends it to the notification queue.
func (q *RedisQueue) Enqueue(ctx context.Context, n Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.EnqueuedAt.IsZero() {
		n.EnqueuedAt = time.Now().UTC()
	}
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	if err := q.rdb.RPush(ctx, config.WorkerKey.NotificationQueue, payload).Err(); err != nil {
		return fmt.Errorf("push notification: %w", err)
	}
	return nil
}
