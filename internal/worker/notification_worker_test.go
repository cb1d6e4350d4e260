package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/brightpath/institute-api/internal/notify"
)

func TestRetryPolicyDelay(t *testing.T) {
	p := RetryPolicy{MaxAttempts: 5, BaseDelay: 10 * time.Second, MaxDelay: time.Minute}

	want := []time.Duration{10 * time.Second, 20 * time.Second, 40 * time.Second, time.Minute, time.Minute}
	for attempt, w := range want {
		if got := p.Delay(attempt); got != w {
			t.Errorf("Delay(%d) = %v, want %v", attempt, got, w)
		}
	}
	if got := p.Delay(-3); got != 10*time.Second {
		t.Errorf("Delay(-3) = %v", got)
	}
}

func TestRetryPolicyExhausted(t *testing.T) {
	p := RetryPolicy{MaxAttempts: 3}
	if p.Exhausted(2) {
		t.Error("2 of 3 attempts should not be exhausted")
	}
	if !p.Exhausted(3) {
		t.Error("3 of 3 attempts should be exhausted")
	}
}

type stubRenderer struct {
	err error
}

func (r stubRenderer) Render(_ context.Context, n notify.Notification) (string, string, error) {
	if r.err != nil {
		return "", "", r.err
	}
	return "Subject " + string(n.Kind), "<p>" + n.Data["name"] + "</p>", nil
}

type recordingSender struct {
	sent []notify.Message
	err  error
}

func (s *recordingSender) Send(_ context.Context, msg notify.Message) (notify.SendResult, error) {
	if s.err != nil {
		return notify.SendResult{}, s.err
	}
	s.sent = append(s.sent, msg)
	return notify.SendResult{MessageID: "m1", SentAt: time.Now()}, nil
}

func TestDeliver(t *testing.T) {
	sender := &recordingSender{}
	w := NewNotificationWorker(nil, stubRenderer{}, sender, RetryPolicy{MaxAttempts: 3, BaseDelay: time.Second}, "noreply@example.com", zerolog.Nop())

	err := w.deliver(context.Background(), notify.Notification{
		Kind: notify.KindRegistrationConfirmation,
		To:   []string{"asha@example.com"},
		Data: map[string]string{"name": "Asha"},
	})
	if err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(sender.sent))
	}
	msg := sender.sent[0]
	if msg.From != "noreply@example.com" || msg.HTML != "<p>Asha</p>" || msg.To[0] != "asha@example.com" {
		t.Errorf("message = %+v", msg)
	}
}

func TestDeliverFailuresClassified(t *testing.T) {
	ctx := context.Background()
	policy := RetryPolicy{MaxAttempts: 3, BaseDelay: time.Second}

	transient := NewNotificationWorker(nil, stubRenderer{}, &recordingSender{err: errors.New("smtp timeout")}, policy, "", zerolog.Nop())
	err := transient.deliver(ctx, notify.Notification{Kind: notify.KindContactAdminAlert, To: []string{"a@example.com"}})
	if err == nil || permanent(err) {
		t.Errorf("transport failure should be retryable, got %v", err)
	}

	unknown := NewNotificationWorker(nil, stubRenderer{err: notify.ErrUnknownKind}, &recordingSender{}, policy, "", zerolog.Nop())
	err = unknown.deliver(ctx, notify.Notification{Kind: "mystery", To: []string{"a@example.com"}})
	if !permanent(err) {
		t.Errorf("unknown kind should be permanent, got %v", err)
	}

	err = unknown.deliver(ctx, notify.Notification{Kind: notify.KindContactAdminAlert})
	if !permanent(err) {
		t.Errorf("missing recipients should be permanent, got %v", err)
	}
}
