package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

type countingReconciler struct {
	calls int
	err   error
}

func (c *countingReconciler) Reconcile(context.Context) (int, error) {
	c.calls++
	return 2, c.err
}

func TestReconcilerRun(t *testing.T) {
	rec := &countingReconciler{}
	r, err := NewReconciler(rec, "@every 15m", zerolog.Nop())
	if err != nil {
		t.Fatalf("new reconciler: %v", err)
	}

	r.Run()
	rec.err = errors.New("mongo down")
	r.Run()

	if rec.calls != 2 {
		t.Errorf("calls = %d, want 2", rec.calls)
	}
}

func TestReconcilerRejectsBadSchedule(t *testing.T) {
	if _, err := NewReconciler(&countingReconciler{}, "every now and then", zerolog.Nop()); err == nil {
		t.Error("expected an error for an invalid cron spec")
	}
}
