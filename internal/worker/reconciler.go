package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// RunTimeout bounds a single reconciliation pass.
const RunTimeout = 5 * time.Minute

// PaymentReconciler resolves registrations stuck waiting on the gateway.
type PaymentReconciler interface {
	Reconcile(ctx context.Context) (int, error)
}

// Reconciler runs payment reconciliation on a cron schedule. Overlapping runs
// are skipped.
type Reconciler struct {
	payments PaymentReconciler
	cron     *cron.Cron
	log      zerolog.Logger
}

// NewReconciler creates a Reconciler for the given cron spec (e.g. "@every 15m").
func NewReconciler(payments PaymentReconciler, schedule string, log zerolog.Logger) (*Reconciler, error) {
	r := &Reconciler{
		payments: payments,
		log:      log.With().Str("component", "payment_reconciler").Logger(),
	}
	clog := cronLogger{log: r.log}
	r.cron = cron.New(
		cron.WithLogger(clog),
		cron.WithChain(cron.Recover(clog), cron.SkipIfStillRunning(clog)),
	)
	if _, err := r.cron.AddFunc(schedule, r.Run); err != nil {
		return nil, fmt.Errorf("schedule reconciler %q: %w", schedule, err)
	}
	return r, nil
}

// Start launches the scheduler in its own goroutine.
func (r *Reconciler) Start() {
	r.cron.Start()
	r.log.Info().Msg("Reconciler started")
}

// Stop stops scheduling and waits for a running pass, or ctx.
func (r *Reconciler) Stop(ctx context.Context) {
	done := r.cron.Stop()
	select {
	case <-done.Done():
		r.log.Info().Msg("Reconciler stopped")
	case <-ctx.Done():
		r.log.Warn().Msg("Reconciler stop timed out")
	}
}

// Run performs one reconciliation pass.
func (r *Reconciler) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), RunTimeout)
	defer cancel()

	start := time.Now()
	resolved, err := r.payments.Reconcile(ctx)
	if err != nil {
		r.log.Error().Err(err).Msg("Reconciliation failed")
		return
	}
	r.log.Info().
		Int("resolved", resolved).
		Dur("took", time.Since(start)).
		Msg("Reconciliation finished")
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
