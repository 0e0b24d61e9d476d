package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"roombook/internal/domain/booking"
	"roombook/internal/infra"
	"roombook/internal/pkg/clock"
	"roombook/internal/pkg/config"
	"roombook/internal/pkg/metrics"

	"golang.org/x/sync/errgroup"
)

// Reminder is the payload handed to the notification collaborator.
type Reminder struct {
	ResourceName string
	Start        time.Time
	End          time.Time
}

// Notifier delivers a reminder to one recipient. Implementations own the
// transport; the reconciler only bounds the call with a timeout.
type Notifier interface {
	Send(ctx context.Context, recipientAddress, recipientName string, reminder Reminder) error
}

// Reconciler is the periodic task that ages bookings through their lifecycle
// and dispatches reminders. It runs on its own cadence, independent of
// request handling, and every per-booking step is an atomic single-record
// update so it can race user cancellations safely.
type Reconciler struct {
	cfg       config.ReconcilerConfig
	bookings  BookingStore
	resources ResourceStore
	notifier  Notifier
	clock     clock.Clock
	logger    *slog.Logger

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

func NewReconciler(
	cfg config.ReconcilerConfig,
	bookings BookingStore,
	resources ResourceStore,
	notifier Notifier,
	clock clock.Clock,
	logger *slog.Logger,
) *Reconciler {
	return &Reconciler{
		cfg:       cfg,
		bookings:  bookings,
		resources: resources,
		notifier:  notifier,
		clock:     clock,
		logger:    logger,
		stopCh:    make(chan struct{}),
	}
}

// Start begins the sweep loop. Idempotent.
func (r *Reconciler) Start() {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return
	}
	r.running = true
	r.mu.Unlock()

	r.wg.Add(1)
	go r.loop()

	r.logger.Info("reconciler started", "interval", r.cfg.Interval)
}

// Stop shuts the loop down and waits for an in-flight sweep to finish.
func (r *Reconciler) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	r.mu.Unlock()

	close(r.stopCh)
	r.wg.Wait()

	r.logger.Info("reconciler stopped")
}

func (r *Reconciler) loop() {
	defer r.wg.Done()

	// Run immediately on start
	r.Sweep(context.Background())

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			return
		case <-ticker.C:
			r.Sweep(context.Background())
		}
	}
}

// Sweep executes one reconciliation pass: the completion sweep, then the
// reminder sweep. Both are idempotent; running a sweep twice in immediate
// succession produces no further change.
func (r *Reconciler) Sweep(ctx context.Context) {
	metrics.IncSweepRun()
	now := r.clock.Now()

	r.completionSweep(ctx, now)
	r.reminderSweep(ctx, now)
}

func (r *Reconciler) completionSweep(ctx context.Context, now time.Time) {
	due, err := r.bookings.DueForCompletion(ctx, now)
	if err != nil {
		r.logger.Error("completion sweep: listing due bookings failed", "error", err)
		return
	}

	completed := 0
	for _, id := range due {
		_, err := r.bookings.Update(ctx, id, func(b *booking.Booking) error {
			return b.Complete(now)
		})
		switch {
		case err == nil:
			completed++
		case errors.Is(err, booking.ErrInvalidTransition), errors.Is(err, booking.ErrNotYetElapsed):
			// lost the race to a cancel or an earlier sweep; both outcomes
			// are terminal, nothing to do
		case infra.IsKind(err, infra.KindNotFound):
		default:
			r.logger.Error("completion sweep: update failed", "booking_id", id, "error", err)
		}
	}

	if completed > 0 {
		metrics.AddCompletions(completed)
		r.logger.Info("completion sweep finished", "completed", completed)
	}
}

func (r *Reconciler) reminderSweep(ctx context.Context, now time.Time) {
	from := now.Add(r.cfg.ReminderLeadMin)
	to := now.Add(r.cfg.ReminderLeadMax)

	due, err := r.bookings.DueForReminder(ctx, from, to)
	if err != nil {
		r.logger.Error("reminder sweep: listing due bookings failed", "error", err)
		return
	}
	if len(due) == 0 {
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.MaxConcurrentSends)

	for _, b := range due {
		g.Go(func() error {
			r.remind(gctx, b)
			// one booking's failure never aborts the sweep for others
			return nil
		})
	}
	_ = g.Wait()
}

// remind dispatches one reminder and then flips the flag. Dispatch failure
// (including timeout) leaves the flag unset so the next sweep retries; a
// flag-set failure after a successful dispatch degrades to at-least-once
// delivery, which is the accepted tradeoff.
func (r *Reconciler) remind(ctx context.Context, b *booking.Booking) {
	res, err := r.resources.FindByID(ctx, b.ResourceID())
	if err != nil {
		metrics.IncReminder("failed")
		r.logger.Error("reminder: resource lookup failed",
			"booking_id", b.ID(), "resource_id", b.ResourceID(), "error", err)
		return
	}

	sendCtx, cancel := context.WithTimeout(ctx, r.cfg.NotifyTimeout)
	defer cancel()

	reminder := Reminder{
		ResourceName: res.Name(),
		Start:        b.Slot().Start(),
		End:          b.Slot().End(),
	}
	if err := r.notifier.Send(sendCtx, b.Owner().Email, b.Owner().Name, reminder); err != nil {
		metrics.IncReminder("failed")
		r.logger.Error("reminder: dispatch failed",
			"booking_id", b.ID(), "recipient", b.Owner().Email, "error", err)
		return
	}

	if _, err := r.bookings.Update(ctx, b.ID(), func(b *booking.Booking) error {
		return b.MarkReminderSent()
	}); err != nil {
		// reminder went out; a duplicate on the next cycle is acceptable
		r.logger.Warn("reminder: flag update failed after dispatch",
			"booking_id", b.ID(), "error", err)
	}

	metrics.IncReminder("sent")
	r.logger.Info("reminder sent", "booking_id", b.ID(), "start", b.Slot().Start())
}
