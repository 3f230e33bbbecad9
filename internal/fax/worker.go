// Package fax drains the queued fax jobs on a schedule. Dispatch is handed
// to an injectable dialer so the actual telephony integration stays outside
// the worker.
package fax

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/docfolio/docfolio/internal/store"
)

// Dialer performs one fax transmission.
type Dialer interface {
	Dial(ctx context.Context, job store.FaxJob) error
}

// DialerFunc adapts a function to the Dialer interface.
type DialerFunc func(ctx context.Context, job store.FaxJob) error

func (f DialerFunc) Dial(ctx context.Context, job store.FaxJob) error {
	return f(ctx, job)
}

type Worker struct {
	store    *store.Store
	dialer   Dialer
	schedule string
	logger   *slog.Logger
	cron     *cron.Cron
}

func NewWorker(st *store.Store, dialer Dialer, schedule string, logger *slog.Logger) *Worker {
	if schedule == "" {
		schedule = "@every 1m"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{store: st, dialer: dialer, schedule: schedule, logger: logger}
}

// Start schedules periodic flushes until ctx is cancelled. It returns after
// registering the schedule; flushing happens on the cron goroutine.
func (w *Worker) Start(ctx context.Context) error {
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(w.schedule, func() {
		if _, err := w.Flush(ctx); err != nil {
			w.logger.Warn("fax flush failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("schedule fax flush: %w", err)
	}
	scheduler.Start()
	w.cron = scheduler

	go func() {
		<-ctx.Done()
		scheduler.Stop()
	}()
	return nil
}

// Flush dispatches every queued job once. A failed dial marks the job failed
// rather than leaving it queued, so a broken number does not jam the queue.
// It returns the number of jobs successfully dispatched.
func (w *Worker) Flush(ctx context.Context) (int, error) {
	queued, err := w.store.ListQueuedFaxes(ctx, 50)
	if err != nil {
		return 0, err
	}
	dispatched := 0
	for _, job := range queued {
		if err := w.dialer.Dial(ctx, job); err != nil {
			w.logger.Warn("fax dispatch failed", "job", job.ID, "recipient", job.RecipientName, "error", err)
			if _, statusErr := w.store.UpdateFaxStatus(ctx, job.ID, store.FaxStatusFailed); statusErr != nil {
				return dispatched, statusErr
			}
			continue
		}
		if _, err := w.store.UpdateFaxStatus(ctx, job.ID, store.FaxStatusDispatched); err != nil {
			return dispatched, err
		}
		dispatched++
		w.logger.Info("fax dispatched", "job", job.ID, "recipient", job.RecipientName)
	}
	return dispatched, nil
}
