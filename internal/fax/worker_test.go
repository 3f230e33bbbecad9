package fax

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/docfolio/docfolio/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.New(filepath.Join(t.TempDir(), "fax.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	if err := st.AutoMigrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return st
}

func TestFlushDispatchesQueuedJobs(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	for _, number := range []string{"+1-555-0101", "+1-555-0102"} {
		if _, err := st.EnqueueFax(ctx, store.EnqueueFaxInput{
			RecipientName: "Dr. Chen",
			FaxNumber:     number,
			DocumentID:    "doc_1",
		}); err != nil {
			t.Fatalf("enqueue: %v", err)
		}
	}

	var dialed []string
	worker := NewWorker(st, DialerFunc(func(_ context.Context, job store.FaxJob) error {
		dialed = append(dialed, job.FaxNumber)
		return nil
	}), "", slog.New(slog.NewTextHandler(io.Discard, nil)))

	dispatched, err := worker.Flush(ctx)
	if err != nil {
		t.Fatalf("flush: %v", err)
	}
	if dispatched != 2 || len(dialed) != 2 {
		t.Fatalf("expected 2 dispatches, got %d (dialed %v)", dispatched, dialed)
	}
	remaining, err := st.ListQueuedFaxes(ctx, 10)
	if err != nil || len(remaining) != 0 {
		t.Fatalf("queue should be empty, got %d (%v)", len(remaining), err)
	}
}

func TestFlushMarksFailedJobs(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	if _, err := st.EnqueueFax(ctx, store.EnqueueFaxInput{
		RecipientName: "Dr. Chen",
		FaxNumber:     "bad-number",
		DocumentID:    "doc_1",
	}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	worker := NewWorker(st, DialerFunc(func(context.Context, store.FaxJob) error {
		return errors.New("line busy")
	}), "", slog.New(slog.NewTextHandler(io.Discard, nil)))

	dispatched, err := worker.Flush(ctx)
	if err != nil {
		t.Fatalf("flush: %v", err)
	}
	if dispatched != 0 {
		t.Fatalf("expected no dispatches, got %d", dispatched)
	}
	// A failed job must leave the queue rather than retrying forever.
	remaining, err := st.ListQueuedFaxes(ctx, 10)
	if err != nil || len(remaining) != 0 {
		t.Fatalf("failed job still queued: %d (%v)", len(remaining), err)
	}
}
