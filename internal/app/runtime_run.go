package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/docfolio/docfolio/internal/fax"
	"github.com/docfolio/docfolio/internal/store"
)

func (r *Runtime) Run(ctx context.Context) error {
	r.logger.Info("docfolio runtime starting", "addr", r.cfg.HTTPAddr, "db", r.cfg.DBPath)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return r.creds.Watch(groupCtx, r.logger.With("component", "credentials"))
	})

	if err := r.faxWorker.Start(groupCtx); err != nil {
		return err
	}

	group.Go(func() error {
		err := r.httpServer.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return r.httpServer.Shutdown(shutdownCtx)
	})

	return group.Wait()
}

// newFaxDialer returns the transmission hook for queued fax jobs. With an
// endpoint configured, jobs are POSTed to the external fax bridge; without
// one, dispatch is a logged no-op so development setups drain the queue.
func newFaxDialer(endpoint string, logger *slog.Logger) fax.Dialer {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return fax.DialerFunc(func(_ context.Context, job store.FaxJob) error {
			logger.Info("fax endpoint not configured, marking dispatched", "job", job.ID)
			return nil
		})
	}
	client := &http.Client{Timeout: 30 * time.Second}
	return fax.DialerFunc(func(ctx context.Context, job store.FaxJob) error {
		payload, err := json.Marshal(map[string]string{
			"recipient_name": job.RecipientName,
			"fax_number":     job.FaxNumber,
			"document_id":    job.DocumentID,
		})
		if err != nil {
			return err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		res, err := client.Do(req)
		if err != nil {
			return err
		}
		defer res.Body.Close()
		if res.StatusCode < 200 || res.StatusCode >= 300 {
			return fmt.Errorf("fax bridge returned status %d", res.StatusCode)
		}
		return nil
	})
}
