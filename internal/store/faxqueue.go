package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/docfolio/docfolio/internal/assisterr"
)

const (
	FaxStatusQueued     = "queued"
	FaxStatusDispatched = "dispatched"
	FaxStatusFailed     = "failed"
)

type FaxJob struct {
	ID            string
	RecipientName string
	FaxNumber     string
	DocumentID    string
	Status        string
	CreatedAt     time.Time
	DispatchedAt  time.Time
}

type EnqueueFaxInput struct {
	RecipientName string
	FaxNumber     string
	DocumentID    string
}

func (s *Store) EnqueueFax(ctx context.Context, input EnqueueFaxInput) (FaxJob, error) {
	recipient := strings.TrimSpace(input.RecipientName)
	number := strings.TrimSpace(input.FaxNumber)
	documentID := strings.TrimSpace(input.DocumentID)
	if recipient == "" || number == "" || documentID == "" {
		return FaxJob{}, fmt.Errorf("fax recipient, number and document id are required")
	}
	record := FaxJob{
		ID:            "fax_" + uuid.NewString(),
		RecipientName: recipient,
		FaxNumber:     number,
		DocumentID:    documentID,
		Status:        FaxStatusQueued,
		CreatedAt:     time.Now().UTC(),
	}
	if _, err := s.db.ExecContext(
		ctx,
		`INSERT INTO fax_jobs (id, recipient_name, fax_number, document_id, status, created_at_unix)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		record.ID, record.RecipientName, record.FaxNumber, record.DocumentID, record.Status, record.CreatedAt.Unix(),
	); err != nil {
		return FaxJob{}, fmt.Errorf("enqueue fax: %w", err)
	}
	return record, nil
}

func (s *Store) ListQueuedFaxes(ctx context.Context, limit int) ([]FaxJob, error) {
	if limit < 1 {
		limit = 20
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, recipient_name, fax_number, document_id, status, created_at_unix, dispatched_at_unix
		 FROM fax_jobs WHERE status = ? ORDER BY created_at_unix ASC LIMIT ?`,
		FaxStatusQueued, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query queued faxes: %w", err)
	}
	defer rows.Close()

	results := []FaxJob{}
	for rows.Next() {
		record, scanErr := scanFaxJob(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		results = append(results, record)
	}
	return results, rows.Err()
}

func (s *Store) UpdateFaxStatus(ctx context.Context, id, status string) (FaxJob, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if status != FaxStatusDispatched && status != FaxStatusFailed {
		return FaxJob{}, fmt.Errorf("invalid fax status: %s", status)
	}
	now := time.Now().UTC()
	result, err := s.db.ExecContext(
		ctx,
		`UPDATE fax_jobs SET status = ?, dispatched_at_unix = ? WHERE id = ?`,
		status, now.Unix(), strings.TrimSpace(id),
	)
	if err != nil {
		return FaxJob{}, fmt.Errorf("update fax status: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return FaxJob{}, assisterr.ErrNotFound
	}
	return s.lookupFaxJob(ctx, id)
}

func (s *Store) lookupFaxJob(ctx context.Context, id string) (FaxJob, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT id, recipient_name, fax_number, document_id, status, created_at_unix, dispatched_at_unix
		 FROM fax_jobs WHERE id = ?`,
		strings.TrimSpace(id),
	)
	record, err := scanFaxJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return FaxJob{}, assisterr.ErrNotFound
		}
		return FaxJob{}, err
	}
	return record, nil
}

type faxScanner interface {
	Scan(dest ...any) error
}

func scanFaxJob(scanner faxScanner) (FaxJob, error) {
	var record FaxJob
	var createdAt int64
	var dispatchedAt sql.NullInt64
	if err := scanner.Scan(&record.ID, &record.RecipientName, &record.FaxNumber, &record.DocumentID, &record.Status, &createdAt, &dispatchedAt); err != nil {
		return FaxJob{}, err
	}
	record.CreatedAt = time.Unix(createdAt, 0).UTC()
	if dispatchedAt.Valid {
		record.DispatchedAt = time.Unix(dispatchedAt.Int64, 0).UTC()
	}
	return record, nil
}
