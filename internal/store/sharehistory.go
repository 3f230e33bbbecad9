package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	ShareMethodEmail = "email"
	ShareMethodFax   = "fax"

	ShareStatusDelivered = "delivered"
	ShareStatusQueued    = "queued"
	ShareStatusFailed    = "failed"
)

type Share struct {
	ID            string
	RecipientName string
	Method        string
	Status        string
	DocumentID    string
	CreatedAt     time.Time
}

type AppendShareInput struct {
	RecipientName string
	Method        string
	Status        string
	DocumentID    string
}

func (s *Store) AppendShare(ctx context.Context, input AppendShareInput) (Share, error) {
	recipient := strings.TrimSpace(input.RecipientName)
	method := strings.ToLower(strings.TrimSpace(input.Method))
	status := strings.ToLower(strings.TrimSpace(input.Status))
	if recipient == "" || method == "" {
		return Share{}, fmt.Errorf("share recipient and method are required")
	}
	if status == "" {
		status = ShareStatusQueued
	}
	record := Share{
		ID:            "shr_" + uuid.NewString(),
		RecipientName: recipient,
		Method:        method,
		Status:        status,
		DocumentID:    strings.TrimSpace(input.DocumentID),
		CreatedAt:     time.Now().UTC(),
	}
	if _, err := s.db.ExecContext(
		ctx,
		`INSERT INTO share_history (id, recipient_name, method, status, document_id, created_at_unix)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		record.ID, record.RecipientName, record.Method, record.Status, record.DocumentID, record.CreatedAt.Unix(),
	); err != nil {
		return Share{}, fmt.Errorf("insert share: %w", err)
	}
	return record, nil
}

func (s *Store) RecentShares(ctx context.Context, limit int) ([]Share, error) {
	if limit < 1 {
		limit = 10
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, recipient_name, method, status, document_id, created_at_unix
		 FROM share_history ORDER BY created_at_unix DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query shares: %w", err)
	}
	defer rows.Close()

	results := []Share{}
	for rows.Next() {
		var record Share
		var createdAt int64
		if err := rows.Scan(&record.ID, &record.RecipientName, &record.Method, &record.Status, &record.DocumentID, &createdAt); err != nil {
			return nil, fmt.Errorf("scan share: %w", err)
		}
		record.CreatedAt = time.Unix(createdAt, 0).UTC()
		results = append(results, record)
	}
	return results, rows.Err()
}

func (s *Store) DeliveredShareCount(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(
		ctx,
		`SELECT COUNT(*) FROM share_history WHERE status = ?`,
		ShareStatusDelivered,
	).Scan(&count); err != nil {
		return 0, fmt.Errorf("count delivered shares: %w", err)
	}
	return count, nil
}

func (s *Store) ClearShareHistory(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM share_history`)
	if err != nil {
		return 0, fmt.Errorf("clear share history: %w", err)
	}
	return result.RowsAffected()
}
