package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID        string
	Title     string
	Body      string
	Read      bool
	CreatedAt time.Time
}

func (s *Store) AppendNotification(ctx context.Context, title, body string) (Notification, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Notification{}, fmt.Errorf("notification title is required")
	}
	record := Notification{
		ID:        "ntf_" + uuid.NewString(),
		Title:     title,
		Body:      strings.TrimSpace(body),
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.db.ExecContext(
		ctx,
		`INSERT INTO notifications (id, title, body, read, created_at_unix) VALUES (?, ?, ?, 0, ?)`,
		record.ID, record.Title, record.Body, record.CreatedAt.Unix(),
	); err != nil {
		return Notification{}, fmt.Errorf("insert notification: %w", err)
	}
	return record, nil
}

func (s *Store) ClearNotifications(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM notifications`)
	if err != nil {
		return 0, fmt.Errorf("clear notifications: %w", err)
	}
	return result.RowsAffected()
}

func (s *Store) MarkNotificationsRead(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx, `UPDATE notifications SET read = 1 WHERE read = 0`)
	if err != nil {
		return 0, fmt.Errorf("mark notifications read: %w", err)
	}
	return result.RowsAffected()
}

func (s *Store) UnreadNotificationCount(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notifications WHERE read = 0`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}
