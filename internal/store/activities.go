package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Activity struct {
	ID        string
	Kind      string
	Title     string
	CreatedAt time.Time
}

func (s *Store) AppendActivity(ctx context.Context, kind, title string) (Activity, error) {
	kind = strings.ToLower(strings.TrimSpace(kind))
	title = strings.TrimSpace(title)
	if kind == "" || title == "" {
		return Activity{}, fmt.Errorf("activity kind and title are required")
	}
	record := Activity{
		ID:        "act_" + uuid.NewString(),
		Kind:      kind,
		Title:     title,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.db.ExecContext(
		ctx,
		`INSERT INTO activities (id, kind, title, created_at_unix) VALUES (?, ?, ?, ?)`,
		record.ID, record.Kind, record.Title, record.CreatedAt.Unix(),
	); err != nil {
		return Activity{}, fmt.Errorf("insert activity: %w", err)
	}
	return record, nil
}

func (s *Store) RecentActivities(ctx context.Context, limit int) ([]Activity, error) {
	if limit < 1 {
		limit = 10
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, kind, title, created_at_unix FROM activities ORDER BY created_at_unix DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query activities: %w", err)
	}
	defer rows.Close()

	results := []Activity{}
	for rows.Next() {
		var record Activity
		var createdAt int64
		if err := rows.Scan(&record.ID, &record.Kind, &record.Title, &createdAt); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		record.CreatedAt = time.Unix(createdAt, 0).UTC()
		results = append(results, record)
	}
	return results, rows.Err()
}

func (s *Store) ClearActivities(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM activities`)
	if err != nil {
		return 0, fmt.Errorf("clear activities: %w", err)
	}
	return result.RowsAffected()
}
