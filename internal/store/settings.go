package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

func (s *Store) SetSetting(ctx context.Context, key string, value bool) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("setting key is required")
	}
	stored := 0
	if value {
		stored = 1
	}
	if _, err := s.db.ExecContext(
		ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, stored,
	); err != nil {
		return fmt.Errorf("set setting: %w", err)
	}
	return nil
}

// Setting returns the stored boolean, defaulting to false for keys never
// written. Key validity is enforced upstream by the action validator.
func (s *Store) Setting(ctx context.Context, key string) (bool, error) {
	var stored int
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, strings.TrimSpace(key)).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup setting: %w", err)
	}
	return stored != 0, nil
}
