package store

import (
	"context"
	"fmt"
	"strings"
)

type Profile struct {
	Name    string
	Email   string
	Phone   string
	Company string
}

// UpdateProfileInput carries a partial update: empty fields are left
// unchanged.
type UpdateProfileInput struct {
	Name    string
	Email   string
	Phone   string
	Company string
}

func (i UpdateProfileInput) IsEmpty() bool {
	return strings.TrimSpace(i.Name) == "" &&
		strings.TrimSpace(i.Email) == "" &&
		strings.TrimSpace(i.Phone) == "" &&
		strings.TrimSpace(i.Company) == ""
}

func (s *Store) Profile(ctx context.Context) (Profile, error) {
	row := s.db.QueryRowContext(ctx, `SELECT name, email, phone, company FROM profile WHERE id = 1`)
	var record Profile
	if err := row.Scan(&record.Name, &record.Email, &record.Phone, &record.Company); err != nil {
		return Profile{}, fmt.Errorf("lookup profile: %w", err)
	}
	return record, nil
}

func (s *Store) UpdateProfile(ctx context.Context, input UpdateProfileInput) (Profile, error) {
	if input.IsEmpty() {
		return Profile{}, fmt.Errorf("profile update requires at least one field")
	}
	current, err := s.Profile(ctx)
	if err != nil {
		return Profile{}, err
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		current.Name = name
	}
	if email := strings.TrimSpace(input.Email); email != "" {
		current.Email = email
	}
	if phone := strings.TrimSpace(input.Phone); phone != "" {
		current.Phone = phone
	}
	if company := strings.TrimSpace(input.Company); company != "" {
		current.Company = company
	}
	if _, err := s.db.ExecContext(
		ctx,
		`UPDATE profile SET name = ?, email = ?, phone = ?, company = ? WHERE id = 1`,
		current.Name, current.Email, current.Phone, current.Company,
	); err != nil {
		return Profile{}, fmt.Errorf("update profile: %w", err)
	}
	return current, nil
}
