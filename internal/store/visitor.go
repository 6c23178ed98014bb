// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"agencysite/internal/models"
)

// VisitorStore records public page views.
type VisitorStore struct {
	db *sql.DB
}

// NewVisitorStore creates a new VisitorStore with the given database connection.
func NewVisitorStore(db *sql.DB) *VisitorStore {
	return &VisitorStore{db: db}
}

// Record appends one page view.
func (s *VisitorStore) Record(ctx context.Context, v *models.Visitor) error {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("visitor id: %w", err)
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now()
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO visitors (id, ip_address, user_agent, path, referrer, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		id, v.IPAddress, v.UserAgent, v.Path, v.Referrer, v.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("record visitor: %w", err)
	}
	v.ID = id
	return nil
}

// CountSince returns the number of page views at or after since.
func (s *VisitorStore) CountSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM visitors WHERE created_at >= $1`, since,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count visitors: %w", err)
	}
	return count, nil
}

// List returns the most recent page views.
func (s *VisitorStore) List(ctx context.Context, limit int) ([]models.Visitor, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, ip_address, user_agent, path, referrer, created_at
		FROM visitors
		ORDER BY created_at DESC, id DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list visitors: %w", err)
	}
	defer rows.Close()

	var items []models.Visitor
	for rows.Next() {
		var v models.Visitor
		if err := rows.Scan(&v.ID, &v.IPAddress, &v.UserAgent, &v.Path, &v.Referrer, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan visitor: %w", err)
		}
		items = append(items, v)
	}
	return items, rows.Err()
}
