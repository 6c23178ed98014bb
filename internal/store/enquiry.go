// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"agencysite/internal/models"
)

// enquiryColumns lists the columns selected in enquiry queries.
const enquiryColumns = `id, name, email, phone, subject, message, service_id, is_read, created_at`

func scanEnquiry(scanner interface{ Scan(...any) error }) (*models.Enquiry, error) {
	var e models.Enquiry
	err := scanner.Scan(
		&e.ID, &e.Name, &e.Email, &e.Phone, &e.Subject, &e.Message,
		&e.ServiceID, &e.IsRead, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// EnquiryFilter narrows List. Zero values mean "no restriction".
type EnquiryFilter struct {
	Days      int // only enquiries from the last N days
	WithEmail bool
	WithPhone bool
	Unread    bool
	Limit     int
}

// EnquiryStore handles contact-form submissions.
type EnquiryStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewEnquiryStore creates a new EnquiryStore with the given database connection.
func NewEnquiryStore(db *sql.DB) *EnquiryStore {
	return &EnquiryStore{db: db, now: time.Now}
}

// Create validates and stores a new enquiry.
func (s *EnquiryStore) Create(ctx context.Context, e *models.Enquiry) (*models.Enquiry, error) {
	if err := validateStruct("enquiry", e); err != nil {
		return nil, err
	}
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("create enquiry id: %w", err)
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO enquiries (id, name, email, phone, subject, message, service_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+enquiryColumns,
		id, e.Name, e.Email, e.Phone, e.Subject, e.Message, e.ServiceID, s.now(),
	)
	created, err := scanEnquiry(row)
	if err != nil {
		return nil, fmt.Errorf("create enquiry: %w", err)
	}
	return created, nil
}

// List returns enquiries matching f, newest first.
func (s *EnquiryStore) List(ctx context.Context, f EnquiryFilter) ([]models.Enquiry, error) {
	var (
		where []string
		args  []any
	)
	if f.Days > 0 {
		args = append(args, s.now().AddDate(0, 0, -f.Days))
		where = append(where, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if f.WithEmail {
		where = append(where, "COALESCE(email, '') <> ''")
	}
	if f.WithPhone {
		where = append(where, "COALESCE(phone, '') <> ''")
	}
	if f.Unread {
		where = append(where, "NOT is_read")
	}

	query := `SELECT ` + enquiryColumns + ` FROM enquiries`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC, id DESC`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list enquiries: %w", err)
	}
	defer rows.Close()

	var items []models.Enquiry
	for rows.Next() {
		e, err := scanEnquiry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan enquiry: %w", err)
		}
		items = append(items, *e)
	}
	return items, rows.Err()
}

// Find retrieves a single enquiry by id.
func (s *EnquiryStore) Find(ctx context.Context, id uuid.UUID) (*models.Enquiry, error) {
	e, err := scanEnquiry(s.db.QueryRowContext(ctx,
		`SELECT `+enquiryColumns+` FROM enquiries WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Entity: "enquiry", ID: id.String()}
	}
	if err != nil {
		return nil, fmt.Errorf("find enquiry: %w", err)
	}
	return e, nil
}

// MarkRead flags an enquiry as read. Marking twice is not an error.
func (s *EnquiryStore) MarkRead(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `UPDATE enquiries SET is_read = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark enquiry read: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return &NotFoundError{Entity: "enquiry", ID: id.String()}
	}
	return nil
}

// CountUnread returns the number of enquiries nobody has opened yet.
func (s *EnquiryStore) CountUnread(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM enquiries WHERE NOT is_read`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unread enquiries: %w", err)
	}
	return count, nil
}
