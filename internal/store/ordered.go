// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"

	"agencysite/internal/models"
	"agencysite/internal/slug"
)

// Record is implemented by every content type that embeds models.Ordered.
type Record interface {
	Base() *models.Ordered
}

// entity constrains P to be *T and a Record, so the store can allocate rows.
type entity[T any] interface {
	*T
	Record
}

// Table describes how one content type maps onto its database table.
// Column names come from code, never from input.
type Table[T any, P entity[T]] struct {
	Name   string // SQL table, e.g. "banners"
	Entity string // singular name used in errors and logs
	Flag   string // visibility column: "is_active" or "is_published"

	// DefaultVisible is the flag value for rows created without Visible().
	DefaultVisible bool

	// Columns are the payload columns written on create and update, in the
	// same order as the pointers returned by Fields.
	Columns []string
	Fields  func(P) []any

	// Stamp names an optional timestamp column set the first time a row
	// becomes visible (published_at). StampField points at its model field.
	Stamp      string
	StampField func(P) **time.Time

	// Slug is set for tables whose rows are publicly addressed by slug.
	Slug *SlugRule[T, P]
}

// SlugRule names the source text and the slug field of a slugged table.
type SlugRule[T any, P entity[T]] struct {
	Source func(P) string
	Target func(P) *string
}

// Filter selects rows by their visibility flag.
type Filter int

const (
	FilterAll Filter = iota
	FilterVisible
	FilterHidden
)

// ParseFilter maps query-string spellings onto a Filter.
func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(s) {
	case "", "all":
		return FilterAll, nil
	case "active", "published", "visible":
		return FilterVisible, nil
	case "inactive", "draft", "hidden":
		return FilterHidden, nil
	default:
		return FilterAll, fmt.Errorf("unknown filter %q", s)
	}
}

// CreateOption adjusts a single Create call.
type CreateOption func(*createOptions)

type createOptions struct {
	position *int
	visible  *bool
}

// AtPosition stores the new row at an explicit position instead of
// appending it after the current maximum.
func AtPosition(n int) CreateOption {
	return func(o *createOptions) { o.position = &n }
}

// Visible overrides the table's default visibility for the new row.
func Visible(v bool) CreateOption {
	return func(o *createOptions) { o.visible = &v }
}

// UpdateOption adjusts a single Update call.
type UpdateOption func(*updateOptions)

type updateOptions struct {
	keepSlug bool
}

// KeepSlug makes Update ignore the item's slug and keep the stored one.
// Clients that leave the slug out of a request use it so that only an
// explicitly emptied slug is re-derived.
func KeepSlug() UpdateOption {
	return func(o *updateOptions) { o.keepSlug = true }
}

// Option configures an OrderedStore.
type Option func(*orderedConfig)

type orderedConfig struct {
	policy slug.Policy
	now    func() time.Time
}

// WithSlugPolicy selects how renames affect stored slugs.
func WithSlugPolicy(p slug.Policy) Option {
	return func(c *orderedConfig) { c.policy = p }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *orderedConfig) { c.now = now }
}

// OrderedStore persists one drag-reorderable, soft-deletable content type.
// Display order is the position column, independent of primary key order.
type OrderedStore[T any, P entity[T]] struct {
	db     *sql.DB
	table  Table[T, P]
	policy slug.Policy
	now    func() time.Time
}

// NewOrderedStore returns a store for the given table description.
func NewOrderedStore[T any, P entity[T]](db *sql.DB, table Table[T, P], opts ...Option) *OrderedStore[T, P] {
	cfg := orderedConfig{policy: slug.Freeze, now: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &OrderedStore[T, P]{db: db, table: table, policy: cfg.policy, now: cfg.now}
}

// Entity returns the singular entity name, e.g. "banner".
func (s *OrderedStore[T, P]) Entity() string {
	return s.table.Entity
}

// columns returns the SELECT/RETURNING list matching dest.
func (s *OrderedStore[T, P]) columns() string {
	cols := append([]string{"id", "position", s.table.Flag, "deleted_at", "created_at", "updated_at"}, s.table.Columns...)
	if s.table.Stamp != "" {
		cols = append(cols, s.table.Stamp)
	}
	return strings.Join(cols, ", ")
}

// dest returns scan targets for a row in columns() order.
func (s *OrderedStore[T, P]) dest(item P) []any {
	b := item.Base()
	out := append([]any{&b.ID, &b.Position, &b.IsActive, &b.DeletedAt, &b.CreatedAt, &b.UpdatedAt}, s.table.Fields(item)...)
	if s.table.Stamp != "" {
		out = append(out, s.table.StampField(item))
	}
	return out
}

// values dereferences the payload field pointers into query arguments.
// Nullable fields stay as typed pointers so nil is written as NULL.
func (s *OrderedStore[T, P]) values(item P) []any {
	ptrs := s.table.Fields(item)
	out := make([]any, len(ptrs))
	for i, p := range ptrs {
		out[i] = reflect.ValueOf(p).Elem().Interface()
	}
	return out
}

// scanOne allocates a fresh row and scans into it.
func (s *OrderedStore[T, P]) scanOne(row interface{ Scan(...any) error }) (P, error) {
	item := P(new(T))
	if err := row.Scan(s.dest(item)...); err != nil {
		return nil, err
	}
	return item, nil
}

// slugValue returns the item's slug, or "" for tables without one.
func (s *OrderedStore[T, P]) slugValue(item P) string {
	if s.table.Slug == nil {
		return ""
	}
	return *s.table.Slug.Target(item)
}

// lockTable serialises position-changing writes on one table for the rest
// of the transaction.
func lockTable(ctx context.Context, tx *sql.Tx, table string) error {
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, table); err != nil {
		return fmt.Errorf("lock %s: %w", table, err)
	}
	return nil
}

// nextPosition returns MAX(position)+1 over live rows, or 1 for an empty table.
func (s *OrderedStore[T, P]) nextPosition(ctx context.Context, tx *sql.Tx) (int, error) {
	var next int
	err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position), 0) + 1 FROM `+s.table.Name+` WHERE deleted_at IS NULL`,
	).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("next %s position: %w", s.table.Entity, err)
	}
	return next, nil
}

// Create validates and inserts a new row. Without AtPosition the row is
// appended after the current maximum position. Slugged tables derive an
// empty slug from the source field, falling back to the row id.
func (s *OrderedStore[T, P]) Create(ctx context.Context, item P, opts ...CreateOption) (P, error) {
	o := createOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.position != nil && *o.position < 0 {
		return nil, invalid(s.table.Entity, "position", "must be at least 0")
	}
	if err := validateStruct(s.table.Entity, item); err != nil {
		return nil, err
	}

	b := item.Base()
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("create %s id: %w", s.table.Entity, err)
	}
	b.ID = id
	b.IsActive = s.table.DefaultVisible
	if o.visible != nil {
		b.IsActive = *o.visible
	}

	if s.table.Slug != nil {
		target := s.table.Slug.Target(item)
		*target = slug.ForCreate(*target, s.table.Slug.Source(item))
		if *target == "" {
			*target = id.String()
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := lockTable(ctx, tx, s.table.Name); err != nil {
		return nil, err
	}

	if o.position != nil {
		b.Position = *o.position
	} else if b.Position, err = s.nextPosition(ctx, tx); err != nil {
		return nil, err
	}

	now := s.now()
	cols := append([]string{"id", "position", s.table.Flag, "created_at", "updated_at"}, s.table.Columns...)
	args := append([]any{b.ID, b.Position, b.IsActive, now, now}, s.values(item)...)
	if s.table.Stamp != "" {
		var stamp *time.Time
		if b.IsActive {
			stamp = &now
		}
		cols = append(cols, s.table.Stamp)
		args = append(args, stamp)
	}

	row := tx.QueryRowContext(ctx,
		`INSERT INTO `+s.table.Name+` (`+strings.Join(cols, ", ")+`)
		VALUES (`+placeholders(1, len(cols))+`)
		RETURNING `+s.columns(),
		args...,
	)
	created, err := s.scanOne(row)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", s.table.Entity, asConflict(err, s.table.Entity, "slug", s.slugValue(item)))
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("create %s commit: %w", s.table.Entity, err)
	}
	return created, nil
}

// Update writes the payload fields of an existing live row. Position,
// visibility and soft-delete state are left to their own operations.
func (s *OrderedStore[T, P]) Update(ctx context.Context, item P, opts ...UpdateOption) (P, error) {
	o := updateOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if err := validateStruct(s.table.Entity, item); err != nil {
		return nil, err
	}
	id := item.Base().ID

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	current, err := s.scanOne(tx.QueryRowContext(ctx,
		`SELECT `+s.columns()+` FROM `+s.table.Name+` WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Entity: s.table.Entity, ID: id.String()}
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", s.table.Entity, err)
	}

	if s.table.Slug != nil {
		target := s.table.Slug.Target(item)
		if o.keepSlug {
			*target = *s.table.Slug.Target(current)
		}
		*target = s.policy.ForUpdate(*target, s.table.Slug.Source(item), s.table.Slug.Source(current))
		if *target == "" {
			*target = id.String()
		}
	}

	sets := make([]string, 0, len(s.table.Columns)+1)
	for i, col := range s.table.Columns {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, i+1))
	}
	n := len(s.table.Columns)
	sets = append(sets, fmt.Sprintf("updated_at = $%d", n+1))
	args := append(s.values(item), s.now(), id)

	updated, err := s.scanOne(tx.QueryRowContext(ctx,
		`UPDATE `+s.table.Name+` SET `+strings.Join(sets, ", ")+
			fmt.Sprintf(` WHERE id = $%d RETURNING `, n+2)+s.columns(),
		args...,
	))
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", s.table.Entity, asConflict(err, s.table.Entity, "slug", s.slugValue(item)))
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("update %s commit: %w", s.table.Entity, err)
	}
	return updated, nil
}

// Find returns a live row by id.
func (s *OrderedStore[T, P]) Find(ctx context.Context, id uuid.UUID) (P, error) {
	item, err := s.scanOne(s.db.QueryRowContext(ctx,
		`SELECT `+s.columns()+` FROM `+s.table.Name+` WHERE id = $1 AND deleted_at IS NULL`, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Entity: s.table.Entity, ID: id.String()}
	}
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", s.table.Entity, err)
	}
	return item, nil
}

// FindBySlug returns a visible live row by slug. Used for public pages.
func (s *OrderedStore[T, P]) FindBySlug(ctx context.Context, value string) (P, error) {
	if s.table.Slug == nil {
		return nil, fmt.Errorf("%s has no slug", s.table.Entity)
	}
	item, err := s.scanOne(s.db.QueryRowContext(ctx,
		`SELECT `+s.columns()+` FROM `+s.table.Name+`
		WHERE slug = $1 AND `+s.table.Flag+` AND deleted_at IS NULL`, value,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Entity: s.table.Entity, ID: value}
	}
	if err != nil {
		return nil, fmt.Errorf("find %s by slug: %w", s.table.Entity, err)
	}
	return item, nil
}

// SetActive sets the visibility flag of a live row. Position is untouched.
// Tables with a Stamp column record the first time the row became visible.
func (s *OrderedStore[T, P]) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	set := s.table.Flag + ` = $1, updated_at = $2`
	if s.table.Stamp != "" {
		set += `, ` + s.table.Stamp + ` = CASE WHEN $1 THEN COALESCE(` + s.table.Stamp + `, $2) ELSE ` + s.table.Stamp + ` END`
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE `+s.table.Name+` SET `+set+` WHERE id = $3 AND deleted_at IS NULL`,
		active, s.now(), id,
	)
	if err != nil {
		return fmt.Errorf("set %s active: %w", s.table.Entity, err)
	}
	return s.expectOne(res, id)
}

// SetInactive hides a live row.
func (s *OrderedStore[T, P]) SetInactive(ctx context.Context, id uuid.UUID) error {
	return s.SetActive(ctx, id, false)
}

// Reorder assigns position = index+1 to each id, all or nothing. Every id
// must belong to a live row of this table; ids not listed keep their
// positions. Concurrent reorders of one table are serialised, so readers
// only ever see one complete ordering.
func (s *OrderedStore[T, P]) Reorder(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return invalid(s.table.Entity, "ids", "must not be empty")
	}
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return invalid(s.table.Entity, "ids", "contains duplicate id "+id.String())
		}
		seen[id] = true
	}

	if err := s.reorder(ctx, ids); err != nil {
		var notFound *NotFoundError
		if errors.As(err, &notFound) {
			return err
		}
		slog.Error("reorder rolled back", "table", s.table.Name, "count", len(ids), "error", err)
		return fmt.Errorf("reorder %s: %w: %w", s.table.Entity, ErrTransaction, err)
	}
	return nil
}

func (s *OrderedStore[T, P]) reorder(ctx context.Context, ids []uuid.UUID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := lockTable(ctx, tx, s.table.Name); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		UPDATE `+s.table.Name+` SET position = $1, updated_at = $2
		WHERE id = $3 AND deleted_at IS NULL`)
	if err != nil {
		return fmt.Errorf("prepare reorder: %w", err)
	}
	defer stmt.Close()

	now := s.now()
	for i, id := range ids {
		res, err := stmt.ExecContext(ctx, i+1, now, id)
		if err != nil {
			return fmt.Errorf("reorder %s %s: %w", s.table.Entity, id, err)
		}
		if err := s.expectOne(res, id); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// SoftDelete hides a live row from every default query by stamping
// deleted_at. Its position is kept so Restore can put it back in place.
func (s *OrderedStore[T, P]) SoftDelete(ctx context.Context, id uuid.UUID) error {
	now := s.now()
	res, err := s.db.ExecContext(ctx,
		`UPDATE `+s.table.Name+` SET deleted_at = $1, updated_at = $1 WHERE id = $2 AND deleted_at IS NULL`,
		now, id,
	)
	if err != nil {
		return fmt.Errorf("soft delete %s: %w", s.table.Entity, err)
	}
	return s.expectOne(res, id)
}

// Restore brings a soft-deleted row back at its old position. It fails
// with a ConflictError if a live row has taken its slug meanwhile.
func (s *OrderedStore[T, P]) Restore(ctx context.Context, id uuid.UUID) (P, error) {
	item, err := s.scanOne(s.db.QueryRowContext(ctx,
		`UPDATE `+s.table.Name+` SET deleted_at = NULL, updated_at = $1
		WHERE id = $2 AND deleted_at IS NOT NULL
		RETURNING `+s.columns(),
		s.now(), id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Entity: s.table.Entity, ID: id.String()}
	}
	if err != nil {
		return nil, fmt.Errorf("restore %s: %w", s.table.Entity, asConflict(err, s.table.Entity, "slug", ""))
	}
	return item, nil
}

// ListOrdered returns live rows matching filter, by position then id.
func (s *OrderedStore[T, P]) ListOrdered(ctx context.Context, filter Filter) ([]P, error) {
	return s.list(ctx, `WHERE deleted_at IS NULL`+s.filterClause(filter)+` ORDER BY position, id`)
}

// ListDeleted returns soft-deleted rows, most recently deleted first.
func (s *OrderedStore[T, P]) ListDeleted(ctx context.Context) ([]P, error) {
	return s.list(ctx, `WHERE deleted_at IS NOT NULL ORDER BY deleted_at DESC, id`)
}

// Count returns the number of live rows matching filter.
func (s *OrderedStore[T, P]) Count(ctx context.Context, filter Filter) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM `+s.table.Name+` WHERE deleted_at IS NULL`+s.filterClause(filter),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", s.table.Entity, err)
	}
	return count, nil
}

func (s *OrderedStore[T, P]) filterClause(filter Filter) string {
	switch filter {
	case FilterVisible:
		return ` AND ` + s.table.Flag
	case FilterHidden:
		return ` AND NOT ` + s.table.Flag
	default:
		return ""
	}
}

func (s *OrderedStore[T, P]) list(ctx context.Context, tail string) ([]P, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+s.columns()+` FROM `+s.table.Name+` `+tail)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.table.Entity, err)
	}
	defer rows.Close()

	var items []P
	for rows.Next() {
		item, err := s.scanOne(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.table.Entity, err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// expectOne turns a zero-row update into a NotFoundError.
func (s *OrderedStore[T, P]) expectOne(res sql.Result, id uuid.UUID) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return &NotFoundError{Entity: s.table.Entity, ID: id.String()}
	}
	return nil
}

// placeholders returns "$from, ..., $(from+n-1)".
func placeholders(from, n int) string {
	ps := make([]string, n)
	for i := range ps {
		ps[i] = fmt.Sprintf("$%d", from+i)
	}
	return strings.Join(ps, ", ")
}
