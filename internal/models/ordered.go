// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Status values derived from the visibility flag. They are never stored.
const (
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusPublished = "published"
	StatusDraft     = "draft"
)

// Ordered holds the columns shared by every drag-reorderable, soft-deletable
// content collection. IsActive is the visibility flag; for blogs it is
// stored in the is_published column.
type Ordered struct {
	ID        uuid.UUID  `json:"id"`
	Position  int        `json:"position"`
	IsActive  bool       `json:"is_active"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Base gives the store access to the shared columns of any content type.
func (o *Ordered) Base() *Ordered {
	return o
}

// Status returns "active" or "inactive" based on the visibility flag.
func (o *Ordered) Status() string {
	if o.IsActive {
		return StatusActive
	}
	return StatusInactive
}

// IsDeleted returns true once the row has been soft-deleted.
func (o *Ordered) IsDeleted() bool {
	return o.DeletedAt != nil
}

// Visible reports whether the row is shown on the public site.
func (o *Ordered) Visible() bool {
	return o.IsActive && o.DeletedAt == nil
}

// Key and Pos expose identity and order for the scope helpers.
func (o *Ordered) Key() uuid.UUID { return o.ID }
func (o *Ordered) Pos() int       { return o.Position }
