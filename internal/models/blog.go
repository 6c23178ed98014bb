// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"
	"time"
)

// Blog is a Markdown article. Its visibility flag means "published" and
// defaults to draft.
type Blog struct {
	Ordered
	Title       string     `json:"title" validate:"required,max=300"`
	Slug        string     `json:"slug" validate:"omitempty,max=300,slug"`
	Excerpt     *string    `json:"excerpt,omitempty" validate:"omitempty,max=1000"`
	Body        string     `json:"body" validate:"max=100000"`
	CoverPath   *string    `json:"cover_path,omitempty" validate:"omitempty,max=500"`
	Author      *string    `json:"author,omitempty" validate:"omitempty,max=120"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// IsPublished returns true if the blog is visible on the public site.
func (b *Blog) IsPublished() bool {
	return b.IsActive
}

// Status returns "published" or "draft".
func (b *Blog) Status() string {
	if b.IsActive {
		return StatusPublished
	}
	return StatusDraft
}

// MarshalJSON renames the visibility flag to is_published.
func (b Blog) MarshalJSON() ([]byte, error) {
	type plain Blog
	return json.Marshal(struct {
		plain
		IsActive    *bool  `json:"is_active,omitempty"`
		IsPublished bool   `json:"is_published"`
		Status      string `json:"status"`
	}{
		plain:       plain(b),
		IsPublished: b.IsActive,
		Status:      b.Status(),
	})
}
