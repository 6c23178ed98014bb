// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package scope provides reusable filters over rows already loaded from a
// store. Every function is pure: it returns a new slice and never reorders
// or modifies its input.
package scope

import (
	"bytes"
	"cmp"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Toggleable is a row with a visibility flag and soft-delete state.
type Toggleable interface {
	Visible() bool
	IsDeleted() bool
}

// Orderable is a row with a display position and a stable identity.
type Orderable interface {
	Key() uuid.UUID
	Pos() int
}

// Timestamped is a row with a creation time.
type Timestamped interface {
	Created() time.Time
}

// Contactable is a row carrying optional contact details.
type Contactable interface {
	EmailAddress() string
	PhoneNumber() string
}

// Scope is a named filter that can be chained with others.
type Scope[R any] func([]R) []R

// Chain applies scopes left to right.
func Chain[R any](rows []R, scopes ...Scope[R]) []R {
	out := rows
	for _, s := range scopes {
		out = s(out)
	}
	return out
}

// Where keeps the rows matching keep.
func Where[R any](rows []R, keep func(R) bool) []R {
	out := make([]R, 0, len(rows))
	for _, r := range rows {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// Live drops soft-deleted rows.
func Live[R Toggleable](rows []R) []R {
	return Where(rows, func(r R) bool { return !r.IsDeleted() })
}

// Active keeps visible, non-deleted rows.
func Active[R Toggleable](rows []R) []R {
	return Where(rows, func(r R) bool { return r.Visible() })
}

// Inactive keeps hidden, non-deleted rows. Active and Inactive together
// cover exactly the live rows.
func Inactive[R Toggleable](rows []R) []R {
	return Where(rows, func(r R) bool { return !r.Visible() && !r.IsDeleted() })
}

// Published keeps published blogs. Blogs store "published" in the same
// visibility flag every other collection calls "active".
func Published[R Toggleable](rows []R) []R { return Active(rows) }

// Draft keeps unpublished blogs.
func Draft[R Toggleable](rows []R) []R { return Inactive(rows) }

// Ordered sorts by position ascending, breaking ties by id.
func Ordered[R Orderable](rows []R) []R {
	out := slices.Clone(rows)
	slices.SortStableFunc(out, func(a, b R) int {
		if c := cmp.Compare(a.Pos(), b.Pos()); c != 0 {
			return c
		}
		ka, kb := a.Key(), b.Key()
		return bytes.Compare(ka[:], kb[:])
	})
	return out
}

// Recent keeps rows created within the last days days of now.
func Recent[R Timestamped](rows []R, days int, now time.Time) []R {
	cutoff := now.AddDate(0, 0, -days)
	return Where(rows, func(r R) bool { return !r.Created().Before(cutoff) })
}

// Since returns Recent as a Scope for use with Chain.
func Since[R Timestamped](days int, now time.Time) Scope[R] {
	return func(rows []R) []R { return Recent(rows, days, now) }
}

// WithEmail keeps rows that have an email address.
func WithEmail[R Contactable](rows []R) []R {
	return Where(rows, func(r R) bool { return r.EmailAddress() != "" })
}

// WithPhone keeps rows that have a phone number.
func WithPhone[R Contactable](rows []R) []R {
	return Where(rows, func(r R) bool { return r.PhoneNumber() != "" })
}
