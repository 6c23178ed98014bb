// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation from arbitrary strings
// and the rules for when a stored slug is (re)derived from its source field.
package slug

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// nonAlphanumeric matches every run of characters outside [a-z0-9].
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
	// validSlug is the shape accepted for caller-supplied slugs.
	validSlug = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

	// ligatures covers letters that NFKD leaves intact.
	ligatures = strings.NewReplacer(
		"ß", "ss", "æ", "ae", "Æ", "ae", "œ", "oe", "Œ", "oe",
		"ø", "o", "Ø", "o", "đ", "d", "Đ", "d", "ł", "l", "Ł", "l",
		"þ", "th", "Þ", "th",
	)
)

// Generate creates a URL-friendly slug from the given string.
// Accented letters are folded to ASCII, everything that is not a letter or
// digit collapses into a single hyphen, and leading/trailing hyphens are
// dropped. Example: "Hello, World! 2026" → "hello-world-2026"
func Generate(s string) string {
	result := ligatures.Replace(strings.TrimSpace(s))

	// A transform chain holds state, so build one per call.
	fold := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(fold, result); err == nil {
		result = folded
	}

	result = strings.ToLower(result)
	result = nonAlphanumeric.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}

// Valid reports whether s is already in canonical slug form.
func Valid(s string) bool {
	return validSlug.MatchString(s)
}

// Policy controls whether renaming an entity touches an existing slug.
type Policy int

const (
	// Freeze keeps a non-empty slug forever; callers must clear it to regenerate.
	Freeze Policy = iota
	// RegenerateOnRename re-derives the slug on rename when the stored slug is
	// still the one derived from the old source text.
	RegenerateOnRename
)

// ParsePolicy maps the SLUG_POLICY setting to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "freeze":
		return Freeze, nil
	case "rename", "regenerate":
		return RegenerateOnRename, nil
	default:
		return Freeze, fmt.Errorf("unknown slug policy %q", s)
	}
}

// String returns the configuration spelling of the policy.
func (p Policy) String() string {
	if p == RegenerateOnRename {
		return "rename"
	}
	return "freeze"
}

// ForCreate returns the slug a new entity is stored with: the supplied slug
// if any, otherwise one derived from source. The result may be empty when
// source has no letters or digits; the caller picks the fallback.
func ForCreate(current, source string) string {
	if current != "" {
		return current
	}
	return Generate(source)
}

// ForUpdate returns the slug an updated entity is stored with.
// An empty incoming slug is always re-derived from the new source. A
// non-empty slug survives a rename untouched under Freeze.
func (p Policy) ForUpdate(current, source, previousSource string) string {
	if current == "" {
		return Generate(source)
	}
	if p == RegenerateOnRename && source != previousSource && current == Generate(previousSource) {
		return Generate(source)
	}
	return current
}
