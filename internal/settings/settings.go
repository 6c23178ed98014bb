// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package settings turns the stored settings row into what the public site
// needs: absolute asset URLs and clickable social links. Nothing here is
// written back to the database.
package settings

import (
	"strings"

	"agencysite/internal/models"
)

// Resolver joins stored relative paths onto a public base URL.
type Resolver struct {
	BaseURL string
}

// NewResolver returns a Resolver using the first non-empty base URL.
func NewResolver(candidates ...string) *Resolver {
	for _, c := range candidates {
		if c = strings.TrimSpace(c); c != "" {
			return &Resolver{BaseURL: strings.TrimRight(c, "/")}
		}
	}
	return &Resolver{}
}

// AssetURL returns the absolute URL for a stored path, or nil when the path
// is empty. Values that are already absolute URLs are returned unchanged.
func (r *Resolver) AssetURL(path string) *string {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	if hasScheme(path) || strings.HasPrefix(path, "//") {
		return &path
	}
	u := strings.TrimRight(r.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")
	return &u
}

// SocialURL returns value as a link, or nil when empty. Values without an
// http or https scheme get "https://" prepended.
func SocialURL(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	if hasScheme(value) {
		return &value
	}
	u := "https://" + value
	return &u
}

func hasScheme(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Social holds the resolved social profile links.
type Social struct {
	Facebook  *string `json:"facebook,omitempty"`
	Twitter   *string `json:"twitter,omitempty"`
	Instagram *string `json:"instagram,omitempty"`
	LinkedIn  *string `json:"linkedin,omitempty"`
	YouTube   *string `json:"youtube,omitempty"`
}

// View is the public read model of the settings row.
type View struct {
	SiteName        string  `json:"site_name"`
	Tagline         *string `json:"tagline,omitempty"`
	LogoURL         *string `json:"logo_url,omitempty"`
	FaviconURL      *string `json:"favicon_url,omitempty"`
	OGImageURL      *string `json:"og_image_url,omitempty"`
	ContactEmail    *string `json:"contact_email,omitempty"`
	ContactPhone    *string `json:"contact_phone,omitempty"`
	Address         *string `json:"address,omitempty"`
	Social          Social  `json:"social"`
	MetaTitle       *string `json:"meta_title,omitempty"`
	MetaDescription *string `json:"meta_description,omitempty"`
	MetaKeywords    *string `json:"meta_keywords,omitempty"`
	MaintenanceMode bool    `json:"maintenance_mode"`
}

// View resolves every URL field of s.
func (r *Resolver) View(s *models.Settings) View {
	return View{
		SiteName:        s.SiteName,
		Tagline:         s.Tagline,
		LogoURL:         r.AssetURL(val(s.LogoPath)),
		FaviconURL:      r.AssetURL(val(s.FaviconPath)),
		OGImageURL:      r.AssetURL(val(s.OGImagePath)),
		ContactEmail:    s.ContactEmail,
		ContactPhone:    s.ContactPhone,
		Address:         s.Address,
		Social: Social{
			Facebook:  SocialURL(val(s.FacebookURL)),
			Twitter:   SocialURL(val(s.TwitterURL)),
			Instagram: SocialURL(val(s.InstagramURL)),
			LinkedIn:  SocialURL(val(s.LinkedInURL)),
			YouTube:   SocialURL(val(s.YouTubeURL)),
		},
		MetaTitle:       s.MetaTitle,
		MetaDescription: s.MetaDescription,
		MetaKeywords:    s.MetaKeywords,
		MaintenanceMode: s.MaintenanceMode,
	}
}

func val(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
