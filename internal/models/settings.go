// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Settings is the single row of site-wide configuration. Image fields hold
// storage-relative paths; social fields hold whatever the admin typed.
type Settings struct {
	SiteName           string    `json:"site_name" validate:"required,max=120"`
	Tagline            *string   `json:"tagline,omitempty" validate:"omitempty,max=300"`
	LogoPath           *string   `json:"logo_path,omitempty" validate:"omitempty,max=500"`
	FaviconPath        *string   `json:"favicon_path,omitempty" validate:"omitempty,max=500"`
	OGImagePath        *string   `json:"og_image_path,omitempty" validate:"omitempty,max=500"`
	ContactEmail       *string   `json:"contact_email,omitempty" validate:"omitempty,email"`
	ContactPhone       *string   `json:"contact_phone,omitempty" validate:"omitempty,max=40"`
	Address            *string   `json:"address,omitempty" validate:"omitempty,max=500"`
	FacebookURL        *string   `json:"facebook_url,omitempty" validate:"omitempty,max=300"`
	TwitterURL         *string   `json:"twitter_url,omitempty" validate:"omitempty,max=300"`
	InstagramURL       *string   `json:"instagram_url,omitempty" validate:"omitempty,max=300"`
	LinkedInURL        *string   `json:"linkedin_url,omitempty" validate:"omitempty,max=300"`
	YouTubeURL         *string   `json:"youtube_url,omitempty" validate:"omitempty,max=300"`
	MetaTitle          *string   `json:"meta_title,omitempty" validate:"omitempty,max=200"`
	MetaDescription    *string   `json:"meta_description,omitempty" validate:"omitempty,max=500"`
	MetaKeywords       *string   `json:"meta_keywords,omitempty" validate:"omitempty,max=500"`
	MaintenanceMode    bool      `json:"maintenance_mode"`
	EmailNotifications bool      `json:"email_notifications"`
	UpdatedAt          time.Time `json:"updated_at"`
}
