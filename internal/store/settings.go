// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"agencysite/internal/models"
)

// settingsColumns lists the columns of the singleton settings row.
const settingsColumns = `site_name, tagline, logo_path, favicon_path, og_image_path,
	contact_email, contact_phone, address,
	facebook_url, twitter_url, instagram_url, linkedin_url, youtube_url,
	meta_title, meta_description, meta_keywords,
	maintenance_mode, email_notifications, updated_at`

// SettingsStore manages the single site settings row. The row is created
// by migration and is only ever updated in place.
type SettingsStore struct {
	db *sql.DB
}

// NewSettingsStore returns a new SettingsStore backed by the given database.
func NewSettingsStore(db *sql.DB) *SettingsStore {
	return &SettingsStore{db: db}
}

func settingsDest(s *models.Settings) []any {
	return []any{
		&s.SiteName, &s.Tagline, &s.LogoPath, &s.FaviconPath, &s.OGImagePath,
		&s.ContactEmail, &s.ContactPhone, &s.Address,
		&s.FacebookURL, &s.TwitterURL, &s.InstagramURL, &s.LinkedInURL, &s.YouTubeURL,
		&s.MetaTitle, &s.MetaDescription, &s.MetaKeywords,
		&s.MaintenanceMode, &s.EmailNotifications, &s.UpdatedAt,
	}
}

// Get returns the settings row.
func (s *SettingsStore) Get(ctx context.Context) (*models.Settings, error) {
	var out models.Settings
	err := s.db.QueryRowContext(ctx,
		`SELECT `+settingsColumns+` FROM settings WHERE id = 1`,
	).Scan(settingsDest(&out)...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Entity: "settings", ID: "1"}
	}
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}
	return &out, nil
}

// Update validates and overwrites every settings field.
func (s *SettingsStore) Update(ctx context.Context, in *models.Settings) (*models.Settings, error) {
	if err := validateStruct("settings", in); err != nil {
		return nil, err
	}

	var out models.Settings
	err := s.db.QueryRowContext(ctx, `
		UPDATE settings SET
			site_name = $1, tagline = $2, logo_path = $3, favicon_path = $4, og_image_path = $5,
			contact_email = $6, contact_phone = $7, address = $8,
			facebook_url = $9, twitter_url = $10, instagram_url = $11, linkedin_url = $12, youtube_url = $13,
			meta_title = $14, meta_description = $15, meta_keywords = $16,
			maintenance_mode = $17, email_notifications = $18, updated_at = $19
		WHERE id = 1
		RETURNING `+settingsColumns,
		in.SiteName, in.Tagline, in.LogoPath, in.FaviconPath, in.OGImagePath,
		in.ContactEmail, in.ContactPhone, in.Address,
		in.FacebookURL, in.TwitterURL, in.InstagramURL, in.LinkedInURL, in.YouTubeURL,
		in.MetaTitle, in.MetaDescription, in.MetaKeywords,
		in.MaintenanceMode, in.EmailNotifications, time.Now(),
	).Scan(settingsDest(&out)...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Entity: "settings", ID: "1"}
	}
	if err != nil {
		return nil, fmt.Errorf("update settings: %w", err)
	}
	return &out, nil
}
