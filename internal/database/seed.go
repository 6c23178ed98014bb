package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Default development credentials created by Seed.
const (
	SeedAdminEmail    = "admin@agencysite.local"
	SeedAdminPassword = "admin12345"
)

// Seed populates the database with initial development data: a default
// admin user when no users exist, and the settings row if a previous
// migration run left it missing. The admin is prompted to set up 2FA on
// first login (totp_enabled = false).
func Seed(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx,
		`INSERT INTO settings (id, site_name) VALUES (1, 'Agency Site') ON CONFLICT (id) DO NOTHING`,
	); err != nil {
		return fmt.Errorf("seed settings: %w", err)
	}

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(SeedAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("seed admin id: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, display_name, role, totp_enabled)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, id, SeedAdminEmail, string(hash), "Admin", "admin", false)
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	slog.Info("database seeded with default admin user",
		"email", SeedAdminEmail,
		"password", SeedAdminPassword,
	)

	return nil
}
