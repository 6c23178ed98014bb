// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"agencysite/internal/models"
)

// AssetStore tracks files uploaded to object storage.
type AssetStore struct {
	db *sql.DB
}

// NewAssetStore creates a new AssetStore with the given database connection.
func NewAssetStore(db *sql.DB) *AssetStore {
	return &AssetStore{db: db}
}

// assetColumns lists the columns selected in asset queries.
const assetColumns = `id, path, thumb_path, original_name, content_type, size_bytes, uploader_id, created_at`

func scanAsset(scanner interface{ Scan(...any) error }) (*models.Asset, error) {
	var a models.Asset
	err := scanner.Scan(
		&a.ID, &a.Path, &a.ThumbPath, &a.OriginalName, &a.ContentType,
		&a.SizeBytes, &a.UploaderID, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts a new asset record. The caller has already uploaded the
// object under a.Path.
func (s *AssetStore) Create(ctx context.Context, a *models.Asset) (*models.Asset, error) {
	if a.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return nil, fmt.Errorf("asset id: %w", err)
		}
		a.ID = id
	}
	created, err := scanAsset(s.db.QueryRowContext(ctx, `
		INSERT INTO assets (id, path, thumb_path, original_name, content_type, size_bytes, uploader_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+assetColumns,
		a.ID, a.Path, a.ThumbPath, a.OriginalName, a.ContentType, a.SizeBytes, a.UploaderID,
	))
	if err != nil {
		return nil, fmt.Errorf("create asset: %w", asConflict(err, "asset", "path", a.Path))
	}
	return created, nil
}

// Find retrieves a single asset by its UUID.
func (s *AssetStore) Find(ctx context.Context, id uuid.UUID) (*models.Asset, error) {
	a, err := scanAsset(s.db.QueryRowContext(ctx, `SELECT `+assetColumns+` FROM assets WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Entity: "asset", ID: id.String()}
	}
	if err != nil {
		return nil, fmt.Errorf("find asset: %w", err)
	}
	return a, nil
}

// List returns assets newest first, with pagination.
func (s *AssetStore) List(ctx context.Context, limit, offset int) ([]models.Asset, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+assetColumns+`
		FROM assets
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()

	var items []models.Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		items = append(items, *a)
	}
	return items, rows.Err()
}

// Delete removes an asset record and returns it so the caller can clean
// up the stored objects.
func (s *AssetStore) Delete(ctx context.Context, id uuid.UUID) (*models.Asset, error) {
	a, err := scanAsset(s.db.QueryRowContext(ctx,
		`DELETE FROM assets WHERE id = $1 RETURNING `+assetColumns, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Entity: "asset", ID: id.String()}
	}
	if err != nil {
		return nil, fmt.Errorf("delete asset: %w", err)
	}
	return a, nil
}

// Count returns the total number of assets.
func (s *AssetStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM assets`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count assets: %w", err)
	}
	return count, nil
}
