// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"agencysite/internal/imaging"
	"agencysite/internal/middleware"
	"agencysite/internal/models"
	"agencysite/internal/settings"
	"agencysite/internal/store"
)

// maxUploadSize is the maximum allowed file size (20 MB).
const maxUploadSize = 20 << 20

// uploadPageSize bounds GET /uploads.
const uploadPageSize = 50

// allowedUploadTypes lists the MIME types accepted for upload.
var allowedUploadTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/gif":       ".gif",
	"image/webp":      ".webp",
	"image/svg+xml":   ".svg",
	"application/pdf": ".pdf",
}

// thumbableTypes are raster formats we can decode and thumbnail.
var thumbableTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// ObjectStore is where uploaded bytes live. *storage.Client implements it.
type ObjectStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	Delete(ctx context.Context, key string) error
}

// Uploads handles asset upload, listing and removal.
type Uploads struct {
	assets   *store.AssetStore
	objects  ObjectStore
	resolver *settings.Resolver
	now      func() time.Time
}

// NewUploads creates an Uploads handler group. objects may be nil when
// object storage is not configured; uploads then answer 503.
func NewUploads(assets *store.AssetStore, objects ObjectStore, resolver *settings.Resolver) *Uploads {
	return &Uploads{assets: assets, objects: objects, resolver: resolver, now: time.Now}
}

// assetView adds resolved URLs to an asset row.
type assetView struct {
	models.Asset
	URL      *string `json:"url"`
	ThumbURL *string `json:"thumb_url,omitempty"`
	Size     string  `json:"size"`
}

func (u *Uploads) view(a *models.Asset) assetView {
	v := assetView{Asset: *a, URL: u.resolver.AssetURL(a.Path), Size: a.HumanSize()}
	if a.ThumbPath != nil {
		v.ThumbURL = u.resolver.AssetURL(*a.ThumbPath)
	}
	return v
}

// List returns uploaded assets, newest first. Query: page (0-based).
func (u *Uploads) List(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if page > math.MaxInt32/uploadPageSize {
		writeError(w, http.StatusBadRequest, "page is out of range")
		return
	}
	items, err := u.assets.List(r.Context(), uploadPageSize, page*uploadPageSize)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	views := make([]assetView, len(items))
	for i := range items {
		views[i] = u.view(&items[i])
	}
	writeJSON(w, http.StatusOK, newList(views))
}

// Upload accepts a multipart "file" field, stores it and, for raster
// images, a thumbnail next to it. Stored paths are what content rows
// reference (image_path, logo_path, ...).
func (u *Uploads) Upload(w http.ResponseWriter, r *http.Request) {
	if u.objects == nil {
		writeError(w, http.StatusServiceUnavailable, "object storage is not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1024)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "file too large, maximum size is 20 MB")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file provided")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read file")
		return
	}
	if len(data) == 0 {
		writeError(w, http.StatusBadRequest, "file is empty")
		return
	}

	contentType := detectContentType(data, header.Filename)
	ext, ok := allowedUploadTypes[contentType]
	if !ok {
		writeError(w, http.StatusUnsupportedMediaType, fmt.Sprintf("file type %q is not allowed", contentType))
		return
	}

	id, err := uuid.NewV7()
	if err != nil {
		writeStoreError(w, r, fmt.Errorf("asset id: %w", err))
		return
	}
	now := u.now()
	base := fmt.Sprintf("uploads/%d/%02d/%s", now.Year(), now.Month(), id)
	key := base + ext

	ctx := r.Context()
	if err := u.objects.Upload(ctx, key, contentType, bytes.NewReader(data), int64(len(data))); err != nil {
		slog.Error("upload failed", "error", err, "key", key)
		writeError(w, http.StatusBadGateway, "failed to store file")
		return
	}

	var thumbKey *string
	if thumbableTypes[contentType] {
		thumbKey = u.storeThumbnail(ctx, base, data)
	}

	sess := middleware.SessionFromCtx(ctx)
	asset, err := u.assets.Create(ctx, &models.Asset{
		ID:           id,
		Path:         key,
		ThumbPath:    thumbKey,
		OriginalName: filepath.Base(header.Filename),
		ContentType:  contentType,
		SizeBytes:    int64(len(data)),
		UploaderID:   sess.UserID,
	})
	if err != nil {
		u.removeObjects(ctx, key, thumbKey)
		writeStoreError(w, r, err)
		return
	}

	slog.Info("asset uploaded", "id", asset.ID, "path", asset.Path, "by", actor(r))
	writeJSON(w, http.StatusCreated, u.view(asset))
}

// storeThumbnail uploads a downscaled copy and returns its key, or nil if
// the image could not be processed. Failures never fail the upload.
func (u *Uploads) storeThumbnail(ctx context.Context, base string, data []byte) *string {
	variants, err := imaging.GenerateVariants(data, []imaging.Variant{imaging.Thumbnail})
	if err != nil {
		if !errors.Is(err, imaging.ErrUnsupported) {
			slog.Warn("thumbnail generation failed", "error", err, "key", base)
		}
		return nil
	}
	if len(variants) == 0 {
		return nil
	}
	thumb := variants[0]
	key := base + "_" + thumb.Name + thumb.Ext
	if err := u.objects.Upload(ctx, key, thumb.ContentType, bytes.NewReader(thumb.Data), int64(len(thumb.Data))); err != nil {
		slog.Warn("thumbnail upload failed", "error", err, "key", key)
		return nil
	}
	return &key
}

// Delete removes the asset row, then its stored objects (best effort).
func (u *Uploads) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	asset, err := u.assets.Delete(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	if u.objects != nil {
		u.removeObjects(r.Context(), asset.Path, asset.ThumbPath)
	}
	slog.Info("asset deleted", "id", id, "path", asset.Path, "by", actor(r))
	w.WriteHeader(http.StatusNoContent)
}

func (u *Uploads) removeObjects(ctx context.Context, key string, thumbKey *string) {
	if err := u.objects.Delete(ctx, key); err != nil {
		slog.Warn("object delete failed", "error", err, "key", key)
	}
	if thumbKey != nil {
		if err := u.objects.Delete(ctx, *thumbKey); err != nil {
			slog.Warn("object delete failed", "error", err, "key", *thumbKey)
		}
	}
}

// detectContentType sniffs the first 512 bytes. SVGs sniff as XML or text,
// so the file extension decides for those.
func detectContentType(data []byte, filename string) string {
	ct := http.DetectContentType(data)
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	if strings.EqualFold(filepath.Ext(filename), ".svg") &&
		(strings.Contains(ct, "xml") || ct == "text/plain") {
		return "image/svg+xml"
	}
	return ct
}
