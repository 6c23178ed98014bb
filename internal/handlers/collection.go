// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"agencysite/internal/middleware"
	"agencysite/internal/store"
)

// OrderedStore is the subset of store.OrderedStore the admin API drives.
type OrderedStore[P any] interface {
	Entity() string
	Create(ctx context.Context, item P, opts ...store.CreateOption) (P, error)
	Update(ctx context.Context, item P, opts ...store.UpdateOption) (P, error)
	Find(ctx context.Context, id uuid.UUID) (P, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	Reorder(ctx context.Context, ids []uuid.UUID) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID) (P, error)
	ListOrdered(ctx context.Context, filter store.Filter) ([]P, error)
	ListDeleted(ctx context.Context) ([]P, error)
}

// Collection serves the admin endpoints of one ordered content type.
type Collection[T any, P interface {
	*T
	store.Record
}] struct {
	store OrderedStore[P]
}

// NewCollection wraps an ordered store. Callers name the row type:
// NewCollection[models.Banner](bannerStore).
func NewCollection[T any, P interface {
	*T
	store.Record
}](s OrderedStore[P]) *Collection[T, P] {
	return &Collection[T, P]{store: s}
}

// Routes mounts the collection under the current router prefix.
func (c *Collection[T, P]) Routes(r chi.Router) {
	r.Get("/", c.List)
	r.Post("/", c.Create)
	r.Post("/reorder", c.Reorder)
	r.Get("/trash", c.Trash)
	r.Get("/{id}", c.Get)
	r.Put("/{id}", c.Update)
	r.Delete("/{id}", c.Delete)
	r.Post("/{id}/activate", c.Activate)
	r.Post("/{id}/deactivate", c.Deactivate)
	r.Post("/{id}/restore", c.Restore)
}

// controls are the request fields that steer Create but are not payload.
// Blogs spell the visibility flag is_published.
type controls struct {
	Position    *int  `json:"position"`
	IsActive    *bool `json:"is_active"`
	IsPublished *bool `json:"is_published"`
}

func (c controls) options() []store.CreateOption {
	var opts []store.CreateOption
	if c.Position != nil {
		opts = append(opts, store.AtPosition(*c.Position))
	}
	switch {
	case c.IsPublished != nil:
		opts = append(opts, store.Visible(*c.IsPublished))
	case c.IsActive != nil:
		opts = append(opts, store.Visible(*c.IsActive))
	}
	return opts
}

type listResponse[P any] struct {
	Items []P `json:"items"`
	Count int `json:"count"`
}

func newList[P any](items []P) listResponse[P] {
	if items == nil {
		items = []P{}
	}
	return listResponse[P]{Items: items, Count: len(items)}
}

// List returns live rows in display order. ?filter=all|active|inactive
// (published/draft are accepted as aliases).
func (c *Collection[T, P]) List(w http.ResponseWriter, r *http.Request) {
	filter, err := store.ParseFilter(r.URL.Query().Get("filter"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	items, err := c.store.ListOrdered(r.Context(), filter)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newList(items))
}

// Create inserts a row. Without "position" it is appended at the end.
func (c *Collection[T, P]) Create(w http.ResponseWriter, r *http.Request) {
	var raw json.RawMessage
	if err := decodeJSON(w, r, &raw); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	item := P(new(T))
	var ctl controls
	if err := json.Unmarshal(raw, item); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := json.Unmarshal(raw, &ctl); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	created, err := c.store.Create(r.Context(), item, ctl.options()...)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	c.audit(r, "created", created.Base().ID)
	writeJSON(w, http.StatusCreated, created)
}

// Get returns one live row.
func (c *Collection[T, P]) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	item, err := c.store.Find(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// Update replaces the payload fields of a row. Position and visibility in
// the body are ignored; they have their own endpoints. A slug left out of
// the body keeps its stored value.
func (c *Collection[T, P]) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	var raw json.RawMessage
	if err := decodeJSON(w, r, &raw); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	item := P(new(T))
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, item); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := json.Unmarshal(raw, &keys); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	item.Base().ID = id

	// Only an explicit "slug" in the body may change or clear the slug.
	var opts []store.UpdateOption
	if _, ok := keys["slug"]; !ok {
		opts = append(opts, store.KeepSlug())
	}

	updated, err := c.store.Update(r.Context(), item, opts...)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	c.audit(r, "updated", id)
	writeJSON(w, http.StatusOK, updated)
}

// Delete soft-deletes a row.
func (c *Collection[T, P]) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	if err := c.store.SoftDelete(r.Context(), id); err != nil {
		writeStoreError(w, r, err)
		return
	}
	c.audit(r, "deleted", id)
	w.WriteHeader(http.StatusNoContent)
}

// Activate makes a row visible (publishes a blog).
func (c *Collection[T, P]) Activate(w http.ResponseWriter, r *http.Request) {
	c.setActive(w, r, true)
}

// Deactivate hides a row (unpublishes a blog).
func (c *Collection[T, P]) Deactivate(w http.ResponseWriter, r *http.Request) {
	c.setActive(w, r, false)
}

func (c *Collection[T, P]) setActive(w http.ResponseWriter, r *http.Request, active bool) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	if err := c.store.SetActive(r.Context(), id, active); err != nil {
		writeStoreError(w, r, err)
		return
	}
	item, err := c.store.Find(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

type reorderRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

// Reorder applies a drag-and-drop order and returns the resulting list.
func (c *Collection[T, P]) Reorder(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := c.store.Reorder(r.Context(), req.IDs); err != nil {
		writeStoreError(w, r, err)
		return
	}
	items, err := c.store.ListOrdered(r.Context(), store.FilterAll)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	slog.Info("content reordered", "entity", c.store.Entity(), "count", len(req.IDs), "by", actor(r))
	writeJSON(w, http.StatusOK, newList(items))
}

// Trash lists soft-deleted rows.
func (c *Collection[T, P]) Trash(w http.ResponseWriter, r *http.Request) {
	items, err := c.store.ListDeleted(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newList(items))
}

// Restore brings a soft-deleted row back.
func (c *Collection[T, P]) Restore(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	item, err := c.store.Restore(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	c.audit(r, "restored", id)
	writeJSON(w, http.StatusOK, item)
}

func (c *Collection[T, P]) audit(r *http.Request, action string, id uuid.UUID) {
	slog.Info("content "+action, "entity", c.store.Entity(), "id", id, "by", actor(r))
}

// actor names the signed-in admin for audit log lines.
func actor(r *http.Request) string {
	if sess := middleware.SessionFromCtx(r.Context()); sess != nil {
		return sess.Email
	}
	return ""
}
