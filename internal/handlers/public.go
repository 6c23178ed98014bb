package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"agencysite/internal/markdown"
	"agencysite/internal/models"
	"agencysite/internal/settings"
	"agencysite/internal/store"
)

// excerptLength is used for blogs without a hand-written excerpt.
const excerptLength = 200

// VisibleLister lists rows by visibility. Every ordered store implements it.
type VisibleLister[P any] interface {
	ListOrdered(ctx context.Context, filter store.Filter) ([]P, error)
}

// ListVisible serves the public listing of a collection: visible rows only,
// in display order.
func ListVisible[P any](s VisibleLister[P]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := s.ListOrdered(r.Context(), store.FilterVisible)
		if err != nil {
			writeStoreError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, newList(items))
	}
}

// Public serves the read-only endpoints of the marketing site that need
// more than a plain listing.
type Public struct {
	services *store.ServiceStore
	blogs    *store.BlogStore
	resolver *settings.Resolver
}

// NewPublic creates a new Public handler group.
func NewPublic(services *store.ServiceStore, blogs *store.BlogStore, resolver *settings.Resolver) *Public {
	return &Public{services: services, blogs: blogs, resolver: resolver}
}

// Service returns a visible service by slug.
func (p *Public) Service(w http.ResponseWriter, r *http.Request) {
	svc, err := p.services.FindBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, svc)
}

// publicBlog is what the site sees of a blog; drafts never reach it.
type publicBlog struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Excerpt     string     `json:"excerpt"`
	CoverURL    *string    `json:"cover_url,omitempty"`
	Author      *string    `json:"author,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	BodyHTML    string     `json:"body_html,omitempty"`
}

func (p *Public) blogView(b *models.Blog) publicBlog {
	v := publicBlog{
		ID:          b.ID,
		Title:       b.Title,
		Slug:        b.Slug,
		Author:      b.Author,
		PublishedAt: b.PublishedAt,
	}
	if b.CoverPath != nil {
		v.CoverURL = p.resolver.AssetURL(*b.CoverPath)
	}
	if b.Excerpt != nil && *b.Excerpt != "" {
		v.Excerpt = *b.Excerpt
	} else if ex, err := markdown.Excerpt(b.Body, excerptLength); err != nil {
		slog.Warn("blog excerpt failed", "id", b.ID, "error", err)
	} else {
		v.Excerpt = ex
	}
	return v
}

// Blogs lists published blogs in display order, without bodies.
func (p *Public) Blogs(w http.ResponseWriter, r *http.Request) {
	items, err := p.blogs.ListOrdered(r.Context(), store.FilterVisible)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	views := make([]publicBlog, len(items))
	for i, b := range items {
		views[i] = p.blogView(b)
	}
	writeJSON(w, http.StatusOK, newList(views))
}

// Blog returns a published blog with its Markdown body rendered to
// sanitized HTML.
func (p *Public) Blog(w http.ResponseWriter, r *http.Request) {
	b, err := p.blogs.FindBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	v := p.blogView(b)
	if v.BodyHTML, err = markdown.ToHTML(b.Body); err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// Pinger reports database reachability.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Health reports whether the database answers within two seconds.
func Health(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			slog.Error("health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
