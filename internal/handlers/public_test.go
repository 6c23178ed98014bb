package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agencysite/internal/models"
	"agencysite/internal/store"
)

func publicRouter(env *testEnv) http.Handler {
	p := NewPublic(env.Services, env.Blogs, env.Resolver)
	r := chi.NewRouter()
	r.Get("/api/faqs", ListVisible(env.FAQs))
	r.Get("/api/services", ListVisible(env.Services))
	r.Get("/api/services/{slug}", p.Service)
	r.Get("/api/blogs", p.Blogs)
	r.Get("/api/blogs/{slug}", p.Blog)
	r.Get("/api/settings", NewSettings(env.Settings, env.Resolver).Public)
	return r
}

func TestPublicListsVisibleInOrder(t *testing.T) {
	env := newTestEnv(t)
	h := publicRouter(env)

	a, err := env.FAQs.Create(ctx, &models.FAQ{Question: "A?", Answer: "a"})
	require.NoError(t, err)
	_, err = env.FAQs.Create(ctx, &models.FAQ{Question: "Hidden?", Answer: "h"}, store.Visible(false))
	require.NoError(t, err)
	c, err := env.FAQs.Create(ctx, &models.FAQ{Question: "C?", Answer: "c"}, store.AtPosition(0))
	require.NoError(t, err)
	gone, err := env.FAQs.Create(ctx, &models.FAQ{Question: "Gone?", Answer: "g"})
	require.NoError(t, err)
	require.NoError(t, env.FAQs.SoftDelete(ctx, gone.ID))

	rec := serve(t, h, http.MethodGet, "/api/faqs", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[listResponse[models.FAQ]](t, rec)
	require.Len(t, list.Items, 2)
	assert.Equal(t, c.ID, list.Items[0].ID)
	assert.Equal(t, a.ID, list.Items[1].ID)
}

func TestPublicEmptyListIsArray(t *testing.T) {
	env := newTestEnv(t)
	rec := serve(t, publicRouter(env), http.MethodGet, "/api/services", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items":[],"count":0}`, rec.Body.String())
}

func TestPublicServiceBySlug(t *testing.T) {
	env := newTestEnv(t)
	h := publicRouter(env)

	_, err := env.Services.Create(ctx, &models.Service{Name: "Cloud Services"})
	require.NoError(t, err)
	_, err = env.Services.Create(ctx, &models.Service{Name: "Draft Offer"}, store.Visible(false))
	require.NoError(t, err)

	rec := serve(t, h, http.MethodGet, "/api/services/cloud-services", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Cloud Services", decode[models.Service](t, rec).Name)

	rec = serve(t, h, http.MethodGet, "/api/services/draft-offer", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code, "hidden services are not public")
}

func TestPublicBlogs(t *testing.T) {
	env := newTestEnv(t)
	h := publicRouter(env)

	cover := "uploads/cover.jpg"
	_, err := env.Blogs.Create(ctx, &models.Blog{
		Title:     "Hello World",
		Body:      "# Heading\n\nSome **bold** text.<script>alert(1)</script>",
		CoverPath: &cover,
	}, store.Visible(true))
	require.NoError(t, err)
	_, err = env.Blogs.Create(ctx, &models.Blog{Title: "Draft Post", Body: "wip"})
	require.NoError(t, err)

	rec := serve(t, h, http.MethodGet, "/api/blogs", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[listResponse[publicBlog]](t, rec)
	require.Len(t, list.Items, 1, "drafts are not listed")
	item := list.Items[0]
	assert.Equal(t, "hello-world", item.Slug)
	assert.Empty(t, item.BodyHTML, "listing omits bodies")
	assert.Contains(t, item.Excerpt, "Some bold text.")
	require.NotNil(t, item.CoverURL)
	assert.Equal(t, "https://cdn.example.com/uploads/cover.jpg", *item.CoverURL)
	assert.NotNil(t, item.PublishedAt)

	rec = serve(t, h, http.MethodGet, "/api/blogs/hello-world", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	blog := decode[publicBlog](t, rec)
	assert.Contains(t, blog.BodyHTML, "<strong>bold</strong>")
	assert.NotContains(t, blog.BodyHTML, "<script>")

	rec = serve(t, h, http.MethodGet, "/api/blogs/draft-post", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPublicSettings(t *testing.T) {
	env := newTestEnv(t)
	h := publicRouter(env)

	s, err := env.Settings.Get(ctx)
	require.NoError(t, err)
	logo, fb := "assets/logo.png", "facebook.com/agency"
	s.LogoPath, s.FacebookURL = &logo, &fb
	_, err = env.Settings.Update(ctx, s)
	require.NoError(t, err)

	rec := serve(t, h, http.MethodGet, "/api/settings", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, "https://cdn.example.com/assets/logo.png", body["logo_url"])
	assert.NotContains(t, body, "favicon_url", "empty paths resolve to nothing")
	social := body["social"].(map[string]any)
	assert.Equal(t, "https://facebook.com/agency", social["facebook"])
	assert.NotContains(t, body, "logo_path", "stored paths are not exposed")
}

type failingPinger struct{ err error }

func (p failingPinger) PingContext(context.Context) error { return p.err }

func TestHealth(t *testing.T) {
	rec := serve(t, Health(failingPinger{}), http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = serve(t, Health(failingPinger{err: errors.New("down")}), http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
