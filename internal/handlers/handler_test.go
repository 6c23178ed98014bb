// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler integration
// tests. Tests are skipped when PostgreSQL or Valkey are unavailable.
package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"agencysite/internal/database/dbtest"
	"agencysite/internal/middleware"
	"agencysite/internal/models"
	"agencysite/internal/session"
	"agencysite/internal/session/valkeytest"
	"agencysite/internal/settings"
	"agencysite/internal/store"
)

var ctx = context.Background()

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	DB        *sql.DB
	Sessions  *session.Store
	Users     *store.UserStore
	Services  *store.ServiceStore
	Blogs     *store.BlogStore
	FAQs      *store.FAQStore
	Enquiries *store.EnquiryStore
	Visitors  *store.VisitorStore
	Assets    *store.AssetStore
	Settings  *store.SettingsStore
	Resolver  *settings.Resolver
	Admin     *models.User
}

// newTestEnv opens the test database and seeds one admin account.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := dbtest.Open(t)
	env := &testEnv{
		DB:        db,
		Users:     store.NewUserStore(db),
		Services:  store.NewServiceStore(db),
		Blogs:     store.NewBlogStore(db),
		FAQs:      store.NewFAQStore(db),
		Enquiries: store.NewEnquiryStore(db),
		Visitors:  store.NewVisitorStore(db),
		Assets:    store.NewAssetStore(db),
		Settings:  store.NewSettingsStore(db),
		Resolver:  settings.NewResolver("https://cdn.example.com"),
	}

	admin, err := env.Users.Create(ctx, "admin@handlers-test.local", "password123", "Test Admin", models.RoleAdmin)
	require.NoError(t, err)
	env.Admin = admin
	return env
}

// withSessions adds a Valkey-backed session store to env.
func (env *testEnv) withSessions(t *testing.T) *testEnv {
	t.Helper()
	env.Sessions = session.NewStore(valkeytest.Client(t, 14), false)
	return env
}

// adminSession returns a fully authenticated session for env.Admin.
func (env *testEnv) adminSession() *session.Data {
	return testSession(env.Admin.ID, env.Admin.Email, string(env.Admin.Role), true)
}

// testSession creates a session.Data for testing.
func testSession(userID uuid.UUID, email, role string, twoFADone bool) *session.Data {
	return &session.Data{
		UserID:      userID,
		Email:       email,
		DisplayName: "Test User",
		Role:        role,
		TwoFADone:   twoFADone,
		CSRFToken:   "test-csrf-token",
	}
}

// serve sends a request through h. body is JSON-encoded unless it is
// already an io.Reader; sess, when non-nil, is placed in the context the
// way LoadSession would.
func serve(t *testing.T, h http.Handler, method, target string, body any, sess *session.Data) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case io.Reader:
		reader = b
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sess != nil {
		req = req.WithContext(middleware.WithSession(req.Context(), sess))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// decode unmarshals a response body into T.
func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}

// mount returns a router with routes registered under prefix.
func mount(prefix string, routes func(chi.Router)) chi.Router {
	r := chi.NewRouter()
	r.Route(prefix, routes)
	return r
}

// memObjects is an in-memory ObjectStore.
type memObjects struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func newMemObjects() *memObjects {
	return &memObjects{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *memObjects) Upload(_ context.Context, key, contentType string, body io.Reader, _ int64) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	m.types[key] = contentType
	return nil
}

func (m *memObjects) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	delete(m.types, key)
	return nil
}

func (m *memObjects) keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	return keys
}
