package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agencysite/internal/store"
)

func TestWriteStoreError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
		wantFields map[string]string
	}{
		{
			name:       "validation",
			err:        fmt.Errorf("create: %w", &store.ValidationError{Entity: "faq", Fields: map[string]string{"question": "is required"}}),
			wantStatus: http.StatusUnprocessableEntity,
			wantError:  "validation failed",
			wantFields: map[string]string{"question": "is required"},
		},
		{
			name:       "not found",
			err:        &store.NotFoundError{Entity: "faq", ID: "abc"},
			wantStatus: http.StatusNotFound,
			wantError:  "faq abc not found",
		},
		{
			name:       "conflict",
			err:        &store.ConflictError{Entity: "service", Field: "slug", Value: "cloud"},
			wantStatus: http.StatusConflict,
			wantError:  `service slug "cloud" already in use`,
			wantFields: map[string]string{"slug": "already in use"},
		},
		{
			name:       "transaction",
			err:        fmt.Errorf("reorder faqs: %w: %w", store.ErrTransaction, errors.New("connection reset")),
			wantStatus: http.StatusInternalServerError,
			wantError:  "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeStoreError(rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
			body := decode[errorBody](t, rec)
			assert.Equal(t, tt.wantError, body.Error)
			assert.Equal(t, tt.wantFields, body.Fields)
			assert.NotContains(t, rec.Body.String(), "connection reset", "internal detail must not leak")
		})
	}
}

func TestDecodeJSONLimitsBody(t *testing.T) {
	big := `{"ids":["` + strings.Repeat("a", maxBodySize) + `"]}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(big))
	var dst reorderRequest
	assert.Error(t, decodeJSON(httptest.NewRecorder(), req, &dst))
}

func TestQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?days=7&bad=x&neg=-1", nil)

	n, err := queryInt(req, "days", 0)
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	n, err = queryInt(req, "missing", 30)
	require.NoError(t, err)
	assert.Equal(t, 30, n)

	_, err = queryInt(req, "bad", 0)
	assert.Error(t, err)
	_, err = queryInt(req, "neg", 0)
	assert.Error(t, err)
}

func TestQueryBool(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?a=true&b=1&c=no&d=", nil)
	assert.True(t, queryBool(req, "a"))
	assert.True(t, queryBool(req, "b"))
	assert.False(t, queryBool(req, "c"))
	assert.False(t, queryBool(req, "d"))
	assert.False(t, queryBool(req, "missing"))
}

func TestURLIDRejectsGarbage(t *testing.T) {
	r := mount("/faqs", func(r chi.Router) {
		r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
			if _, ok := urlID(w, r); ok {
				w.WriteHeader(http.StatusOK)
			}
		})
	})

	rec := serve(t, r, http.MethodGet, "/faqs/not-a-uuid", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(t, r, http.MethodGet, "/faqs/0192d5e8-7a4c-7cc3-9f5e-1b2a3c4d5e6f", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDetectContentType(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n" + strings.Repeat("\x00", 16))
	svg := []byte(`<?xml version="1.0"?><svg xmlns="http://www.w3.org/2000/svg"></svg>`)

	assert.Equal(t, "image/png", detectContentType(png, "logo.png"))
	assert.Equal(t, "image/svg+xml", detectContentType(svg, "logo.SVG"))
	assert.Equal(t, "text/xml", detectContentType(svg, "feed.xml"))
	assert.Equal(t, "text/plain", detectContentType([]byte("hello"), "notes.txt"))
}
