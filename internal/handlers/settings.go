package handlers

import (
	"log/slog"
	"net/http"

	"agencysite/internal/models"
	"agencysite/internal/settings"
	"agencysite/internal/store"
)

// Settings serves the site-wide settings singleton.
type Settings struct {
	store    *store.SettingsStore
	resolver *settings.Resolver
}

// NewSettings creates a new Settings handler group.
func NewSettings(s *store.SettingsStore, resolver *settings.Resolver) *Settings {
	return &Settings{store: s, resolver: resolver}
}

// settingsResponse pairs the stored values the admin edits with the
// resolved URLs the public site will see.
type settingsResponse struct {
	Settings *models.Settings `json:"settings"`
	Resolved settings.View    `json:"resolved"`
}

// Get returns the stored settings.
func (h *Settings) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.store.Get(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settingsResponse{Settings: s, Resolved: h.resolver.View(s)})
}

// Update overwrites every settings field with the request body.
func (h *Settings) Update(w http.ResponseWriter, r *http.Request) {
	var in models.Settings
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	s, err := h.store.Update(r.Context(), &in)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	slog.Info("settings updated", "by", actor(r))
	writeJSON(w, http.StatusOK, settingsResponse{Settings: s, Resolved: h.resolver.View(s)})
}

// Public returns the resolved read model for the public site.
func (h *Settings) Public(w http.ResponseWriter, r *http.Request) {
	s, err := h.store.Get(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.resolver.View(s))
}
