package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"agencysite/internal/models"
	"agencysite/internal/store"
)

// maxEnquiryList bounds the admin enquiry listing.
const maxEnquiryList = 500

// Enquiries serves contact-form submissions: public intake and the admin
// inbox.
type Enquiries struct {
	store    *store.EnquiryStore
	services *store.ServiceStore
}

// NewEnquiries creates a new Enquiries handler group.
func NewEnquiries(s *store.EnquiryStore, services *store.ServiceStore) *Enquiries {
	return &Enquiries{store: s, services: services}
}

type enquiryRequest struct {
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	Subject   string     `json:"subject"`
	Message   string     `json:"message"`
	ServiceID *uuid.UUID `json:"service_id"`
}

// Submit stores a public contact-form submission.
func (h *Enquiries) Submit(w http.ResponseWriter, r *http.Request) {
	var req enquiryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.ServiceID != nil {
		svc, err := h.services.Find(r.Context(), *req.ServiceID)
		var notFound *store.NotFoundError
		switch {
		case errors.As(err, &notFound), err == nil && !svc.Visible():
			writeStoreError(w, r, &store.ValidationError{
				Entity: "enquiry",
				Fields: map[string]string{"service_id": "is not an offered service"},
			})
			return
		case err != nil:
			writeStoreError(w, r, err)
			return
		}
	}

	e, err := h.store.Create(r.Context(), &models.Enquiry{
		Name:      strings.TrimSpace(req.Name),
		Email:     optional(req.Email),
		Phone:     optional(req.Phone),
		Subject:   optional(req.Subject),
		Message:   strings.TrimSpace(req.Message),
		ServiceID: req.ServiceID,
	})
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	slog.Info("enquiry received", "id", e.ID)
	writeJSON(w, http.StatusCreated, map[string]any{"id": e.ID, "created_at": e.CreatedAt})
}

// List returns enquiries, newest first.
// Query: days, with_email, with_phone, unread, limit.
func (h *Enquiries) List(w http.ResponseWriter, r *http.Request) {
	days, err := queryInt(r, "days", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit, err := queryInt(r, "limit", maxEnquiryList)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if limit == 0 || limit > maxEnquiryList {
		limit = maxEnquiryList
	}

	items, err := h.store.List(r.Context(), store.EnquiryFilter{
		Days:      days,
		WithEmail: queryBool(r, "with_email"),
		WithPhone: queryBool(r, "with_phone"),
		Unread:    queryBool(r, "unread"),
		Limit:     limit,
	})
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newList(items))
}

// Get returns one enquiry.
func (h *Enquiries) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	e, err := h.store.Find(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// MarkRead flags an enquiry as handled.
func (h *Enquiries) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	if err := h.store.MarkRead(r.Context(), id); err != nil {
		writeStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
