package handlers

import (
	"context"
	"net/http"
	"time"

	"agencysite/internal/models"
	"agencysite/internal/scope"
	"agencysite/internal/store"
)

// visitorListLimit bounds GET /visitors.
const visitorListLimit = 200

// Counter is implemented by every ordered store.
type Counter interface {
	Count(ctx context.Context, filter store.Filter) (int, error)
}

// Dashboard serves the admin overview and the visitor log.
type Dashboard struct {
	collections map[string]Counter
	enquiries   *store.EnquiryStore
	visitors    *store.VisitorStore
	now         func() time.Time
}

// NewDashboard creates a Dashboard. collections maps the API name of each
// content collection to its store.
func NewDashboard(collections map[string]Counter, enquiries *store.EnquiryStore, visitors *store.VisitorStore) *Dashboard {
	return &Dashboard{
		collections: collections,
		enquiries:   enquiries,
		visitors:    visitors,
		now:         time.Now,
	}
}

type collectionCounts struct {
	Total   int `json:"total"`
	Visible int `json:"visible"`
	Hidden  int `json:"hidden"`
}

type enquiryCounts struct {
	Unread    int `json:"unread"`
	LastWeek  int `json:"last_week"`
	LastMonth int `json:"last_month"`
	WithEmail int `json:"with_email"`
	WithPhone int `json:"with_phone"`
}

type visitorCounts struct {
	Today    int `json:"today"`
	LastWeek int `json:"last_week"`
}

type dashboardResponse struct {
	Collections map[string]collectionCounts `json:"collections"`
	Enquiries   enquiryCounts               `json:"enquiries"`
	Visitors    visitorCounts               `json:"visitors"`
}

// Overview returns content, enquiry and traffic counts.
func (d *Dashboard) Overview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	now := d.now()
	resp := dashboardResponse{Collections: make(map[string]collectionCounts, len(d.collections))}

	for name, c := range d.collections {
		var counts collectionCounts
		var err error
		if counts.Visible, err = c.Count(ctx, store.FilterVisible); err != nil {
			writeStoreError(w, r, err)
			return
		}
		if counts.Hidden, err = c.Count(ctx, store.FilterHidden); err != nil {
			writeStoreError(w, r, err)
			return
		}
		counts.Total = counts.Visible + counts.Hidden
		resp.Collections[name] = counts
	}

	unread, err := d.enquiries.CountUnread(ctx)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	month, err := d.enquiries.List(ctx, store.EnquiryFilter{Days: 30})
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	rows := make([]*models.Enquiry, len(month))
	for i := range month {
		rows[i] = &month[i]
	}
	resp.Enquiries = enquiryCounts{
		Unread:    unread,
		LastMonth: len(rows),
		LastWeek:  len(scope.Recent(rows, 7, now)),
		WithEmail: len(scope.WithEmail(rows)),
		WithPhone: len(scope.WithPhone(rows)),
	}

	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if resp.Visitors.Today, err = d.visitors.CountSince(ctx, midnight); err != nil {
		writeStoreError(w, r, err)
		return
	}
	if resp.Visitors.LastWeek, err = d.visitors.CountSince(ctx, now.AddDate(0, 0, -7)); err != nil {
		writeStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Visitors returns the most recent page views.
func (d *Dashboard) Visitors(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", visitorListLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if limit == 0 || limit > visitorListLimit {
		limit = visitorListLimit
	}
	items, err := d.visitors.List(r.Context(), limit)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newList(items))
}
