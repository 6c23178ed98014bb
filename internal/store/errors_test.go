package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agencysite/internal/models"
)

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Entity: "banner", Fields: map[string]string{
		"title":      "is required",
		"image_path": "is required",
	}}
	assert.Equal(t, "invalid banner: image_path is required; title is required", err.Error())
}

func TestValidateStructReportsJSONNames(t *testing.T) {
	err := validateStruct("banner", &models.Banner{})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "is required", verr.Fields["title"])
	assert.Equal(t, "is required", verr.Fields["image_path"])
}

func TestValidateStructSlugShape(t *testing.T) {
	err := validateStruct("service", &models.Service{Name: "Cloud", Slug: "Not A Slug"})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "slug")

	assert.NoError(t, validateStruct("service", &models.Service{Name: "Cloud", Slug: "cloud"}))
	assert.NoError(t, validateStruct("service", &models.Service{Name: "Cloud"}), "empty slug is derived later")
}

func TestValidateStructRating(t *testing.T) {
	err := validateStruct("testimonial", &models.Testimonial{ClientName: "Ann", Quote: "Great", Rating: 9})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "must be at most 5", verr.Fields["rating"])
}

func TestValidateEnquiryNeedsContact(t *testing.T) {
	err := validateStruct("enquiry", &models.Enquiry{Name: "Ann", Message: "Hi"})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "email")
	assert.Contains(t, verr.Fields, "phone")

	phone := "+40 700 000 000"
	assert.NoError(t, validateStruct("enquiry", &models.Enquiry{Name: "Ann", Message: "Hi", Phone: &phone}))
}

func TestAsConflict(t *testing.T) {
	pgErr := &pgconn.PgError{Code: uniqueViolation, ConstraintName: "services_slug_live_idx"}
	err := asConflict(fmt.Errorf("insert: %w", pgErr), "service", "slug", "cloud")

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "slug", conflict.Field)
	assert.Equal(t, `service slug "cloud" already in use`, conflict.Error())

	other := errors.New("boom")
	assert.Same(t, other, asConflict(other, "service", "slug", "cloud"))
}
