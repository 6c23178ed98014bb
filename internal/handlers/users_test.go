package handlers

import (
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agencysite/internal/models"
)

func userRouter(env *testEnv) http.Handler {
	u := NewUsers(env.Users)
	r := chi.NewRouter()
	r.Get("/users", u.List)
	r.Post("/users", u.Create)
	r.Post("/users/{id}/reset-2fa", u.ResetTwoFA)
	return r
}

func TestUserCreateAndList(t *testing.T) {
	env := newTestEnv(t)
	h := userRouter(env)

	rec := serve(t, h, http.MethodPost, "/users", createUserRequest{
		Email: " Editor@Example.com ", DisplayName: "Ed", Password: "password123", Role: models.RoleEditor,
	}, env.adminSession())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[map[string]any](t, rec)
	assert.Equal(t, "editor@example.com", created["email"])
	assert.NotContains(t, created, "password_hash")

	rec = serve(t, h, http.MethodPost, "/users", createUserRequest{
		Email: "editor@example.com", DisplayName: "Ed again", Password: "password123", Role: models.RoleEditor,
	}, env.adminSession())
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = serve(t, h, http.MethodGet, "/users", nil, env.adminSession())
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[listResponse[models.User]](t, rec)
	require.Equal(t, 2, list.Count)
	assert.Equal(t, env.Admin.Email, list.Items[0].Email)
	assert.Equal(t, "editor@example.com", list.Items[1].Email)
}

func TestUserCreateValidation(t *testing.T) {
	env := newTestEnv(t)
	h := userRouter(env)

	tests := []struct {
		name  string
		req   createUserRequest
		field string
	}{
		{"missing email", createUserRequest{DisplayName: "X", Password: "password123", Role: models.RoleEditor}, "email"},
		{"missing name", createUserRequest{Email: "x@example.com", Password: "password123", Role: models.RoleEditor}, "display_name"},
		{"short password", createUserRequest{Email: "x@example.com", DisplayName: "X", Password: "short", Role: models.RoleEditor}, "password"},
		{"unknown role", createUserRequest{Email: "x@example.com", DisplayName: "X", Password: "password123", Role: "owner"}, "role"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, h, http.MethodPost, "/users", tt.req, env.adminSession())
			require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
			assert.Contains(t, decode[errorBody](t, rec).Fields, tt.field)
		})
	}
}

func TestUserResetTwoFA(t *testing.T) {
	env := newTestEnv(t)
	h := userRouter(env)

	editor, err := env.Users.Create(ctx, "ed@example.com", "password123", "Ed", models.RoleEditor)
	require.NoError(t, err)
	require.NoError(t, env.Users.SetTOTPSecret(ctx, editor.ID, "JBSWY3DPEHPK3PXP"))
	require.NoError(t, env.Users.EnableTOTP(ctx, editor.ID))

	rec := serve(t, h, http.MethodPost, "/users/"+env.Admin.ID.String()+"/reset-2fa", nil, env.adminSession())
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = serve(t, h, http.MethodPost, "/users/"+editor.ID.String()+"/reset-2fa", nil, env.adminSession())
	require.Equal(t, http.StatusNoContent, rec.Code)
	got, err := env.Users.FindByID(ctx, editor.ID)
	require.NoError(t, err)
	assert.False(t, got.TOTPEnabled)
	assert.Nil(t, got.TOTPSecret)

	rec = serve(t, h, http.MethodPost, "/users/"+uuid.NewString()+"/reset-2fa", nil, env.adminSession())
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
