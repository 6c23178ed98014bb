package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"agencysite/internal/middleware"
	"agencysite/internal/models"
	"agencysite/internal/store"
)

// Users manages admin accounts. Every route is admin-only.
type Users struct {
	userStore *store.UserStore
}

// NewUsers creates a new Users handler group.
func NewUsers(userStore *store.UserStore) *Users {
	return &Users{userStore: userStore}
}

// List returns every account.
func (u *Users) List(w http.ResponseWriter, r *http.Request) {
	users, err := u.userStore.List(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newList(users))
}

type createUserRequest struct {
	Email       string      `json:"email"`
	DisplayName string      `json:"display_name"`
	Password    string      `json:"password"`
	Role        models.Role `json:"role"`
}

// Create adds an account. The new user sets up 2FA on first login.
func (u *Users) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	fields := map[string]string{}
	if strings.TrimSpace(req.Email) == "" {
		fields["email"] = "is required"
	}
	if strings.TrimSpace(req.DisplayName) == "" {
		fields["display_name"] = "is required"
	}
	if len(fields) > 0 {
		writeStoreError(w, r, &store.ValidationError{Entity: "user", Fields: fields})
		return
	}

	user, err := u.userStore.Create(r.Context(), req.Email, req.Password, strings.TrimSpace(req.DisplayName), req.Role)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	slog.Info("user created", "admin", actor(r), "new_user", user.Email, "role", user.Role)
	writeJSON(w, http.StatusCreated, user)
}

// ResetTwoFA clears another user's TOTP secret so they must enrol again.
func (u *Users) ResetTwoFA(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	sess := middleware.SessionFromCtx(r.Context())
	if sess != nil && id == sess.UserID {
		writeError(w, http.StatusForbidden, "cannot reset your own 2FA")
		return
	}

	target, err := u.userStore.FindByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	if target == nil {
		writeStoreError(w, r, &store.NotFoundError{Entity: "user", ID: id.String()})
		return
	}
	if err := u.userStore.ResetTOTP(r.Context(), id); err != nil {
		writeStoreError(w, r, err)
		return
	}

	slog.Info("2fa reset by admin", "admin", actor(r), "target_user", id)
	w.WriteHeader(http.StatusNoContent)
}
