package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agencysite/internal/middleware"
	"agencysite/internal/session"
)

// authRouter wires the auth handlers the way the router does, with the
// real session middleware so cookies round-trip.
func authRouter(env *testEnv) http.Handler {
	auth := NewAuth(env.Sessions, env.Users)
	r := chi.NewRouter()
	r.Use(middleware.LoadSession(env.Sessions))
	r.Post("/login", auth.Login)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/me", auth.Me)
		r.Post("/logout", auth.Logout)
		r.Get("/2fa/setup", auth.TwoFASetup)
		r.Post("/2fa/verify", auth.TwoFAVerify)
	})
	return r
}

// client keeps the session cookie between requests.
type client struct {
	t      *testing.T
	h      http.Handler
	cookie *http.Cookie
}

func (c *client) do(method, target string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c.cookie != nil {
			r.AddCookie(c.cookie)
		}
		c.h.ServeHTTP(w, r)
	})
	rec := serve(c.t, h, method, target, body, nil)
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == session.CookieName {
			if ck.MaxAge < 0 {
				c.cookie = nil
			} else {
				c.cookie = ck
			}
		}
	}
	return rec
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t).withSessions(t)
	c := &client{t: t, h: authRouter(env)}

	rec := c.do(http.MethodPost, "/login", loginRequest{Email: env.Admin.Email, Password: "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, c.cookie)

	rec = c.do(http.MethodPost, "/login", loginRequest{Email: "nobody@example.com", Password: "password123"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid email or password", decode[errorBody](t, rec).Error, "unknown accounts look like bad passwords")
}

func TestLoginAndTwoFactorEnrolment(t *testing.T) {
	env := newTestEnv(t).withSessions(t)
	c := &client{t: t, h: authRouter(env)}

	rec := c.do(http.MethodGet, "/me", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = c.do(http.MethodPost, "/login", loginRequest{Email: strings.ToUpper(env.Admin.Email), Password: "password123"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NotNil(t, c.cookie)
	login := decode[meResponse](t, rec)
	assert.Equal(t, "2fa_setup", login.Next)
	assert.False(t, login.TwoFADone)
	assert.NotEmpty(t, login.CSRFToken)

	rec = c.do(http.MethodGet, "/2fa/setup", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	setup := decode[twoFASetupResponse](t, rec)
	assert.NotEmpty(t, setup.Secret)
	assert.True(t, strings.HasPrefix(setup.QRCode, "data:image/png;base64,"))
	assert.Contains(t, setup.URL, "otpauth://totp/")

	rec = c.do(http.MethodPost, "/2fa/verify", verifyRequest{Code: "abcdef"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	code, err := totp.GenerateCode(setup.Secret, time.Now())
	require.NoError(t, err)
	rec = c.do(http.MethodPost, "/2fa/verify", verifyRequest{Code: code})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	done := decode[meResponse](t, rec)
	assert.True(t, done.TwoFADone)
	assert.Empty(t, done.Next)

	user, err := env.Users.FindByID(ctx, env.Admin.ID)
	require.NoError(t, err)
	assert.True(t, user.TOTPEnabled)

	// Once enabled, setup cannot be restarted from a session.
	rec = c.do(http.MethodGet, "/2fa/setup", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = c.do(http.MethodGet, "/me", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, login.CSRFToken, decode[meResponse](t, rec).CSRFToken)

	rec = c.do(http.MethodPost, "/logout", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Nil(t, c.cookie)
}

func TestLoginWithEnabledTwoFactorNeedsVerify(t *testing.T) {
	env := newTestEnv(t).withSessions(t)
	key, err := totp.Generate(totp.GenerateOpts{Issuer: totpIssuer, AccountName: env.Admin.Email})
	require.NoError(t, err)
	require.NoError(t, env.Users.SetTOTPSecret(ctx, env.Admin.ID, key.Secret()))
	require.NoError(t, env.Users.EnableTOTP(ctx, env.Admin.ID))

	c := &client{t: t, h: authRouter(env)}
	rec := c.do(http.MethodPost, "/login", loginRequest{Email: env.Admin.Email, Password: "password123"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2fa_verify", decode[meResponse](t, rec).Next)
}

func TestVerifyWithoutSetup(t *testing.T) {
	env := newTestEnv(t).withSessions(t)
	c := &client{t: t, h: authRouter(env)}

	rec := c.do(http.MethodPost, "/login", loginRequest{Email: env.Admin.Email, Password: "password123"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = c.do(http.MethodPost, "/2fa/verify", verifyRequest{Code: "123456"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}
