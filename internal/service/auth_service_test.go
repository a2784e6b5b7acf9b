package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/compliment-api/config"
	"github.com/d60-Lab/compliment-api/internal/repository"
	"github.com/d60-Lab/compliment-api/internal/testutil"
	"github.com/d60-Lab/compliment-api/pkg/token"
)

// fakeProvider serves the token and userinfo endpoints of an OAuth provider.
func fakeProvider(t *testing.T, userinfo map[string]interface{}) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.Form.Get("code") != "good-code" {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_grant"})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "access-123",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer access-123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(userinfo)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newAuthService(t *testing.T, srv *httptest.Server) (AuthService, *token.Manager) {
	t.Helper()
	db := testutil.NewDB(t)
	tokens := token.NewManager("secret", "compliment-api", time.Hour)
	cfg := config.OAuthConfig{
		ClientID:     "client",
		ClientSecret: "shh",
		AuthURL:      srv.URL + "/auth",
		TokenURL:     srv.URL + "/token",
		UserInfoURL:  srv.URL + "/userinfo",
		RedirectURL:  "http://localhost/callback",
		Scopes:       []string{"email"},
	}
	return NewAuthService(cfg, repository.NewUserRepository(db), tokens), tokens
}

func TestAuth_LoginURL(t *testing.T) {
	srv := fakeProvider(t, nil)
	svc, _ := newAuthService(t, srv)

	u, err := url.Parse(svc.LoginURL("state-1"))
	require.NoError(t, err)
	assert.Equal(t, "/auth", u.Path)
	assert.Equal(t, "state-1", u.Query().Get("state"))
	assert.Equal(t, "client", u.Query().Get("client_id"))
}

func TestAuth_CallbackCreatesUserAndIssuesToken(t *testing.T) {
	srv := fakeProvider(t, map[string]interface{}{
		"email":          "Ada@Example.com",
		"email_verified": true,
		"given_name":     "Ada",
		"family_name":    "Lovelace",
	})
	svc, tokens := newAuthService(t, srv)
	ctx := context.Background()

	res, err := svc.Callback(ctx, "good-code")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", res.User.Email)
	require.NotNil(t, res.User.FirstName)
	assert.Equal(t, "Ada", *res.User.FirstName)

	claims, err := tokens.Parse(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.Subject)

	again, err := svc.Callback(ctx, "good-code")
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, again.User.ID)

	me, err := svc.Me(ctx, res.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", me.Email)

	_, err = svc.Me(ctx, "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuth_CallbackFailures(t *testing.T) {
	ctx := context.Background()

	srv := fakeProvider(t, map[string]interface{}{"email": "a@example.com"})
	svc, _ := newAuthService(t, srv)
	_, err := svc.Callback(ctx, "bad-code")
	assert.ErrorIs(t, err, ErrOAuthExchange)
	_, err = svc.Callback(ctx, "")
	assert.ErrorIs(t, err, ErrOAuthExchange)

	noEmail := fakeProvider(t, map[string]interface{}{"given_name": "x"})
	svc, _ = newAuthService(t, noEmail)
	_, err = svc.Callback(ctx, "good-code")
	assert.ErrorIs(t, err, ErrOAuthExchange)

	unverified := fakeProvider(t, map[string]interface{}{"email": "a@example.com", "email_verified": false})
	svc, _ = newAuthService(t, unverified)
	_, err = svc.Callback(ctx, "good-code")
	assert.ErrorIs(t, err, ErrOAuthExchange)
}
