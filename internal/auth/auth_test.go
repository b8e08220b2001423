package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mind-engage/cssgrader/internal/auth"
)

func creds(t *testing.T) auth.Credentials {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	return auth.Credentials{Username: "admin", PassHash: string(h)}
}

func TestIssueAndParse(t *testing.T) {
	a := auth.NewAuthService("k1")
	tok, err := a.IssueJWT("admin", auth.RoleInstructor)
	require.NoError(t, err)

	c, err := a.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "admin", c.Sub)
	assert.Equal(t, auth.RoleInstructor, c.Role)

	_, err = auth.NewAuthService("other").Parse(tok)
	assert.Error(t, err)
}

func TestParseRejectsOtherAlgorithms(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodNone, &auth.Claims{Sub: "x", Role: auth.RoleInstructor})
	s, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = auth.NewAuthService("k1").Parse(s)
	assert.Error(t, err)
}

func TestLoginHandler(t *testing.T) {
	a := auth.NewAuthService("k1")
	h := auth.LoginHandler(a, creds(t))

	tests := []struct {
		name string
		body string
		want int
	}{
		{"ok", `{"username":"admin","password":"s3cret"}`, http.StatusOK},
		{"wrong password", `{"username":"admin","password":"nope"}`, http.StatusUnauthorized},
		{"wrong user", `{"username":"root","password":"s3cret"}`, http.StatusUnauthorized},
		{"bad json", `{`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h(rec, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(tt.body)))
			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusOK {
				var out map[string]string
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
				c, err := a.Parse(out["access_token"])
				require.NoError(t, err)
				assert.Equal(t, "admin", c.Sub)
			}
		})
	}
}

func TestMiddleware(t *testing.T) {
	a := auth.NewAuthService("k1")
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = auth.SubjectFromContext(r.Context())
	})
	h := auth.JWTMiddleware(a)(auth.RequireRole(auth.RoleInstructor)(next))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/scores", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/scores", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	other, err := a.IssueJWT("bob", "student")
	require.NoError(t, err)
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/scores", nil)
	req.Header.Set("Authorization", "Bearer "+other)
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	tok, err := a.IssueJWT("admin", auth.RoleInstructor)
	require.NoError(t, err)
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/scores", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin", seen)
}
