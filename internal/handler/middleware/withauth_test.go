package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ogaydukov/boostup/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		PrivateKey:       "testkey",
		AuthDisabledURLs: []string{"/login", "/register"},
	}
}

func token(t *testing.T, sub string, admin bool) string {
	t.Helper()

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   sub,
		"admin": admin,
	}).SignedString([]byte("testkey"))
	require.NoError(t, err)

	return signed
}

func echoUser(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte(r.Header.Get("User-ID") + ":" + r.Header.Get("User-Admin")))
}

func TestWithAuthRejectsMissingToken(t *testing.T) {
	handler := WithAuth(testConfig())(http.HandlerFunc(echoUser))

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWithAuthSkipsDisabledURLs(t *testing.T) {
	handler := WithAuth(testConfig())(http.HandlerFunc(echoUser))

	req := httptest.NewRequest(http.MethodPost, "/api/user/login", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWithAuthSetsUserHeaders(t *testing.T) {
	handler := WithAuth(testConfig())(http.HandlerFunc(echoUser))

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, "42", true))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "42:true", rec.Body.String())
}

func TestWithAuthClearsSpoofedAdminHeader(t *testing.T) {
	handler := WithAuth(testConfig())(WithAdmin(http.HandlerFunc(echoUser)))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, "42", false))
	req.Header.Set("User-Admin", "true")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestWithAdminAllowsAdmin(t *testing.T) {
	handler := WithAuth(testConfig())(WithAdmin(http.HandlerFunc(echoUser)))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, "1", true))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
