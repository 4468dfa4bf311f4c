package middleware

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func basic(user, pass string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+pass))
}

func TestBasicAuthenticator_Verify(t *testing.T) {
	auth, err := NewBasicAuthenticator("admin", "s3cret:with:colons", "")
	require.NoError(t, err)
	require.True(t, auth.Configured())

	cases := []struct {
		name   string
		header string
		want   bool
	}{
		{"valid", basic("admin", "s3cret:with:colons"), true},
		{"lowercase scheme", "basic " + base64.StdEncoding.EncodeToString([]byte("admin:s3cret:with:colons")), true},
		{"empty", "", false},
		{"bearer", "Bearer abc", false},
		{"bad base64", "Basic !!!***", false},
		{"no colon", "Basic " + base64.StdEncoding.EncodeToString([]byte("adminonly")), false},
		{"wrong password", basic("admin", "s3cret"), false},
		{"wrong user", basic("root", "s3cret:with:colons"), false},
		{"scheme only", "Basic", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, auth.Verify(tc.header))
		})
	}
}

func TestBasicAuthenticator_PrecomputedHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)

	auth, err := NewBasicAuthenticator("admin", "ignored", string(hash))
	require.NoError(t, err)
	assert.True(t, auth.Verify(basic("admin", "hunter2")))
	assert.False(t, auth.Verify(basic("admin", "ignored")))
}

func TestBasicAuthenticator_InvalidHash(t *testing.T) {
	_, err := NewBasicAuthenticator("admin", "", "not-a-hash")
	assert.Error(t, err)
}

func TestBasicAuthenticator_Unconfigured(t *testing.T) {
	auth, err := NewBasicAuthenticator("", "pw", "")
	require.NoError(t, err)
	assert.False(t, auth.Configured())
	assert.False(t, auth.Verify(basic("", "pw")))

	auth, err = NewBasicAuthenticator("admin", "", "")
	require.NoError(t, err)
	assert.False(t, auth.Configured())

	var nilAuth *BasicAuthenticator
	assert.False(t, nilAuth.Verify(basic("admin", "pw")))
}

func TestRequireBasicAuth(t *testing.T) {
	auth, err := NewBasicAuthenticator("admin", "pw", "")
	require.NoError(t, err)

	called := false
	h := RequireBasicAuth(auth)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin/leads", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, `Basic realm="Admin Area"`, rec.Header().Get("WWW-Authenticate"))
	assert.JSONEq(t, `{"success":false,"message":"Unauthorized"}`, rec.Body.String())
	assert.False(t, called)

	req = httptest.NewRequest(http.MethodGet, "/admin/leads", nil)
	req.Header.Set("Authorization", basic("admin", "pw"))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
}
