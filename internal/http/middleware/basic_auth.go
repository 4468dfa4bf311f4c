package middleware

import (
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const basicRealm = `Basic realm="Admin Area"`

// BasicAuthenticator checks HTTP Basic credentials against a single admin
// account. The password is held as a bcrypt hash.
type BasicAuthenticator struct {
	user string
	hash []byte
}

// NewBasicAuthenticator builds an authenticator for user. passwordHash, a
// bcrypt hash, wins over a plaintext password. With no user or no
// password the authenticator is unconfigured and rejects everything.
func NewBasicAuthenticator(user, password, passwordHash string) (*BasicAuthenticator, error) {
	a := &BasicAuthenticator{user: user}
	if user == "" {
		return a, nil
	}
	switch {
	case passwordHash != "":
		if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
			return nil, fmt.Errorf("middleware: invalid admin password hash: %w", err)
		}
		a.hash = []byte(passwordHash)
	case password != "":
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("middleware: hash admin password: %w", err)
		}
		a.hash = hash
	}
	return a, nil
}

// Configured reports whether admin credentials are present.
func (a *BasicAuthenticator) Configured() bool {
	return a != nil && a.user != "" && len(a.hash) > 0
}

// Verify checks an Authorization header value. The decoded credentials
// split on the first colon, so passwords may contain colons. Malformed
// input and unconfigured credentials are simply not authenticated.
func (a *BasicAuthenticator) Verify(header string) bool {
	if !a.Configured() {
		return false
	}
	scheme, encoded, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Basic") {
		return false
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return false
	}
	user, password, ok := strings.Cut(string(raw), ":")
	if !ok {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(a.user)) == 1
	passOK := bcrypt.CompareHashAndPassword(a.hash, []byte(password)) == nil
	return userOK && passOK
}

// RequireBasicAuth guards admin routes, answering 401 with a Basic
// challenge when Verify fails.
func RequireBasicAuth(auth *BasicAuthenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !auth.Verify(r.Header.Get("Authorization")) {
				Challenge(w)
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Challenge sets the Basic auth challenge header.
func Challenge(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", basicRealm)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": message})
}
