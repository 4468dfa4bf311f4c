package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/wolfman30/landing-leads/internal/http/middleware"
	"github.com/wolfman30/landing-leads/pkg/logging"
)

// AdminAuthHandler lets the admin page check credentials before it loads
// any data.
type AdminAuthHandler struct {
	auth   *middleware.BasicAuthenticator
	logger *logging.Logger
}

// NewAdminAuthHandler creates a new admin auth handler.
func NewAdminAuthHandler(auth *middleware.BasicAuthenticator, logger *logging.Logger) *AdminAuthHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AdminAuthHandler{auth: auth, logger: logger}
}

type authStatusResponse struct {
	Authenticated bool   `json:"authenticated"`
	Error         string `json:"error,omitempty"`
}

// Status handles GET|POST /admin/auth.
func (h *AdminAuthHandler) Status(w http.ResponseWriter, r *http.Request) {
	if !h.auth.Configured() {
		h.logger.Error("admin auth requested but credentials are not configured")
		writeJSON(w, http.StatusInternalServerError, authStatusResponse{
			Authenticated: false,
			Error:         "Admin credentials not configured",
		})
		return
	}
	if !h.auth.Verify(r.Header.Get("Authorization")) {
		h.logger.Info("admin auth failed", "remote_ip", r.RemoteAddr)
		middleware.Challenge(w)
		writeJSON(w, http.StatusUnauthorized, authStatusResponse{Authenticated: false})
		return
	}
	writeJSON(w, http.StatusOK, authStatusResponse{Authenticated: true})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
