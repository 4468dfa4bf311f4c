package middleware

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/wolfman30/landing-leads/internal/leads"
	"github.com/wolfman30/landing-leads/internal/ratelimit"
	"github.com/wolfman30/landing-leads/pkg/logging"
)

// RateLimit rejects requests once the caller's address has used up its
// allowance in limiter, replying 429 with a Retry-After header. Limiter
// errors let the request through.
func RateLimit(limiter ratelimit.Limiter, logger *logging.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := leads.ClientIP(r)
			res, err := limiter.Check(r.Context(), ip)
			if err != nil {
				logger.Warn("rate limiter unavailable, allowing request", "error", err, "path", r.URL.Path)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
			if !res.Allowed {
				retry := int(res.RetryAfter(time.Now()).Seconds())
				w.Header().Set("Retry-After", strconv.Itoa(retry))
				logger.Info("request rate limited", "client_ip", ip, "path", r.URL.Path)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]any{
					"success": false,
					"message": leads.MsgRateLimited,
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
