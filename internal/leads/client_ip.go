package leads

import (
	"net"
	"net/http"
	"strings"
)

// UnknownClient identifies requests whose origin cannot be determined.
const UnknownClient = "unknown"

// ClientIP returns the best-effort client address: the first
// X-Forwarded-For hop, then X-Real-Ip, then the connection address.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-Ip")); xri != "" {
		return xri
	}
	if r.RemoteAddr != "" {
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
			return host
		}
		return r.RemoteAddr
	}
	return UnknownClient
}
