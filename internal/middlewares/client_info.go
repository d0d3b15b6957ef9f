package middlewares

import (
	"net"
	"net/http"
	"oauth-relay/internal/utils"
	"strings"
)

var clientIPHeaders = []string{"True-Client-IP", "X-Real-IP", "X-Forwarded-For"}

// ClientInfoMiddleware resolves the caller's address and user agent onto the
// AppContext. Must run after AppContextMiddleware.
func ClientInfoMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if appCtx := GetAppContext(r); appCtx != nil {
			appCtx.ClientInfo = utils.ParseClientInfo(extractClientIP(r), r.UserAgent())
		}

		next.ServeHTTP(w, r)
	})
}

// extractClientIP prefers proxy headers, taking the first hop of
// X-Forwarded-For, and falls back to RemoteAddr.
func extractClientIP(r *http.Request) string {
	for _, header := range clientIPHeaders {
		value := r.Header.Get(header)
		if value == "" {
			continue
		}

		first, _, _ := strings.Cut(value, ",")
		if parsed := net.ParseIP(strings.TrimSpace(first)); parsed != nil {
			return parsed.String()
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}

	if parsed := net.ParseIP(host); parsed != nil {
		return parsed.String()
	}

	return ""
}
