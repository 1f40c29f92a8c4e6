package api

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/ceciliaos/ceciliad/session"
)

type contextKey int

const sessionKey contextKey = iota

// AuthMiddleware authenticates the Bearer token and stores the resolved
// session on the request context. Missing, unknown, and expired tokens all
// yield the same 401 so probes learn nothing about token state.
func (a *API) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		sess, err := a.sessions.Validate(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or expired session")
			return
		}
		ctx := context.WithValue(r.Context(), sessionKey, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(h[len(prefix):]), true
}

func sessionFromContext(ctx context.Context) session.Session {
	sess, _ := ctx.Value(sessionKey).(session.Session)
	return sess
}

// extractClientIP returns the client IP for rate limiting. X-Forwarded-For
// is only consulted when the operator marked the proxy as trusted;
// otherwise RemoteAddr wins so clients cannot spoof their source.
func (a *API) extractClientIP(r *http.Request) string {
	if a.trustedProxies {
		if xff := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); xff != "" {
			first := strings.TrimSpace(strings.Split(xff, ",")[0])
			if ip := net.ParseIP(first); ip != nil {
				return ip.String()
			}
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
