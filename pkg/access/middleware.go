package access

import (
	"net"
	"net/http"
	"strings"

	"github.com/meridianhq/authzkit/pkg/permission"
)

// RequirePermission guards a route behind an access check for the given
// resource and action. Requests without an identity get 401; denied
// requests get 403; MFA-gated requests without verification get 428.
func RequirePermission(engine *Engine, resource permission.Resource, action permission.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFromContext(r.Context())
			if !ok {
				http.Error(w, "Authentication required", http.StatusUnauthorized)
				return
			}

			res := engine.CheckAccess(r.Context(), Request{
				UserID:         id.UserID,
				OrganizationID: id.OrganizationID,
				Resource:       resource,
				Action:         action,
				IPAddress:      clientIP(r),
				UserAgent:      r.UserAgent(),
				MFAVerified:    id.MFAVerified,
				SessionID:      id.SessionID,
			})

			switch res.Decision {
			case DecisionAllow:
				next.ServeHTTP(w, r)
			case DecisionRequireMFA:
				http.Error(w, "MFA verification required", http.StatusPreconditionRequired)
			default:
				http.Error(w, "Forbidden", http.StatusForbidden)
			}
		})
	}
}

// RequireRole guards a route behind membership in a single role.
func RequireRole(engine *Engine, roleName string) func(http.Handler) http.Handler {
	return RequireAnyRole(engine, roleName)
}

// RequireAnyRole guards a route behind membership in any of the given roles.
func RequireAnyRole(engine *Engine, roleNames ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFromContext(r.Context())
			if !ok {
				http.Error(w, "Authentication required", http.StatusUnauthorized)
				return
			}
			if !engine.HasAnyRole(id.UserID, id.OrganizationID, roleNames...) {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP extracts the client IP, preferring proxy headers over the
// socket address.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		for _, ip := range strings.Split(forwarded, ",") {
			if parsed := parseIP(strings.TrimSpace(ip)); parsed != "" {
				return parsed
			}
		}
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		if parsed := parseIP(ip); parsed != "" {
			return parsed
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return parseIP(r.RemoteAddr)
	}
	return parseIP(host)
}

func parseIP(s string) string {
	ip := net.ParseIP(strings.TrimSpace(s))
	if ip == nil {
		return ""
	}
	return ip.String()
}
