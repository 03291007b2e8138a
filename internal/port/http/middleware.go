package http

import (
	"fmt"
	"net/http"

	"github.com/Issaqsk/farm2market/internal/domain/entity"
	"github.com/Issaqsk/farm2market/internal/service"
)

// RequireRole gates a route group on the active session role. There is no
// credential check behind it; the session is the demo's only auth surface.
func RequireRole(session *service.SessionService, role entity.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !session.HasRole(role) {
				writeError(w, http.StatusForbidden, fmt.Sprintf("requires an active %s session", role))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSession gates a route group on any active session, whichever role.
func RequireSession(session *service.SessionService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, active := session.Current(); !active {
				writeError(w, http.StatusForbidden, "requires an active session")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
