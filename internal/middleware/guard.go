// internal/middleware/guard.go
package middleware

import (
	"taskdesk/internal/domain/auth"
	"taskdesk/internal/pkg/navigation"
	"taskdesk/internal/pkg/response"
	"taskdesk/internal/pkg/session"

	"github.com/gin-gonic/gin"
)

type GuardKind int

const (
	// GuardAuth admits only a signed-in user.
	GuardAuth GuardKind = iota
	// GuardGuest admits only a signed-out user.
	GuardGuest
)

func (k GuardKind) String() string {
	switch k {
	case GuardAuth:
		return "auth"
	case GuardGuest:
		return "guest"
	}
	return "unknown"
}

// Decide reports whether a route guarded by kind may render for the given
// session, and where to send the user when it may not.
func Decide(kind GuardKind, s auth.Session) (bool, navigation.Route) {
	switch kind {
	case GuardAuth:
		if s.IsAuthenticated && s.Token != "" {
			return true, ""
		}
		return false, navigation.RouteLogin
	case GuardGuest:
		if !s.IsAuthenticated {
			return true, ""
		}
		return false, navigation.RouteDashboard
	}
	return false, navigation.RouteLogin
}

// RequireAuth redirects signed-out requests to the login page.
func RequireAuth(store *session.Store) gin.HandlerFunc {
	return guard(GuardAuth, store)
}

// RequireGuest redirects signed-in requests to the dashboard.
func RequireGuest(store *session.Store) gin.HandlerFunc {
	return guard(GuardGuest, store)
}

func guard(kind GuardKind, store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap := store.Snapshot()
		if ok, to := Decide(kind, snap); !ok {
			response.Redirect(c, to.String())
			return
		}

		if snap.User != nil {
			c.Set(ctxUserKey, *snap.User)
		}
		c.Next()
	}
}
