package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/you/adminconsole/domain"
)

// Paths the guard redirects to
const (
	LoginPath     = "/login"
	VerifyOTPPath = "/verify-otp"
)

// Context keys set for authenticated requests
const (
	ContextUserID   = "user_id"
	ContextUserRole = "user_role"
	ContextIdentity = "identity"
)

// DecisionKind is the outcome of a route guard check
type DecisionKind int

const (
	// Allow renders the protected content
	Allow DecisionKind = iota
	// Wait renders a neutral placeholder while the session initializes; never a redirect
	Wait
	// Redirect sends the user to Location
	Redirect
)

// Decision is what the route guard does with a request for protected content
type Decision struct {
	Kind     DecisionKind
	Location string
}

// Decide maps a session snapshot to a guard decision
func Decide(snap domain.Snapshot) Decision {
	switch snap.State {
	case domain.StateInitializing:
		return Decision{Kind: Wait}
	case domain.StateAuthenticated:
		return Decision{Kind: Allow}
	case domain.StateOTPPending:
		return Decision{Kind: Redirect, Location: VerifyOTPPath}
	default:
		return Decision{Kind: Redirect, Location: LoginPath}
	}
}

// CanEnter reports whether protected content may be shown
func CanEnter(snap domain.Snapshot) bool {
	return Decide(snap).Kind == Allow
}

// GuardMW protects routes behind the console session
type GuardMW struct {
	sessions domain.SessionManager
}

// NewGuardMW creates new route guard middleware
func NewGuardMW(sessions domain.SessionManager) *GuardMW {
	return &GuardMW{sessions: sessions}
}

// Require returns the route guard middleware
func (mw *GuardMW) Require() gin.HandlerFunc {
	return func(c *gin.Context) {
		snap := mw.sessions.Snapshot()
		decision := Decide(snap)

		switch decision.Kind {
		case Wait:
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"status": snap.StateName})
			return
		case Redirect:
			c.Header("Location", decision.Location)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":    "Authentication required",
				"redirect": decision.Location,
			})
			return
		}

		identity := *snap.Identity
		c.Set(ContextUserID, identity.UserID)
		c.Set(ContextUserRole, identity.Role)
		c.Set(ContextIdentity, identity)
		c.Next()
	}
}
