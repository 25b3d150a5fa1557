package domain

import "time"

// State is the discriminated lifecycle state of the console session
type State int

const (
	StateInitializing State = iota
	StateUnauthenticated
	StateOTPPending
	StateAuthenticated
)

// String returns the wire name of the state
func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateOTPPending:
		return "otp_pending"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Identity represents the signed-in staff member as decoded from the session token
type Identity struct {
	UserID            string `json:"userId"`
	Name              string `json:"name"`
	Email             string `json:"email"`
	Role              string `json:"role"`
	ProfilePictureURL string `json:"profilePictureUrl,omitempty"`
}

// TokenClaims represents the advisory payload of a session token
type TokenClaims struct {
	Identity
	ExpiresAt int64 `json:"exp"`
}

// Expiry returns the expiry as a time value
func (c *TokenClaims) Expiry() time.Time {
	return time.Unix(c.ExpiresAt, 0)
}

// Snapshot is a read-only view of the session at one instant
type Snapshot struct {
	State        State     `json:"-"`
	StateName    string    `json:"state"`
	Identity     *Identity `json:"identity,omitempty"`
	PendingEmail string    `json:"pendingEmail,omitempty"`
	ExpiresAt    time.Time `json:"expiresAt,omitempty"`
}

// IsInitializing reports whether the startup storage check is still running
func (s Snapshot) IsInitializing() bool { return s.State == StateInitializing }

// IsAuthenticated reports whether an identity is present
func (s Snapshot) IsAuthenticated() bool { return s.State == StateAuthenticated }

// OTPPending reports whether credentials were accepted and an OTP is awaited
func (s Snapshot) OTPPending() bool { return s.State == StateOTPPending }

// LoginResult represents the backend answer to a credential submission
type LoginResult struct {
	RequiresOTP bool   `json:"requiresOTP"`
	Token       string `json:"token,omitempty"`
}

// RegisterRequest represents account registration data
type RegisterRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	Role           string `json:"role"`
	AdminSecretKey string `json:"adminSecretKey,omitempty"`
}

// RegisterResult represents the backend answer to a registration
type RegisterResult struct {
	User  *Profile `json:"user"`
	Token string   `json:"token"`
}

// Profile represents the user record returned by the backend
type Profile struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	ProfilePicture string `json:"profilePicture,omitempty"`
}

// ListQuery represents pagination and filtering for a resource listing
type ListQuery struct {
	Page    int
	Limit   int
	Search  string
	Sort    string
	Filters map[string]string
}

// Page represents one page of a resource listing
type Page struct {
	Items      []map[string]any `json:"items"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	TotalPages int              `json:"totalPages"`
}

// BulkAction is one step of a bulk update; Op is "delete", "status" or "set"
type BulkAction struct {
	Op     string         `json:"op" binding:"required"`
	Status string         `json:"status,omitempty"`
	Fields map[string]any `json:"fields,omitempty"`
}

// BulkRequest applies Actions, in order, to every id
type BulkRequest struct {
	IDs     []string     `json:"ids" binding:"required,min=1"`
	Actions []BulkAction `json:"actions" binding:"required,min=1"`
}

// BulkResult reports how far a bulk request got
type BulkResult struct {
	Succeeded []string `json:"succeeded"`
	FailedID  string   `json:"failedId,omitempty"`
	Error     string   `json:"error,omitempty"`
}
