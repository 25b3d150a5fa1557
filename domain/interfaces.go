package domain

import (
	"context"
	"time"
)

// TokenStore defines durable persistence of the session token under one key
type TokenStore interface {
	Save(ctx context.Context, token string) error
	// Load returns "" with a nil error when no token is stored
	Load(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}

// TokenDecoder defines advisory, unverified parsing of a session token
type TokenDecoder interface {
	Decode(token string) (*TokenClaims, error)
}

// AuthGateway defines the backend authentication calls
type AuthGateway interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	VerifyOTP(ctx context.Context, email, otp string) (string, error)
	ResendOTP(ctx context.Context, email string) (string, error)
	Logout(ctx context.Context, token string) (string, error)
	Register(ctx context.Context, req RegisterRequest) (*RegisterResult, error)
	Me(ctx context.Context, token string) (*Profile, error)
}

// SessionManager defines the session state machine as seen by the UI layer
type SessionManager interface {
	Start(ctx context.Context) Snapshot
	Snapshot() Snapshot
	Subscribe(fn func(Snapshot)) (unsubscribe func())
	Token() string
	Login(ctx context.Context, email, password string) (Snapshot, error)
	VerifyOTP(ctx context.Context, otp string) (Snapshot, error)
	ResendOTP(ctx context.Context) (string, error)
	CancelOTP(ctx context.Context) Snapshot
	Register(ctx context.Context, req RegisterRequest) (Snapshot, error)
	Refresh(ctx context.Context) (*Profile, error)
	Logout(ctx context.Context) Snapshot
	// Reject ends the session because the backend refused its token
	Reject(ctx context.Context) Snapshot
	Close()
}

// ResourceClient defines the uniform CRUD calls against dashboard resources
type ResourceClient interface {
	List(ctx context.Context, token, resource string, q ListQuery) (*Page, error)
	Get(ctx context.Context, token, resource, id string) (map[string]any, error)
	Create(ctx context.Context, token, resource string, body map[string]any) (map[string]any, error)
	Update(ctx context.Context, token, resource, id string, body map[string]any) (map[string]any, error)
	Patch(ctx context.Context, token, resource, id string, body map[string]any) (map[string]any, error)
	Delete(ctx context.Context, token, resource, id string) error
}

// ResourceService defines resource operations bound to the current session
type ResourceService interface {
	List(ctx context.Context, resource string, q ListQuery) (*Page, error)
	Get(ctx context.Context, resource, id string) (map[string]any, error)
	Create(ctx context.Context, resource string, body map[string]any) (map[string]any, error)
	Update(ctx context.Context, resource, id string, body map[string]any) (map[string]any, error)
	Patch(ctx context.Context, resource, id string, body map[string]any) (map[string]any, error)
	Delete(ctx context.Context, resource, id string) error
	Bulk(ctx context.Context, resource string, req BulkRequest) (*BulkResult, error)
}

// PolicyService defines which roles may use which console screens
type PolicyService interface {
	AddPolicy(role, screen, action string) error
	RemovePolicy(role, screen, action string) error
	CheckPermission(role, screen, action string) (bool, error)
	GetPolicies() [][]string
}

// CasbinEnforcer interface defines the methods we need from Casbin enforcer
type CasbinEnforcer interface {
	AddPolicy(params ...interface{}) (bool, error)
	RemovePolicy(params ...interface{}) (bool, error)
	Enforce(rvals ...interface{}) (bool, error)
	GetPolicy() ([][]string, error)
	SavePolicy() error
}

// Timer is a cancellable one-shot timer
type Timer interface {
	Stop() bool
}

// Clock abstracts time so expiry scheduling can be tested
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Resources lists the dashboard resources served by the backend
var Resources = []string{
	"users", "products", "orders", "blogs", "categories",
	"tags", "coupons", "faqs", "reviews", "contacts",
}

// IsResource reports whether name is a known dashboard resource
func IsResource(name string) bool {
	for _, r := range Resources {
		if r == name {
			return true
		}
	}
	return false
}
