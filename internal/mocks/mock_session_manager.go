package mocks

import (
	"context"
	"sync"

	"github.com/you/adminconsole/domain"
)

// MockSessionManager implements domain.SessionManager for handler and service tests.
// Unset Func fields return the current Snap and a nil error.
type MockSessionManager struct {
	LoginFunc     func(ctx context.Context, email, password string) (domain.Snapshot, error)
	VerifyOTPFunc func(ctx context.Context, otp string) (domain.Snapshot, error)
	ResendOTPFunc func(ctx context.Context) (string, error)
	RegisterFunc  func(ctx context.Context, req domain.RegisterRequest) (domain.Snapshot, error)
	RefreshFunc   func(ctx context.Context) (*domain.Profile, error)

	mu          sync.Mutex
	Snap        domain.Snapshot
	SessionTok  string
	RejectCalls int
	LogoutCalls int
	CancelCalls int
}

// NewMockSessionManager creates a session mock that reports snap
func NewMockSessionManager(snap domain.Snapshot) *MockSessionManager {
	return &MockSessionManager{Snap: snap}
}

// AuthenticatedSession builds a snapshot signed in as identity
func AuthenticatedSession(identity domain.Identity) domain.Snapshot {
	return domain.Snapshot{
		State:     domain.StateAuthenticated,
		StateName: domain.StateAuthenticated.String(),
		Identity:  &identity,
	}
}

// SessionIn builds a snapshot in state with no identity
func SessionIn(state domain.State) domain.Snapshot {
	snap := domain.Snapshot{State: state, StateName: state.String()}
	if state == domain.StateOTPPending {
		snap.PendingEmail = "pending@example.com"
	}
	return snap
}

func (m *MockSessionManager) Start(ctx context.Context) domain.Snapshot { return m.Snapshot() }

func (m *MockSessionManager) Snapshot() domain.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Snap
}

func (m *MockSessionManager) Subscribe(fn func(domain.Snapshot)) func() { return func() {} }

func (m *MockSessionManager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Snap.State != domain.StateAuthenticated {
		return ""
	}
	return m.SessionTok
}

func (m *MockSessionManager) Login(ctx context.Context, email, password string) (domain.Snapshot, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return m.Snapshot(), nil
}

func (m *MockSessionManager) VerifyOTP(ctx context.Context, otp string) (domain.Snapshot, error) {
	if m.VerifyOTPFunc != nil {
		return m.VerifyOTPFunc(ctx, otp)
	}
	return m.Snapshot(), nil
}

func (m *MockSessionManager) ResendOTP(ctx context.Context) (string, error) {
	if m.ResendOTPFunc != nil {
		return m.ResendOTPFunc(ctx)
	}
	return "OTP resent", nil
}

func (m *MockSessionManager) CancelOTP(ctx context.Context) domain.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CancelCalls++
	m.Snap = SessionIn(domain.StateUnauthenticated)
	return m.Snap
}

func (m *MockSessionManager) Register(ctx context.Context, req domain.RegisterRequest) (domain.Snapshot, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, req)
	}
	return m.Snapshot(), nil
}

func (m *MockSessionManager) Refresh(ctx context.Context) (*domain.Profile, error) {
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx)
	}
	return nil, domain.ErrNotAuthenticated
}

func (m *MockSessionManager) Logout(ctx context.Context) domain.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LogoutCalls++
	m.Snap = SessionIn(domain.StateUnauthenticated)
	return m.Snap
}

func (m *MockSessionManager) Reject(ctx context.Context) domain.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RejectCalls++
	m.Snap = SessionIn(domain.StateUnauthenticated)
	return m.Snap
}

func (m *MockSessionManager) Close() {}

// Compile-time interface compliance verification
var _ domain.SessionManager = (*MockSessionManager)(nil)
