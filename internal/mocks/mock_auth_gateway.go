package mocks

import (
	"context"
	"sync"

	"github.com/you/adminconsole/domain"
)

// MockAuthGateway implements domain.AuthGateway for testing
type MockAuthGateway struct {
	LoginFunc     func(ctx context.Context, email, password string) (*domain.LoginResult, error)
	VerifyOTPFunc func(ctx context.Context, email, otp string) (string, error)
	ResendOTPFunc func(ctx context.Context, email string) (string, error)
	LogoutFunc    func(ctx context.Context, token string) (string, error)
	RegisterFunc  func(ctx context.Context, req domain.RegisterRequest) (*domain.RegisterResult, error)
	MeFunc        func(ctx context.Context, token string) (*domain.Profile, error)

	mu          sync.Mutex
	LogoutCalls int
}

// NewMockAuthGateway creates a new MockAuthGateway with default behaviors
func NewMockAuthGateway() *MockAuthGateway {
	return &MockAuthGateway{}
}

// Login submits credentials
func (m *MockAuthGateway) Login(ctx context.Context, email, password string) (*domain.LoginResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	// Default behavior: OTP required
	return &domain.LoginResult{RequiresOTP: true}, nil
}

// VerifyOTP submits an OTP
func (m *MockAuthGateway) VerifyOTP(ctx context.Context, email, otp string) (string, error) {
	if m.VerifyOTPFunc != nil {
		return m.VerifyOTPFunc(ctx, email, otp)
	}
	return "", domain.NewAuthError(400, "Invalid OTP")
}

// ResendOTP asks for a new OTP
func (m *MockAuthGateway) ResendOTP(ctx context.Context, email string) (string, error) {
	if m.ResendOTPFunc != nil {
		return m.ResendOTPFunc(ctx, email)
	}
	return "OTP resent", nil
}

// Logout ends the backend session
func (m *MockAuthGateway) Logout(ctx context.Context, token string) (string, error) {
	m.mu.Lock()
	m.LogoutCalls++
	m.mu.Unlock()
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, token)
	}
	return "Logged out", nil
}

// Register creates an account
func (m *MockAuthGateway) Register(ctx context.Context, req domain.RegisterRequest) (*domain.RegisterResult, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, req)
	}
	return nil, domain.NewAuthError(409, "User already exists")
}

// Me fetches the current profile
func (m *MockAuthGateway) Me(ctx context.Context, token string) (*domain.Profile, error) {
	if m.MeFunc != nil {
		return m.MeFunc(ctx, token)
	}
	return nil, domain.NewAuthError(401, "Not authorized")
}

// LogoutCount returns how many times Logout was called
func (m *MockAuthGateway) LogoutCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.LogoutCalls
}

// Compile-time interface compliance verification
var _ domain.AuthGateway = (*MockAuthGateway)(nil)
