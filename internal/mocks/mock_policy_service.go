package mocks

import "github.com/you/adminconsole/domain"

// MockPolicyService implements domain.PolicyService interface for testing
type MockPolicyService struct {
	AddPolicyFunc       func(role, screen, action string) error
	RemovePolicyFunc    func(role, screen, action string) error
	CheckPermissionFunc func(role, screen, action string) (bool, error)
	GetPoliciesFunc     func() [][]string
}

// NewMockPolicyService creates a new MockPolicyService with default behaviors
func NewMockPolicyService() *MockPolicyService {
	return &MockPolicyService{}
}

// AddPolicy adds a screen policy
func (m *MockPolicyService) AddPolicy(role, screen, action string) error {
	if m.AddPolicyFunc != nil {
		return m.AddPolicyFunc(role, screen, action)
	}
	return nil
}

// RemovePolicy removes a screen policy
func (m *MockPolicyService) RemovePolicy(role, screen, action string) error {
	if m.RemovePolicyFunc != nil {
		return m.RemovePolicyFunc(role, screen, action)
	}
	return nil
}

// CheckPermission decides access; by default only "admin" is allowed
func (m *MockPolicyService) CheckPermission(role, screen, action string) (bool, error) {
	if m.CheckPermissionFunc != nil {
		return m.CheckPermissionFunc(role, screen, action)
	}
	return role == "admin", nil
}

// GetPolicies lists the screen policies
func (m *MockPolicyService) GetPolicies() [][]string {
	if m.GetPoliciesFunc != nil {
		return m.GetPoliciesFunc()
	}
	return [][]string{}
}

// Compile-time interface compliance verification
var _ domain.PolicyService = (*MockPolicyService)(nil)
