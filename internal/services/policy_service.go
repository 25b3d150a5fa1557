package services

import (
	"log/slog"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/you/adminconsole/domain"
)

// RolePrefix maps a token role onto a Casbin subject
const RolePrefix = "role_"

// CasbinEnforcerWrapper wraps the real Casbin enforcer to implement our interface
type CasbinEnforcerWrapper struct {
	enforcer *casbin.Enforcer
	persist  bool
}

// NewCasbinEnforcerWrapper creates a wrapper; SavePolicy is a no-op unless persist is set
func NewCasbinEnforcerWrapper(enforcer *casbin.Enforcer, persist bool) domain.CasbinEnforcer {
	return &CasbinEnforcerWrapper{enforcer: enforcer, persist: persist}
}

func (w *CasbinEnforcerWrapper) AddPolicy(params ...interface{}) (bool, error) {
	return w.enforcer.AddPolicy(params...)
}

func (w *CasbinEnforcerWrapper) RemovePolicy(params ...interface{}) (bool, error) {
	return w.enforcer.RemovePolicy(params...)
}

func (w *CasbinEnforcerWrapper) Enforce(rvals ...interface{}) (bool, error) {
	return w.enforcer.Enforce(rvals...)
}

func (w *CasbinEnforcerWrapper) GetPolicy() ([][]string, error) {
	return w.enforcer.GetPolicy()
}

func (w *CasbinEnforcerWrapper) SavePolicy() error {
	if !w.persist {
		return nil
	}
	return w.enforcer.SavePolicy()
}

// PolicyServiceImpl implements domain.PolicyService: which role may use which screen
type PolicyServiceImpl struct {
	enforcer domain.CasbinEnforcer
	logger   *slog.Logger
}

// NewPolicyService creates a policy service over an enforcer
func NewPolicyService(enforcer domain.CasbinEnforcer, logger *slog.Logger) *PolicyServiceImpl {
	return &PolicyServiceImpl{enforcer: enforcer, logger: logger}
}

// SeedDefaults installs the default screen policy when the policy set is empty
func (p *PolicyServiceImpl) SeedDefaults() error {
	policies, err := p.enforcer.GetPolicy()
	if err != nil {
		return err
	}
	if len(policies) > 0 {
		return nil
	}

	// staff reads every resource screen but not /admin/policies
	defaults := [][]string{{"admin", "/admin/*", "(GET|POST|PUT|PATCH|DELETE)"}}
	for _, r := range domain.Resources {
		defaults = append(defaults, []string{"staff", "/admin/" + r + "*", "GET"})
	}
	defaults = append(defaults,
		[]string{"staff", "/admin/orders/*", "(PUT|PATCH)"},
		[]string{"staff", "/admin/contacts/*", "(PATCH|DELETE)"},
		[]string{"staff", "/admin/reviews/*", "PATCH"},
	)
	for _, d := range defaults {
		if _, err := p.enforcer.AddPolicy(RolePrefix+d[0], d[1], d[2]); err != nil {
			return err
		}
	}
	p.logger.Info("casbin: seeded default policies", "count", len(defaults))
	return p.enforcer.SavePolicy()
}

// AddPolicy implements domain.PolicyService
func (p *PolicyServiceImpl) AddPolicy(role, screen, action string) error {
	_, err := p.enforcer.AddPolicy(subject(role), screen, action)
	if err != nil {
		return err
	}
	return p.enforcer.SavePolicy()
}

// RemovePolicy implements domain.PolicyService
func (p *PolicyServiceImpl) RemovePolicy(role, screen, action string) error {
	_, err := p.enforcer.RemovePolicy(subject(role), screen, action)
	if err != nil {
		return err
	}
	return p.enforcer.SavePolicy()
}

// CheckPermission implements domain.PolicyService
func (p *PolicyServiceImpl) CheckPermission(role, screen, action string) (bool, error) {
	if role == "" {
		return false, nil
	}
	return p.enforcer.Enforce(subject(role), screen, action)
}

// GetPolicies implements domain.PolicyService
func (p *PolicyServiceImpl) GetPolicies() [][]string {
	policies, _ := p.enforcer.GetPolicy()
	return policies
}

func subject(role string) string {
	if strings.HasPrefix(role, RolePrefix) {
		return role
	}
	return RolePrefix + role
}
