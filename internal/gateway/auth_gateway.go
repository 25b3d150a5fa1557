package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/you/adminconsole/domain"
)

// AuthGatewayImpl implements domain.AuthGateway over the backend /auth endpoints.
// Every call is single-shot; nothing is retried and nothing touches the token store.
type AuthGatewayImpl struct {
	client *Client
}

// NewAuthGateway creates a new auth gateway
func NewAuthGateway(client *Client) domain.AuthGateway {
	return &AuthGatewayImpl{client: client}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type profileResponse struct {
	Data domain.Profile `json:"data"`
}

// Login implements domain.AuthGateway
func (g *AuthGatewayImpl) Login(ctx context.Context, email, password string) (*domain.LoginResult, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, domain.NewAuthError(http.StatusBadRequest, "Email and password are required")
	}

	var result domain.LoginResult
	if err := g.client.do(ctx, http.MethodPost, "/auth/login", nil, "", loginRequest{email, password}, &result); err != nil {
		return nil, authError(err)
	}
	if !result.RequiresOTP && result.Token == "" {
		return nil, domain.NewAuthError(http.StatusBadGateway, "")
	}
	return &result, nil
}

// VerifyOTP implements domain.AuthGateway
func (g *AuthGatewayImpl) VerifyOTP(ctx context.Context, email, otp string) (string, error) {
	if strings.TrimSpace(otp) == "" {
		return "", domain.NewAuthError(http.StatusBadRequest, "OTP is required")
	}

	var result tokenResponse
	if err := g.client.do(ctx, http.MethodPost, "/auth/verify-otp", nil, "", verifyOTPRequest{email, otp}, &result); err != nil {
		return "", authError(err)
	}
	if result.Token == "" {
		return "", domain.NewAuthError(http.StatusBadGateway, "")
	}
	return result.Token, nil
}

// ResendOTP implements domain.AuthGateway
func (g *AuthGatewayImpl) ResendOTP(ctx context.Context, email string) (string, error) {
	var result messageResponse
	if err := g.client.do(ctx, http.MethodPost, "/auth/resend-otp", nil, "", emailRequest{email}, &result); err != nil {
		return "", authError(err)
	}
	return result.Message, nil
}

// Logout implements domain.AuthGateway
func (g *AuthGatewayImpl) Logout(ctx context.Context, token string) (string, error) {
	var result messageResponse
	if err := g.client.do(ctx, http.MethodPost, "/auth/logout", nil, token, nil, &result); err != nil {
		return "", authError(err)
	}
	return result.Message, nil
}

// Register implements domain.AuthGateway
func (g *AuthGatewayImpl) Register(ctx context.Context, req domain.RegisterRequest) (*domain.RegisterResult, error) {
	if strings.TrimSpace(req.Email) == "" || req.Password == "" || strings.TrimSpace(req.Name) == "" {
		return nil, domain.NewAuthError(http.StatusBadRequest, "Name, email and password are required")
	}

	var result domain.RegisterResult
	if err := g.client.do(ctx, http.MethodPost, "/auth/register", nil, "", req, &result); err != nil {
		return nil, authError(err)
	}
	return &result, nil
}

// Me implements domain.AuthGateway
func (g *AuthGatewayImpl) Me(ctx context.Context, token string) (*domain.Profile, error) {
	var result profileResponse
	if err := g.client.do(ctx, http.MethodGet, "/auth/me", nil, token, nil, &result); err != nil {
		return nil, authError(err)
	}
	return &result.Data, nil
}

// authError turns any client failure into the AuthError shown to the user
func authError(err error) error {
	var se *statusError
	if errors.As(err, &se) {
		return domain.NewAuthError(se.Status, se.Message)
	}
	return &domain.AuthError{
		Message: domain.GenericAuthMessage,
		Err:     fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err),
	}
}
