package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/you/adminconsole/domain"
	"github.com/you/adminconsole/internal/mocks"
)

var testIdentity = domain.Identity{UserID: "u1", Name: "Ada", Email: "ada@example.com", Role: "admin"}

func newAuthRouter(sessions *mocks.MockSessionManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAuthHandlers(sessions, discardLogger())

	r := gin.New()
	r.GET("/session", h.Session)
	r.POST("/auth/login", h.Login)
	r.POST("/auth/verify-otp", h.VerifyOTP)
	r.POST("/auth/resend-otp", h.ResendOTP)
	r.POST("/auth/cancel-otp", h.CancelOTP)
	r.POST("/auth/register", h.Register)
	r.POST("/auth/logout", h.Logout)
	r.GET("/auth/me", h.Me)
	return r
}

func TestAuthHandlers_Session(t *testing.T) {
	r := newAuthRouter(mocks.NewMockSessionManager(mocks.AuthenticatedSession(testIdentity)))

	w, body := serve(t, r, http.MethodGet, "/session", nil)

	require.Equal(t, http.StatusOK, w.Code)
	data := body["data"].(map[string]any)
	assert.Equal(t, "authenticated", data["state"])
	assert.Equal(t, "ada@example.com", data["identity"].(map[string]any)["email"])
}

func TestAuthHandlers_Login(t *testing.T) {
	tests := []struct {
		name           string
		body           any
		setup          func(*mocks.MockSessionManager)
		expectedStatus int
		expectedError  string
		expectOTP      bool
	}{
		{
			name: "otp required",
			body: LoginRequest{Email: "ada@example.com", Password: "pw"},
			setup: func(m *mocks.MockSessionManager) {
				m.LoginFunc = func(ctx context.Context, email, password string) (domain.Snapshot, error) {
					return mocks.SessionIn(domain.StateOTPPending), nil
				}
			},
			expectedStatus: http.StatusOK,
			expectOTP:      true,
		},
		{
			name: "direct sign in",
			body: LoginRequest{Email: "ada@example.com", Password: "pw"},
			setup: func(m *mocks.MockSessionManager) {
				m.LoginFunc = func(ctx context.Context, email, password string) (domain.Snapshot, error) {
					return mocks.AuthenticatedSession(testIdentity), nil
				}
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "backend rejection surfaces the message",
			body: LoginRequest{Email: "ada@example.com", Password: "bad"},
			setup: func(m *mocks.MockSessionManager) {
				m.LoginFunc = func(ctx context.Context, email, password string) (domain.Snapshot, error) {
					return mocks.SessionIn(domain.StateUnauthenticated), domain.NewAuthError(http.StatusUnauthorized, "Invalid email or password")
				}
			},
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Invalid email or password",
		},
		{
			name: "backend unreachable",
			body: LoginRequest{Email: "ada@example.com", Password: "pw"},
			setup: func(m *mocks.MockSessionManager) {
				m.LoginFunc = func(ctx context.Context, email, password string) (domain.Snapshot, error) {
					return mocks.SessionIn(domain.StateUnauthenticated), &domain.AuthError{Message: domain.GenericAuthMessage, Err: domain.ErrBackendUnavailable}
				}
			},
			expectedStatus: http.StatusBadGateway,
			expectedError:  domain.GenericAuthMessage,
		},
		{
			name: "already signed in",
			body: LoginRequest{Email: "ada@example.com", Password: "pw"},
			setup: func(m *mocks.MockSessionManager) {
				m.LoginFunc = func(ctx context.Context, email, password string) (domain.Snapshot, error) {
					return mocks.AuthenticatedSession(testIdentity), domain.ErrAlreadyAuthenticated
				}
			},
			expectedStatus: http.StatusConflict,
			expectedError:  "Already signed in",
		},
		{
			name: "still initializing",
			body: LoginRequest{Email: "ada@example.com", Password: "pw"},
			setup: func(m *mocks.MockSessionManager) {
				m.LoginFunc = func(ctx context.Context, email, password string) (domain.Snapshot, error) {
					return mocks.SessionIn(domain.StateInitializing), domain.ErrSessionInitializing
				}
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedError:  "Session is not ready",
		},
		{
			name:           "malformed body",
			body:           "{not json",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := mocks.NewMockSessionManager(mocks.SessionIn(domain.StateUnauthenticated))
			if tt.setup != nil {
				tt.setup(sessions)
			}
			r := newAuthRouter(sessions)

			w, body := serve(t, r, http.MethodPost, "/auth/login", tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, body["error"])
			}
			if tt.expectedStatus == http.StatusOK {
				data := body["data"].(map[string]any)
				assert.Equal(t, tt.expectOTP, data["requiresOTP"])
			}
		})
	}
}

func TestAuthHandlers_VerifyOTP(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		sessions := mocks.NewMockSessionManager(mocks.SessionIn(domain.StateOTPPending))
		sessions.VerifyOTPFunc = func(ctx context.Context, otp string) (domain.Snapshot, error) {
			assert.Equal(t, "123456", otp)
			return mocks.AuthenticatedSession(testIdentity), nil
		}

		w, body := serve(t, newAuthRouter(sessions), http.MethodPost, "/auth/verify-otp", OTPVerifyRequest{OTP: "123456"})

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "authenticated", body["data"].(map[string]any)["state"])
	})

	t.Run("missing otp", func(t *testing.T) {
		sessions := mocks.NewMockSessionManager(mocks.SessionIn(domain.StateOTPPending))
		w, _ := serve(t, newAuthRouter(sessions), http.MethodPost, "/auth/verify-otp", map[string]string{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("wrong code", func(t *testing.T) {
		sessions := mocks.NewMockSessionManager(mocks.SessionIn(domain.StateOTPPending))
		sessions.VerifyOTPFunc = func(ctx context.Context, otp string) (domain.Snapshot, error) {
			return mocks.SessionIn(domain.StateOTPPending), domain.NewAuthError(http.StatusBadRequest, "Invalid or expired OTP")
		}

		w, body := serve(t, newAuthRouter(sessions), http.MethodPost, "/auth/verify-otp", OTPVerifyRequest{OTP: "000000"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid or expired OTP", body["error"])
	})

	t.Run("nothing pending", func(t *testing.T) {
		sessions := mocks.NewMockSessionManager(mocks.SessionIn(domain.StateUnauthenticated))
		sessions.VerifyOTPFunc = func(ctx context.Context, otp string) (domain.Snapshot, error) {
			return sessions.Snapshot(), domain.ErrNoPendingOTP
		}

		w, _ := serve(t, newAuthRouter(sessions), http.MethodPost, "/auth/verify-otp", OTPVerifyRequest{OTP: "123456"})
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestAuthHandlers_ResendAndCancelOTP(t *testing.T) {
	sessions := mocks.NewMockSessionManager(mocks.SessionIn(domain.StateOTPPending))
	r := newAuthRouter(sessions)

	w, body := serve(t, r, http.MethodPost, "/auth/resend-otp", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OTP resent", body["data"].(map[string]any)["message"])

	w, body = serve(t, r, http.MethodPost, "/auth/cancel-otp", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "unauthenticated", body["data"].(map[string]any)["state"])
	assert.Equal(t, 1, sessions.CancelCalls)
}

func TestAuthHandlers_Register(t *testing.T) {
	tests := []struct {
		name           string
		body           any
		expectedStatus int
		expectedRole   string
	}{
		{
			name:           "defaults the role",
			body:           RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "secret1"},
			expectedStatus: http.StatusCreated,
			expectedRole:   "user",
		},
		{
			name:           "keeps a requested role",
			body:           RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "secret1", Role: "admin", AdminSecretKey: "k"},
			expectedStatus: http.StatusCreated,
			expectedRole:   "admin",
		},
		{
			name:           "invalid email",
			body:           RegisterRequest{Name: "Ada", Email: "not-an-email", Password: "secret1"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "short password",
			body:           RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "123"},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := mocks.NewMockSessionManager(mocks.SessionIn(domain.StateUnauthenticated))
			var got domain.RegisterRequest
			sessions.RegisterFunc = func(ctx context.Context, req domain.RegisterRequest) (domain.Snapshot, error) {
				got = req
				return mocks.AuthenticatedSession(testIdentity), nil
			}

			w, _ := serve(t, newAuthRouter(sessions), http.MethodPost, "/auth/register", tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedRole, got.Role)
		})
	}
}

func TestAuthHandlers_RegisterConflict(t *testing.T) {
	sessions := mocks.NewMockSessionManager(mocks.SessionIn(domain.StateUnauthenticated))
	sessions.RegisterFunc = func(ctx context.Context, req domain.RegisterRequest) (domain.Snapshot, error) {
		return sessions.Snapshot(), domain.NewAuthError(http.StatusConflict, "User already exists")
	}

	w, body := serve(t, newAuthRouter(sessions), http.MethodPost, "/auth/register",
		RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "secret1"})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "User already exists", body["error"])
}

func TestAuthHandlers_Me(t *testing.T) {
	t.Run("profile", func(t *testing.T) {
		sessions := mocks.NewMockSessionManager(mocks.AuthenticatedSession(testIdentity))
		sessions.RefreshFunc = func(ctx context.Context) (*domain.Profile, error) {
			return &domain.Profile{ID: "u1", Email: "ada@example.com", Role: "admin"}, nil
		}

		w, body := serve(t, newAuthRouter(sessions), http.MethodGet, "/auth/me", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "u1", body["data"].(map[string]any)["id"])
	})

	t.Run("signed out", func(t *testing.T) {
		sessions := mocks.NewMockSessionManager(mocks.SessionIn(domain.StateUnauthenticated))
		w, _ := serve(t, newAuthRouter(sessions), http.MethodGet, "/auth/me", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAuthHandlers_Logout(t *testing.T) {
	sessions := mocks.NewMockSessionManager(mocks.AuthenticatedSession(testIdentity))

	w, body := serve(t, newAuthRouter(sessions), http.MethodPost, "/auth/logout", nil)

	require.Equal(t, http.StatusOK, w.Code)
	data := body["data"].(map[string]any)
	assert.Equal(t, "Logged out successfully", data["message"])
	assert.Equal(t, "unauthenticated", data["session"].(map[string]any)["state"])
	assert.Equal(t, 1, sessions.LogoutCalls)
}
