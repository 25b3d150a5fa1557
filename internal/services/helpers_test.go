package services

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/you/adminconsole/domain"
	"github.com/you/adminconsole/internal/infrastructure/auth"
	"github.com/you/adminconsole/internal/mocks"
)

// testNow is the frozen start time of every fake clock in this package
var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// createSessionForTest wires a SessionService with a fake clock and the real decoder
func createSessionForTest(t *testing.T, store *mocks.MockTokenStore, gw *mocks.MockAuthGateway) (*SessionService, *mocks.FakeClock) {
	t.Helper()

	if store == nil {
		store = mocks.NewMockTokenStore("")
	}
	if gw == nil {
		gw = mocks.NewMockAuthGateway()
	}
	clock := mocks.NewFakeClock(testNow)
	svc := NewSessionService(store, auth.NewJWTDecoder(), gw, clock, discardLogger())
	t.Cleanup(svc.Close)
	return svc, clock
}

// testIdentity returns the identity used for tokens issued in tests
func testIdentity(email string) domain.Identity {
	return domain.Identity{
		UserID: "u-" + email,
		Name:   "Test Admin",
		Email:  email,
		Role:   "admin",
	}
}

// tokenFor issues a token for email expiring ttl after the fake clock's start
func tokenFor(email string, ttl time.Duration) string {
	return mocks.IssueToken(testIdentity(email), testNow.Add(ttl))
}

// assertInvariants checks the discriminated-state invariants on a snapshot
func assertInvariants(t *testing.T, snap domain.Snapshot) {
	t.Helper()

	if (snap.Identity != nil) != (snap.State == domain.StateAuthenticated) {
		t.Errorf("identity present=%v in state %s", snap.Identity != nil, snap.State)
	}
	if (snap.PendingEmail != "") != (snap.State == domain.StateOTPPending) {
		t.Errorf("pendingEmail=%q in state %s", snap.PendingEmail, snap.State)
	}
	if snap.OTPPending() && snap.Identity != nil {
		t.Error("otp pending and identity must be mutually exclusive")
	}
	if snap.StateName != snap.State.String() {
		t.Errorf("state name %q does not match state %s", snap.StateName, snap.State)
	}
}
