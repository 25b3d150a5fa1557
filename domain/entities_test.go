package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestState_String(t *testing.T) {
	tests := []struct {
		state    State
		expected string
	}{
		{StateInitializing, "initializing"},
		{StateUnauthenticated, "unauthenticated"},
		{StateOTPPending, "otp_pending"},
		{StateAuthenticated, "authenticated"},
		{State(42), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.state.String(); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestSnapshot_Predicates(t *testing.T) {
	tests := []struct {
		name         string
		snap         Snapshot
		initializing bool
		otpPending   bool
		authed       bool
	}{
		{"initializing", Snapshot{State: StateInitializing}, true, false, false},
		{"signed out", Snapshot{State: StateUnauthenticated}, false, false, false},
		{"otp pending", Snapshot{State: StateOTPPending, PendingEmail: "a@b.com"}, false, true, false},
		{"signed in", Snapshot{State: StateAuthenticated, Identity: &Identity{Email: "a@b.com"}}, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.snap.IsInitializing() != tt.initializing {
				t.Errorf("IsInitializing: expected %v", tt.initializing)
			}
			if tt.snap.OTPPending() != tt.otpPending {
				t.Errorf("OTPPending: expected %v", tt.otpPending)
			}
			if tt.snap.IsAuthenticated() != tt.authed {
				t.Errorf("IsAuthenticated: expected %v", tt.authed)
			}
		})
	}
}

func TestTokenClaims_Expiry(t *testing.T) {
	claims := &TokenClaims{ExpiresAt: 1767225600}
	expected := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	if !claims.Expiry().Equal(expected) {
		t.Errorf("expected %v, got %v", expected, claims.Expiry().UTC())
	}
}

func TestSnapshot_JSON(t *testing.T) {
	snap := Snapshot{
		State:        StateOTPPending,
		StateName:    StateOTPPending.String(),
		PendingEmail: "a@b.com",
	}

	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["state"] != "otp_pending" {
		t.Errorf("expected state otp_pending, got %v", decoded["state"])
	}
	if _, ok := decoded["identity"]; ok {
		t.Error("identity must be omitted when not signed in")
	}
}

func TestIsResource(t *testing.T) {
	for _, r := range Resources {
		if !IsResource(r) {
			t.Errorf("%s should be a resource", r)
		}
	}
	for _, r := range []string{"", "invoices", "Users", "policies"} {
		if IsResource(r) {
			t.Errorf("%q should not be a resource", r)
		}
	}
}

func TestSessionEvent_Builders(t *testing.T) {
	ev := NewSessionEvent(UserLoginEvent, StateUnauthenticated, StateAuthenticated).
		WithEmail("a@b.com").
		WithError(nil)

	if ev.Type != UserLoginEvent || ev.Email != "a@b.com" {
		t.Errorf("unexpected event %+v", ev)
	}
	if ev.ErrorMsg != "" {
		t.Error("nil error should leave ErrorMsg empty")
	}
	if ev.Timestamp.IsZero() || ev.Timestamp.Location() != time.UTC {
		t.Error("timestamp should be set in UTC")
	}
	if ev.WithError(ErrTokenExpired).ErrorMsg != "token has expired" {
		t.Error("error message should be recorded")
	}
}
