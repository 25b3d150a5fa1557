package domain

import "time"

// SessionEventType defines the type of session transition
type SessionEventType string

const (
	SessionRestoredEvent  SessionEventType = "SESSION_RESTORED"
	SessionEmptyEvent     SessionEventType = "SESSION_EMPTY"
	SessionDiscardedEvent SessionEventType = "SESSION_DISCARDED"
	OTPRequiredEvent      SessionEventType = "OTP_REQUIRED"
	OTPVerifiedEvent      SessionEventType = "OTP_VERIFIED"
	OTPCancelledEvent     SessionEventType = "OTP_CANCELLED"
	UserLoginEvent        SessionEventType = "USER_LOGIN"
	UserRegistrationEvent SessionEventType = "USER_REGISTERED"
	UserLogoutEvent       SessionEventType = "USER_LOGOUT"
	SessionExpiredEvent   SessionEventType = "SESSION_EXPIRED"
	TokenRejectedEvent    SessionEventType = "TOKEN_REJECTED"
)

// SessionEvent records one transition of the session state machine
type SessionEvent struct {
	Type      SessionEventType `json:"type"`
	From      State            `json:"-"`
	To        State            `json:"-"`
	Email     string           `json:"email,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
	ErrorMsg  string           `json:"error_msg,omitempty"`
}

// NewSessionEvent creates a session event with the timestamp populated
func NewSessionEvent(eventType SessionEventType, from, to State) *SessionEvent {
	return &SessionEvent{
		Type:      eventType,
		From:      from,
		To:        to,
		Timestamp: time.Now().UTC(),
	}
}

// WithEmail sets the email field
func (e *SessionEvent) WithEmail(email string) *SessionEvent {
	e.Email = email
	return e
}

// WithError sets error information on the event
func (e *SessionEvent) WithError(err error) *SessionEvent {
	if err != nil {
		e.ErrorMsg = err.Error()
	}
	return e
}
