package domain

import (
	"errors"
	"fmt"
)

// Session errors
var (
	ErrDecode               = errors.New("token payload could not be decoded")
	ErrTokenExpired         = errors.New("token has expired")
	ErrStorageUnavailable   = errors.New("token storage unavailable")
	ErrNotAuthenticated     = errors.New("session is not authenticated")
	ErrAlreadyAuthenticated = errors.New("session is already authenticated")
	ErrSessionInitializing  = errors.New("session is still initializing")
	ErrNoPendingOTP         = errors.New("no otp verification is pending")
	ErrSessionClosed        = errors.New("session has been closed")
)

// Gateway errors
var (
	ErrAuthRejected       = errors.New("authentication rejected")
	ErrBackendUnavailable = errors.New("backend unavailable")
)

// Resource errors
var (
	ErrUnknownResource = errors.New("unknown resource")
	ErrUnknownBulkOp   = errors.New("unknown bulk action")
	ErrResourceFailed  = errors.New("resource request failed")
)

// Authorization errors
var (
	ErrAccessDenied = errors.New("access denied")
)

// GenericAuthMessage is shown when the backend gave no usable error message
const GenericAuthMessage = "Authentication failed. Please try again."

// AuthError carries a backend rejection that is shown to the user verbatim
type AuthError struct {
	Status  int
	Message string
	Err     error
}

func (e *AuthError) Error() string { return e.Message }

// Unwrap exposes the transport failure, if any
func (e *AuthError) Unwrap() error { return e.Err }

// Is lets errors.Is match the ErrAuthRejected sentinel
func (e *AuthError) Is(target error) bool { return target == ErrAuthRejected }

// NewAuthError builds an AuthError, falling back to GenericAuthMessage
func NewAuthError(status int, message string) *AuthError {
	if message == "" {
		message = GenericAuthMessage
	}
	return &AuthError{Status: status, Message: message}
}

// DecodeError reports a malformed session token
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode token: %s: %v", e.Reason, e.Err)
	}
	return "decode token: " + e.Reason
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Is lets errors.Is match the ErrDecode sentinel
func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

// ResourceError carries a non-2xx answer from a resource endpoint
type ResourceError struct {
	Status  int
	Message string
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("resource request failed (%d): %s", e.Status, e.Message)
}

func (e *ResourceError) Is(target error) bool { return target == ErrResourceFailed }
