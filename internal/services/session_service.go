package services

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/you/adminconsole/domain"
)

// SessionService implements domain.SessionManager.
//
// It is the only writer of the session token and identity. Timer callbacks run on
// their own goroutine, so all state is guarded by mu; network calls are made with mu
// released. Subscribers are notified outside the lock, in transition order.
type SessionService struct {
	store   domain.TokenStore
	decoder domain.TokenDecoder
	gateway domain.AuthGateway
	clock   domain.Clock
	logger  *slog.Logger

	mu           sync.Mutex
	state        domain.State
	token        string
	claims       *domain.TokenClaims
	pendingEmail string
	timer        domain.Timer
	// generation changes whenever the token changes or the session ends; an expiry
	// callback armed for an older generation is stale and does nothing
	generation uint64
	started    bool
	closed     bool

	subscribers map[int]func(domain.Snapshot)
	nextSub     int
	queue       []notification
	draining    bool
}

type notification struct {
	snap domain.Snapshot
	subs []func(domain.Snapshot)
}

// NewSessionService creates a session in the Initializing state; call Start to
// consult durable storage.
func NewSessionService(
	store domain.TokenStore,
	decoder domain.TokenDecoder,
	gateway domain.AuthGateway,
	clock domain.Clock,
	logger *slog.Logger,
) *SessionService {
	if clock == nil {
		clock = SystemClock{}
	}
	return &SessionService{
		store:       store,
		decoder:     decoder,
		gateway:     gateway,
		clock:       clock,
		logger:      logger,
		state:       domain.StateInitializing,
		subscribers: make(map[int]func(domain.Snapshot)),
	}
}

// Start performs the one-time startup check of durable storage. Later calls return
// the current snapshot.
func (s *SessionService) Start(ctx context.Context) domain.Snapshot {
	s.mu.Lock()
	if s.started || s.closed {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap
	}
	s.started = true
	s.mu.Unlock()

	token, err := s.store.Load(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "token storage unavailable, starting signed out", "error", err)
		token = ""
	}

	s.mu.Lock()
	if s.closed {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap
	}

	if token == "" {
		s.setUnauthenticatedLocked()
		s.enqueueLocked(domain.NewSessionEvent(domain.SessionEmptyEvent, domain.StateInitializing, s.state))
		return s.unlockAndNotify()
	}

	if err := s.authenticateLocked(ctx, token); err != nil {
		s.clearStoreLocked(ctx)
		s.setUnauthenticatedLocked()
		s.enqueueLocked(domain.NewSessionEvent(domain.SessionDiscardedEvent, domain.StateInitializing, s.state).WithError(err))
		return s.unlockAndNotify()
	}

	s.enqueueLocked(domain.NewSessionEvent(domain.SessionRestoredEvent, domain.StateInitializing, s.state).
		WithEmail(s.claims.Email))
	return s.unlockAndNotify()
}

// Snapshot implements domain.SessionManager
func (s *SessionService) Snapshot() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe registers fn for every future snapshot. fn must not block.
func (s *SessionService) Subscribe(fn func(domain.Snapshot)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

// Token returns the bearer token for protected calls, or "" when not authenticated
func (s *SessionService) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != domain.StateAuthenticated {
		return ""
	}
	return s.token
}

// Login submits credentials. On failure the state is left unchanged.
func (s *SessionService) Login(ctx context.Context, email, password string) (domain.Snapshot, error) {
	s.mu.Lock()
	if err := s.checkCanLoginLocked(); err != nil {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, err
	}
	s.mu.Unlock()

	result, err := s.gateway.Login(ctx, email, password)
	if err != nil {
		s.logger.InfoContext(ctx, "login rejected", "email", email, "error", err)
		return s.Snapshot(), err
	}

	s.mu.Lock()
	if err := s.checkCanLoginLocked(); err != nil {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, err
	}
	from := s.state

	if result.RequiresOTP {
		s.state = domain.StateOTPPending
		s.pendingEmail = email
		s.enqueueLocked(domain.NewSessionEvent(domain.OTPRequiredEvent, from, s.state).WithEmail(email))
		return s.unlockAndNotify(), nil
	}

	if err := s.enterAuthenticatedLocked(ctx, result.Token); err != nil {
		s.enqueueLocked(domain.NewSessionEvent(domain.TokenRejectedEvent, from, s.state).WithEmail(email).WithError(err))
		return s.unlockAndNotify(), err
	}
	s.enqueueLocked(domain.NewSessionEvent(domain.UserLoginEvent, from, s.state).WithEmail(email))
	return s.unlockAndNotify(), nil
}

// VerifyOTP submits the code for the pending email
func (s *SessionService) VerifyOTP(ctx context.Context, otp string) (domain.Snapshot, error) {
	s.mu.Lock()
	if s.closed {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, domain.ErrSessionClosed
	}
	if s.state != domain.StateOTPPending {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, domain.ErrNoPendingOTP
	}
	email := s.pendingEmail
	s.mu.Unlock()

	token, err := s.gateway.VerifyOTP(ctx, email, otp)
	if err != nil {
		s.logger.InfoContext(ctx, "otp rejected", "email", email, "error", err)
		return s.Snapshot(), err
	}

	s.mu.Lock()
	if s.closed || s.state != domain.StateOTPPending || s.pendingEmail != email {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, domain.ErrNoPendingOTP
	}
	if err := s.enterAuthenticatedLocked(ctx, token); err != nil {
		s.enqueueLocked(domain.NewSessionEvent(domain.TokenRejectedEvent, domain.StateOTPPending, s.state).WithEmail(email).WithError(err))
		return s.unlockAndNotify(), err
	}
	s.enqueueLocked(domain.NewSessionEvent(domain.OTPVerifiedEvent, domain.StateOTPPending, s.state).WithEmail(email))
	return s.unlockAndNotify(), nil
}

// ResendOTP asks the backend for a new code; the state does not change
func (s *SessionService) ResendOTP(ctx context.Context) (string, error) {
	s.mu.Lock()
	if s.state != domain.StateOTPPending {
		s.mu.Unlock()
		return "", domain.ErrNoPendingOTP
	}
	email := s.pendingEmail
	s.mu.Unlock()

	return s.gateway.ResendOTP(ctx, email)
}

// CancelOTP abandons a pending OTP verification
func (s *SessionService) CancelOTP(ctx context.Context) domain.Snapshot {
	s.mu.Lock()
	if s.state != domain.StateOTPPending {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap
	}
	email := s.pendingEmail
	s.setUnauthenticatedLocked()
	s.enqueueLocked(domain.NewSessionEvent(domain.OTPCancelledEvent, domain.StateOTPPending, s.state).WithEmail(email))
	return s.unlockAndNotify()
}

// Register creates an account. When signed out and the backend issues a token, the
// new account becomes the session; when already signed in the session is untouched.
func (s *SessionService) Register(ctx context.Context, req domain.RegisterRequest) (domain.Snapshot, error) {
	s.mu.Lock()
	if s.closed {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, domain.ErrSessionClosed
	}
	if s.state == domain.StateInitializing {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, domain.ErrSessionInitializing
	}
	s.mu.Unlock()

	result, err := s.gateway.Register(ctx, req)
	if err != nil {
		return s.Snapshot(), err
	}

	s.mu.Lock()
	if s.closed || s.state == domain.StateAuthenticated || result.Token == "" {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, nil
	}
	from := s.state
	if err := s.enterAuthenticatedLocked(ctx, result.Token); err != nil {
		s.enqueueLocked(domain.NewSessionEvent(domain.TokenRejectedEvent, from, s.state).WithEmail(req.Email).WithError(err))
		return s.unlockAndNotify(), err
	}
	s.enqueueLocked(domain.NewSessionEvent(domain.UserRegistrationEvent, from, s.state).WithEmail(req.Email))
	return s.unlockAndNotify(), nil
}

// Refresh fetches the signed-in profile. A 401 from the backend ends the session.
func (s *SessionService) Refresh(ctx context.Context) (*domain.Profile, error) {
	token := s.Token()
	if token == "" {
		return nil, domain.ErrNotAuthenticated
	}

	profile, err := s.gateway.Me(ctx, token)
	if err != nil {
		var authErr *domain.AuthError
		if errors.As(err, &authErr) && authErr.Status == http.StatusUnauthorized {
			s.endSession(ctx, domain.TokenRejectedEvent, token)
		}
		return nil, err
	}
	return profile, nil
}

// Logout always clears the local session, then tells the backend best-effort
func (s *SessionService) Logout(ctx context.Context) domain.Snapshot {
	s.mu.Lock()
	if s.state == domain.StateOTPPending {
		s.mu.Unlock()
		return s.CancelOTP(ctx)
	}
	token := s.token
	s.mu.Unlock()

	return s.endSession(ctx, domain.UserLogoutEvent, token)
}

// Reject implements domain.SessionManager
func (s *SessionService) Reject(ctx context.Context) domain.Snapshot {
	return s.endSession(ctx, domain.TokenRejectedEvent, s.Token())
}

// Close cancels the pending expiry timer and detaches subscribers. The stored token is
// kept so the next Start can restore the session.
func (s *SessionService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.stopTimerLocked()
	s.generation++
	s.subscribers = make(map[int]func(domain.Snapshot))
	s.queue = nil
}

// endSession moves an authenticated session holding token to Unauthenticated. It is a
// no-op when the session has already ended or moved on to another token.
func (s *SessionService) endSession(ctx context.Context, eventType domain.SessionEventType, token string) domain.Snapshot {
	s.mu.Lock()
	if s.state != domain.StateAuthenticated || token == "" || s.token != token {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap
	}
	email := s.claims.Email
	s.clearStoreLocked(ctx)
	s.setUnauthenticatedLocked()
	s.enqueueLocked(domain.NewSessionEvent(eventType, domain.StateAuthenticated, s.state).WithEmail(email))
	snap := s.unlockAndNotify()

	if eventType != domain.TokenRejectedEvent {
		if _, err := s.gateway.Logout(ctx, token); err != nil {
			s.logger.WarnContext(ctx, "backend logout failed; local session already cleared", "error", err)
		}
	}
	return snap
}

// expire is the expiry timer callback for generation gen
func (s *SessionService) expire(gen uint64) {
	s.mu.Lock()
	if s.generation != gen || s.state != domain.StateAuthenticated {
		s.mu.Unlock()
		s.logger.Debug("expiry timer fired for a finished session, ignoring")
		return
	}
	token := s.token
	s.mu.Unlock()

	s.endSession(context.Background(), domain.SessionExpiredEvent, token)
}

func (s *SessionService) checkCanLoginLocked() error {
	switch {
	case s.closed:
		return domain.ErrSessionClosed
	case s.state == domain.StateInitializing:
		return domain.ErrSessionInitializing
	case s.state == domain.StateAuthenticated:
		return domain.ErrAlreadyAuthenticated
	}
	return nil
}

// enterAuthenticatedLocked persists a freshly issued token and enters Authenticated.
// An undecodable or already expired token leaves the session Unauthenticated.
func (s *SessionService) enterAuthenticatedLocked(ctx context.Context, token string) error {
	if err := s.authenticateLocked(ctx, token); err != nil {
		s.clearStoreLocked(ctx)
		s.setUnauthenticatedLocked()
		return err
	}
	if err := s.store.Save(ctx, token); err != nil {
		s.logger.WarnContext(ctx, "token storage unavailable, session will not survive a restart", "error", err)
	}
	return nil
}

// authenticateLocked decodes token and, if it is still valid, makes it the session
// token and arms the expiry timer. It does not touch storage.
func (s *SessionService) authenticateLocked(ctx context.Context, token string) error {
	claims, err := s.decoder.Decode(token)
	if err != nil {
		s.logger.WarnContext(ctx, "discarding undecodable token", "error", err)
		return err
	}
	delay := claims.Expiry().Sub(s.clock.Now())
	if delay <= 0 {
		return domain.ErrTokenExpired
	}

	s.stopTimerLocked()
	s.generation++
	s.state = domain.StateAuthenticated
	s.token = token
	s.claims = claims
	s.pendingEmail = ""

	gen := s.generation
	s.timer = s.clock.AfterFunc(delay, func() { s.expire(gen) })
	return nil
}

func (s *SessionService) setUnauthenticatedLocked() {
	s.stopTimerLocked()
	s.generation++
	s.state = domain.StateUnauthenticated
	s.token = ""
	s.claims = nil
	s.pendingEmail = ""
}

func (s *SessionService) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *SessionService) clearStoreLocked(ctx context.Context) {
	if err := s.store.Clear(ctx); err != nil {
		s.logger.WarnContext(ctx, "failed to clear token storage", "error", err)
	}
}

func (s *SessionService) snapshotLocked() domain.Snapshot {
	snap := domain.Snapshot{State: s.state, StateName: s.state.String()}
	switch s.state {
	case domain.StateOTPPending:
		snap.PendingEmail = s.pendingEmail
	case domain.StateAuthenticated:
		identity := s.claims.Identity
		snap.Identity = &identity
		snap.ExpiresAt = s.claims.Expiry()
	}
	return snap
}

// enqueueLocked logs the transition and queues the resulting snapshot for subscribers
func (s *SessionService) enqueueLocked(ev *domain.SessionEvent) {
	s.logger.Info("session transition",
		"event", string(ev.Type),
		"from", ev.From.String(),
		"to", ev.To.String(),
		"email", ev.Email,
		"error", ev.ErrorMsg,
	)

	if len(s.subscribers) == 0 {
		return
	}
	subs := make([]func(domain.Snapshot), 0, len(s.subscribers))
	for id := 0; id < s.nextSub; id++ {
		if fn, ok := s.subscribers[id]; ok {
			subs = append(subs, fn)
		}
	}
	s.queue = append(s.queue, notification{snap: s.snapshotLocked(), subs: subs})
}

// unlockAndNotify releases mu and delivers queued notifications in order. Only one
// goroutine drains at a time; a subscriber that triggers a transition has its
// notification delivered by the drain loop already running.
func (s *SessionService) unlockAndNotify() domain.Snapshot {
	snap := s.snapshotLocked()
	if s.draining {
		s.mu.Unlock()
		return snap
	}
	s.draining = true
	for len(s.queue) > 0 {
		n := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()
		for _, fn := range n.subs {
			fn(n.snap)
		}
		s.mu.Lock()
	}
	s.draining = false
	s.mu.Unlock()
	return snap
}

// Compile-time interface compliance verification
var _ domain.SessionManager = (*SessionService)(nil)
