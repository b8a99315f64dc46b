// internal/session/manager.go
package session

import (
	"context"
	"sync"
	"time"

	"recruit-admin/internal/common/errors"
	"recruit-admin/internal/common/logger"
	"recruit-admin/internal/common/metrics"
	"recruit-admin/internal/models"
)

// State of the session machine. Anonymous is the initial state; none is
// terminal.
type State string

const (
	StateAnonymous     State = "anonymous"
	StateAuthenticated State = "authenticated"
	// StateExpiring covers the window between the watcher noticing a stale
	// expiry and the teardown completing.
	StateExpiring State = "expiring"
)

// Options configures a Manager.
type Options struct {
	TokenTTL      time.Duration // expiry horizon set on login and refresh
	CheckInterval time.Duration // background expiry watcher period
	Now           func() time.Time
}

// Manager is the single source of truth for "is the caller currently
// authenticated". It is an explicit constructed object with a Start/Close
// lifecycle; nothing here is package-global.
type Manager struct {
	auth    *AuthClient
	storage TokenStorage
	log     logger.Logger

	tokenTTL      time.Duration
	checkInterval time.Duration
	now           func() time.Time

	mu      sync.Mutex
	state   State
	session *models.Session
	profile *models.StaffProfile

	events chan Event

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// New builds a Manager. An unexpired session found in storage moves the
// machine straight to Authenticated.
func New(auth *AuthClient, storage TokenStorage, opts Options, log logger.Logger) *Manager {
	if opts.TokenTTL == 0 {
		opts.TokenTTL = time.Hour
	}
	if opts.CheckInterval == 0 {
		opts.CheckInterval = 30 * time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	m := &Manager{
		auth:          auth,
		storage:       storage,
		log:           log.WithFields(map[string]interface{}{"component": "session"}),
		tokenTTL:      opts.TokenTTL,
		checkInterval: opts.CheckInterval,
		now:           opts.Now,
		state:         StateAnonymous,
		events:        make(chan Event, 16),
		stop:          make(chan struct{}),
		done:          make(chan struct{}),
	}

	if sess, _, err := storage.Load(); err == nil && sess.Valid(m.now()) {
		m.session = sess
		m.state = StateAuthenticated
		m.log.Info("restored existing session", map[string]interface{}{"userId": sess.UserID})
	}

	return m
}

// Start launches the background expiry watcher. The watcher proactively
// signs out a session whose expiry has passed even with no user action.
func (m *Manager) Start(ctx context.Context) {
	go func() {
		defer close(m.done)
		ticker := time.NewTicker(m.checkInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-m.stop:
				return
			case <-ticker.C:
				m.checkExpiry()
			}
		}
	}()
}

// Close stops the watcher and the event stream.
func (m *Manager) Close() {
	m.stopOnce.Do(func() {
		close(m.stop)
		<-m.done
		close(m.events)
	})
}

// Events exposes typed auth-state notifications. The channel is buffered;
// slow consumers lose events rather than blocking the session machine.
func (m *Manager) Events() <-chan Event {
	return m.events
}

// IsAuthenticated is true iff a token is present and now < expiresAt.
// A token past its expiry is treated as absent regardless of storage.
func (m *Manager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.Valid(m.now())
}

// State returns the current machine state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// SignIn performs the password login and moves Anonymous to Authenticated.
func (m *Manager) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	tokenResp, err := m.auth.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, err
	}

	now := m.now()
	sess := models.Session{
		UserID:      tokenResp.User.ID,
		AccessToken: tokenResp.AccessToken,
		ExpiresAt:   now.Add(m.tokenTTL),
	}

	displayName := tokenResp.User.UserMetadata.Name
	if displayName == "" {
		displayName = tokenResp.User.Email
	}
	if err := m.storage.Save(sess, displayName); err != nil {
		m.log.WithError(err).Warn("failed to persist session", nil)
	}

	m.mu.Lock()
	m.session = &sess
	m.state = StateAuthenticated
	m.mu.Unlock()

	m.emit(Event{Type: EventSignedIn, UserID: sess.UserID, At: now})
	m.log.Info("signed in", map[string]interface{}{"userId": sess.UserID})
	return &sess, nil
}

// SignOut invalidates the backend session best-effort and always clears the
// local one.
func (m *Manager) SignOut(ctx context.Context) error {
	m.mu.Lock()
	sess := m.session
	m.mu.Unlock()

	var backendErr error
	if sess != nil && sess.AccessToken != "" {
		if backendErr = m.auth.SignOut(ctx, sess.AccessToken); backendErr != nil {
			m.log.WithError(backendErr).Warn("backend logout failed", nil)
		}
	}

	m.clearSession()
	return backendErr
}

// AccessToken returns the current token after confirming it server-side.
// An unconfirmable token triggers logout and a SESSION_EXPIRED failure.
func (m *Manager) AccessToken(ctx context.Context) (string, error) {
	m.mu.Lock()
	sess := m.session
	m.mu.Unlock()

	if !sess.Valid(m.now()) {
		return "", errors.NewAuthenticationError("no valid session")
	}

	if _, err := m.auth.ConfirmSession(ctx, sess.AccessToken); err != nil {
		if errors.HasCode(err, errors.ErrCodeSessionExpired) {
			m.clearSession()
			return "", err
		}
		// Transport trouble confirming is not proof the session is stale.
		return sess.AccessToken, nil
	}

	// Every successful server-side confirmation refreshes the expiry
	// horizon, matching the login behavior.
	m.mu.Lock()
	if m.session == nil {
		m.mu.Unlock()
		return "", errors.NewAuthenticationError("session cleared during confirmation")
	}
	m.session.ExpiresAt = m.now().Add(m.tokenTTL)
	refreshed := *m.session
	m.mu.Unlock()
	m.emit(Event{Type: EventTokenRefreshed, UserID: refreshed.UserID, At: m.now()})

	return refreshed.AccessToken, nil
}

// Profile returns the staff profile loaded for the session, if any.
func (m *Manager) Profile() *models.StaffProfile {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.profile
}

// SetProfile stores the staff profile fetched from the REST API.
func (m *Manager) SetProfile(p *models.StaffProfile) {
	m.mu.Lock()
	m.profile = p
	var userID string
	if m.session != nil {
		userID = m.session.UserID
	}
	m.mu.Unlock()
	m.emit(Event{Type: EventProfileUpdated, UserID: userID, At: m.now()})
}

// HasPermission checks the loaded profile against a required role level.
func (m *Manager) HasPermission(required string) bool {
	return m.Profile().HasPermission(required)
}

// IsAdmin reports whether the loaded profile has the admin level.
func (m *Manager) IsAdmin() bool {
	return m.HasPermission(models.NivelAdmin)
}

func (m *Manager) checkExpiry() {
	m.mu.Lock()
	sess := m.session
	if sess == nil || sess.Valid(m.now()) {
		m.mu.Unlock()
		return
	}
	m.state = StateExpiring
	m.mu.Unlock()

	metrics.SessionExpirationsTotal.Inc()
	m.log.Info("session expired, signing out", map[string]interface{}{"userId": sess.UserID})
	m.clearSession()
}

func (m *Manager) clearSession() {
	m.mu.Lock()
	var userID string
	if m.session != nil {
		userID = m.session.UserID
	}
	hadSession := m.session != nil
	m.session = nil
	m.profile = nil
	m.state = StateAnonymous
	m.mu.Unlock()

	if err := m.storage.Clear(); err != nil {
		m.log.WithError(err).Warn("failed to clear session storage", nil)
	}
	if hadSession {
		m.emit(Event{Type: EventSignedOut, UserID: userID, At: m.now()})
	}
}

func (m *Manager) emit(ev Event) {
	select {
	case m.events <- ev:
	default:
		m.log.Debug("event channel full, dropping", map[string]interface{}{"type": string(ev.Type)})
	}
}
