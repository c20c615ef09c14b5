package notify

import (
	"context"
	"net/http"
	"sync"

	"github.com/rs/zerolog/log"
	"greenerhq.com/greener/internal/api"
	"greenerhq.com/greener/internal/metrics"
	"greenerhq.com/greener/internal/session"
	"greenerhq.com/greener/internal/storage"
)

// State is the position in the token lifecycle.
type State int

const (
	StateUninitialized State = iota
	StatePermissionRequested
	StatePermissionGranted
	StatePermissionDenied
	StateTokenObtained
	StateRegistered
	StateCleared
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StatePermissionRequested:
		return "permission_requested"
	case StatePermissionGranted:
		return "permission_granted"
	case StatePermissionDenied:
		return "permission_denied"
	case StateTokenObtained:
		return "token_obtained"
	case StateRegistered:
		return "registered"
	case StateCleared:
		return "cleared"
	default:
		return "unknown"
	}
}

// tokenKeyPrefix scopes the cached token per platform.
const tokenKeyPrefix = "pushToken:"

// Manager drives the push token lifecycle: permission, token acquisition,
// backend registration, SDK-driven refresh, and logout cleanup. Every failure
// on this path is logged and absorbed; notification registration must never
// block the rest of the app. Dependencies are injected so tests can
// substitute fakes.
//
// m.mu guards state and token only. Network and store calls run outside the
// lock so State and Token never block behind a slow registration.
type Manager struct {
	mu       sync.Mutex
	store    storage.Store
	provider PushProvider
	client   *api.Client
	session  *session.Resolver
	state    State
	token    string

	callbacksOnce sync.Once
}

// NewManager creates a token lifecycle manager.
func NewManager(store storage.Store, provider PushProvider, client *api.Client, resolver *session.Resolver) *Manager {
	return &Manager{
		store:    store,
		provider: provider,
		client:   client,
		session:  resolver,
		state:    StateUninitialized,
	}
}

// Initialize runs the lifecycle once per session. Calling it again while
// initialized is a no-op; a permission denial is terminal for the session
// until RetryPermission. Initialize never returns an error.
func (m *Manager) Initialize(ctx context.Context) {
	m.mu.Lock()
	if m.state != StateUninitialized && m.state != StateCleared {
		m.mu.Unlock()
		return
	}
	m.state = StatePermissionRequested
	m.mu.Unlock()

	granted, err := m.provider.RequestPermission(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Push permission request failed")
		m.setState(StatePermissionDenied)
		return
	}
	if !granted {
		log.Info().Msg("Push permission denied")
		m.setState(StatePermissionDenied)
		return
	}
	m.setState(StatePermissionGranted)

	token, err := m.provider.Token(ctx)
	if err != nil || token == "" {
		log.Warn().Err(err).Msg("Failed to obtain push token")
		return
	}

	m.registerCallbacks()

	m.mu.Lock()
	m.token = token
	m.state = StateTokenObtained
	m.mu.Unlock()

	m.persistAndRegister(ctx, token)
}

// registerCallbacks hooks the SDK callbacks exactly once for the lifetime of
// the manager. Re-initializing after logout must not stack a second listener
// on the provider.
func (m *Manager) registerCallbacks() {
	m.callbacksOnce.Do(func() {
		m.provider.OnTokenRefresh(m.handleRefresh)
		m.provider.OnMessage(func(msg Message) {
			log.Info().Str("title", msg.Title).Msg("Foreground push message received")
		})
	})
}

// handleRefresh adopts an SDK-rotated token, but only while a session is
// active. After Clear the lifecycle is over; a late refresh must not re-cache
// or re-register the token under the logged-out identity.
func (m *Manager) handleRefresh(newToken string) {
	m.mu.Lock()
	if m.state != StateTokenObtained && m.state != StateRegistered {
		state := m.state
		m.mu.Unlock()
		log.Info().Str("state", state.String()).Msg("Ignoring push token refresh outside an active session")
		return
	}
	m.token = newToken
	m.state = StateTokenObtained
	m.mu.Unlock()

	log.Info().Str("platform", m.provider.Platform()).Msg("Push token refreshed")
	m.persistAndRegister(context.Background(), newToken)
}

// RetryPermission re-runs the lifecycle after a denial, for a user-triggered
// re-request. No-op in any other state.
func (m *Manager) RetryPermission(ctx context.Context) {
	m.mu.Lock()
	if m.state != StatePermissionDenied {
		m.mu.Unlock()
		return
	}
	m.state = StateUninitialized
	m.mu.Unlock()

	m.Initialize(ctx)
}

// persistAndRegister caches the token locally and registers it with the
// backend. The local cache is written even when registration fails, so the
// next session can retry with the same token. The Registered promotion only
// lands if the session is still on this token when the call returns.
func (m *Manager) persistAndRegister(ctx context.Context, token string) {
	key := tokenKeyPrefix + m.provider.Platform()
	if err := m.store.Set(ctx, key, []byte(token)); err != nil {
		log.Warn().Err(err).Msg("Failed to cache push token locally")
	}

	if !m.register(ctx, token) {
		return
	}

	m.mu.Lock()
	if m.state == StateTokenObtained && m.token == token {
		m.state = StateRegistered
	}
	m.mu.Unlock()
}

// register POSTs the token with the owner identity. Returns false on failure;
// the error is logged, never surfaced.
func (m *Manager) register(ctx context.Context, token string) bool {
	_, err := m.client.Call(ctx, api.Endpoint{
		Name:       "notifications-register-token",
		Method:     http.MethodPost,
		Path:       "/notifications/register-token",
		Idempotent: true,
	}, map[string]interface{}{
		"token":    token,
		"platform": m.provider.Platform(),
		"ownerId":  m.ownerID(ctx),
	})
	if err != nil {
		log.Warn().Err(err).Msg("Push token registration failed, token kept locally")
		metrics.RecordTokenRegistration("error")
		return false
	}

	metrics.RecordTokenRegistration("success")
	return true
}

// Clear drops the cached token and best-effort deregisters it, as on logout.
// The state moves to Cleared before the cleanup calls run, so a concurrent
// refresh or a late registration cannot resurrect the session.
func (m *Manager) Clear(ctx context.Context) {
	m.mu.Lock()
	token := m.token
	m.token = ""
	m.state = StateCleared
	m.mu.Unlock()

	key := tokenKeyPrefix + m.provider.Platform()
	if err := m.store.Delete(ctx, key); err != nil {
		log.Warn().Err(err).Msg("Failed to remove cached push token")
	}

	if token != "" {
		_, err := m.client.Call(ctx, api.Endpoint{
			Name:   "notifications-unregister-token",
			Method: http.MethodPost,
			Path:   "/notifications/unregister-token",
		}, map[string]interface{}{
			"token":    token,
			"platform": m.provider.Platform(),
		})
		if err != nil {
			log.Warn().Err(err).Msg("Push token deregistration failed")
		}
	}
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Token returns the current push token, empty unless one was obtained.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

func (m *Manager) setState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}

// ownerID resolves the identity the token is registered under: the business
// id for sellers, the user email otherwise.
func (m *Manager) ownerID(ctx context.Context) string {
	identity := m.session.Identity(ctx)
	if identity.BusinessID != "" {
		return identity.BusinessID
	}
	return identity.UserEmail
}
