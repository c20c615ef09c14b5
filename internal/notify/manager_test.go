package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"greenerhq.com/greener/internal/api"
	"greenerhq.com/greener/internal/session"
	"greenerhq.com/greener/internal/storage"
)

type fakeProvider struct {
	granted      bool
	permErr      error
	token        string
	tokenErr     error
	platform     string
	refreshFunc  func(token string)
	refreshHooks int
}

func (p *fakeProvider) RequestPermission(ctx context.Context) (bool, error) {
	return p.granted, p.permErr
}

func (p *fakeProvider) Token(ctx context.Context) (string, error) {
	return p.token, p.tokenErr
}

func (p *fakeProvider) OnTokenRefresh(callback func(token string)) {
	p.refreshHooks++
	p.refreshFunc = callback
}

func (p *fakeProvider) OnMessage(callback func(msg Message)) {}

func (p *fakeProvider) Platform() string { return p.platform }

type registration struct {
	Token    string `json:"token"`
	Platform string `json:"platform"`
	OwnerID  string `json:"ownerId"`
}

func newTestManager(t *testing.T, backend http.Handler, provider *fakeProvider) (*Manager, storage.Store, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	store := storage.NewMemoryStore()
	resolver := session.NewResolver(store)
	if err := resolver.SetIdentity(context.Background(), session.Identity{
		UserEmail:  "owner@greener.app",
		UserType:   "seller",
		BusinessID: "biz-42",
	}); err != nil {
		t.Fatalf("SetIdentity: %v", err)
	}

	client := api.NewClient(api.Config{
		BaseURL: srv.URL,
		Session: resolver,
		Policy: api.RetryPolicy{
			MaxAttempts:    3,
			AttemptTimeout: 2 * time.Second,
			BaseDelay:      time.Millisecond,
			MaxDelay:       2 * time.Millisecond,
		},
	})

	return NewManager(store, provider, client, resolver), store, srv
}

func TestInitializeRegistersToken(t *testing.T) {
	var got registration
	mux := http.NewServeMux()
	mux.HandleFunc("/notifications/register-token", func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode registration: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	})

	provider := &fakeProvider{granted: true, token: "expo-token-1", platform: "android"}
	mgr, store, _ := newTestManager(t, mux, provider)

	mgr.Initialize(context.Background())

	if mgr.State() != StateRegistered {
		t.Fatalf("state = %v, want %v", mgr.State(), StateRegistered)
	}
	if got.Token != "expo-token-1" || got.Platform != "android" {
		t.Errorf("registered %+v, want token expo-token-1 on android", got)
	}
	if got.OwnerID != "biz-42" {
		t.Errorf("ownerId = %q, want business id", got.OwnerID)
	}

	cached, err := store.Get(context.Background(), "pushToken:android")
	if err != nil {
		t.Fatalf("cached token missing: %v", err)
	}
	if string(cached) != "expo-token-1" {
		t.Errorf("cached token = %q", cached)
	}
}

func TestInitializeSwallowsRegistrationFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/notifications/register-token", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	provider := &fakeProvider{granted: true, token: "expo-token-2", platform: "ios"}
	mgr, store, _ := newTestManager(t, mux, provider)

	mgr.Initialize(context.Background())

	if mgr.State() != StateTokenObtained {
		t.Fatalf("state = %v, want %v", mgr.State(), StateTokenObtained)
	}
	cached, err := store.Get(context.Background(), "pushToken:ios")
	if err != nil {
		t.Fatalf("token should be cached even when registration fails: %v", err)
	}
	if string(cached) != "expo-token-2" {
		t.Errorf("cached token = %q", cached)
	}
}

func TestInitializePermissionDenied(t *testing.T) {
	provider := &fakeProvider{granted: false, token: "unused", platform: "web"}
	mgr, store, _ := newTestManager(t, http.NewServeMux(), provider)

	mgr.Initialize(context.Background())

	if mgr.State() != StatePermissionDenied {
		t.Fatalf("state = %v, want %v", mgr.State(), StatePermissionDenied)
	}
	if _, err := store.Get(context.Background(), "pushToken:web"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("no token should be cached after denial, got err %v", err)
	}

	// Initialize again stays denied; only RetryPermission re-enters.
	mgr.Initialize(context.Background())
	if mgr.State() != StatePermissionDenied {
		t.Fatalf("re-initialize changed state to %v", mgr.State())
	}
}

func TestRetryPermission(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/notifications/register-token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	})

	provider := &fakeProvider{granted: false, token: "expo-token-3", platform: "android"}
	mgr, _, _ := newTestManager(t, mux, provider)

	mgr.Initialize(context.Background())
	if mgr.State() != StatePermissionDenied {
		t.Fatalf("state = %v, want denied", mgr.State())
	}

	provider.granted = true
	mgr.RetryPermission(context.Background())
	if mgr.State() != StateRegistered {
		t.Fatalf("state after retry = %v, want %v", mgr.State(), StateRegistered)
	}
}

func TestTokenRefreshReregisters(t *testing.T) {
	tokens := make(chan string, 2)
	mux := http.NewServeMux()
	mux.HandleFunc("/notifications/register-token", func(w http.ResponseWriter, r *http.Request) {
		var reg registration
		json.NewDecoder(r.Body).Decode(&reg)
		tokens <- reg.Token
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	})

	provider := &fakeProvider{granted: true, token: "token-old", platform: "web"}
	mgr, store, _ := newTestManager(t, mux, provider)

	mgr.Initialize(context.Background())
	if provider.refreshFunc == nil {
		t.Fatal("refresh callback was not registered")
	}

	provider.refreshFunc("token-new")

	if got := <-tokens; got != "token-old" {
		t.Errorf("first registration = %q", got)
	}
	if got := <-tokens; got != "token-new" {
		t.Errorf("second registration = %q", got)
	}
	if mgr.State() != StateRegistered {
		t.Fatalf("state = %v, want %v", mgr.State(), StateRegistered)
	}
	cached, err := store.Get(context.Background(), "pushToken:web")
	if err != nil {
		t.Fatalf("cached token missing: %v", err)
	}
	if string(cached) != "token-new" {
		t.Errorf("cached token = %q, want refreshed value", cached)
	}
	if mgr.Token() != "token-new" {
		t.Errorf("Token() = %q", mgr.Token())
	}
}

func TestClearRemovesTokenAndDeregisters(t *testing.T) {
	var unregistered registration
	mux := http.NewServeMux()
	mux.HandleFunc("/notifications/register-token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	})
	mux.HandleFunc("/notifications/unregister-token", func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&unregistered)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	})

	provider := &fakeProvider{granted: true, token: "token-clear", platform: "ios"}
	mgr, store, _ := newTestManager(t, mux, provider)

	mgr.Initialize(context.Background())
	mgr.Clear(context.Background())

	if mgr.State() != StateCleared {
		t.Fatalf("state = %v, want %v", mgr.State(), StateCleared)
	}
	if mgr.Token() != "" {
		t.Errorf("Token() = %q after clear", mgr.Token())
	}
	if unregistered.Token != "token-clear" {
		t.Errorf("unregistered token = %q", unregistered.Token)
	}
	if _, err := store.Get(context.Background(), "pushToken:ios"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("cached token should be deleted, got err %v", err)
	}
}

func TestRefreshAfterClearIsIgnored(t *testing.T) {
	var registrations atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/notifications/register-token", func(w http.ResponseWriter, r *http.Request) {
		registrations.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	})
	mux.HandleFunc("/notifications/unregister-token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	})

	provider := &fakeProvider{granted: true, token: "token-live", platform: "web"}
	mgr, store, _ := newTestManager(t, mux, provider)

	mgr.Initialize(context.Background())
	mgr.Clear(context.Background())

	// An SDK rotation arriving after logout must not resurrect the session.
	provider.refreshFunc("token-zombie")

	if mgr.State() != StateCleared {
		t.Fatalf("state after post-logout refresh = %v, want %v", mgr.State(), StateCleared)
	}
	if mgr.Token() != "" {
		t.Errorf("Token() = %q after post-logout refresh", mgr.Token())
	}
	if _, err := store.Get(context.Background(), "pushToken:web"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("token re-cached after clear, got err %v", err)
	}
	if got := registrations.Load(); got != 1 {
		t.Errorf("registrations = %d, want only the pre-logout one", got)
	}
}

func TestCallbacksHookedOncePerManager(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/notifications/register-token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	})
	mux.HandleFunc("/notifications/unregister-token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	})

	provider := &fakeProvider{granted: true, token: "token-a", platform: "ios"}
	mgr, _, _ := newTestManager(t, mux, provider)

	mgr.Initialize(context.Background())
	mgr.Clear(context.Background())
	mgr.Initialize(context.Background())

	if mgr.State() != StateRegistered {
		t.Fatalf("state after re-login = %v, want %v", mgr.State(), StateRegistered)
	}
	if provider.refreshHooks != 1 {
		t.Errorf("refresh listener hooked %d times, want 1", provider.refreshHooks)
	}
}

func TestStateReadableDuringRegistration(t *testing.T) {
	started := make(chan struct{}, 3)
	release := make(chan struct{})
	mux := http.NewServeMux()
	mux.HandleFunc("/notifications/register-token", func(w http.ResponseWriter, r *http.Request) {
		started <- struct{}{}
		<-release
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	})

	provider := &fakeProvider{granted: true, token: "token-slow", platform: "web"}
	mgr, _, _ := newTestManager(t, mux, provider)

	done := make(chan struct{})
	go func() {
		mgr.Initialize(context.Background())
		close(done)
	}()

	<-started

	// The registration call is in flight; state reads must not block on it.
	states := make(chan State, 1)
	go func() { states <- mgr.State() }()
	select {
	case s := <-states:
		if s != StateTokenObtained {
			t.Errorf("state during registration = %v, want %v", s, StateTokenObtained)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("State() blocked behind an in-flight registration")
	}

	close(release)
	<-done

	if mgr.State() != StateRegistered {
		t.Fatalf("state = %v, want %v", mgr.State(), StateRegistered)
	}
}

func TestStaticTokenProvider(t *testing.T) {
	withToken := &StaticTokenProvider{TokenValue: "static-1", PlatformName: "web"}
	granted, err := withToken.RequestPermission(context.Background())
	if err != nil || !granted {
		t.Fatalf("RequestPermission = %v, %v, want granted", granted, err)
	}

	empty := &StaticTokenProvider{}
	granted, _ = empty.RequestPermission(context.Background())
	if granted {
		t.Error("empty provider should not report permission")
	}
	if empty.Platform() != "web" {
		t.Errorf("default platform = %q", empty.Platform())
	}
}
