package notify

import "context"

// Message is a push notification delivered while the process is in the
// foreground.
type Message struct {
	Title string
	Body  string
	Data  map[string]string
}

// PushProvider abstracts the platform push SDK (FCM on Android/web, APNs via
// Expo on iOS). Platform branching lives behind this interface; the manager
// never inspects the platform beyond labeling the token.
type PushProvider interface {
	// RequestPermission asks the platform for notification permission.
	RequestPermission(ctx context.Context) (bool, error)
	// Token obtains the current push token from the SDK.
	Token(ctx context.Context) (string, error)
	// OnTokenRefresh registers a callback for SDK-driven token rotation.
	OnTokenRefresh(callback func(token string))
	// OnMessage registers a callback for foreground messages.
	OnMessage(callback func(msg Message))
	// Platform labels tokens from this provider ("web", "ios", "android").
	Platform() string
}

// StaticTokenProvider is the PushProvider for headless deployments: the token
// comes from configuration, permission is implicit, and the SDK callbacks
// never fire.
type StaticTokenProvider struct {
	TokenValue   string
	PlatformName string
}

func (p *StaticTokenProvider) RequestPermission(ctx context.Context) (bool, error) {
	return p.TokenValue != "", nil
}

func (p *StaticTokenProvider) Token(ctx context.Context) (string, error) {
	return p.TokenValue, nil
}

func (p *StaticTokenProvider) OnTokenRefresh(callback func(token string)) {}

func (p *StaticTokenProvider) OnMessage(callback func(msg Message)) {}

func (p *StaticTokenProvider) Platform() string {
	if p.PlatformName == "" {
		return "web"
	}
	return p.PlatformName
}
