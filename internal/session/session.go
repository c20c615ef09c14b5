package session

import (
	"context"

	"github.com/rs/zerolog/log"
	"greenerhq.com/greener/internal/storage"
)

// Storage keys for the locally persisted identity fields. The source app used
// a mix of authToken and googleAuthToken keys across modules; authToken is the
// canonical key here.
const (
	KeyUserEmail  = "userEmail"
	KeyUserType   = "userType"
	KeyBusinessID = "businessId"
	KeyAuthToken  = "authToken"
)

// Identity holds the locally persisted identity fields for one request. Any
// subset may be absent; absent fields simply produce no header.
type Identity struct {
	UserEmail  string
	UserType   string
	BusinessID string
	AuthToken  string
}

// Resolver reads identity fields from the key-value store and composes request
// headers. The identity is re-read on every request, never cached.
type Resolver struct {
	store storage.Store
}

// NewResolver creates a resolver backed by the given store.
func NewResolver(store storage.Store) *Resolver {
	return &Resolver{store: store}
}

// Identity reads the current identity from the store. Read failures degrade to
// an empty field rather than an error.
func (r *Resolver) Identity(ctx context.Context) Identity {
	return Identity{
		UserEmail:  r.readKey(ctx, KeyUserEmail),
		UserType:   r.readKey(ctx, KeyUserType),
		BusinessID: r.readKey(ctx, KeyBusinessID),
		AuthToken:  r.readKey(ctx, KeyAuthToken),
	}
}

// Headers composes the header map for one outbound request. It never fails:
// a broken store yields the minimal Content-Type-only map.
func (r *Resolver) Headers(ctx context.Context) map[string]string {
	headers := map[string]string{
		"Content-Type": "application/json",
	}

	identity := r.Identity(ctx)
	if identity.UserEmail != "" {
		headers["X-User-Email"] = identity.UserEmail
	}
	if identity.UserType != "" {
		headers["X-User-Type"] = identity.UserType
	}
	if identity.BusinessID != "" {
		headers["X-Business-ID"] = identity.BusinessID
	}
	if identity.AuthToken != "" {
		headers["Authorization"] = "Bearer " + identity.AuthToken
	}

	return headers
}

// SetIdentity persists the given identity fields. Empty fields are deleted so
// stale values never leak into later requests.
func (r *Resolver) SetIdentity(ctx context.Context, identity Identity) error {
	fields := map[string]string{
		KeyUserEmail:  identity.UserEmail,
		KeyUserType:   identity.UserType,
		KeyBusinessID: identity.BusinessID,
		KeyAuthToken:  identity.AuthToken,
	}

	for key, value := range fields {
		var err error
		if value == "" {
			err = r.store.Delete(ctx, key)
		} else {
			err = r.store.Set(ctx, key, []byte(value))
		}
		if err != nil {
			return err
		}
	}

	return nil
}

// Clear removes all identity fields, as on logout. Best effort.
func (r *Resolver) Clear(ctx context.Context) {
	for _, key := range []string{KeyUserEmail, KeyUserType, KeyBusinessID, KeyAuthToken} {
		if err := r.store.Delete(ctx, key); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Failed to clear identity key")
		}
	}
}

func (r *Resolver) readKey(ctx context.Context, key string) string {
	value, err := r.store.Get(ctx, key)
	if err != nil {
		return ""
	}
	return string(value)
}
