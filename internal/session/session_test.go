package session

import (
	"context"
	"errors"
	"testing"

	"greenerhq.com/greener/internal/storage"
)

// failingStore errors on every operation.
type failingStore struct{}

func (failingStore) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, errors.New("store unavailable")
}

func (failingStore) Set(ctx context.Context, key string, value []byte) error {
	return errors.New("store unavailable")
}

func (failingStore) Delete(ctx context.Context, key string) error {
	return errors.New("store unavailable")
}

func TestHeaders(t *testing.T) {
	tests := []struct {
		name     string
		identity Identity
		expected map[string]string
	}{
		{
			name:     "No identity keys set",
			identity: Identity{},
			expected: map[string]string{
				"Content-Type": "application/json",
			},
		},
		{
			name: "Full business identity",
			identity: Identity{
				UserEmail:  "owner@plantshop.example",
				UserType:   "business",
				BusinessID: "biz-42",
				AuthToken:  "tok-123",
			},
			expected: map[string]string{
				"Content-Type":  "application/json",
				"X-User-Email":  "owner@plantshop.example",
				"X-User-Type":   "business",
				"X-Business-ID": "biz-42",
				"Authorization": "Bearer tok-123",
			},
		},
		{
			name: "Partial identity omits missing headers",
			identity: Identity{
				UserEmail: "buyer@example.com",
				UserType:  "user",
			},
			expected: map[string]string{
				"Content-Type": "application/json",
				"X-User-Email": "buyer@example.com",
				"X-User-Type":  "user",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := storage.NewMemoryStore()
			resolver := NewResolver(store)

			if err := resolver.SetIdentity(context.Background(), tt.identity); err != nil {
				t.Fatalf("SetIdentity failed: %v", err)
			}

			headers := resolver.Headers(context.Background())

			if len(headers) != len(tt.expected) {
				t.Errorf("Expected %d headers, got %d: %v", len(tt.expected), len(headers), headers)
			}
			for key, want := range tt.expected {
				if got := headers[key]; got != want {
					t.Errorf("Header %s = %q, want %q", key, got, want)
				}
			}
		})
	}
}

func TestHeadersNeverFails(t *testing.T) {
	resolver := NewResolver(failingStore{})

	headers := resolver.Headers(context.Background())

	if len(headers) != 1 || headers["Content-Type"] != "application/json" {
		t.Errorf("Expected minimal Content-Type header map, got %v", headers)
	}
}

func TestClearRemovesIdentity(t *testing.T) {
	store := storage.NewMemoryStore()
	resolver := NewResolver(store)

	err := resolver.SetIdentity(context.Background(), Identity{
		UserEmail: "owner@plantshop.example",
		AuthToken: "tok-123",
	})
	if err != nil {
		t.Fatalf("SetIdentity failed: %v", err)
	}

	resolver.Clear(context.Background())

	headers := resolver.Headers(context.Background())
	if len(headers) != 1 {
		t.Errorf("Expected only Content-Type after Clear, got %v", headers)
	}
}
