package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/couchbase/gocb/v2"
)

// CouchbaseStore is a Store backed by a Couchbase bucket. The sync agent uses
// it so that cached dashboards and registered tokens survive restarts.
type CouchbaseStore struct {
	cluster *gocb.Cluster
	bucket  *gocb.Bucket
}

// document wraps raw bytes so every stored value is a valid JSON document.
type document struct {
	Value []byte `json:"value"`
}

// NewCouchbaseStore connects to a Couchbase cluster and opens the given bucket.
func NewCouchbaseStore(url, username, password, bucketName string) (*CouchbaseStore, error) {
	cluster, err := gocb.Connect(url, gocb.ClusterOptions{
		Authenticator: gocb.PasswordAuthenticator{
			Username: username,
			Password: password,
		},
		TimeoutsConfig: gocb.TimeoutsConfig{
			ConnectTimeout: 60 * time.Second,
			KVTimeout:      5 * time.Second,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Couchbase: %w", err)
	}

	bucket := cluster.Bucket(bucketName)

	err = bucket.WaitUntilReady(30*time.Second, &gocb.WaitUntilReadyOptions{
		ServiceTypes: []gocb.ServiceType{gocb.ServiceTypeKeyValue},
	})
	if err != nil {
		return nil, fmt.Errorf("bucket %q is not accessible: %w", bucketName, err)
	}

	return &CouchbaseStore{
		cluster: cluster,
		bucket:  bucket,
	}, nil
}

// Get retrieves the value stored under key.
func (cs *CouchbaseStore) Get(ctx context.Context, key string) ([]byte, error) {
	result, err := cs.bucket.DefaultCollection().Get(key, &gocb.GetOptions{
		Context: ctx,
	})
	if err != nil {
		if errors.Is(err, gocb.ErrDocumentNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get document %s: %w", key, err)
	}

	var doc document
	if err := result.Content(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse document content: %w", err)
	}

	return doc.Value, nil
}

// Set stores value under key, overwriting any prior value.
func (cs *CouchbaseStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := cs.bucket.DefaultCollection().Upsert(key, document{Value: value}, &gocb.UpsertOptions{
		Context: ctx,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert document %s: %w", key, err)
	}

	return nil
}

// Delete removes key from the store. Deleting an absent key is not an error.
func (cs *CouchbaseStore) Delete(ctx context.Context, key string) error {
	_, err := cs.bucket.DefaultCollection().Remove(key, &gocb.RemoveOptions{
		Context: ctx,
	})
	if err != nil {
		if errors.Is(err, gocb.ErrDocumentNotFound) {
			return nil
		}
		return fmt.Errorf("failed to delete document %s: %w", key, err)
	}

	return nil
}

// Close closes the Couchbase connection.
func (cs *CouchbaseStore) Close() error {
	return cs.cluster.Close(nil)
}
