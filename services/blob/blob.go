// Package blob uploads files to the object storage service.
package blob

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/campus/core"
)

// Store uploads objects and returns the URL they can be read from.
type Store interface {
	Upload(ctx context.Context, bucket, key string, data []byte, contentType string) (string, error)
}

// NewStore returns an HTTPStore, or a MemoryStore when no storage service is configured.
func NewStore(conf *core.Config) Store {
	if conf.Storage.BaseURL == "" {
		return NewMemoryStore()
	}
	return NewHTTPStore(conf)
}

// HTTPStore talks to a storage service exposing the
// /storage/v1/object/{bucket}/{key} REST API.
type HTTPStore struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewHTTPStore(conf *core.Config) *HTTPStore {
	return &HTTPStore{
		baseURL: strings.TrimRight(conf.Storage.BaseURL, "/"),
		apiKey:  conf.Storage.APIKey,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}

// Upload stores data under bucket/key, replacing any previous object, and returns its public URL.
func (s *HTTPStore) Upload(ctx context.Context, bucket, key string, data []byte, contentType string) (string, error) {
	objPath := url.PathEscape(bucket) + "/" + escapeKey(key)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/storage/v1/object/"+objPath, bytes.NewReader(data))
	if err != nil {
		return "", errors.Wrap(err, "building upload request")
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "true")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "uploading object")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", errors.Errorf("uploading object: status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}
	return s.baseURL + "/storage/v1/object/public/" + objPath, nil
}

// MemoryStore keeps uploads in memory. Objects are lost on restart.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

func (s *MemoryStore) Upload(_ context.Context, bucket, key string, data []byte, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	loc := bucket + "/" + key
	s.objects[loc] = append([]byte(nil), data...)
	return fmt.Sprintf("memory://%s", loc), nil
}

// Get returns the object stored under bucket/key.
func (s *MemoryStore) Get(bucket, key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[bucket+"/"+key]
	return data, ok
}
