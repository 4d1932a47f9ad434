// Package storage provides object storage implementations for uploaded files.
package storage

import (
	"context"
	"errors"
	"io"
	"sync"

	contractapp "github.com/helpdesk/backend/internal/application/contract"
	ticketapp "github.com/helpdesk/backend/internal/application/ticket"
)

// StubObjectStorage keeps uploads in memory and fabricates download URLs.
// Use this for development until a real S3 backend is configured.
type StubObjectStorage struct {
	// BaseURL is the base URL for generated download URLs.
	// Defaults to "https://storage.example.com" if not set.
	BaseURL string

	mu      sync.RWMutex
	objects map[string][]byte
}

// NewStubObjectStorage creates a new StubObjectStorage
func NewStubObjectStorage() *StubObjectStorage {
	return &StubObjectStorage{
		BaseURL: "https://storage.example.com",
		objects: make(map[string][]byte),
	}
}

// Ensure StubObjectStorage implements both storage slices
var (
	_ ticketapp.ObjectStorage   = (*StubObjectStorage)(nil)
	_ contractapp.ObjectStorage = (*StubObjectStorage)(nil)
)

// Upload buffers the object in memory
func (s *StubObjectStorage) Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error {
	if key == "" {
		return errors.New("storage key is required")
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return nil
}

// PresignDownload fabricates a download URL for a stored key
func (s *StubObjectStorage) PresignDownload(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}
	return s.BaseURL + "/download/" + key, nil
}

// Size returns the number of stored objects (for testing)
func (s *StubObjectStorage) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

// Object returns a stored object's bytes (for testing)
func (s *StubObjectStorage) Object(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[key]
	return data, ok
}
