// Package media uploads property images to an object store and hands back
// public URLs carrying the image's native render dimensions.
package media

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// Store is the object storage backend for uploaded media
type Store interface {
	// Put writes the object and returns its public URL
	Put(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

// MemoryStore keeps objects in a map. Used by tests.
type MemoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

// Put stores the object and returns a mem:// URL
func (s *MemoryStore) Put(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data

	return fmt.Sprintf("mem://media/%s", key), nil
}

// Object returns a stored object's bytes, or nil when absent
func (s *MemoryStore) Object(key string) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.objects[key]
}

// Len returns the number of stored objects
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}
