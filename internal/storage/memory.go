package storage

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// Memory is an in-process BlobStore for tests and credential-free local
// runs. It additionally counts deletions per key so tests can assert
// delete-exactly-once semantics.
type Memory struct {
	bucket string

	mu      sync.Mutex
	objects map[string][]byte
	deletes map[string]int

	// FailWrites and FailDeletes make the corresponding operation error,
	// for exercising failure paths.
	FailWrites  bool
	FailDeletes bool
}

// NewMemory creates an empty in-memory store addressing the given bucket.
func NewMemory(bucket string) *Memory {
	return &Memory{
		bucket:  bucket,
		objects: make(map[string][]byte),
		deletes: make(map[string]int),
	}
}

func (m *Memory) Write(ctx context.Context, key string, r io.Reader) error {
	if m.FailWrites {
		return fmt.Errorf("storage: write %s: injected failure", key)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("storage: write %s: %w", key, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	if m.FailDeletes {
		return fmt.Errorf("storage: delete %s: injected failure", key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[key]; !ok {
		return fmt.Errorf("storage: delete %s: object not found", key)
	}
	delete(m.objects, key)
	m.deletes[key]++
	return nil
}

func (m *Memory) URI(key string) string {
	return fmt.Sprintf("gs://%s/%s", m.bucket, key)
}

// Has reports whether the object currently exists.
func (m *Memory) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok
}

// Len returns the number of stored objects.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

// DeleteCount returns how many times the key was successfully deleted.
func (m *Memory) DeleteCount(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deletes[key]
}

// Keys returns the keys of all stored objects.
func (m *Memory) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	return keys
}
