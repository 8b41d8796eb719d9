package homeserver

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"hushpost/internal/domain"
)

// Memory is an in-process homeserver holding every party's objects in one
// map. It backs the dev server and the protocol tests; the HTTP client is
// the production path.
type Memory struct {
	mu      sync.RWMutex
	objects map[string][]byte // "<owner-hex><path>" -> body
	down    map[string]bool   // owners simulated as unreachable
}

// NewMemory returns an empty in-memory homeserver.
func NewMemory() *Memory {
	return &Memory{
		objects: make(map[string][]byte),
		down:    make(map[string]bool),
	}
}

// SetDown marks an owner's homeserver as unreachable; tests use this to
// exercise partial-availability behavior.
func (m *Memory) SetDown(owner domain.Ed25519Public, down bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.down[owner.Hex()] = down
}

// Put stores body at path under the owner's namespace.
func (m *Memory) Put(_ context.Context, owner domain.Ed25519Public, path string, body []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.down[owner.Hex()] {
		return fmt.Errorf("%w: %s", domain.ErrStorageUnavailable, owner.Hex())
	}
	m.objects[owner.Hex()+path] = append([]byte(nil), body...)
	return nil
}

// Get fetches one object from the owner's namespace.
func (m *Memory) Get(_ context.Context, owner domain.Ed25519Public, path string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.down[owner.Hex()] {
		return nil, fmt.Errorf("%w: %s", domain.ErrStorageUnavailable, owner.Hex())
	}
	b, ok := m.objects[owner.Hex()+path]
	if !ok {
		return nil, fmt.Errorf("%w: not found: %s", domain.ErrStorageUnavailable, path)
	}
	return append([]byte(nil), b...), nil
}

// List returns the object paths under dir in the owner's namespace.
func (m *Memory) List(_ context.Context, owner domain.Ed25519Public, dir string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.down[owner.Hex()] {
		return nil, fmt.Errorf("%w: %s", domain.ErrStorageUnavailable, owner.Hex())
	}
	prefix := owner.Hex() + dir
	var paths []string
	for k := range m.objects {
		if strings.HasPrefix(k, prefix) {
			paths = append(paths, strings.TrimPrefix(k, owner.Hex()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// Compile-time assertion that Memory implements domain.HomeserverClient.
var _ domain.HomeserverClient = (*Memory)(nil)
