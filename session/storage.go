package session

import (
	"context"
	"sync"
)

// Fixed key names the tokens are persisted under
const (
	AccessTokenKey  = "accessToken"
	RefreshTokenKey = "refreshToken"
)

// Backend persists small string values per browser session
type Backend interface {
	// Get returns "" and no error when the key is absent
	Get(ctx context.Context, sessionID, key string) (string, error)
	Set(ctx context.Context, sessionID, key, value string) error
	Remove(ctx context.Context, sessionID string, keys ...string) error
}

// TokenStorage is a Backend narrowed to one browser session
type TokenStorage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, keys ...string) error
}

// Scoped binds b to sessionID
func Scoped(b Backend, sessionID string) TokenStorage {
	return scoped{b: b, id: sessionID}
}

type scoped struct {
	b  Backend
	id string
}

func (s scoped) Get(ctx context.Context, key string) (string, error) {
	return s.b.Get(ctx, s.id, key)
}

func (s scoped) Set(ctx context.Context, key, value string) error {
	return s.b.Set(ctx, s.id, key, value)
}

func (s scoped) Remove(ctx context.Context, keys ...string) error {
	return s.b.Remove(ctx, s.id, keys...)
}

// MemoryBackend keeps values in process memory. Sessions do not survive a restart.
type MemoryBackend struct {
	mu   sync.RWMutex
	data map[string]map[string]string
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[string]map[string]string)}
}

func (m *MemoryBackend) Get(_ context.Context, sessionID, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data[sessionID][key], nil
}

func (m *MemoryBackend) Set(_ context.Context, sessionID, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kv, ok := m.data[sessionID]
	if !ok {
		kv = make(map[string]string)
		m.data[sessionID] = kv
	}
	kv[key] = value
	return nil
}

func (m *MemoryBackend) Remove(_ context.Context, sessionID string, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kv, ok := m.data[sessionID]
	if !ok {
		return nil
	}
	for _, k := range keys {
		delete(kv, k)
	}
	if len(kv) == 0 {
		delete(m.data, sessionID)
	}
	return nil
}
