// internal/session/storage.go
package session

import (
	"sync"

	"recruit-admin/internal/models"
)

// TokenStorage persists the small client state that survives a restart:
// access token, expiry timestamp and display name. Nothing else is stored.
type TokenStorage interface {
	Save(sess models.Session, displayName string) error
	Load() (*models.Session, string, error)
	Clear() error
}

// MemoryStorage is the default TokenStorage.
type MemoryStorage struct {
	mu          sync.Mutex
	sess        *models.Session
	displayName string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (m *MemoryStorage) Save(sess models.Session, displayName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := sess
	m.sess = &copied
	m.displayName = displayName
	return nil
}

func (m *MemoryStorage) Load() (*models.Session, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sess == nil {
		return nil, "", nil
	}
	copied := *m.sess
	return &copied, m.displayName, nil
}

func (m *MemoryStorage) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sess = nil
	m.displayName = ""
	return nil
}
