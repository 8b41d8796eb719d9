package store

import (
	"crypto/rand"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"hushpost/internal/domain"
)

const deviceKeyFile = "device.key"

// DeviceKeyBytes is the length of the device-local sealing key.
const DeviceKeyBytes = 32

// DeviceFileStore keeps the device key in a 0600 file, creating it from
// local entropy on first use.
type DeviceFileStore struct {
	dir string
	mu  sync.Mutex
}

// NewDeviceFileStore returns a DeviceFileStore rooted at dir.
func NewDeviceFileStore(dir string) *DeviceFileStore {
	return &DeviceFileStore{dir: dir}
}

// DeviceKey returns the device key, generating and persisting it first if
// this device has none yet.
func (s *DeviceFileStore) DeviceKey() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := filepath.Join(s.dir, deviceKeyFile)
	b, err := os.ReadFile(p)
	if err == nil && len(b) == DeviceKeyBytes {
		return b, nil
	}
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	key := make([]byte, DeviceKeyBytes)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	if err := os.WriteFile(p, key, 0o600); err != nil {
		return nil, err
	}
	return key, nil
}

// Compile-time assertion that DeviceFileStore implements domain.DeviceKeyStore.
var _ domain.DeviceKeyStore = (*DeviceFileStore)(nil)
