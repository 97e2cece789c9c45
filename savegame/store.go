package savegame

import (
	"errors"
	"fmt"
	"regexp"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/quasilyte/gdata"
)

var (
	ErrNoSave      = errors.New("savegame: no save in slot")
	ErrInvalidSlot = errors.New("savegame: invalid slot name")
)

var slotPattern = regexp.MustCompile(`^[a-z0-9_-]{1,32}$`)

// Backend stores opaque items by key. gdata.Manager satisfies it.
type Backend interface {
	SaveItem(key string, data []byte) error
	LoadItem(key string) ([]byte, error)
}

// Store reads and writes save records in named slots.
type Store struct {
	backend Backend
	logger  *log.Logger
}

// Open returns a store kept in the per-user data directory of appName.
func Open(appName string) (*Store, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("savegame: open %q: %w", appName, err)
	}
	return NewStore(m), nil
}

func NewStore(b Backend) *Store {
	return &Store{backend: b, logger: log.WithPrefix("savegame")}
}

func slotKey(slot string) (string, error) {
	if !slotPattern.MatchString(slot) {
		return "", fmt.Errorf("%w %q", ErrInvalidSlot, slot)
	}
	return "save_" + slot, nil
}

// Save validates r and writes it to slot.
func (s *Store) Save(slot string, r Record) error {
	key, err := slotKey(slot)
	if err != nil {
		return err
	}
	data, err := Encode(r)
	if err != nil {
		return err
	}
	if err := s.backend.SaveItem(key, data); err != nil {
		return fmt.Errorf("savegame: write %s: %w", slot, err)
	}
	s.logger.Info("saved", "slot", slot, "level", r.Level)
	return nil
}

// Load reads slot. Missing slots report ErrNoSave and malformed records
// their validation error.
func (s *Store) Load(slot string) (Record, error) {
	key, err := slotKey(slot)
	if err != nil {
		return Record{}, err
	}
	data, err := s.backend.LoadItem(key)
	if err != nil {
		return Record{}, fmt.Errorf("savegame: read %s: %w", slot, err)
	}
	if len(data) == 0 {
		return Record{}, fmt.Errorf("%w %q", ErrNoSave, slot)
	}
	return Decode(data)
}

func (s *Store) Exists(slot string) bool {
	key, err := slotKey(slot)
	if err != nil {
		return false
	}
	data, err := s.backend.LoadItem(key)
	return err == nil && len(data) > 0
}

// Clear empties slot.
func (s *Store) Clear(slot string) error {
	key, err := slotKey(slot)
	if err != nil {
		return err
	}
	return s.backend.SaveItem(key, nil)
}

// MemoryBackend keeps items in memory. It is used when no data directory is
// available and in tests.
type MemoryBackend struct {
	mu    sync.Mutex
	items map[string][]byte
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{items: map[string][]byte{}}
}

func (m *MemoryBackend) SaveItem(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(data) == 0 {
		delete(m.items, key)
		return nil
	}
	m.items[key] = append([]byte(nil), data...)
	return nil
}

// LoadItem returns nil data for unknown keys, like gdata.
func (m *MemoryBackend) LoadItem(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.items[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), data...), nil
}
