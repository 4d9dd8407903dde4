package battle

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// Manager tracks active battles keyed by ID.
// All methods are safe for concurrent use; the battles themselves are not.
type Manager struct {
	mu      sync.RWMutex
	battles map[string]*Battle
	logger  *zap.Logger
}

// NewManager creates an empty Manager.
//
// Postcondition: Returns a non-nil Manager ready for use.
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{battles: make(map[string]*Battle), logger: logger}
}

// Create builds a battle from opts and registers it. opts.Logger defaults to
// the manager's logger.
//
// Postcondition: Returns an error if a battle with opts.ID is already registered.
func (m *Manager) Create(opts Options) (*Battle, error) {
	if opts.Logger == nil {
		opts.Logger = m.logger
	}
	b := New(opts)

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.battles[b.ID()]; exists {
		return nil, fmt.Errorf("battle %q already registered", b.ID())
	}
	m.battles[b.ID()] = b
	return b, nil
}

// Get returns the battle with id.
//
// Postcondition: Returns (battle, true) if found, or (nil, false) otherwise.
func (m *Manager) Get(id string) (*Battle, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.battles[id]
	return b, ok
}

// End removes the battle with id and reports whether it was registered.
// Removing an unknown id is a no-op that returns false.
func (m *Manager) End(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.battles[id]; !ok {
		return false
	}
	delete(m.battles, id)
	return true
}

// IDs returns the registered battle IDs in sorted order.
func (m *Manager) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.battles))
	for id := range m.battles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of registered battles.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.battles)
}
