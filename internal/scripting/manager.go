package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/turnbattle/internal/game/dice"
)

// globalKey names the shared VM loaded via LoadGlobal. CallHook falls back to
// it when no VM is registered under the requested key.
const globalKey = "__global__"

// CombatantInfo is a snapshot of a combatant handed to Lua.
type CombatantInfo struct {
	UID        string
	Name       string
	Side       string
	HP         int
	MaxHP      int
	MP         int
	MaxMP      int
	Defending  bool
	Conditions []string
}

// Lookup resolves combatants for the engine.* modules during one hook call.
type Lookup interface {
	Combatant(uid string) *CombatantInfo
	Opponents(uid string) []*CombatantInfo
}

type vm struct {
	mu     sync.Mutex
	key    string
	L      *lua.LState
	limit  int
	lookup Lookup
}

// Manager owns one sandboxed VM per key and dispatches hook calls.
//
// Calls into the same VM are serialized; different VMs run concurrently.
type Manager struct {
	mu     sync.RWMutex
	vms    map[string]*vm
	roller *dice.Roller
	logger *zap.Logger
}

// NewManager creates a Manager.
//
// Precondition: roller must not be nil.
// Postcondition: Returns a Manager with no VMs.
func NewManager(roller *dice.Roller, logger *zap.Logger) *Manager {
	if roller == nil {
		panic("scripting: NewManager: roller must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{vms: make(map[string]*vm), roller: roller, logger: logger}
}

// LoadZone creates a VM under key and runs every *.lua file in scriptDir in
// lexicographic order. An existing VM under key is replaced.
//
// Precondition: key must be non-empty.
func (m *Manager) LoadZone(key, scriptDir string, instLimit int) error {
	if key == "" {
		panic("scripting: LoadZone: key must not be empty")
	}
	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		return fmt.Errorf("scripting: reading script dir %q for %q: %w", scriptDir, key, err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			files = append(files, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(files)
	return m.load(key, instLimit, func(L *lua.LState) error {
		for _, path := range files {
			cancel := ResetBudget(L, instLimit)
			err := L.DoFile(path)
			cancel()
			if err != nil {
				return fmt.Errorf("scripting: loading %q for %q: %w", path, key, err)
			}
		}
		return nil
	})
}

// LoadGlobal loads scriptDir into the shared fallback VM.
func (m *Manager) LoadGlobal(scriptDir string, instLimit int) error {
	return m.LoadZone(globalKey, scriptDir, instLimit)
}

// LoadString creates a VM under key from a single Lua chunk.
func (m *Manager) LoadString(key, src string, instLimit int) error {
	if key == "" {
		panic("scripting: LoadString: key must not be empty")
	}
	return m.load(key, instLimit, func(L *lua.LState) error {
		cancel := ResetBudget(L, instLimit)
		defer cancel()
		if err := L.DoString(src); err != nil {
			return fmt.Errorf("scripting: loading chunk for %q: %w", key, err)
		}
		return nil
	})
}

func (m *Manager) load(key string, instLimit int, run func(*lua.LState) error) error {
	L, cancel := NewSandboxedState(instLimit)
	cancel()
	v := &vm{key: key, L: L, limit: instLimit}
	m.registerModules(v)
	if err := run(L); err != nil {
		L.Close()
		return err
	}

	m.mu.Lock()
	old := m.vms[key]
	m.vms[key] = v
	m.mu.Unlock()
	if old != nil {
		old.mu.Lock()
		old.L.Close()
		old.mu.Unlock()
	}
	m.logger.Debug("scripting: vm loaded", zap.String("key", key))
	return nil
}

// Keys returns the registered VM keys in sorted order.
func (m *Manager) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.vms))
	for k := range m.vms {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Close shuts down every VM.
func (m *Manager) Close() {
	m.mu.Lock()
	vms := m.vms
	m.vms = make(map[string]*vm)
	m.mu.Unlock()
	for _, v := range vms {
		v.mu.Lock()
		v.L.Close()
		v.mu.Unlock()
	}
}

// CallHook calls CallHookWith without a Lookup; engine.combatant and
// engine.opponents then return nil.
func (m *Manager) CallHook(key, hook string, args ...lua.LValue) (lua.LValue, error) {
	return m.CallHookWith(nil, key, hook, args...)
}

// CallHookWith calls the Lua global function hook in key's VM, falling back to
// the global VM. Each call gets a fresh instruction budget. Lua runtime errors
// and budget exhaustion are logged at Warn and never propagated.
//
// Postcondition: Returns the hook's first return value, or LNil when the hook
// or VM does not exist or the call failed.
func (m *Manager) CallHookWith(lookup Lookup, key, hook string, args ...lua.LValue) (lua.LValue, error) {
	m.mu.RLock()
	v, ok := m.vms[key]
	if !ok {
		v = m.vms[globalKey]
	}
	m.mu.RUnlock()

	if v == nil {
		m.logger.Debug("scripting: no VM for key",
			zap.String("key", key),
			zap.String("hook", hook),
		)
		return lua.LNil, nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	fn := v.L.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil, nil
	}

	v.lookup = lookup
	defer func() { v.lookup = nil }()
	cancel := ResetBudget(v.L, v.limit)
	defer cancel()

	if err := v.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args...); err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("key", key),
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, nil
	}
	ret := v.L.Get(-1)
	v.L.Pop(1)
	return ret, nil
}
