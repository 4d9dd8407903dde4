package scripting_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/turnbattle/internal/game/dice"
	"github.com/cory-johannsen/turnbattle/internal/scripting"
)

type stubLookup map[string]*scripting.CombatantInfo

func (s stubLookup) Combatant(uid string) *scripting.CombatantInfo { return s[uid] }

func (s stubLookup) Opponents(uid string) []*scripting.CombatantInfo {
	var out []*scripting.CombatantInfo
	self := s[uid]
	for _, id := range []string{"hero", "mage", "orc"} {
		if c, ok := s[id]; ok && self != nil && c.Side != self.Side {
			out = append(out, c)
		}
	}
	return out
}

var party = stubLookup{
	"hero": {UID: "hero", Name: "Hero", Side: "player", HP: 30, MaxHP: 120, Conditions: []string{"poison"}},
	"mage": {UID: "mage", Name: "Mage", Side: "player", HP: 40, MaxHP: 40, MP: 12, MaxMP: 20},
	"orc":  {UID: "orc", Name: "Orc", Side: "enemy", HP: 50, MaxHP: 50, Defending: true},
}

func TestEngineLog_AllLevels(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)
	mgr := scripting.NewManager(dice.NewLoggedRoller(dice.NewSeededSource(1), logger), logger)
	require.NoError(t, mgr.LoadString("z", `
		function do_all_logs()
			engine.log.debug("d")
			engine.log.info("i")
			engine.log.warn("w")
			engine.log.error("e")
		end
	`, 0))
	_, err := mgr.CallHook("z", "do_all_logs")
	require.NoError(t, err)

	for _, msg := range []string{"d", "i", "w", "e"} {
		entries := logs.FilterMessage(msg).All()
		require.Len(t, entries, 1, msg)
		assert.Equal(t, "z", entries[0].ContextMap()["script"])
	}
}

func TestEngineRoll(t *testing.T) {
	mgr, _ := newTestManager(t)
	require.NoError(t, mgr.LoadString("z", `
		function roll(expr)
			local total, err = engine.roll(expr)
			if total == nil then return err end
			return total
		end
	`, 0))

	ret, _ := mgr.CallHook("z", "roll", lua.LString("2d6+3"))
	total, ok := ret.(lua.LNumber)
	require.True(t, ok)
	assert.GreaterOrEqual(t, int(total), 5)
	assert.LessOrEqual(t, int(total), 15)

	ret, _ = mgr.CallHook("z", "roll", lua.LString("banana"))
	msg, isStr := ret.(lua.LString)
	require.True(t, isStr)
	assert.NotEmpty(t, string(msg))
}

func TestProperty_EngineRollWithinBounds(t *testing.T) {
	mgr, _ := newTestManager(t)
	require.NoError(t, mgr.LoadString("z", `function roll(e) return engine.roll(e) end`, 0))
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 6).Draw(rt, "count")
		sides := rapid.IntRange(2, 12).Draw(rt, "sides")
		expr := lua.LString(fmt.Sprintf("%dd%d", n, sides))
		ret, _ := mgr.CallHook("z", "roll", expr)
		total := int(ret.(lua.LNumber))
		if total < n || total > n*sides {
			rt.Fatalf("%s rolled %d", expr, total)
		}
	})
}

func TestEngineCombatant(t *testing.T) {
	mgr, _ := newTestManager(t)
	require.NoError(t, mgr.LoadString("z", `
		function wounded(uid)
			local c = engine.combatant(uid)
			if c == nil then return "unknown" end
			return c.hp_pct < 50
		end
		function poisoned(uid)
			local c = engine.combatant(uid)
			for _, id in ipairs(c.conditions) do
				if id == "poison" then return true end
			end
			return false
		end
		function guarded_opponents(uid)
			local n = 0
			for _, o in ipairs(engine.opponents(uid)) do
				if o.defending then n = n + 1 end
			end
			return n
		end
	`, 0))

	ret, _ := mgr.CallHookWith(party, "z", "wounded", lua.LString("hero"))
	assert.Equal(t, lua.LTrue, ret)
	ret, _ = mgr.CallHookWith(party, "z", "wounded", lua.LString("orc"))
	assert.Equal(t, lua.LFalse, ret)
	ret, _ = mgr.CallHookWith(party, "z", "poisoned", lua.LString("hero"))
	assert.Equal(t, lua.LTrue, ret)
	ret, _ = mgr.CallHookWith(party, "z", "guarded_opponents", lua.LString("mage"))
	assert.Equal(t, lua.LNumber(1), ret)
	ret, _ = mgr.CallHookWith(party, "z", "guarded_opponents", lua.LString("orc"))
	assert.Equal(t, lua.LNumber(0), ret)

	ret, _ = mgr.CallHook("z", "wounded", lua.LString("hero"))
	assert.Equal(t, lua.LString("unknown"), ret, "no lookup outside a planning call")
}
