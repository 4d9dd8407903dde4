package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// registerModules installs the engine table into v's VM:
//
//	engine.log.debug|info|warn|error(msg)
//	engine.roll(expr)        -> total, or nil and an error message
//	engine.combatant(uid)    -> table or nil
//	engine.opponents(uid)    -> array of tables
func (m *Manager) registerModules(v *vm) {
	L := v.L
	engine := L.NewTable()

	logTbl := L.NewTable()
	logger := m.logger.With(zap.String("script", v.key))
	for name, fn := range map[string]func(string, ...zap.Field){
		"debug": logger.Debug,
		"info":  logger.Info,
		"warn":  logger.Warn,
		"error": logger.Error,
	} {
		L.SetField(logTbl, name, L.NewFunction(func(L *lua.LState) int {
			fn(L.CheckString(1))
			return 0
		}))
	}
	L.SetField(engine, "log", logTbl)

	L.SetField(engine, "roll", L.NewFunction(func(L *lua.LState) int {
		res, err := m.roller.RollExpr(L.CheckString(1))
		if err != nil {
			L.Push(lua.LNil)
			L.Push(lua.LString(err.Error()))
			return 2
		}
		L.Push(lua.LNumber(res.Total()))
		return 1
	}))

	L.SetField(engine, "combatant", L.NewFunction(func(L *lua.LState) int {
		uid := L.CheckString(1)
		if v.lookup == nil {
			L.Push(lua.LNil)
			return 1
		}
		info := v.lookup.Combatant(uid)
		if info == nil {
			L.Push(lua.LNil)
			return 1
		}
		L.Push(combatantTable(L, info))
		return 1
	}))

	L.SetField(engine, "opponents", L.NewFunction(func(L *lua.LState) int {
		uid := L.CheckString(1)
		out := L.NewTable()
		if v.lookup != nil {
			for _, info := range v.lookup.Opponents(uid) {
				out.Append(combatantTable(L, info))
			}
		}
		L.Push(out)
		return 1
	}))

	L.SetGlobal("engine", engine)
}

func combatantTable(L *lua.LState, c *CombatantInfo) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("uid", lua.LString(c.UID))
	t.RawSetString("name", lua.LString(c.Name))
	t.RawSetString("side", lua.LString(c.Side))
	t.RawSetString("hp", lua.LNumber(c.HP))
	t.RawSetString("max_hp", lua.LNumber(c.MaxHP))
	t.RawSetString("mp", lua.LNumber(c.MP))
	t.RawSetString("max_mp", lua.LNumber(c.MaxMP))
	pct := 0.0
	if c.MaxHP > 0 {
		pct = float64(c.HP) / float64(c.MaxHP) * 100
	}
	t.RawSetString("hp_pct", lua.LNumber(pct))
	t.RawSetString("defending", lua.LBool(c.Defending))
	conds := L.NewTable()
	for _, id := range c.Conditions {
		conds.Append(lua.LString(id))
	}
	t.RawSetString("conditions", conds)
	return t
}
