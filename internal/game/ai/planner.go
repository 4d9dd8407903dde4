package ai

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/cory-johannsen/turnbattle/internal/scripting"
)

// ScriptCaller evaluates Lua preconditions. *scripting.Manager implements it.
type ScriptCaller interface {
	// CallHookWith calls a named Lua function in key's VM with lookup
	// available to the engine.* modules. Returns (LNil, nil) if undefined.
	CallHookWith(lookup scripting.Lookup, key, hook string, args ...lua.LValue) (lua.LValue, error)
}

// PlannedAction is one primitive step produced by the planner.
type PlannedAction struct {
	Action string
	Target string // resolved combatant UID; empty when the operator names nobody
	Skill  string
}

// maxPlanSteps bounds decomposition of recursive domains.
const maxPlanSteps = 32

// Planner evaluates one HTN domain and produces an ordered plan for the
// acting combatant.
//
// Invariant: domain and caller must not be nil.
type Planner struct {
	domain *Domain
	caller ScriptCaller
	key    string
}

// NewPlanner constructs a Planner whose preconditions run in key's VM.
//
// Precondition: domain and caller must not be nil.
func NewPlanner(domain *Domain, caller ScriptCaller, key string) *Planner {
	if domain == nil {
		panic("ai: NewPlanner: domain must not be nil")
	}
	if caller == nil {
		panic("ai: NewPlanner: caller must not be nil")
	}
	return &Planner{domain: domain, caller: caller, key: key}
}

// Domain returns the planner's domain.
func (p *Planner) Domain() *Domain { return p.domain }

// Plan decomposes RootTask against state.
//
// Precondition: state and state.Self must not be nil.
// Postcondition: returns a non-nil slice (may be empty). Lua failures are
// treated as a false precondition, never as an error.
func (p *Planner) Plan(state *WorldState) ([]PlannedAction, error) {
	if state == nil || state.Self == nil {
		return nil, fmt.Errorf("ai: Plan: state and state.Self must not be nil")
	}

	queue := []string{RootTask}
	result := []PlannedAction{}
	for steps := 0; len(queue) > 0 && steps < maxPlanSteps; steps++ {
		current := queue[0]
		queue = queue[1:]

		if op, ok := p.domain.OperatorByID(current); ok {
			result = append(result, PlannedAction{
				Action: op.Action,
				Target: state.ResolveTarget(op.Target),
				Skill:  op.Skill,
			})
			continue
		}

		method := p.applicableMethod(current, state)
		if method == nil {
			continue
		}
		queue = append(append([]string(nil), method.Subtasks...), queue...)
	}
	return result, nil
}

// applicableMethod returns the first method for taskID whose precondition
// passes, trying methods in declaration order.
func (p *Planner) applicableMethod(taskID string, state *WorldState) *Method {
	for _, m := range p.domain.MethodsForTask(taskID) {
		if m.Precondition == "" {
			return m
		}
		val, _ := p.caller.CallHookWith(state, p.key, m.Precondition, lua.LString(state.Self.UID))
		if val == lua.LTrue {
			return m
		}
	}
	return nil
}
