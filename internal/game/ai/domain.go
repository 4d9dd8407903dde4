// Package ai chooses enemy actions with a Hierarchical Task Network (HTN)
// planner.
//
// HTN planning decomposes abstract tasks into primitive operators via ordered
// methods. Method preconditions are evaluated as Lua hooks; operators map to
// battle actions.
package ai

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// RootTask is the task every plan starts from.
const RootTask = "behave"

// Operator actions.
const (
	ActionAttack = "attack"
	ActionSkill  = "skill"
	ActionDefend = "defend"
	ActionPass   = "pass"
)

// ErrInvalidDomain is returned when a domain fails validation.
var ErrInvalidDomain = errors.New("invalid AI domain")

// Task is an abstract goal that can be decomposed by methods.
//
// Precondition: ID must be non-empty.
type Task struct {
	ID          string `yaml:"id"`
	Description string `yaml:"description"`
}

// Method decomposes a task into an ordered list of subtasks or operator IDs.
//
// Precondition: TaskID, ID, and Subtasks must be non-empty.
// Precondition: Precondition is a Lua function name; empty means always applicable.
type Method struct {
	TaskID       string   `yaml:"task"`
	ID           string   `yaml:"id"`
	Precondition string   `yaml:"precondition"`
	Subtasks     []string `yaml:"subtasks"`
}

// Operator is a primitive step that maps to one battle action.
//
// Target is a token understood by WorldState.ResolveTarget or a literal
// combatant ID. Skill names the skill for ActionSkill operators.
type Operator struct {
	ID     string `yaml:"id"`
	Action string `yaml:"action"`
	Target string `yaml:"target"`
	Skill  string `yaml:"skill"`
}

// Domain holds one HTN domain loaded from YAML.
//
// Invariant: all Task, Method, and Operator IDs are unique within their slice.
type Domain struct {
	ID          string      `yaml:"id"`
	Description string      `yaml:"description"`
	Tasks       []*Task     `yaml:"tasks"`
	Methods     []*Method   `yaml:"methods"`
	Operators   []*Operator `yaml:"operators"`
}

// Validate checks required fields and cross references.
//
// Postcondition: nil return guarantees a RootTask exists, IDs are unique and
// non-empty, every operator action is known, skill operators name a skill,
// and every method subtask names a task or an operator.
func (d *Domain) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("%w: ID must not be empty", ErrInvalidDomain)
	}

	taskIDs := make(map[string]struct{}, len(d.Tasks))
	for _, t := range d.Tasks {
		if t.ID == "" {
			return fmt.Errorf("%w %q: task has empty ID", ErrInvalidDomain, d.ID)
		}
		if _, dup := taskIDs[t.ID]; dup {
			return fmt.Errorf("%w %q: duplicate task ID %q", ErrInvalidDomain, d.ID, t.ID)
		}
		taskIDs[t.ID] = struct{}{}
	}
	if _, ok := taskIDs[RootTask]; !ok {
		return fmt.Errorf("%w %q: missing root task %q", ErrInvalidDomain, d.ID, RootTask)
	}

	operatorIDs := make(map[string]struct{}, len(d.Operators))
	for _, op := range d.Operators {
		if op.ID == "" {
			return fmt.Errorf("%w %q: operator has empty ID", ErrInvalidDomain, d.ID)
		}
		if _, dup := operatorIDs[op.ID]; dup {
			return fmt.Errorf("%w %q: duplicate operator ID %q", ErrInvalidDomain, d.ID, op.ID)
		}
		operatorIDs[op.ID] = struct{}{}
		switch op.Action {
		case ActionAttack, ActionDefend, ActionPass:
		case ActionSkill:
			if op.Skill == "" {
				return fmt.Errorf("%w %q operator %q: skill action needs a skill", ErrInvalidDomain, d.ID, op.ID)
			}
		default:
			return fmt.Errorf("%w %q operator %q: unknown action %q", ErrInvalidDomain, d.ID, op.ID, op.Action)
		}
	}

	methodIDs := make(map[string]struct{}, len(d.Methods))
	for _, m := range d.Methods {
		if m.TaskID == "" || m.ID == "" {
			return fmt.Errorf("%w %q: method missing task or ID", ErrInvalidDomain, d.ID)
		}
		if _, dup := methodIDs[m.ID]; dup {
			return fmt.Errorf("%w %q: duplicate method ID %q", ErrInvalidDomain, d.ID, m.ID)
		}
		methodIDs[m.ID] = struct{}{}
		if _, ok := taskIDs[m.TaskID]; !ok {
			return fmt.Errorf("%w %q method %q: unknown task %q", ErrInvalidDomain, d.ID, m.ID, m.TaskID)
		}
		if len(m.Subtasks) == 0 {
			return fmt.Errorf("%w %q method %q: subtasks must not be empty", ErrInvalidDomain, d.ID, m.ID)
		}
		for _, sub := range m.Subtasks {
			_, isTask := taskIDs[sub]
			_, isOp := operatorIDs[sub]
			if !isTask && !isOp {
				return fmt.Errorf("%w %q method %q: subtask %q is neither a task nor an operator", ErrInvalidDomain, d.ID, m.ID, sub)
			}
		}
	}
	return nil
}

// OperatorByID returns the operator with the given ID, or false if not found.
func (d *Domain) OperatorByID(id string) (*Operator, bool) {
	for _, op := range d.Operators {
		if op.ID == id {
			return op, true
		}
	}
	return nil, false
}

// MethodsForTask returns all methods that decompose taskID, in declaration order.
func (d *Domain) MethodsForTask(taskID string) []*Method {
	var out []*Method
	for _, m := range d.Methods {
		if m.TaskID == taskID {
			out = append(out, m)
		}
	}
	return out
}

type domainFile struct {
	Domain *Domain `yaml:"domain"`
}

// LoadDomains reads all *.yaml files from dir and returns the parsed domains.
//
// Precondition: dir must be a readable directory.
// Postcondition: returns an error naming the file if any fails to parse or validate.
func LoadDomains(dir string) ([]*Domain, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading AI domain dir %q: %w", dir, err)
	}
	var domains []*Domain
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var f domainFile
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if f.Domain == nil {
			return nil, fmt.Errorf("parsing %q: missing top-level 'domain' key", path)
		}
		if err := f.Domain.Validate(); err != nil {
			return nil, fmt.Errorf("validating %q: %w", path, err)
		}
		domains = append(domains, f.Domain)
	}
	return domains, nil
}
