// Package tools defines the data-access tools the agent can invoke and a
// registry keyed by tool name.
package tools

import (
	"context"
	"sort"
)

// Tool is a single agent-callable capability. Call takes the raw Action
// Input string and returns observation text; implementations absorb their
// own failures into that text and reserve the error return for programming
// mistakes, never data conditions.
type Tool interface {
	Name() string
	Description() string
	Call(ctx context.Context, input string) (string, error)
}

// Registry holds the tool set exposed to the agent.
type Registry struct {
	tools map[string]Tool
	order []string
}

func NewRegistry(toolList ...Tool) *Registry {
	r := &Registry{tools: make(map[string]Tool)}
	for _, t := range toolList {
		r.Register(t)
	}
	return r
}

func (r *Registry) Register(t Tool) {
	if _, exists := r.tools[t.Name()]; !exists {
		r.order = append(r.order, t.Name())
	}
	r.tools[t.Name()] = t
}

// Lookup returns the tool registered under name.
func (r *Registry) Lookup(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Names returns tool names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// All returns the registered tools in registration order.
func (r *Registry) All() []Tool {
	all := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		all = append(all, r.tools[name])
	}
	return all
}

// SortedNames returns tool names alphabetically, for stable log output.
func (r *Registry) SortedNames() []string {
	names := r.Names()
	sort.Strings(names)
	return names
}
