package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// UnknownToolError reports a call to a name the registry does not hold.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool %q", e.Name)
}

// ValidationError reports arguments that do not match the tool's schema.
type ValidationError struct {
	Tool     string
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("tool %s: invalid arguments: %s", e.Tool, strings.Join(e.Problems, "; "))
}

// ExecError wraps a failure raised by a tool implementation.
type ExecError struct {
	Tool string
	Err  error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("tool %s: %v", e.Tool, e.Err)
}

func (e *ExecError) Unwrap() error { return e.Err }

// Registry maps tool names to definitions. It is immutable after NewRegistry
// and safe for concurrent use.
type Registry struct {
	defs   []ToolDefinition
	byName map[string]int
}

func NewRegistry(defs ...ToolDefinition) (*Registry, error) {
	r := &Registry{byName: make(map[string]int, len(defs))}
	for _, d := range defs {
		if d.Name == "" {
			return nil, fmt.Errorf("tools: definition with empty name")
		}
		if d.Function == nil {
			return nil, fmt.Errorf("tools: %s has no function", d.Name)
		}
		if _, dup := r.byName[d.Name]; dup {
			return nil, fmt.Errorf("tools: duplicate tool name %q", d.Name)
		}
		r.byName[d.Name] = len(r.defs)
		r.defs = append(r.defs, d)
	}
	return r, nil
}

// Definitions returns the tools in registration order.
func (r *Registry) Definitions() []ToolDefinition {
	out := make([]ToolDefinition, len(r.defs))
	copy(out, r.defs)
	return out
}

func (r *Registry) Lookup(name string) (ToolDefinition, error) {
	i, ok := r.byName[name]
	if !ok {
		return ToolDefinition{}, &UnknownToolError{Name: name}
	}
	return r.defs[i], nil
}

// Validate resolves name and checks args against its schema.
func (r *Registry) Validate(name string, args json.RawMessage) error {
	def, err := r.Lookup(name)
	if err != nil {
		return err
	}
	if problems := def.InputSchema.Validate(args); len(problems) > 0 {
		return &ValidationError{Tool: name, Problems: problems}
	}
	return nil
}

// Dispatch validates and runs one tool call, returning its JSON output.
func (r *Registry) Dispatch(ctx context.Context, name string, args json.RawMessage) (string, error) {
	if err := r.Validate(name, args); err != nil {
		return "", err
	}
	def, _ := r.Lookup(name)
	out, err := def.Function(ctx, args)
	if err != nil {
		return "", &ExecError{Tool: name, Err: err}
	}
	return out, nil
}

// Deps are the external services the standard tools need.
type Deps struct {
	Memory     MemoryStore
	Collection string
	Wiki       WikiSummarizer
}

// Default returns the standard chat tools. searchMemory is left out when
// d.Memory is nil and getWikipediaSummary when d.Wiki is nil.
func Default(d Deps) (*Registry, error) {
	defs := []ToolDefinition{ProductDetailsDefinition}
	if d.Memory != nil {
		defs = append(defs, NewMemorySearchDefinition(d.Memory, d.Collection))
	}
	if d.Wiki != nil {
		defs = append(defs, NewWikipediaSummaryDefinition(d.Wiki))
	}
	return NewRegistry(defs...)
}
