// Package tools registers named, schema-validated operations that agents
// expose as skills and that LLM clients can discover as function tools.
package tools

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	openai "github.com/sashabaranov/go-openai"
	"github.com/xeipuuv/gojsonschema"
)

// ErrUnknownTool is returned by Call for names that were never registered.
var ErrUnknownTool = errors.New("unknown tool")

// Param describes one tool argument.
type Param struct {
	Name        string `json:"name"`
	Type        string `json:"type"` // JSON schema type
	Description string `json:"description"`
	Required    bool   `json:"required"`

	// Lenient params are advertised with Type and Required but not checked;
	// the handler accepts any value, including none.
	Lenient bool `json:"lenient,omitempty"`
}

// Handler runs a tool. A string result is plain text; anything else is
// structured data.
type Handler func(ctx context.Context, args map[string]any) (any, error)

// Tool is a named operation with typed parameters.
type Tool struct {
	Name        string
	Description string
	Params      []Param
	Handler     Handler
}

// ArgsError reports arguments that do not satisfy a tool's schema.
type ArgsError struct {
	Tool     string
	Problems []string
}

func (e *ArgsError) Error() string {
	return fmt.Sprintf("invalid arguments for %s: %s", e.Tool, strings.Join(e.Problems, "; "))
}

type entry struct {
	tool     Tool
	schema   map[string]any // advertised
	compiled *gojsonschema.Schema
}

// Registry holds tools by name. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]*entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]*entry)}
}

// Register adds t. Names must be unique and handlers non-nil.
func (r *Registry) Register(t Tool) error {
	if t.Name == "" {
		return errors.New("register tool: empty name")
	}
	if t.Handler == nil {
		return fmt.Errorf("register tool %s: nil handler", t.Name)
	}

	schema := buildSchema(t.Params, false)
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(buildSchema(t.Params, true)))
	if err != nil {
		return fmt.Errorf("compile schema for %s: %w", t.Name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[t.Name]; exists {
		return fmt.Errorf("register tool %s: already registered", t.Name)
	}
	r.tools[t.Name] = &entry{tool: t, schema: schema, compiled: compiled}
	return nil
}

// buildSchema generates the object schema for params. The enforced form
// drops type and required constraints from lenient params.
func buildSchema(params []Param, enforced bool) map[string]any {
	props := make(map[string]any, len(params))
	required := []string{}
	for _, p := range params {
		if enforced && p.Lenient {
			props[p.Name] = map[string]any{"description": p.Description}
			continue
		}
		props[p.Name] = map[string]any{
			"type":        p.Type,
			"description": p.Description,
		}
		if p.Required {
			required = append(required, p.Name)
		}
	}
	schema := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// Get returns the tool registered under name.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.tools[name]
	if !ok {
		return Tool{}, false
	}
	return e.tool, true
}

// Tools returns all tools sorted by name.
func (r *Registry) Tools() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Tool, 0, len(r.tools))
	for _, e := range r.tools {
		out = append(out, e.tool)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Schema returns the JSON schema generated for name's parameters.
func (r *Registry) Schema(name string) (map[string]any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.tools[name]
	if !ok {
		return nil, false
	}
	return e.schema, true
}

// Call validates args and runs the named tool.
func (r *Registry) Call(ctx context.Context, name string, args map[string]any) (any, error) {
	r.mu.RLock()
	e, ok := r.tools[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}

	if args == nil {
		args = map[string]any{}
	}
	result, err := e.compiled.Validate(gojsonschema.NewGoLoader(args))
	if err != nil {
		return nil, fmt.Errorf("validate arguments for %s: %w", name, err)
	}
	if !result.Valid() {
		argsErr := &ArgsError{Tool: name}
		for _, re := range result.Errors() {
			argsErr.Problems = append(argsErr.Problems, re.String())
		}
		return nil, argsErr
	}

	return e.tool.Handler(ctx, args)
}

// OpenAITools exports every tool as an OpenAI function definition.
func (r *Registry) OpenAITools() []openai.Tool {
	list := r.Tools()
	out := make([]openai.Tool, len(list))
	for i, t := range list {
		schema, _ := r.Schema(t.Name)
		out[i] = openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  schema,
			},
		}
	}
	return out
}

// String returns args[name] when it is a string, or "".
func String(args map[string]any, name string) string {
	s, _ := args[name].(string)
	return s
}
