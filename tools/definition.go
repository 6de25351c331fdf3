package tools

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/invopop/jsonschema"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ToolDefinition is everything a model needs to call a tool, plus the handler.
type ToolDefinition struct {
	Name        string
	Description string
	InputSchema InputSchema
	Function    func(ctx context.Context, input json.RawMessage) (string, error)
}

// InputSchema is the object schema of a tool's arguments.
// Properties keep struct field order.
type InputSchema struct {
	Properties *orderedmap.OrderedMap[string, *jsonschema.Schema]
	Required   []string
}

// Map renders the schema as a JSON Schema object for providers that take raw maps.
func (s InputSchema) Map() map[string]any {
	m := map[string]any{
		"type":                 "object",
		"properties":           s.Properties,
		"additionalProperties": false,
	}
	if s.Properties == nil {
		m["properties"] = map[string]any{}
	}
	if len(s.Required) > 0 {
		m["required"] = s.Required
	}
	return m
}

// GenerateSchema reflects T into an InputSchema. Fields without omitempty are required.
func GenerateSchema[T any]() InputSchema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	schema := reflector.Reflect(v)
	props := schema.Properties
	if props == nil {
		props = orderedmap.New[string, *jsonschema.Schema]()
	}
	return InputSchema{Properties: props, Required: schema.Required}
}

// Define builds a ToolDefinition around a typed handler. The handler's result
// is JSON-encoded as the tool output.
func Define[T any](name, description string, fn func(ctx context.Context, in T) (any, error)) ToolDefinition {
	return ToolDefinition{
		Name:        name,
		Description: description,
		InputSchema: GenerateSchema[T](),
		Function: func(ctx context.Context, input json.RawMessage) (string, error) {
			var in T
			if len(bytes.TrimSpace(input)) > 0 {
				if err := json.Unmarshal(input, &in); err != nil {
					return "", err
				}
			}
			out, err := fn(ctx, in)
			if err != nil {
				return "", err
			}
			b, err := json.Marshal(out)
			if err != nil {
				return "", err
			}
			return string(b), nil
		},
	}
}

// softError is the payload for failures the model should read and recover from.
type softError struct {
	Message string `json:"error"`
}
