package tools

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/tidwall/gjson"
)

// Validate checks input against the schema and returns every problem found.
func (s InputSchema) Validate(input json.RawMessage) []string {
	if len(bytes.TrimSpace(input)) == 0 {
		input = json.RawMessage("{}")
	}
	if !gjson.ValidBytes(input) {
		return []string{"arguments are not valid JSON"}
	}
	args := gjson.ParseBytes(input)
	if !args.IsObject() {
		return []string{"arguments must be a JSON object"}
	}

	var problems []string
	present := map[string]bool{}
	args.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		present[name] = true
		if s.Properties == nil {
			problems = append(problems, fmt.Sprintf("unknown field %q", name))
			return true
		}
		p, ok := s.Properties.Get(name)
		if !ok {
			problems = append(problems, fmt.Sprintf("unknown field %q", name))
			return true
		}
		if value.Type == gjson.Null && !slices.Contains(s.Required, name) {
			return true
		}
		if p != nil && !matchesType(value, p.Type) {
			problems = append(problems, fmt.Sprintf("field %q: expected %s, got %s", name, p.Type, jsonType(value)))
		}
		return true
	})
	for _, name := range s.Required {
		if !present[name] {
			problems = append(problems, fmt.Sprintf("missing required field %q", name))
		}
	}
	return problems
}

func matchesType(v gjson.Result, typ string) bool {
	switch typ {
	case "":
		return true
	case "string":
		return v.Type == gjson.String
	case "number":
		return v.Type == gjson.Number
	case "integer":
		// 2.0 and 1e3 are numbers but do not decode into an int field
		return v.Type == gjson.Number && !strings.ContainsAny(v.Raw, ".eE") &&
			v.Num >= math.MinInt64 && v.Num < math.MaxInt64
	case "boolean":
		return v.Type == gjson.True || v.Type == gjson.False
	case "array":
		return v.IsArray()
	case "object":
		return v.IsObject()
	case "null":
		return v.Type == gjson.Null
	}
	return false
}

func jsonType(v gjson.Result) string {
	switch {
	case v.Type == gjson.String:
		return "string"
	case v.Type == gjson.Number:
		return "number"
	case v.Type == gjson.True, v.Type == gjson.False:
		return "boolean"
	case v.IsArray():
		return "array"
	case v.IsObject():
		return "object"
	}
	return "null"
}
