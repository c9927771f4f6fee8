// Package validate checks parsed values against an expected JSON schema,
// or, for free-text responses, against a plausible generated-content shape.
// Data-shape mismatches are reported as issue lists, never panics; only
// host-contract violations surface as errors.
package validate

import (
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

// Issue is one structured validation finding.
type Issue struct {
	Path    string
	Message string
}

func (i Issue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// Result carries either the validated value or a list of issues, never both.
type Result struct {
	Value  any
	Issues []Issue
}

// OK reports whether validation passed.
func (r Result) OK() bool { return len(r.Issues) == 0 }

// Structured validates value against schema. Shallow required-property and
// type checks run first so common failures produce one issue per field
// path; the resolved schema's full validation acts as the backstop. A
// schema that cannot be resolved is an exceptional condition and returns
// an error rather than issues.
func Structured(value any, schema *jsonschema.Schema) (Result, error) {
	if schema == nil {
		return Result{Value: value}, nil
	}

	issues := shallowIssues(value, schema)
	if len(issues) > 0 {
		return Result{Issues: issues}, nil
	}

	resolved, err := schema.Resolve(nil)
	if err != nil {
		return Result{}, fmt.Errorf("resolving schema: %w", err)
	}
	if err := resolved.Validate(value); err != nil {
		return Result{Issues: []Issue{{Message: err.Error()}}}, nil
	}
	return Result{Value: value}, nil
}

// FreeText confirms value is a plausible generated-content shape: a string,
// array, object, or null. Anything else (a bare number, a boolean) is not
// something a text response should have produced.
func FreeText(value any) Result {
	switch value.(type) {
	case string, []any, map[string]any, nil:
		return Result{Value: value}
	default:
		return Result{Issues: []Issue{{
			Message: fmt.Sprintf("unexpected content shape %T, want text or structured content", value),
		}}}
	}
}

// shallowIssues performs one level of required/type checking against an
// object schema, yielding per-path findings.
func shallowIssues(value any, schema *jsonschema.Schema) []Issue {
	if schema.Type != "object" || schema.Properties == nil {
		return nil
	}
	obj, ok := value.(map[string]any)
	if !ok {
		return []Issue{{Message: fmt.Sprintf("expected an object, got %s", jsonTypeName(value))}}
	}

	var issues []Issue
	for _, req := range schema.Required {
		if _, present := obj[req]; !present {
			issues = append(issues, Issue{Path: req, Message: "missing required property"})
		}
	}
	for name, prop := range schema.Properties {
		v, present := obj[name]
		if !present || prop == nil || prop.Type == "" {
			continue
		}
		if got := jsonTypeName(v); !typeMatches(prop.Type, got, v) {
			issues = append(issues, Issue{
				Path:    name,
				Message: fmt.Sprintf("expected %s, got %s", prop.Type, got),
			})
		}
	}
	return issues
}

func jsonTypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case float64, int, int64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func typeMatches(want, got string, v any) bool {
	if want == got {
		return true
	}
	if want == "integer" && got == "number" {
		f, ok := v.(float64)
		return ok && f == float64(int64(f))
	}
	return false
}
