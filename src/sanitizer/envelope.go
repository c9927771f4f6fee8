package sanitizer

import (
	"context"

	"github.com/segmentio/encoding/json"
)

// EnvelopeSanitizer unwraps an accidental schema-shaped envelope: an object
// whose only meaningful keys are a type discriminator and a properties map.
// Backends shown a JSON schema sometimes echo the schema skeleton with the
// actual data nested under "properties".
type EnvelopeSanitizer struct{}

func (EnvelopeSanitizer) Name() string { return "envelope" }

func (EnvelopeSanitizer) Sanitize(_ context.Context, content string) (Result, error) {
	var v any
	if err := json.Unmarshal([]byte(content), &v); err != nil {
		// Not parseable yet; later stages may still get it there.
		return unchanged(content), nil
	}

	inner, ok := UnwrapEnvelope(v)
	if !ok {
		return unchanged(content), nil
	}

	out, err := json.Marshal(inner)
	if err != nil {
		return unchanged(content), nil
	}
	return changed(string(out), "unwrapped schema-shaped envelope"), nil
}

// envelopeKeys are the keys a schema-shaped envelope may carry besides the
// properties payload.
var envelopeKeys = map[string]bool{
	"type":                 true,
	"properties":           true,
	"required":             true,
	"additionalProperties": true,
	"$schema":              true,
	"title":                true,
	"description":          true,
}

// UnwrapEnvelope returns the value under "properties" when v is a
// schema-shaped envelope, so callers holding an already-parsed value can
// apply the same transform the pipeline stage does.
func UnwrapEnvelope(v any) (any, bool) {
	obj, ok := v.(map[string]any)
	if !ok {
		return v, false
	}

	props, ok := obj["properties"].(map[string]any)
	if !ok || len(props) == 0 {
		return v, false
	}
	if t, ok := obj["type"].(string); !ok || t != "object" {
		return v, false
	}
	for k := range obj {
		if !envelopeKeys[k] {
			return v, false
		}
	}
	return props, true
}
