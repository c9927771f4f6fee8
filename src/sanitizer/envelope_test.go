package sanitizer

import (
	"context"
	"testing"

	"github.com/segmentio/encoding/json"
)

func TestEnvelopeSanitizer(t *testing.T) {
	res, err := EnvelopeSanitizer{}.Sanitize(context.Background(),
		`{"type": "object", "properties": {"name": "Acme"}, "required": ["name"]}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Changed {
		t.Fatal("expected envelope to be unwrapped")
	}

	var got map[string]any
	if err := json.Unmarshal([]byte(res.Content), &got); err != nil {
		t.Fatalf("result does not parse: %v", err)
	}
	if got["name"] != "Acme" {
		t.Errorf(`got["name"] = %v, want "Acme"`, got["name"])
	}
}

func TestEnvelopeSanitizer_Untouched(t *testing.T) {
	inputs := []string{
		// A data object that legitimately has a properties key plus others.
		`{"type": "object", "properties": {"x": 1}, "count": 2}`,
		// Empty properties carries no payload.
		`{"type": "object", "properties": {}}`,
		// Wrong type discriminator.
		`{"type": "array", "properties": {"x": 1}}`,
		// Not yet parseable.
		`{"type": "object", "properties": {`,
		`{"plain": "object"}`,
	}

	for _, in := range inputs {
		res, err := EnvelopeSanitizer{}.Sanitize(context.Background(), in)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", in, err)
		}
		if res.Changed {
			t.Errorf("%q: changed = true, want false", in)
		}
	}
}

func TestUnwrapEnvelope(t *testing.T) {
	v := map[string]any{
		"$schema":    "https://json-schema.org/draft/2020-12/schema",
		"type":       "object",
		"properties": map[string]any{"a": float64(1)},
	}

	inner, ok := UnwrapEnvelope(v)
	if !ok {
		t.Fatal("expected unwrap")
	}
	obj, ok := inner.(map[string]any)
	if !ok || obj["a"] != float64(1) {
		t.Errorf("inner = %v, want properties map", inner)
	}

	if _, ok := UnwrapEnvelope("not an object"); ok {
		t.Error("non-object should not unwrap")
	}
}
