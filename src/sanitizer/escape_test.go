package sanitizer

import (
	"context"
	"testing"
)

func TestEscapeSanitizer(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		changed bool
	}{
		{
			name:    "over-escaped quote reduced",
			input:   `{"a": "x\\\"y"}`,
			want:    `{"a": "x\"y"}`,
			changed: true,
		},
		{
			name:    "invalid escape letter dropped",
			input:   `{"a": "x\qy"}`,
			want:    `{"a": "xqy"}`,
			changed: true,
		},
		{
			name:    "malformed unicode escape dropped",
			input:   `{"a": "x\uZZ99"}`,
			want:    `{"a": "xuZZ99"}`,
			changed: true,
		},
		{
			name:    "raw newline in string escaped",
			input:   "{\"a\": \"x\ny\"}",
			want:    `{"a": "x\ny"}`,
			changed: true,
		},
		{
			name:    "raw tab in string escaped",
			input:   "{\"a\": \"x\ty\"}",
			want:    `{"a": "x\ty"}`,
			changed: true,
		},
		{
			name:  "valid escapes untouched",
			input: `{"a": "line\nbreak \"quoted\" back\\slash"}`,
		},
		{
			name:  "valid unicode escape untouched",
			input: `{"a": "café"}`,
		},
		{
			name:  "escaped backslash pair before quote untouched",
			input: `{"a": "dir\\"}`,
		},
		{
			name:  "structure outside strings untouched",
			input: "{\n\t\"a\": 1\n}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := EscapeSanitizer{}.Sanitize(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Changed != tt.changed {
				t.Errorf("changed = %v, want %v", res.Changed, tt.changed)
			}
			want := tt.want
			if !tt.changed {
				want = tt.input
			}
			if res.Content != want {
				t.Errorf("content = %q, want %q", res.Content, want)
			}
		})
	}
}
