package sanitizer

import (
	"context"
	"testing"
)

func TestConcatSanitizer(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		changed bool
	}{
		{
			name:    "identifier plus literal",
			input:   `{"path": BASE + "/x.ts"}`,
			want:    `{"path": "/x.ts"}`,
			changed: true,
		},
		{
			name:    "longest literal wins",
			input:   `{"a": "x" + "longer"}`,
			want:    `{"a": "longer"}`,
			changed: true,
		},
		{
			name:    "tie goes to the first literal",
			input:   `{"a": "ab" + "cd"}`,
			want:    `{"a": "ab"}`,
			changed: true,
		},
		{
			name:    "chain of three operands",
			input:   `{"a": "x" + SEP + "yz"}`,
			want:    `{"a": "yz"}`,
			changed: true,
		},
		{
			name:    "no literal collapses to empty string",
			input:   `{"a": FOO + BAR}`,
			want:    `{"a": ""}`,
			changed: true,
		},
		{
			name:    "dotted identifiers",
			input:   `{"a": path.Sep + "etc"}`,
			want:    `{"a": "etc"}`,
			changed: true,
		},
		{
			name:  "plus inside string untouched",
			input: `{"sum": "1 + 2"}`,
		},
		{
			name:  "plain JSON untouched",
			input: `{"a": "x", "b": "y"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := NewConcatSanitizer(DefaultConcatPasses).Sanitize(context.Background(), tt.input)
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

func TestConcatSanitizer_PassBound(t *testing.T) {
	s := NewConcatSanitizer(0)
	if s.MaxPasses != DefaultConcatPasses {
		t.Errorf("MaxPasses = %d, want %d", s.MaxPasses, DefaultConcatPasses)
	}
}
