package sanitizer

import (
	"context"
	"testing"
)

func TestTrailingCommaSanitizer(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		changed bool
	}{
		{
			name:    "object trailing comma",
			input:   `{"a": 1,}`,
			want:    `{"a": 1}`,
			changed: true,
		},
		{
			name:    "array trailing comma with space",
			input:   `[1, 2, ]`,
			want:    `[1, 2 ]`,
			changed: true,
		},
		{
			name:    "trailing comma before newline",
			input:   "{\"a\": 1,\n}",
			want:    "{\"a\": 1\n}",
			changed: true,
		},
		{
			name:    "nested trailing commas",
			input:   `{"a": [1,],}`,
			want:    `{"a": [1]}`,
			changed: true,
		},
		{
			name:  "separator commas untouched",
			input: `{"a": 1, "b": 2}`,
		},
		{
			name:  "comma inside string untouched",
			input: `{"a": ",}"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := TrailingCommaSanitizer{}.Sanitize(context.Background(), tt.input)
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
