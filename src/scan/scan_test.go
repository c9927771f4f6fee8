package scan

import "testing"

func TestInString(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		offset int
		want   bool
	}{
		{"before any string", `{"a": 1}`, 1, false},
		{"inside value string", `{"a": "xy"}`, 8, true},
		{"after closing quote", `{"a": "xy"}`, 10, false},
		{"escaped quote stays inside", `{"a": "x\"y"}`, 10, true},
		{"brace inside string", `{"a": "{"}`, 8, true},
		{"comma quote inside string", `{"a": "\",", "b": 1}`, 9, true},
		{"escaped backslash closes", `{"a": "x\\"}`, 11, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InString(tt.input, tt.offset); got != tt.want {
				t.Errorf("InString(%q, %d) = %v, want %v", tt.input, tt.offset, got, tt.want)
			}
		})
	}
}

func TestState_TrailingBackslash(t *testing.T) {
	// An odd trailing backslash never escapes anything; the state simply
	// records that the next byte would have been escaped.
	var st State
	for i := 0; i < len(`"abc\`); i++ {
		st.Step(`"abc\`[i])
	}
	if !st.InString {
		t.Error("state should still be inside the string")
	}
	if !st.Escaped() {
		t.Error("trailing backslash should leave the escape flag set")
	}
}

func TestFindBalancedSpan(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"bare object", `{"a": 1}`, `{"a": 1}`, true},
		{"prose around object", `Here you go: {"a": 1} hope that helps`, `{"a": 1}`, true},
		{"nested objects", `{"a": {"b": [1, 2]}}`, `{"a": {"b": [1, 2]}}`, true},
		{"array first", `[1, {"a": 2}] trailing`, `[1, {"a": 2}]`, true},
		{"closer inside string ignored", `{"a": "}"}`, `{"a": "}"}`, true},
		{"unbalanced quote in prose", `Note: the "result is: {"a": 1}`, `{"a": 1}`, true},
		{"odd quotes before array", `He said "take [1, 2]`, `[1, 2]`, true},
		{"truncated object", `{"a": {"b": 1}`, "", false},
		{"no delimiters", `plain prose`, "", false},
		{"only closer", `} nothing open`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractBalancedSpan(tt.input)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("span = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOpen(t *testing.T) {
	frames, st := Open(`{"a": [1, {"b":`)
	if len(frames) != 3 {
		t.Fatalf("open frames = %d, want 3", len(frames))
	}
	if frames[0].Open != '{' || frames[1].Open != '[' || frames[2].Open != '{' {
		t.Errorf("frames = %+v, want {, [, {", frames)
	}
	if !frames[2].AfterColon {
		t.Error("innermost object should be in value position")
	}
	if st.InString {
		t.Error("state should not be inside a string")
	}

	frames, st = Open(`{"a": "unterminated`)
	if len(frames) != 1 {
		t.Fatalf("open frames = %d, want 1", len(frames))
	}
	if !st.InString {
		t.Error("state should be inside the unterminated string")
	}
}
