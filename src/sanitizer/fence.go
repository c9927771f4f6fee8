package sanitizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/Easy-Infra-Ltd/easy-json-repair/src/scan"
)

const fenceMarker = "```"

// FenceSanitizer strips markdown code fences and any preamble prose that
// precedes the first opening delimiter. Generation backends routinely wrap
// JSON in ```json fences or prefix it with persona text ("Sure, here is
// the result:"). Fence markers inside string literals are never treated
// as structure.
type FenceSanitizer struct{}

func (FenceSanitizer) Name() string { return "fence" }

func (FenceSanitizer) Sanitize(_ context.Context, content string) (Result, error) {
	var diags []string
	current := content

	if inner, ok := unfence(current); ok {
		current = inner
		diags = append(diags, "removed markdown code fence")
	}

	if stripped, n := stripPreamble(current); n > 0 {
		current = stripped
		diags = append(diags, fmt.Sprintf("removed %d bytes of leading prose", n))
	}

	if len(diags) == 0 || current == content {
		return unchanged(content), nil
	}
	return changed(current, "removed code fences and surrounding prose", diags...), nil
}

// unfence extracts the body of the first fenced code block, skipping an
// optional language identifier after the opening marker. The body only
// replaces the content when it actually contains a JSON delimiter, so
// fences around plain prose are left alone for the caller to reject.
func unfence(s string) (string, bool) {
	open := indexOutsideString(s, fenceMarker, 0)
	if open == -1 {
		return s, false
	}

	body := s[open+len(fenceMarker):]
	// Drop a language tag such as "json" up to the end of the line.
	if nl := strings.IndexByte(body, '\n'); nl >= 0 && nl < 20 && !strings.ContainsAny(body[:nl], "{[") {
		body = body[nl+1:]
	}

	if close := strings.Index(body, fenceMarker); close >= 0 {
		body = body[:close]
	}

	body = strings.TrimSpace(body)
	if !strings.ContainsAny(body, "{[") {
		return s, false
	}
	return body, true
}

// stripPreamble removes non-whitespace text before the first opening
// delimiter. The preamble is opaque prose, not JSON; an unbalanced quote
// in it must not hide the opener. Whitespace-only prefixes are left for
// the trim stage.
func stripPreamble(s string) (string, int) {
	idx := strings.IndexAny(s, "{[")
	if idx <= 0 {
		return s, 0
	}
	prefix := s[:idx]
	if strings.TrimSpace(prefix) == "" {
		return s, 0
	}
	return s[idx:], len(prefix)
}

// indexOutsideString returns the first occurrence of marker at or after
// from that does not begin inside a string literal, or -1.
func indexOutsideString(s, marker string, from int) int {
	var st scan.State
	for i := 0; i < len(s); i++ {
		if i >= from && !st.InString && strings.HasPrefix(s[i:], marker) {
			return i
		}
		st.Step(s[i])
	}
	return -1
}
