package sanitizer

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Easy-Infra-Ltd/easy-json-repair/src/scan"
)

// ControlSanitizer removes control, zero-width, and private-use characters
// outside string literals and normalizes typographic quotes to ASCII.
// Bytes inside string literals are left untouched; escaping raw control
// characters inside strings is the escape stage's concern.
type ControlSanitizer struct{}

func (ControlSanitizer) Name() string { return "control" }

func (ControlSanitizer) Sanitize(_ context.Context, content string) (Result, error) {
	var b strings.Builder
	b.Grow(len(content))

	var st scan.State
	removed := 0
	normalized := 0

	for i := 0; i < len(content); {
		r, size := utf8.DecodeRuneInString(content[i:])

		if st.InString {
			b.WriteString(content[i : i+size])
		} else {
			switch {
			case isCurlyDouble(r):
				b.WriteByte('"')
				normalized++
			case isCurlySingle(r):
				b.WriteByte('\'')
				normalized++
			case shouldRemove(r):
				removed++
			default:
				b.WriteString(content[i : i+size])
			}
		}

		if size == 1 {
			st.Step(content[i])
		}
		i += size
	}

	cleaned := b.String()
	if cleaned == content {
		return unchanged(content), nil
	}

	var diags []string
	if removed > 0 {
		diags = append(diags, fmt.Sprintf("removed %d control/zero-width characters", removed))
	}
	if normalized > 0 {
		diags = append(diags, fmt.Sprintf("normalized %d typographic quotes", normalized))
	}
	return changed(cleaned, "removed invalid characters", diags...), nil
}

// shouldRemove reports whether a rune outside a string should be stripped.
// Removes Unicode categories Cf (format), Co (private use), and Cc
// (control) — except for common whitespace characters.
func shouldRemove(r rune) bool {
	if r == '\n' || r == '\t' || r == '\r' || r == ' ' {
		return false
	}
	return unicode.In(r,
		unicode.Cf, // Format (zero-width joiners, directional marks, etc.)
		unicode.Co, // Private use
		unicode.Cc, // Control
	)
}

func isCurlyDouble(r rune) bool {
	switch r {
	case '“', '”', '„', '‟':
		return true
	}
	return false
}

func isCurlySingle(r rune) bool {
	switch r {
	case '‘', '’', '‚', '‛':
		return true
	}
	return false
}
