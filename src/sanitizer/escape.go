package sanitizer

import (
	"context"
	"fmt"
)

// EscapeSanitizer repairs broken escape sequences inside string literals:
// over-escaped quotes (three or five backslashes before a quote reduce to
// one escaped quote), invalid escape letters, truncated \u sequences, and
// raw control characters that should have been escaped. Structure outside
// strings is never touched.
type EscapeSanitizer struct{}

func (EscapeSanitizer) Name() string { return "escape" }

func (EscapeSanitizer) Sanitize(_ context.Context, content string) (Result, error) {
	out := make([]byte, 0, len(content))
	var diags []string

	inString := false
	for i := 0; i < len(content); {
		c := content[i]

		if !inString {
			if c == '"' {
				inString = true
			}
			out = append(out, c)
			i++
			continue
		}

		switch {
		case c == '\\':
			out, i, inString = repairEscapeRun(content, i, out, &diags)

		case c == '"':
			inString = false
			out = append(out, c)
			i++

		case c < 0x20:
			out = append(out, escapeControlByte(c)...)
			diags = append(diags, fmt.Sprintf("escaped raw control character 0x%02x at offset %d", c, i))
			i++

		default:
			out = append(out, c)
			i++
		}
	}

	repaired := string(out)
	if repaired == content {
		return unchanged(content), nil
	}
	return changed(repaired, "repaired invalid escape sequences", diags...), nil
}

// repairEscapeRun handles a run of backslashes starting at i inside a
// string. It returns the updated output, cursor, and string state.
func repairEscapeRun(s string, i int, out []byte, diags *[]string) ([]byte, int, bool) {
	j := i
	for j < len(s) && s[j] == '\\' {
		j++
	}
	run := j - i

	// Backslash run directly before a quote.
	if j < len(s) && s[j] == '"' {
		if run >= 3 && run%2 == 1 {
			// Over-escaped quote: reduce to a single escaped quote.
			*diags = append(*diags, fmt.Sprintf("reduced %d backslashes before quote at offset %d", run, i))
			return append(out, '\\', '"'), j + 1, true
		}
		out = append(out, s[i:j+1]...)
		// Even run: escaped backslashes, then the quote closes the string.
		return out, j + 1, run%2 != 0
	}

	// Copy the escaped-backslash pairs verbatim.
	pairs := run / 2
	out = append(out, s[i:i+pairs*2]...)
	if run%2 == 0 {
		return out, j, true
	}

	// One leftover backslash escaping whatever follows.
	if j >= len(s) {
		// Trailing lone backslash; the truncation stage deals with it.
		return append(out, '\\'), j, true
	}

	e := s[j]
	switch {
	case e == 'b' || e == 'f' || e == 'n' || e == 'r' || e == 't' || e == '/':
		return append(out, '\\', e), j + 1, true

	case e == 'u':
		if hexDigitsFollow(s, j+1, 4) {
			out = append(out, s[j-1:j+5]...)
			return out, j + 5, true
		}
		// Truncated or malformed unicode escape: drop the backslash and
		// keep the text literal.
		*diags = append(*diags, fmt.Sprintf("dropped malformed unicode escape at offset %d", j-1))
		return append(out, e), j + 1, true

	default:
		// Invalid escape letter: keep the character, lose the backslash.
		*diags = append(*diags, fmt.Sprintf("dropped invalid escape \\%c at offset %d", e, j-1))
		return append(out, e), j + 1, true
	}
}

func hexDigitsFollow(s string, from, n int) bool {
	if from+n > len(s) {
		return false
	}
	for i := from; i < from+n; i++ {
		c := s[i]
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F') {
			return false
		}
	}
	return true
}

// escapeControlByte returns the JSON escape for a raw control byte.
func escapeControlByte(c byte) []byte {
	switch c {
	case '\b':
		return []byte(`\b`)
	case '\f':
		return []byte(`\f`)
	case '\n':
		return []byte(`\n`)
	case '\r':
		return []byte(`\r`)
	case '\t':
		return []byte(`\t`)
	default:
		return []byte(fmt.Sprintf(`\u%04x`, c))
	}
}
