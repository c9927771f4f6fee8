package sanitizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/Easy-Infra-Ltd/easy-json-repair/src/scan"
)

// DelimiterSanitizer repairs mismatched closing delimiters using a stack of
// open delimiters. A closer that does not match the top of the stack is
// replaced with the expected closer; when a ']' arrives while '}' is
// expected and an open '[' is still on the stack, both closers were
// intended and the missing ones are inserted before it.
type DelimiterSanitizer struct{}

func (DelimiterSanitizer) Name() string { return "delimiter" }

func (DelimiterSanitizer) Sanitize(_ context.Context, content string) (Result, error) {
	var b strings.Builder
	b.Grow(len(content))

	var st scan.State
	var stack []byte
	var diags []string

	for i := 0; i < len(content); i++ {
		c := content[i]
		wasInString := st.InString
		st.Step(c)

		if wasInString {
			b.WriteByte(c)
			continue
		}

		switch {
		case scan.IsOpener(c):
			stack = append(stack, c)
			b.WriteByte(c)

		case scan.IsCloser(c):
			if len(stack) == 0 {
				b.WriteByte(c)
				continue
			}
			top := stack[len(stack)-1]
			if scan.ClosingFor(top) == c {
				stack = stack[:len(stack)-1]
				b.WriteByte(c)
				continue
			}

			if stackContains(stack, scan.OpenerFor(c)) {
				// Close every inner container the closer skipped over,
				// then let the closer match its own opener.
				for top = stack[len(stack)-1]; scan.ClosingFor(top) != c; top = stack[len(stack)-1] {
					b.WriteByte(scan.ClosingFor(top))
					stack = stack[:len(stack)-1]
					diags = append(diags, fmt.Sprintf("inserted %q before %q at offset %d", scan.ClosingFor(top), c, i))
				}
				stack = stack[:len(stack)-1]
				b.WriteByte(c)
				continue
			}

			// No matching opener anywhere: the closer itself is wrong.
			stack = stack[:len(stack)-1]
			b.WriteByte(scan.ClosingFor(top))
			diags = append(diags, fmt.Sprintf("replaced %q with %q at offset %d", c, scan.ClosingFor(top), i))

		default:
			b.WriteByte(c)
		}
	}

	repaired := b.String()
	if repaired == content {
		return unchanged(content), nil
	}
	return changed(repaired, "repaired mismatched closing delimiters", diags...), nil
}

func stackContains(stack []byte, c byte) bool {
	for _, s := range stack {
		if s == c {
			return true
		}
	}
	return false
}
