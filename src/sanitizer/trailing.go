package sanitizer

import (
	"context"
	"fmt"

	"github.com/Easy-Infra-Ltd/easy-json-repair/src/scan"
)

// TrailingCommaSanitizer removes commas that directly precede a closing
// delimiter, a pattern valid in most programming languages but not in JSON.
type TrailingCommaSanitizer struct{}

func (TrailingCommaSanitizer) Name() string { return "trailing-comma" }

func (TrailingCommaSanitizer) Sanitize(_ context.Context, content string) (Result, error) {
	out := make([]byte, 0, len(content))

	var st scan.State
	removed := 0

	for i := 0; i < len(content); i++ {
		c := content[i]
		wasInString := st.InString
		st.Step(c)

		if !wasInString && c == ',' && closerFollows(content, i+1) {
			removed++
			continue
		}
		out = append(out, c)
	}

	if removed == 0 {
		return unchanged(content), nil
	}
	return changed(string(out), fmt.Sprintf("removed %d trailing commas", removed)), nil
}

// closerFollows reports whether the next non-whitespace byte at or after
// idx closes a container.
func closerFollows(s string, idx int) bool {
	for ; idx < len(s); idx++ {
		if isSpace(s[idx]) {
			continue
		}
		return scan.IsCloser(s[idx])
	}
	return false
}
