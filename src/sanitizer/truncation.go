package sanitizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/Easy-Infra-Ltd/easy-json-repair/src/scan"
)

// TruncationSanitizer completes structures cut off mid-generation: it
// closes a still-open string, finishes dangling tokens (a key without its
// value, a partial keyword, a number ending in '.', '-', or 'e'), drops a
// dangling comma, and then emits the closing delimiter for every still-open
// container, innermost first.
type TruncationSanitizer struct{}

func (TruncationSanitizer) Name() string { return "truncation" }

func (TruncationSanitizer) Sanitize(_ context.Context, content string) (Result, error) {
	frames, st := scan.Open(content)
	if len(frames) == 0 && !st.InString {
		return unchanged(content), nil
	}

	base := content
	var diags []string

	if st.InString {
		if st.Escaped() {
			// The string ends on a lone backslash; it escapes nothing.
			base = base[:len(base)-1]
			diags = append(diags, "dropped trailing lone backslash")
		}
		base += `"`
		diags = append(diags, "closed unterminated string")
		if n := len(frames); n > 0 && frames[n-1].Open == '{' && !frames[n-1].AfterColon {
			// The unterminated string was a key; give it a value.
			base += ": null"
			diags = append(diags, "completed dangling key with null")
		}
	} else {
		base, diags = completeDanglingToken(base, frames, diags)
	}

	for i := len(frames) - 1; i >= 0; i-- {
		base += string(scan.ClosingFor(frames[i].Open))
	}
	diags = append(diags, fmt.Sprintf("closed %d open containers", len(frames)))

	if base == content {
		return unchanged(content), nil
	}
	return changed(base, "completed truncated structure", diags...), nil
}

// completeDanglingToken finishes whatever token the truncation cut off so
// that appending the closers yields parseable JSON.
func completeDanglingToken(base string, frames []scan.Frame, diags []string) (string, []string) {
	t := strings.TrimRight(base, " \t\r\n")
	if t == "" {
		return base, diags
	}
	last := t[len(t)-1]

	switch {
	case last == ',':
		return t[:len(t)-1], append(diags, "dropped dangling comma")

	case last == ':':
		return base + " null", append(diags, "completed dangling colon with null")
	}

	if done, rest := keywordRemainder(t); done {
		if rest != "" {
			diags = append(diags, "completed partial keyword")
		}
		return base + rest, diags
	}

	if last == '.' || last == '-' || last == '+' || last == 'e' || last == 'E' {
		return base + "0", append(diags, "completed truncated number")
	}

	if n := len(frames); n > 0 && frames[n-1].Open == '{' && !frames[n-1].AfterColon && last == '"' {
		// A complete key with no colon or value yet.
		return base + ": null", append(diags, "completed dangling key with null")
	}

	return base, diags
}

// keywordRemainder reports whether the trailing letters of t form a prefix
// of a JSON keyword and, if partial, what is missing to complete it.
func keywordRemainder(t string) (bool, string) {
	i := len(t)
	for i > 0 && t[i-1] >= 'a' && t[i-1] <= 'z' {
		i--
	}
	token := t[i:]
	if token == "" {
		return false, ""
	}
	for _, kw := range []string{"true", "false", "null"} {
		if token == kw {
			return true, ""
		}
		if strings.HasPrefix(kw, token) {
			return true, kw[len(token):]
		}
	}
	return false, ""
}
