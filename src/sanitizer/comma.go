package sanitizer

import (
	"context"
	"fmt"

	"github.com/Easy-Infra-Ltd/easy-json-repair/src/scan"
)

// CommaSanitizer inserts missing commas between object properties or array
// elements: a value-terminating token followed, outside any string, by a
// newline and the start of a new property or element without an intervening
// comma. Inside objects the insertion only happens in value position, so a
// key awaiting its colon is never cut off from its value.
type CommaSanitizer struct{}

func (CommaSanitizer) Name() string { return "comma" }

func (CommaSanitizer) Sanitize(_ context.Context, content string) (Result, error) {
	out := make([]byte, 0, len(content)+8)

	var st scan.State
	var frames []scan.Frame
	var lastSig byte
	inserted := 0
	var diags []string

	for i := 0; i < len(content); i++ {
		c := content[i]
		wasInString := st.InString
		st.Step(c)

		if wasInString {
			out = append(out, c)
			if c == '"' && !st.InString {
				lastSig = '"' // closing quote terminates a value or key
			}
			continue
		}

		if c == '\n' && needsComma(content, i+1, lastSig, frames) {
			out = append(out, ',')
			if n := len(frames); n > 0 {
				frames[n-1].AfterColon = false
			}
			lastSig = ','
			inserted++
			diags = append(diags, fmt.Sprintf("inserted missing comma before offset %d", i))
		}

		out = append(out, c)

		switch {
		case scan.IsOpener(c):
			frames = append(frames, scan.Frame{Open: c})
		case scan.IsCloser(c):
			if len(frames) > 0 {
				frames = frames[:len(frames)-1]
			}
		case c == ':':
			if n := len(frames); n > 0 && frames[n-1].Open == '{' {
				frames[n-1].AfterColon = true
			}
		case c == ',':
			if n := len(frames); n > 0 && frames[n-1].Open == '{' {
				frames[n-1].AfterColon = false
			}
		}

		if !isSpace(c) {
			lastSig = c
		}
	}

	if inserted == 0 {
		return unchanged(content), nil
	}
	return changed(string(out), fmt.Sprintf("inserted %d missing commas", inserted), diags...), nil
}

// needsComma decides whether a comma belongs right before the newline at
// next-1, given the last significant byte and the current container.
func needsComma(s string, next int, lastSig byte, frames []scan.Frame) bool {
	n := len(frames)
	if n == 0 {
		return false
	}
	if frames[n-1].Open == '{' && !frames[n-1].AfterColon {
		// Key position: the string just ended is a key, not a value.
		return false
	}
	if !terminatesValue(lastSig) {
		return false
	}

	for ; next < len(s); next++ {
		if !isSpace(s[next]) {
			break
		}
	}
	if next >= len(s) {
		return false
	}
	return startsValue(s[next])
}

// terminatesValue reports whether c can be the final byte of a JSON value:
// a closing quote, closer, digit, or keyword-final letter.
func terminatesValue(c byte) bool {
	switch {
	case c == '"' || c == '}' || c == ']':
		return true
	case c >= '0' && c <= '9':
		return true
	case c == 'e' || c == 'l': // true/false, null
		return true
	}
	return false
}

// startsValue reports whether c can begin a new property or element.
func startsValue(c byte) bool {
	switch {
	case c == '"' || c == '{' || c == '[':
		return true
	case c >= '0' && c <= '9' || c == '-':
		return true
	case c == 't' || c == 'f' || c == 'n':
		return true
	}
	return false
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}
