// Package scan provides string-literal-aware walking primitives shared by
// every structural sanitizer: a character-state tracker that knows whether
// the cursor is inside an unescaped JSON string literal, an open-delimiter
// stack, and a balanced-span extractor that finds the first well-nested
// {...} or [...] region in noisy text.
package scan

import "strings"

// State tracks string-literal context while walking a document byte by byte.
// The escape flag is only meaningful inside a string: a backslash escapes
// exactly the next character. An odd trailing backslash at end of input is
// simply a literal backslash that never got its escaped character.
type State struct {
	InString bool
	escaped  bool
}

// Step advances the state by one byte.
func (st *State) Step(c byte) {
	if st.escaped {
		st.escaped = false
		return
	}
	switch c {
	case '\\':
		if st.InString {
			st.escaped = true
		}
	case '"':
		st.InString = !st.InString
	}
}

// Escaped reports whether the next byte would be escaped.
func (st *State) Escaped() bool { return st.escaped }

// InString reports whether the byte at offset lies inside an unescaped
// string literal, i.e. whether it is string content rather than structure.
// The offset itself is not consumed; the state immediately before it is
// reported.
func InString(s string, offset int) bool {
	if offset > len(s) {
		offset = len(s)
	}
	var st State
	for i := 0; i < offset; i++ {
		st.Step(s[i])
	}
	return st.InString
}

// Frame is one open container on the delimiter stack. AfterColon is only
// meaningful for object frames: it records whether a colon has been seen
// since the last comma or the opening brace, i.e. whether the cursor sits
// in value position rather than key position.
type Frame struct {
	Open       byte
	AfterColon bool
}

// ClosingFor returns the closing delimiter for an opener.
func ClosingFor(open byte) byte {
	if open == '{' {
		return '}'
	}
	return ']'
}

// IsOpener reports whether c opens a JSON container.
func IsOpener(c byte) bool { return c == '{' || c == '[' }

// IsCloser reports whether c closes a JSON container.
func IsCloser(c byte) bool { return c == '}' || c == ']' }

// OpenerFor returns the opening delimiter matching a closer.
func OpenerFor(close byte) byte {
	if close == '}' {
		return '{'
	}
	return '['
}

// Open walks s and returns the frames still open at end of input together
// with the final string state. Mismatched closers pop the top frame anyway;
// callers that care about mismatches detect them separately.
func Open(s string) ([]Frame, State) {
	var st State
	var frames []Frame
	for i := 0; i < len(s); i++ {
		c := s[i]
		wasInString := st.InString
		st.Step(c)
		if wasInString {
			continue
		}
		switch {
		case IsOpener(c):
			frames = append(frames, Frame{Open: c})
		case IsCloser(c):
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
	}
	return frames, st
}

// FindBalancedSpan locates the first balanced {...} or [...] region in s,
// starting at the first opening delimiter of either kind. Depth is counted
// within the opener's delimiter family only, ignoring delimiters inside
// string literals. Returns the start and one-past-end offsets. A truncated
// document (depth never returns to zero) yields ok == false; truncation is
// a separate concern handled by the completion sanitizer, not by guessing
// here.
func FindBalancedSpan(s string) (start, end int, ok bool) {
	start = strings.IndexAny(s, "{[")
	if start == -1 {
		return 0, 0, false
	}

	open := s[start]
	close := ClosingFor(open)
	depth := 0
	// Anything before the opener is opaque prose; its quotes carry no JSON
	// meaning, so string-state tracking starts fresh at the opener.
	var st State
	for i := start; i < len(s); i++ {
		c := s[i]
		wasInString := st.InString
		st.Step(c)
		if wasInString {
			continue
		}
		switch c {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return start, i + 1, true
			}
		}
	}
	return 0, 0, false
}

// ExtractBalancedSpan returns the first balanced JSON span in s, trimmed.
func ExtractBalancedSpan(s string) (string, bool) {
	start, end, ok := FindBalancedSpan(s)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(s[start:end]), true
}
