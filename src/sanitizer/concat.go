package sanitizer

import (
	"context"
	"fmt"

	"github.com/Easy-Infra-Ltd/easy-json-repair/src/scan"
)

// DefaultConcatPasses bounds the number of collapse passes so pathological
// input always terminates.
const DefaultConcatPasses = 3

// ConcatSanitizer normalizes concatenation-expression chains such as
// `BASE + "/x.ts"` or `"a" + IDENT + "b"` down to the single
// most-informative string literal in the chain: the longest literal wins,
// ties go to the first. A chain with no literal at all collapses to an
// empty string.
type ConcatSanitizer struct {
	MaxPasses int
}

// NewConcatSanitizer creates a ConcatSanitizer with the given pass bound;
// zero or negative means DefaultConcatPasses.
func NewConcatSanitizer(maxPasses int) *ConcatSanitizer {
	if maxPasses <= 0 {
		maxPasses = DefaultConcatPasses
	}
	return &ConcatSanitizer{MaxPasses: maxPasses}
}

func (s *ConcatSanitizer) Name() string { return "concat" }

func (s *ConcatSanitizer) Sanitize(_ context.Context, content string) (Result, error) {
	passes := s.MaxPasses
	if passes <= 0 {
		passes = DefaultConcatPasses
	}

	current := content
	collapsed := 0
	for p := 0; p < passes; p++ {
		next, n := collapseConcatChains(current)
		if n == 0 {
			break
		}
		current = next
		collapsed += n
	}

	if current == content {
		return unchanged(content), nil
	}
	return changed(current, "collapsed string concatenation expressions",
		fmt.Sprintf("collapsed %d concatenation chains", collapsed)), nil
}

const (
	tokStr = iota
	tokIdent
	tokPlus
	tokOther
)

type concatToken struct {
	kind       int
	start, end int
}

// collapseConcatChains rewrites every operand (+ operand)+ chain found
// outside string literals and returns the number of chains collapsed.
func collapseConcatChains(s string) (string, int) {
	toks := tokenizeConcat(s)

	type replacement struct {
		start, end int
		text       string
	}
	var reps []replacement

	for i := 0; i < len(toks); {
		if !isOperand(toks[i]) || i+2 >= len(toks) ||
			toks[i+1].kind != tokPlus || !isOperand(toks[i+2]) {
			i++
			continue
		}

		last := i + 2
		for last+2 < len(toks) && toks[last+1].kind == tokPlus && isOperand(toks[last+2]) {
			last += 2
		}

		best := ""
		for j := i; j <= last; j += 2 {
			if toks[j].kind != tokStr {
				continue
			}
			lit := s[toks[j].start:toks[j].end]
			if len(lit) > len(best) {
				best = lit
			}
		}
		if best == "" {
			best = `""`
		}

		reps = append(reps, replacement{start: toks[i].start, end: toks[last].end, text: best})
		i = last + 1
	}

	if len(reps) == 0 {
		return s, 0
	}

	out := make([]byte, 0, len(s))
	prev := 0
	for _, r := range reps {
		out = append(out, s[prev:r.start]...)
		out = append(out, r.text...)
		prev = r.end
	}
	out = append(out, s[prev:]...)
	return string(out), len(reps)
}

func isOperand(t concatToken) bool { return t.kind == tokStr || t.kind == tokIdent }

// tokenizeConcat splits s into string literals, identifiers, plus signs,
// and opaque runs, ignoring everything inside string literals.
func tokenizeConcat(s string) []concatToken {
	var toks []concatToken
	var st scan.State
	strStart := -1

	for i := 0; i < len(s); i++ {
		c := s[i]
		wasInString := st.InString
		st.Step(c)

		if wasInString {
			if c == '"' && !st.InString {
				toks = append(toks, concatToken{kind: tokStr, start: strStart, end: i + 1})
				strStart = -1
			}
			continue
		}

		switch {
		case c == '"':
			strStart = i
		case c == '+':
			toks = append(toks, concatToken{kind: tokPlus, start: i, end: i + 1})
		case isIdentStart(c):
			j := i
			for j < len(s) && isIdentChar(s[j]) {
				j++
			}
			toks = append(toks, concatToken{kind: tokIdent, start: i, end: j})
			i = j - 1
		case isSpace(c):
			// skip
		default:
			toks = append(toks, concatToken{kind: tokOther, start: i, end: i + 1})
		}
	}
	return toks
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9') || c == '.'
}
