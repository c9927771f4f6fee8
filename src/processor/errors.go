package processor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Easy-Infra-Ltd/easy-json-repair/src/validate"
)

// ErrNoJSONContent marks input that contains no opening delimiter at all:
// there is nothing any repair tier could recover.
var ErrNoJSONContent = errors.New("no JSON content found")

// ErrorKind classifies terminal processing failures.
type ErrorKind int

const (
	// KindParse means the content never became syntactically valid JSON
	// after every tier.
	KindParse ErrorKind = iota
	// KindValidation means the content parsed but failed schema
	// conformance.
	KindValidation
	// KindPayload means the host handed over something that is not a text
	// payload at all; no repair tier can fix a host-type mismatch.
	KindPayload
)

func (k ErrorKind) String() string {
	switch k {
	case KindParse:
		return "parse"
	case KindValidation:
		return "validation"
	case KindPayload:
		return "payload"
	default:
		return "unknown"
	}
}

// ProcessingError is the terminal failure for one request. It preserves
// enough state to reproduce and diagnose the failure without re-invoking
// the source: the original content, the best-effort sanitized content, and
// the ordered list of repair steps that were applied.
type ProcessingError struct {
	Kind      ErrorKind
	Resource  string
	Original  string
	Sanitized string
	Steps     []string
	Issues    []validate.Issue
	Err       error
}

func (e *ProcessingError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s error", e.Resource, e.Kind)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if len(e.Issues) > 0 {
		parts := make([]string, len(e.Issues))
		for i, issue := range e.Issues {
			parts[i] = issue.String()
		}
		fmt.Fprintf(&b, ": %s", strings.Join(parts, "; "))
	}
	if len(e.Steps) > 0 {
		fmt.Fprintf(&b, " (applied: %s)", strings.Join(e.Steps, ", "))
	}
	return b.String()
}

func (e *ProcessingError) Unwrap() error { return e.Err }
