package sanitizer

import (
	"context"
	"strings"

	"github.com/Easy-Infra-Ltd/easy-json-repair/src/scan"
)

// DuplicateSanitizer collapses an exact duplicate top-level object emitted
// twice back-to-back into a single copy. Distinct concatenated objects are
// not touched; the processor rejects those as ambiguous.
type DuplicateSanitizer struct{}

func (DuplicateSanitizer) Name() string { return "duplicate" }

func (DuplicateSanitizer) Sanitize(_ context.Context, content string) (Result, error) {
	start, end, ok := scan.FindBalancedSpan(content)
	if !ok {
		return unchanged(content), nil
	}
	if strings.TrimSpace(content[:start]) != "" {
		return unchanged(content), nil
	}

	first := content[start:end]
	rest := strings.TrimSpace(content[end:])
	if rest == "" || rest != first {
		return unchanged(content), nil
	}

	return changed(first, "collapsed duplicated top-level value"), nil
}
