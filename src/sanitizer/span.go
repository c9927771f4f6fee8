package sanitizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/segmentio/encoding/json"

	"github.com/Easy-Infra-Ltd/easy-json-repair/src/scan"
)

// SpanSanitizer reduces noisy text to its largest balanced {...} or [...]
// region. Truncated input (no balanced span) is left untouched for the
// completion stage. Only the first viable span is considered; multiple
// disjoint JSON fragments are a failure mode detected by the processor,
// never silently merged here.
type SpanSanitizer struct{}

func (SpanSanitizer) Name() string { return "span" }

func (SpanSanitizer) Sanitize(_ context.Context, content string) (Result, error) {
	span, ok := scan.ExtractBalancedSpan(content)
	if !ok {
		return unchanged(content), nil
	}
	if span == content || span == strings.TrimSpace(content) {
		// Surrounding whitespace is the trim stage's concern.
		return unchanged(content), nil
	}
	if idx := strings.Index(content, span); idx >= 0 {
		rest := strings.TrimSpace(content[idx+len(span):])
		if rest != "" && scan.IsOpener(rest[0]) && json.Valid([]byte(rest)) {
			// A second top-level value follows the span. Leave both in
			// place: an exact duplicate is collapsed later, distinct
			// values are rejected as ambiguous.
			return unchanged(content), nil
		}
	}
	return changed(span, "extracted balanced JSON span",
		fmt.Sprintf("dropped %d bytes of surrounding text", len(content)-len(span))), nil
}
