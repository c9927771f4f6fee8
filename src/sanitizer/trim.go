package sanitizer

import (
	"context"
	"strings"
)

// TrimSanitizer removes surrounding whitespace. It is on the insignificant
// allow-list: firing alone does not count as a real repair for logging.
type TrimSanitizer struct{}

func (TrimSanitizer) Name() string { return "trim" }

func (TrimSanitizer) Sanitize(_ context.Context, content string) (Result, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == content {
		return unchanged(content), nil
	}
	return changed(trimmed, "trimmed surrounding whitespace"), nil
}
