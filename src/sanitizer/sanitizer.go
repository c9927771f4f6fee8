// Package sanitizer provides a pipeline of text repair stages that
// progressively turn malformed, truncated, or text-wrapped near-JSON
// emitted by a generation backend into parseable JSON. Stages never
// rewrite bytes inside properly escaped string literals.
package sanitizer

import "context"

// Sanitizer is one pure text-to-text repair stage.
// Implementations must not mutate the input; return repaired content in
// the Result. A Result with Changed == false must carry content that is
// byte-identical to the input.
type Sanitizer interface {
	// Name returns a stable identifier used in step history and logging.
	Name() string

	// Sanitize inspects content and returns a Result.
	Sanitize(ctx context.Context, content string) (Result, error)
}

// Result is the outcome of a single repair stage.
type Result struct {
	Content     string
	Changed     bool
	Description string   // short human-readable summary of the repair
	Diagnostics []string // fine-grained notes for triage
}

// unchanged is the canonical no-op result.
func unchanged(content string) Result {
	return Result{Content: content}
}

// changed builds a modified result.
func changed(content, description string, diagnostics ...string) Result {
	return Result{
		Content:     content,
		Changed:     true,
		Description: description,
		Diagnostics: diagnostics,
	}
}
