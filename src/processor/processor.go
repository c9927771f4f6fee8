// Package processor orchestrates recovery parsing: a fast path for clean
// JSON, light extraction strategies for wrapped JSON, and the full
// sanitizer pipeline as a last resort, with validation and full repair
// history on every path.
package processor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/google/uuid"
	"github.com/segmentio/encoding/json"

	"github.com/Easy-Infra-Ltd/easy-json-repair/src/config"
	"github.com/Easy-Infra-Ltd/easy-json-repair/src/sanitizer"
	"github.com/Easy-Infra-Ltd/easy-json-repair/src/scan"
	"github.com/Easy-Infra-Ltd/easy-json-repair/src/validate"
)

// Format distinguishes the expected response shape.
type Format int

const (
	// FormatJSON expects structured JSON, optionally schema-checked.
	FormatJSON Format = iota
	// FormatText expects free text; no repair tier runs.
	FormatText
)

// Request is one processing request: a text payload plus the context
// needed for diagnostics and validation.
type Request struct {
	// Resource is a logical name used in diagnostics and logging.
	Resource string
	Format   Format
	// Schema, when non-nil in FormatJSON mode, is the contract the parsed
	// value must satisfy.
	Schema *jsonschema.Schema
	// Payload is the untrusted response. Anything but a string is a
	// host-contract violation.
	Payload any
}

// Processor runs requests through the repair tiers. It holds no mutable
// state across requests; concurrent use is safe.
type Processor struct {
	pipeline *sanitizer.Pipeline
	concat   *sanitizer.ConcatSanitizer
	logger   *slog.Logger
}

// New creates a Processor from the given repair config. A nil logger
// disables logging.
func New(cfg config.RepairConfig, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Processor{
		pipeline: BuildPipeline(cfg),
		concat:   sanitizer.NewConcatSanitizer(deref(cfg.MaxConcatPasses, config.DefaultMaxConcatPasses)),
		logger:   logger.With("area", "processor"),
	}
}

// Process runs one request through the tiers and returns the validated
// outcome or a terminal ProcessingError carrying the full repair history.
func (p *Processor) Process(ctx context.Context, req Request) (*Outcome, error) {
	text, ok := req.Payload.(string)
	if !ok {
		err := &ProcessingError{
			Kind:     KindPayload,
			Resource: req.Resource,
			Err:      fmt.Errorf("payload must be text, got %T", req.Payload),
		}
		p.logger.Warn("rejected non-text payload", "resource", req.Resource)
		return nil, err
	}

	log := p.logger.With("resource", req.Resource, "request_id", uuid.NewString())

	var out *Outcome
	var err error
	if req.Format == FormatText {
		// A string payload is by definition valid free text.
		out = &Outcome{Value: text, Raw: text}
	} else {
		out, err = p.processJSON(ctx, req, text)
	}

	if err != nil {
		var kind, steps any
		if pe, ok := err.(*ProcessingError); ok {
			kind, steps = pe.Kind.String(), pe.Steps
		}
		log.Warn("processing failed", "kind", kind, "steps", steps, "original_len", len(text))
		return nil, err
	}

	if out.Repaired() {
		log.Info("repaired content", "steps", out.Steps, "original_len", len(text))
	}
	return out, nil
}

func (p *Processor) processJSON(ctx context.Context, req Request, text string) (*Outcome, error) {
	var valErr *ProcessingError

	// Fast path: trim and parse directly. Clean input never pays for
	// sanitization.
	trimmed := strings.TrimSpace(text)
	if v, err := parseJSON(trimmed); err == nil {
		out, perr := p.finish(req, text, trimmed, v, nil, nil)
		if perr == nil {
			return out, nil
		}
		valErr = perr
	}

	// Nothing that even resembles JSON: abort before wasting the
	// remaining tiers. A stashed validation error (the content parsed
	// but failed its shape check) is the more truthful failure.
	if !strings.ContainsAny(text, "{[") {
		if valErr != nil {
			return nil, valErr
		}
		return nil, &ProcessingError{
			Kind:     KindParse,
			Resource: req.Resource,
			Original: text,
			Err:      ErrNoJSONContent,
		}
	}

	// Two distinct top-level values concatenated is ambiguous intent:
	// reject rather than guess which one was meant.
	if first, second, ok := disjointValues(trimmed); ok {
		return nil, &ProcessingError{
			Kind:      KindParse,
			Resource:  req.Resource,
			Original:  text,
			Sanitized: trimmed,
			Err:       fmt.Errorf("ambiguous content: two distinct top-level values %s and %s", first, second),
		}
	}

	// Light strategy: parse the balanced span as-is.
	if span, ok := scan.ExtractBalancedSpan(text); ok {
		if v, err := parseJSON(span); err == nil {
			out, perr := p.finish(req, text, span, v, []string{"span"}, nil)
			if perr == nil {
				return out, nil
			}
			valErr = perr
		}
	}

	// Light strategy: collapse concatenation chains, then try the span
	// again.
	if cres, err := p.concat.Sanitize(ctx, text); err == nil && cres.Changed {
		if span, ok := scan.ExtractBalancedSpan(cres.Content); ok {
			if v, err := parseJSON(span); err == nil {
				out, perr := p.finish(req, text, span, v, []string{"concat", "span"}, cres.Diagnostics)
				if perr == nil {
					return out, nil
				}
				valErr = perr
			}
		}
	}

	// Resilient tier: the full sanitizer pipeline.
	pres, err := p.pipeline.Run(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%s: sanitizer pipeline: %w", req.Resource, err)
	}
	steps := pres.ChangedSteps()

	if first, second, ok := disjointValues(pres.Content); ok {
		return nil, &ProcessingError{
			Kind:      KindParse,
			Resource:  req.Resource,
			Original:  text,
			Sanitized: pres.Content,
			Steps:     steps,
			Err:       fmt.Errorf("ambiguous content: two distinct top-level values %s and %s", first, second),
		}
	}

	v, err := parseJSON(pres.Content)
	if err != nil {
		if valErr != nil {
			// Some earlier tier produced valid JSON that failed
			// validation; that is the more truthful terminal error.
			return nil, valErr
		}
		return nil, &ProcessingError{
			Kind:      KindParse,
			Resource:  req.Resource,
			Original:  text,
			Sanitized: pres.Content,
			Steps:     steps,
			Err:       err,
		}
	}

	out, perr := p.finish(req, text, pres.Content, v, steps, pres.Diagnostics())
	if perr != nil {
		return nil, perr
	}
	return out, nil
}

// finish applies the value-level envelope unwrap, validates, and builds
// the outcome. Validation failures come back as a ProcessingError that
// still carries the applied-step history.
func (p *Processor) finish(req Request, original, raw string, v any, steps, diags []string) (*Outcome, *ProcessingError) {
	if inner, ok := sanitizer.UnwrapEnvelope(v); ok {
		v = inner
		if !contains(steps, "envelope") {
			steps = append(steps, "envelope")
		}
	}

	var vr validate.Result
	if req.Schema != nil {
		var err error
		vr, err = validate.Structured(v, req.Schema)
		if err != nil {
			return nil, &ProcessingError{
				Kind:     KindValidation,
				Resource: req.Resource,
				Original: original,
				Steps:    steps,
				Err:      err,
			}
		}
	} else {
		vr = validate.FreeText(v)
	}

	if !vr.OK() {
		return nil, &ProcessingError{
			Kind:      KindValidation,
			Resource:  req.Resource,
			Original:  original,
			Sanitized: raw,
			Steps:     steps,
			Issues:    vr.Issues,
		}
	}

	return &Outcome{Value: v, Raw: raw, Steps: steps, Diagnostics: diags}, nil
}

// BuildPipeline constructs the sanitizer pipeline from a (merged) config.
// Stage order is a designed invariant: earlier stages normalize structure
// that later stages assume.
func BuildPipeline(cfg config.RepairConfig) *sanitizer.Pipeline {
	var stages []sanitizer.Sanitizer

	if deref(cfg.EnableFenceRemoval, true) {
		stages = append(stages, sanitizer.FenceSanitizer{})
	}
	if deref(cfg.EnableControlCharRemoval, true) {
		stages = append(stages, sanitizer.ControlSanitizer{})
	}
	if deref(cfg.EnableSpanExtraction, true) {
		stages = append(stages, sanitizer.SpanSanitizer{})
	}
	if deref(cfg.EnableEnvelopeUnwrap, true) {
		stages = append(stages, sanitizer.EnvelopeSanitizer{})
	}
	if deref(cfg.EnableDuplicateCollapse, true) {
		stages = append(stages, sanitizer.DuplicateSanitizer{})
	}
	if deref(cfg.EnableDelimiterRepair, true) {
		stages = append(stages, sanitizer.DelimiterSanitizer{})
	}
	if deref(cfg.EnableCommaRepair, true) {
		stages = append(stages, sanitizer.CommaSanitizer{})
	}
	if deref(cfg.EnableTrailingCommaRemoval, true) {
		stages = append(stages, sanitizer.TrailingCommaSanitizer{})
	}
	if deref(cfg.EnableConcatCollapse, true) {
		stages = append(stages, sanitizer.NewConcatSanitizer(deref(cfg.MaxConcatPasses, config.DefaultMaxConcatPasses)))
	}
	if deref(cfg.EnableEscapeRepair, true) {
		stages = append(stages, sanitizer.EscapeSanitizer{})
	}
	if deref(cfg.EnableTruncationCompletion, true) {
		stages = append(stages, sanitizer.TruncationSanitizer{})
	}
	stages = append(stages, sanitizer.TrimSanitizer{})

	return sanitizer.NewPipeline(stages...)
}

// disjointValues reports whether s is two distinct top-level JSON values
// concatenated, returning both for the error message.
func disjointValues(s string) (string, string, bool) {
	start, end, ok := scan.FindBalancedSpan(s)
	if !ok {
		return "", "", false
	}
	if strings.TrimSpace(s[:start]) != "" {
		return "", "", false
	}
	first := strings.TrimSpace(s[start:end])
	rest := strings.TrimSpace(s[end:])
	if rest == "" || !scan.IsOpener(rest[0]) {
		return "", "", false
	}
	if rest == first {
		// An exact duplicate is unambiguous; the duplicate stage
		// collapses it.
		return "", "", false
	}
	if !json.Valid([]byte(first)) || !json.Valid([]byte(rest)) {
		return "", "", false
	}
	return first, rest, true
}

func parseJSON(s string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, err
	}
	return v, nil
}

func contains(ss []string, s string) bool {
	for _, x := range ss {
		if x == s {
			return true
		}
	}
	return false
}

func deref[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}
