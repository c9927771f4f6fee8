package processor

// Outcome is the success artifact of one processing request.
type Outcome struct {
	// Value is the validated, parsed value.
	Value any
	// Raw is the content that finally parsed (original or sanitized).
	Raw string
	// Steps records which strategy and which sanitizers fired, in
	// application order. Empty for clean input.
	Steps []string
	// Diagnostics carries fine-grained repair notes for triage.
	Diagnostics []string
}

// Repaired reports whether any non-trivial repair fired, i.e. any step
// outside the insignificant allow-list.
func (o *Outcome) Repaired() bool {
	for _, s := range o.Steps {
		if !insignificantSteps[s] {
			return true
		}
	}
	return false
}

// insignificantSteps are repairs too trivial to count as real repairs for
// logging purposes.
var insignificantSteps = map[string]bool{
	"trim": true,
}
