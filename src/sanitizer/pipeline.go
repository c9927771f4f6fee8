package sanitizer

import "context"

// Step is the record kept for one executed stage, in application order.
type Step struct {
	Name        string
	Changed     bool
	Description string
	Diagnostics []string
}

// PipelineResult aggregates the results of all stages in a pipeline run.
type PipelineResult struct {
	Content string
	Changed bool
	Steps   []Step
}

// ChangedSteps returns the names of the stages that modified content,
// in application order.
func (r PipelineResult) ChangedSteps() []string {
	var names []string
	for _, s := range r.Steps {
		if s.Changed {
			names = append(names, s.Name)
		}
	}
	return names
}

// Diagnostics flattens the diagnostics of every stage, in application order.
func (r PipelineResult) Diagnostics() []string {
	var out []string
	for _, s := range r.Steps {
		out = append(out, s.Diagnostics...)
	}
	return out
}

// Pipeline executes an ordered sequence of Sanitizers against content,
// threading each stage's output into the next. Order is a designed
// invariant: earlier stages normalize structure that later stages assume.
type Pipeline struct {
	stages []Sanitizer
}

// NewPipeline creates a pipeline from the given stages. Execution order
// matches the slice order.
func NewPipeline(stages ...Sanitizer) *Pipeline {
	return &Pipeline{stages: stages}
}

// Run executes all stages in order and returns the aggregated result.
// A stage reporting Changed == false never alters the threaded content,
// regardless of what it returned.
func (p *Pipeline) Run(ctx context.Context, content string) (PipelineResult, error) {
	current := content
	result := PipelineResult{
		Steps: make([]Step, 0, len(p.stages)),
	}

	for _, s := range p.stages {
		sr, err := s.Sanitize(ctx, current)
		if err != nil {
			return result, err
		}

		result.Steps = append(result.Steps, Step{
			Name:        s.Name(),
			Changed:     sr.Changed,
			Description: sr.Description,
			Diagnostics: sr.Diagnostics,
		})

		if sr.Changed {
			result.Changed = true
			current = sr.Content
		}
	}

	result.Content = current
	return result, nil
}
