package registration

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"dormdesk/internal/core/apperror"
	"dormdesk/pkg/logger"
)

var tracer = otel.Tracer("dormdesk/registration")

// StepStatus is the outcome of one pipeline step.
type StepStatus string

const (
	StepSucceeded StepStatus = "succeeded"
	StepFailed    StepStatus = "failed"
	StepSkipped   StepStatus = "skipped"
)

// StepResult records what a step did.
type StepResult struct {
	Name       string              `json:"name"`
	Status     StepStatus          `json:"status"`
	Error      string              `json:"error,omitempty"`
	Fields     map[string][]string `json:"fields,omitempty"`
	CreatedIDs []int64             `json:"created_ids,omitempty"`
	Duration   string              `json:"duration,omitempty"`
}

// OK reports whether the step succeeded.
func (r StepResult) OK() bool {
	return r.Status == StepSucceeded
}

// Report is the outcome of a pipeline run. Records created by successful steps
// stay on the backend even when later steps fail.
type Report struct {
	Steps    []StepResult `json:"steps"`
	Warnings []string     `json:"warnings,omitempty"`
}

// OK reports whether every step succeeded.
func (r Report) OK() bool {
	for _, s := range r.Steps {
		if !s.OK() {
			return false
		}
	}
	return true
}

// Step returns the result of the step called name.
func (r Report) Step(name string) (StepResult, bool) {
	for _, s := range r.Steps {
		if s.Name == name {
			return s, true
		}
	}
	return StepResult{}, false
}

// Created lists ids created per step.
func (r Report) Created() map[string][]int64 {
	out := map[string][]int64{}
	for _, s := range r.Steps {
		if len(s.CreatedIDs) > 0 {
			out[s.Name] = append([]int64{}, s.CreatedIDs...)
		}
	}
	return out
}

// Err returns a PARTIAL_FAILURE error describing the first failed step, or nil.
func (r Report) Err() error {
	for _, s := range r.Steps {
		if s.Status == StepFailed {
			e := apperror.NewBusinessRule(apperror.CodePartialFailure, fmt.Sprintf("%s failed: %s", s.Name, s.Error)).
				WithDetail("report", r)
			if len(s.Fields) > 0 {
				e.WithDetail("fields", s.Fields)
			}
			return e
		}
	}
	return nil
}

func (r Report) clone() Report {
	out := Report{
		Steps:    make([]StepResult, len(r.Steps)),
		Warnings: append([]string{}, r.Warnings...),
	}
	for i, s := range r.Steps {
		s.CreatedIDs = append([]int64(nil), s.CreatedIDs...)
		out.Steps[i] = s
	}
	return out
}

// Step is a unit of a pipeline. Run returns the ids it created; on error it
// may still return ids created before the failure.
type Step[S any] struct {
	Name      string
	DependsOn []string
	Run       func(ctx context.Context, state *S) ([]int64, error)
}

// Pipeline runs steps one after another in declaration order. A step runs only
// when every step it depends on succeeded; otherwise it is skipped. Nothing is
// rolled back.
type Pipeline[S any] struct {
	name  string
	steps []Step[S]
}

// NewPipeline creates an empty pipeline.
func NewPipeline[S any](name string) *Pipeline[S] {
	return &Pipeline[S]{name: name}
}

// Add appends a step.
func (p *Pipeline[S]) Add(step Step[S]) *Pipeline[S] {
	p.steps = append(p.steps, step)
	return p
}

// Run executes the pipeline against state.
func (p *Pipeline[S]) Run(ctx context.Context, state *S) Report {
	ctx, span := tracer.Start(ctx, p.name)
	defer span.End()

	log := logger.FromContext(ctx).WithComponent("saga").With("pipeline", p.name)
	report := Report{Steps: make([]StepResult, 0, len(p.steps))}
	status := make(map[string]StepStatus, len(p.steps))

	for _, step := range p.steps {
		res := StepResult{Name: step.Name}

		if blocker, ok := firstUnmet(step.DependsOn, status); ok {
			res.Status = StepSkipped
			res.Error = fmt.Sprintf("skipped because %s did not succeed", blocker)
			status[step.Name] = StepSkipped
			report.Steps = append(report.Steps, res)
			log.Infow("step skipped", "step", step.Name, "blocked_by", blocker)
			continue
		}

		stepCtx, stepSpan := tracer.Start(ctx, step.Name, trace.WithAttributes(
			attribute.String("saga.pipeline", p.name),
		))
		started := time.Now()
		ids, err := step.Run(stepCtx, state)
		res.Duration = time.Since(started).String()
		res.CreatedIDs = ids

		if err != nil {
			res.Status = StepFailed
			res.Error = apperror.Message(err)
			res.Fields = apperror.FieldErrors(err)
			stepSpan.RecordError(err)
			stepSpan.SetStatus(codes.Error, res.Error)
			log.Warnw("step failed", "step", step.Name, "created_ids", ids, "error", err)
		} else {
			res.Status = StepSucceeded
			log.Infow("step succeeded", "step", step.Name, "created_ids", ids)
		}
		stepSpan.End()

		status[step.Name] = res.Status
		report.Steps = append(report.Steps, res)
		if res.Status == StepFailed {
			report.Warnings = append(report.Warnings, p.orphanWarnings(step, report)...)
		}
	}

	if !report.OK() {
		span.SetStatus(codes.Error, "partial failure")
	}
	return report
}

func firstUnmet(deps []string, status map[string]StepStatus) (string, bool) {
	for _, d := range deps {
		if status[d] != StepSucceeded {
			return d, true
		}
	}
	return "", false
}

// orphanWarnings names every record created upstream of failed, directly or
// transitively, plus anything failed itself created before erroring.
func (p *Pipeline[S]) orphanWarnings(failed Step[S], report Report) []string {
	upstream := p.ancestors(failed.Name)

	var out []string
	for _, res := range report.Steps {
		if len(res.CreatedIDs) == 0 {
			continue
		}
		if res.Name == failed.Name {
			out = append(out, fmt.Sprintf("%s partially created %v before failing", res.Name, res.CreatedIDs))
			continue
		}
		if upstream[res.Name] && res.OK() {
			out = append(out, fmt.Sprintf("%s created %v but related step %s failed", res.Name, res.CreatedIDs, failed.Name))
		}
	}
	return out
}

func (p *Pipeline[S]) ancestors(name string) map[string]bool {
	deps := make(map[string][]string, len(p.steps))
	for _, s := range p.steps {
		deps[s.Name] = s.DependsOn
	}
	seen := map[string]bool{}
	queue := append([]string{}, deps[name]...)
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if seen[n] {
			continue
		}
		seen[n] = true
		queue = append(queue, deps[n]...)
	}
	return seen
}
