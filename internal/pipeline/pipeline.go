// Copyright 2025 ByteDance Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pipeline

import (
	"context"
	"fmt"
	"slices"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/cloudwego/seowriter/internal/log"
	"github.com/cloudwego/seowriter/internal/schema"
)

const tracerName = "github.com/cloudwego/seowriter/internal/pipeline"

// Pipeline runs steps strictly in order over one WorkflowState. It holds no
// per-run state, so one Pipeline may serve concurrent runs.
type Pipeline struct {
	steps  []Step
	tracer trace.Tracer
}

func New(steps ...Step) *Pipeline {
	return &Pipeline{
		steps:  steps,
		tracer: otel.Tracer(tracerName),
	}
}

// StepNames lists the steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, 0, len(p.steps))
	for _, s := range p.steps {
		if s != nil {
			names = append(names, s.Name())
		}
	}
	return names
}

// Validate checks the data flow: every key a step reads is written by an
// earlier step (or is the inputs), and no key is written twice.
func (p *Pipeline) Validate() error {
	written := map[Key]string{KeyInputs: "caller"}
	seen := map[string]bool{}
	for i, s := range p.steps {
		if s == nil {
			return fmt.Errorf("%w: step %d is nil", ErrInvalidPipeline, i)
		}
		name := s.Name()
		if seen[name] {
			return fmt.Errorf("%w: duplicate step %q", ErrInvalidPipeline, name)
		}
		seen[name] = true
		for _, k := range s.Reads() {
			if _, ok := written[k]; !ok {
				return fmt.Errorf("%w: step %q reads %q before any step writes it", ErrInvalidPipeline, name, k)
			}
		}
		for _, k := range s.Writes() {
			if by, ok := written[k]; ok {
				return fmt.Errorf("%w: step %q writes %q, already written by %s", ErrInvalidPipeline, name, k, by)
			}
			written[k] = name
		}
	}
	return nil
}

// Run executes every step against a fresh state seeded with in. On failure
// it stops at once and returns the state accumulated so far together with a
// *StepError naming the failed step; remaining steps are not attempted.
func (p *Pipeline) Run(ctx context.Context, in schema.ArticleInput) (*WorkflowState, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	st := NewWorkflowState(in)
	if err := in.Validate(); err != nil {
		st.Stage = StageFailed
		return st, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	ctx, span := p.tracer.Start(ctx, "pipeline.Run", trace.WithAttributes(
		attribute.String("run.id", st.RunID),
		attribute.String("article.topic", in.Topic),
	))
	defer span.End()

	log.Info("Run %s: starting %d steps", st.RunID, len(p.steps))
	for _, step := range p.steps {
		if err := p.runStep(ctx, step, st); err != nil {
			st.Stage = StageFailed
			st.FailedStep = step.Name()
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			log.Error("Run %s: %v", st.RunID, err)
			return st, err
		}
	}
	st.Stage = StageCompleted
	log.Info("Run %s: completed", st.RunID)
	return st, nil
}

func (p *Pipeline) runStep(ctx context.Context, step Step, st *WorkflowState) error {
	name := step.Name()
	st.Stage = Stage(name)
	rec := StepRecord{Step: name, StartedAt: time.Now()}
	fail := func(err error) error {
		rec.Status = StepFailed
		rec.Error = err.Error()
		rec.EndedAt = time.Now()
		st.History = append(st.History, rec)
		return &StepError{Step: name, Err: err}
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}
	for _, k := range step.Reads() {
		if !st.Has(k) {
			return fail(&KeyError{Key: k, Err: ErrMissingInput})
		}
	}

	sctx, span := p.tracer.Start(WithStep(ctx, name), "pipeline.step", trace.WithAttributes(
		attribute.String("step.name", name),
	))
	defer span.End()

	log.Info("Step %s: started", name)
	upd, err := step.Run(sctx, st.Clone())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fail(err)
	}
	if got, want := upd.Keys(), step.Writes(); !sameKeys(got, want) {
		return fail(fmt.Errorf("%w: got %v, want %v", ErrUnexpectedOutput, got, want))
	}
	if err := st.Merge(upd); err != nil {
		return fail(err)
	}

	rec.Status = StepOK
	rec.Digest = digest(upd)
	rec.EndedAt = time.Now()
	st.History = append(st.History, rec)
	log.Info("Step %s: ok in %v", name, rec.EndedAt.Sub(rec.StartedAt))
	return nil
}

func sameKeys(a, b []Key) bool {
	a, b = slices.Clone(a), slices.Clone(b)
	slices.Sort(a)
	slices.Sort(b)
	return slices.Equal(a, b)
}
