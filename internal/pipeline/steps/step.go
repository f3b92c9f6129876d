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

package steps

import (
	"context"

	"github.com/cloudwego/seowriter/internal/log"
	"github.com/cloudwego/seowriter/internal/pipeline"
	"github.com/cloudwego/seowriter/llm"
	"github.com/cloudwego/seowriter/llm/prompt"
)

// llmStep renders a template from the state, sends it to a generator and
// turns the reply into an update. Every failure is returned as is.
type llmStep struct {
	name     string
	reads    []pipeline.Key
	writes   []pipeline.Key
	template prompt.TemplateID
	gen      llm.Generator

	// instructions is bound to {format_instructions}; empty for free-text steps.
	instructions string
	vars         func(st *pipeline.WorkflowState) map[string]any
	parse        func(raw string) (*pipeline.Update, error)
}

// Name implements pipeline.Step.
func (s *llmStep) Name() string { return s.name }

// Reads implements pipeline.Step.
func (s *llmStep) Reads() []pipeline.Key { return s.reads }

// Writes implements pipeline.Step.
func (s *llmStep) Writes() []pipeline.Key { return s.writes }

// Run implements pipeline.Step.
func (s *llmStep) Run(ctx context.Context, st *pipeline.WorkflowState) (*pipeline.Update, error) {
	text, err := prompt.Render(s.template, s.vars(st), s.instructions)
	if err != nil {
		return nil, err
	}
	raw, err := s.gen.Generate(ctx, text)
	if err != nil {
		return nil, err
	}
	log.Debug("Step %s: reply %d bytes", s.name, len(raw))
	return s.parse(raw)
}
