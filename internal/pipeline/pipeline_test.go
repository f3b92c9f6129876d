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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudwego/seowriter/internal/schema"
)

var testInput = schema.ArticleInput{
	Topic:              "remote work tools",
	CompanyDescription: "B2B SaaS for distributed teams",
}

// mockStep returns a fixed update and records the order it ran in.
type mockStep struct {
	name   string
	reads  []Key
	writes []Key
	update func(st *WorkflowState) *Update
	err    error
	calls  *[]string
}

func (m *mockStep) Name() string { return m.name }
func (m *mockStep) Reads() []Key { return m.reads }
func (m *mockStep) Writes() []Key { return m.writes }

func (m *mockStep) Run(ctx context.Context, st *WorkflowState) (*Update, error) {
	if m.calls != nil {
		*m.calls = append(*m.calls, StepFromContext(ctx))
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.update(st), nil
}

type kindErr struct{ kind string }

func (e *kindErr) Error() string { return e.kind + " failure" }
func (e *kindErr) Kind() string { return e.kind }

func str(s string) *string { return &s }

func fourSteps(calls *[]string) []*mockStep {
	return []*mockStep{
		{name: "gather", reads: []Key{KeyInputs}, writes: []Key{KeyPopularInfo}, calls: calls,
			update: func(st *WorkflowState) *Update { return &Update{PopularInfo: str("info about " + st.Inputs.Topic)} }},
		{name: "article", reads: []Key{KeyInputs, KeyPopularInfo}, writes: []Key{KeyArticle}, calls: calls,
			update: func(st *WorkflowState) *Update {
				return &Update{Article: &schema.Article{Title: "T", Introduction: *st.PopularInfo, MainPoints: []string{"p"}, Conclusion: "C"}}
			}},
		{name: "description", reads: []Key{KeyArticle}, writes: []Key{KeyShortDescription}, calls: calls,
			update: func(st *WorkflowState) *Update {
				return &Update{ShortDescription: &schema.ShortDescription{Description: st.Article.Title}}
			}},
		{name: "tags", reads: []Key{KeyArticle}, writes: []Key{KeyMetaTags}, calls: calls,
			update: func(st *WorkflowState) *Update { return &Update{MetaTags: &schema.MetaTags{Tags: []string{"t"}}} }},
	}
}

func asSteps(ms []*mockStep) []Step {
	out := make([]Step, len(ms))
	for i, m := range ms {
		out[i] = m
	}
	return out
}

func TestPipeline_Run_Success(t *testing.T) {
	var calls []string
	pl := New(asSteps(fourSteps(&calls))...)

	st, err := pl.Run(context.Background(), testInput)
	require.NoError(t, err)
	assert.Equal(t, StageCompleted, st.Stage)
	assert.Equal(t, AllKeys, st.Keys())
	assert.Equal(t, []string{"gather", "article", "description", "tags"}, calls)
	assert.Equal(t, "info about remote work tools", st.Article.Introduction)
	assert.NotEmpty(t, st.RunID)

	require.Len(t, st.History, 4)
	for i, rec := range st.History {
		assert.Equal(t, calls[i], rec.Step)
		assert.Equal(t, StepOK, rec.Status)
		assert.Len(t, rec.Digest, 64)
		assert.False(t, rec.EndedAt.Before(rec.StartedAt))
	}
}

func TestPipeline_Run_HaltsOnFailure(t *testing.T) {
	var calls []string
	steps := fourSteps(&calls)
	steps[1].err = &kindErr{kind: "parse"}
	pl := New(asSteps(steps)...)

	st, err := pl.Run(context.Background(), testInput)
	var se *StepError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "article", se.Step)
	assert.Equal(t, "parse", se.Kind())
	assert.Contains(t, err.Error(), "step article (parse)")

	assert.Equal(t, []string{"gather", "article"}, calls)
	assert.Equal(t, StageFailed, st.Stage)
	assert.Equal(t, "article", st.FailedStep)
	assert.Equal(t, []Key{KeyInputs, KeyPopularInfo}, st.Keys())
	require.Len(t, st.History, 2)
	assert.Equal(t, StepFailed, st.History[1].Status)
}

func TestPipeline_Run_InvalidInput(t *testing.T) {
	var calls []string
	pl := New(asSteps(fourSteps(&calls))...)
	st, err := pl.Run(context.Background(), schema.ArticleInput{Topic: "x"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, StageFailed, st.Stage)
	assert.Empty(t, calls)
}

func TestPipeline_Run_Canceled(t *testing.T) {
	var calls []string
	pl := New(asSteps(fourSteps(&calls))...)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	st, err := pl.Run(ctx, testInput)
	var se *StepError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "gather", se.Step)
	assert.Equal(t, "canceled", se.Kind())
	assert.Empty(t, calls)
	assert.Equal(t, []Key{KeyInputs}, st.Keys())
}

func TestPipeline_Run_UnexpectedOutput(t *testing.T) {
	steps := fourSteps(nil)
	steps[0].update = func(st *WorkflowState) *Update {
		return &Update{PopularInfo: str("x"), MetaTags: &schema.MetaTags{}}
	}
	_, err := New(asSteps(steps)...).Run(context.Background(), testInput)
	assert.ErrorIs(t, err, ErrUnexpectedOutput)
	var se *StepError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "internal", se.Kind())
}

func TestPipeline_Run_StepCannotMutateState(t *testing.T) {
	steps := fourSteps(nil)
	steps[2].update = func(st *WorkflowState) *Update {
		st.Article.Title = "mutated"
		st.Article.MainPoints[0] = "mutated"
		return &Update{ShortDescription: &schema.ShortDescription{Description: "d"}}
	}
	st, err := New(asSteps(steps)...).Run(context.Background(), testInput)
	require.NoError(t, err)
	assert.Equal(t, "T", st.Article.Title)
	assert.Equal(t, []string{"p"}, st.Article.MainPoints)
}

func TestPipeline_Validate(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		assert.NoError(t, New(asSteps(fourSteps(nil))...).Validate())
	})
	t.Run("reads before written", func(t *testing.T) {
		steps := fourSteps(nil)
		steps[0], steps[1] = steps[1], steps[0]
		err := New(asSteps(steps)...).Validate()
		assert.ErrorIs(t, err, ErrInvalidPipeline)
		assert.Contains(t, err.Error(), `"popular_info"`)
	})
	t.Run("written twice", func(t *testing.T) {
		steps := fourSteps(nil)
		steps[3].writes = []Key{KeyShortDescription}
		assert.ErrorIs(t, New(asSteps(steps)...).Validate(), ErrInvalidPipeline)
	})
	t.Run("nil step", func(t *testing.T) {
		assert.ErrorIs(t, New(nil).Validate(), ErrInvalidPipeline)
	})
	t.Run("run refuses invalid", func(t *testing.T) {
		steps := fourSteps(nil)
		_, err := New(steps[1], steps[0]).Run(context.Background(), testInput)
		assert.ErrorIs(t, err, ErrInvalidPipeline)
	})
}

func TestWorkflowState_Merge(t *testing.T) {
	st := NewWorkflowState(testInput)
	require.NoError(t, st.Merge(&Update{PopularInfo: str("a")}))
	err := st.Merge(&Update{PopularInfo: str("b"), Article: &schema.Article{}})
	assert.ErrorIs(t, err, ErrKeyOverwrite)
	assert.Equal(t, "a", *st.PopularInfo)
	assert.Nil(t, st.Article)
	assert.NoError(t, st.Merge(nil))
}

func TestPipeline_StepNames(t *testing.T) {
	pl := New(asSteps(fourSteps(nil))...)
	assert.Equal(t, []string{"gather", "article", "description", "tags"}, pl.StepNames())
}
