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
	"time"

	"github.com/google/uuid"

	"github.com/cloudwego/seowriter/internal/schema"
)

// Key names one slot of the WorkflowState.
type Key string

const (
	KeyInputs           Key = "inputs"
	KeyPopularInfo      Key = "popular_info"
	KeyArticle          Key = "article"
	KeyShortDescription Key = "short_description"
	KeyMetaTags         Key = "meta_tags"
)

// AllKeys lists every slot in pipeline order.
var AllKeys = []Key{KeyInputs, KeyPopularInfo, KeyArticle, KeyShortDescription, KeyMetaTags}

// Stage is where a run is: not_started, the name of the running step,
// completed or failed.
type Stage string

const (
	StageNotStarted Stage = "not_started"
	StageCompleted  Stage = "completed"
	StageFailed     Stage = "failed"
)

type StepStatus string

const (
	StepOK     StepStatus = "ok"
	StepFailed StepStatus = "failed"
)

// WorkflowState accumulates step outputs for one run. A nil slot has not been
// produced yet; a produced slot is never replaced.
type WorkflowState struct {
	RunID      string `json:"run_id" yaml:"run_id"`
	Stage      Stage  `json:"stage" yaml:"stage"`
	FailedStep string `json:"failed_step,omitempty" yaml:"failed_step,omitempty"`

	Inputs           schema.ArticleInput      `json:"inputs" yaml:"inputs"`
	PopularInfo      *string                  `json:"popular_info,omitempty" yaml:"popular_info,omitempty"`
	Article          *schema.Article          `json:"article,omitempty" yaml:"article,omitempty"`
	ShortDescription *schema.ShortDescription `json:"short_description,omitempty" yaml:"short_description,omitempty"`
	MetaTags         *schema.MetaTags         `json:"meta_tags,omitempty" yaml:"meta_tags,omitempty"`

	History []StepRecord `json:"history,omitempty" yaml:"history,omitempty"`
}

// StepRecord is an immutable log entry for one step execution.
type StepRecord struct {
	Step      string     `json:"step" yaml:"step"`
	Status    StepStatus `json:"status" yaml:"status"`
	Error     string     `json:"error,omitempty" yaml:"error,omitempty"`
	StartedAt time.Time  `json:"started_at" yaml:"started_at"`
	EndedAt   time.Time  `json:"ended_at" yaml:"ended_at"`
	Digest    string     `json:"digest,omitempty" yaml:"digest,omitempty"` // sha256 of the step's update
}

// Update is the subset of slots a step produces.
type Update struct {
	PopularInfo      *string                  `json:"popular_info,omitempty"`
	Article          *schema.Article          `json:"article,omitempty"`
	ShortDescription *schema.ShortDescription `json:"short_description,omitempty"`
	MetaTags         *schema.MetaTags         `json:"meta_tags,omitempty"`
}

// Keys lists the slots set in u.
func (u *Update) Keys() []Key {
	if u == nil {
		return nil
	}
	var keys []Key
	if u.PopularInfo != nil {
		keys = append(keys, KeyPopularInfo)
	}
	if u.Article != nil {
		keys = append(keys, KeyArticle)
	}
	if u.ShortDescription != nil {
		keys = append(keys, KeyShortDescription)
	}
	if u.MetaTags != nil {
		keys = append(keys, KeyMetaTags)
	}
	return keys
}

// NewWorkflowState returns a not-started state holding only the inputs.
func NewWorkflowState(in schema.ArticleInput) *WorkflowState {
	return &WorkflowState{
		RunID:  uuid.NewString(),
		Stage:  StageNotStarted,
		Inputs: in,
	}
}

// Has reports whether slot k has been produced.
func (s *WorkflowState) Has(k Key) bool {
	switch k {
	case KeyInputs:
		return true
	case KeyPopularInfo:
		return s.PopularInfo != nil
	case KeyArticle:
		return s.Article != nil
	case KeyShortDescription:
		return s.ShortDescription != nil
	case KeyMetaTags:
		return s.MetaTags != nil
	}
	return false
}

// Keys lists the produced slots in pipeline order.
func (s *WorkflowState) Keys() []Key {
	var keys []Key
	for _, k := range AllKeys {
		if s.Has(k) {
			keys = append(keys, k)
		}
	}
	return keys
}

// Merge adds u's slots to s. It refuses to replace a produced slot and
// leaves s untouched in that case.
func (s *WorkflowState) Merge(u *Update) error {
	for _, k := range u.Keys() {
		if s.Has(k) {
			return &KeyError{Key: k, Err: ErrKeyOverwrite}
		}
	}
	if u == nil {
		return nil
	}
	if u.PopularInfo != nil {
		s.PopularInfo = u.PopularInfo
	}
	if u.Article != nil {
		s.Article = u.Article
	}
	if u.ShortDescription != nil {
		s.ShortDescription = u.ShortDescription
	}
	if u.MetaTags != nil {
		s.MetaTags = u.MetaTags
	}
	return nil
}

// Clone returns a deep copy, used as the read view handed to steps.
func (s *WorkflowState) Clone() *WorkflowState {
	if s == nil {
		return nil
	}
	out := *s
	if s.PopularInfo != nil {
		v := *s.PopularInfo
		out.PopularInfo = &v
	}
	if s.Article != nil {
		a := *s.Article
		a.MainPoints = append([]string(nil), s.Article.MainPoints...)
		out.Article = &a
	}
	if s.ShortDescription != nil {
		d := *s.ShortDescription
		out.ShortDescription = &d
	}
	if s.MetaTags != nil {
		m := schema.MetaTags{Tags: append([]string(nil), s.MetaTags.Tags...)}
		out.MetaTags = &m
	}
	out.History = append([]StepRecord(nil), s.History...)
	return &out
}
