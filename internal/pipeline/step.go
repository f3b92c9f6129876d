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
)

// Step is one stage of the pipeline. Run receives a private copy of the
// state and returns only the slots it declared in Writes. Errors are
// returned unchanged; steps never recover locally.
type Step interface {
	Name() string
	Reads() []Key
	Writes() []Key
	Run(ctx context.Context, st *WorkflowState) (*Update, error)
}

type stepKey struct{}

// WithStep records the running step's name in ctx.
func WithStep(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, stepKey{}, name)
}

// StepFromContext returns the name stored by WithStep, or "".
func StepFromContext(ctx context.Context) string {
	name, _ := ctx.Value(stepKey{}).(string)
	return name
}
