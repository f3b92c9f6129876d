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
	"fmt"
)

var (
	ErrInvalidInput     = errors.New("invalid article input")
	ErrInvalidPipeline  = errors.New("invalid pipeline")
	ErrMissingInput     = errors.New("step input not present in state")
	ErrUnexpectedOutput = errors.New("step output does not match its declared keys")
	ErrKeyOverwrite     = errors.New("state key already written")
)

// KeyError ties a state-slot failure to the slot.
type KeyError struct {
	Key Key
	Err error
}

func (e *KeyError) Error() string { return fmt.Sprintf("%s: %v", e.Key, e.Err) }

func (e *KeyError) Unwrap() error { return e.Err }

// StepError is what Run returns when a step fails: the step's name plus the
// underlying error, unchanged.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %s (%s): %v", e.Step, e.Kind(), e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Kind classifies the underlying error: template, generation, parse,
// canceled or internal.
func (e *StepError) Kind() string {
	var k interface{ Kind() string }
	if errors.As(e.Err, &k) {
		return k.Kind()
	}
	if errors.Is(e.Err, context.Canceled) || errors.Is(e.Err, context.DeadlineExceeded) {
		return "canceled"
	}
	return "internal"
}
