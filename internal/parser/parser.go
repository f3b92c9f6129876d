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

// Package parser turns raw generation replies into validated records.
package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/seowriter/internal/schema"
)

// ErrNoPayload means no JSON object could be decoded from the reply.
var ErrNoPayload = errors.New("no decodable JSON object in reply")

// ParseError wraps ErrNoPayload or a *schema.SchemaError.
type ParseError struct {
	Schema string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s reply: %v", e.Schema, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Kind() string { return "parse" }

// Text is the identity parser used for free-text steps.
func Text(raw string) (string, error) {
	return raw, nil
}

// Parse extracts the first JSON object embedded in raw and validates it
// against s. Surrounding prose and code fences are tolerated; a payload that
// fails validation is never patched up.
func Parse[T any](raw string, s *schema.Schema[T]) (T, error) {
	var zero T
	obj, ok := ExtractObject(raw)
	if !ok {
		return zero, &ParseError{Schema: s.Name(), Err: ErrNoPayload}
	}
	rec, err := s.Validate(obj)
	if err != nil {
		return zero, &ParseError{Schema: s.Name(), Err: err}
	}
	return rec, nil
}

// ExtractObject returns the first JSON object that decodes starting at some
// '{' in raw, scanning left to right. Anything after the object is ignored.
func ExtractObject(raw string) (map[string]any, bool) {
	for i := 0; i < len(raw); i++ {
		j := strings.IndexByte(raw[i:], '{')
		if j < 0 {
			return nil, false
		}
		i += j
		dec := json.NewDecoder(strings.NewReader(raw[i:]))
		dec.UseNumber()
		var obj map[string]any
		if err := dec.Decode(&obj); err == nil && obj != nil {
			return obj, true
		}
	}
	return nil, false
}
