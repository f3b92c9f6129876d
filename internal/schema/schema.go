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

// Package schema declares the structured replies expected from each
// generation step and validates untrusted candidates against them.
package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
)

// Schema describes the record type T. Field names, descriptions, required
// fields and array bounds all come from T's struct tags.
type Schema[T any] struct {
	name   string
	js     *jsonschema.Schema
	fields []fieldRule
}

type fieldRule struct {
	name     string
	required bool
	Type     string `json:"type"`
	MinItems *int   `json:"minItems"`
	Items    *struct {
		Type string `json:"type"`
	} `json:"items"`
}

// Define reflects T into a Schema. It panics if T is not a struct, which is a
// programming error.
func Define[T any](name string) *Schema[T] {
	r := &jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
	}
	var zero T
	js := r.Reflect(zero)
	js.Version = ""
	js.ID = ""
	if js.Properties == nil {
		panic(fmt.Sprintf("schema %s: %T has no properties", name, zero))
	}

	required := make(map[string]bool, len(js.Required))
	for _, n := range js.Required {
		required[n] = true
	}
	s := &Schema[T]{name: name, js: js}
	for pair := js.Properties.Oldest(); pair != nil; pair = pair.Next() {
		raw, err := json.Marshal(pair.Value)
		if err != nil {
			panic(fmt.Sprintf("schema %s: field %s: %v", name, pair.Key, err))
		}
		f := fieldRule{name: pair.Key, required: required[pair.Key]}
		if err := json.Unmarshal(raw, &f); err != nil {
			panic(fmt.Sprintf("schema %s: field %s: %v", name, pair.Key, err))
		}
		s.fields = append(s.fields, f)
	}
	return s
}

func (s *Schema[T]) Name() string { return s.name }

// JSONSchema returns the reflected schema. Callers must not modify it.
func (s *Schema[T]) JSONSchema() *jsonschema.Schema { return s.js }

// Describe renders the format instructions appended to prompts. The output
// depends only on T.
func (s *Schema[T]) Describe() string {
	raw, err := json.Marshal(s.js)
	if err != nil {
		panic(fmt.Sprintf("schema %s: %v", s.name, err))
	}
	var sb strings.Builder
	sb.WriteString("The output should be formatted as a JSON instance that conforms to the JSON schema below.\n\n")
	sb.WriteString(`As an example, for the schema {"properties": {"foo": {"description": "a list of strings", "type": "array", "items": {"type": "string"}}}, "required": ["foo"]}`)
	sb.WriteString("\n")
	sb.WriteString(`the object {"foo": ["bar", "baz"]} is a well-formatted instance of the schema. The object {"properties": {"foo": ["bar", "baz"]}} is not well-formatted.`)
	sb.WriteString("\n\nHere is the output schema:\n```\n")
	sb.Write(raw)
	sb.WriteString("\n```")
	return sb.String()
}

// Validate checks candidate against the schema and decodes it into T.
// Missing or null required fields, wrong value shapes and empty arrays
// below minItems all fail with *SchemaError. Unknown fields are ignored.
func (s *Schema[T]) Validate(candidate map[string]any) (T, error) {
	var out T
	for _, f := range s.fields {
		v, ok := candidate[f.name]
		if !ok || v == nil {
			if f.required {
				return out, s.fail(f.name, ReasonMissing, "")
			}
			continue
		}
		if err := s.check(f, v); err != nil {
			return out, err
		}
	}

	raw, err := json.Marshal(candidate)
	if err != nil {
		return out, s.fail("", ReasonWrongType, err.Error())
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, s.fail("", ReasonWrongType, err.Error())
	}
	if n, ok := any(&out).(interface{ Normalize() }); ok {
		n.Normalize()
	}
	return out, nil
}

func (s *Schema[T]) check(f fieldRule, v any) error {
	if !matchesType(f.Type, v) {
		return s.fail(f.name, ReasonWrongType, fmt.Sprintf("want %s, got %s", f.Type, shapeOf(v)))
	}
	if f.Type != "array" {
		return nil
	}
	items := v.([]any)
	if f.MinItems != nil && len(items) < *f.MinItems {
		return s.fail(f.name, ReasonEmpty, fmt.Sprintf("want at least %d items, got %d", *f.MinItems, len(items)))
	}
	if f.Items == nil {
		return nil
	}
	for i, it := range items {
		if !matchesType(f.Items.Type, it) {
			return s.fail(fmt.Sprintf("%s[%d]", f.name, i), ReasonWrongType,
				fmt.Sprintf("want %s, got %s", f.Items.Type, shapeOf(it)))
		}
	}
	return nil
}

func (s *Schema[T]) fail(field string, reason Reason, detail string) *SchemaError {
	return &SchemaError{Schema: s.name, Field: field, Reason: reason, Detail: detail}
}

func matchesType(want string, v any) bool {
	switch want {
	case "":
		return true
	case "object":
		_, ok := v.(map[string]any)
		return ok
	case "string":
		_, ok := v.(string)
		return ok
	case "array":
		_, ok := v.([]any)
		return ok
	case "boolean":
		_, ok := v.(bool)
		return ok
	case "integer", "number":
		switch v.(type) {
		case json.Number, float64, int, int64:
			return true
		}
		return false
	}
	return false
}

func shapeOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	case bool:
		return "boolean"
	case json.Number, float64, int, int64:
		return "number"
	}
	return fmt.Sprintf("%T", v)
}
