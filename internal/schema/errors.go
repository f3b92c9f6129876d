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

package schema

import "fmt"

// Reason classifies a SchemaError.
type Reason string

const (
	ReasonMissing   Reason = "missing required field"
	ReasonWrongType Reason = "wrong value shape"
	ReasonEmpty     Reason = "empty value"
)

// SchemaError reports a candidate that does not satisfy a Schema.
type SchemaError struct {
	Schema string
	Field  string
	Reason Reason
	Detail string
}

func (e *SchemaError) Error() string {
	msg := fmt.Sprintf("schema %s", e.Schema)
	if e.Field != "" {
		msg += fmt.Sprintf(": field %q", e.Field)
	}
	msg += ": " + string(e.Reason)
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

func (e *SchemaError) Kind() string { return "schema" }
