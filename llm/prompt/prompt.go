/**
 * Copyright 2025 ByteDance Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     https://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package prompt

import (
	"context"
	"fmt"
	"regexp"

	eprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

// FormatInstructionsVar is the variable a template uses to place the
// reply-shape instructions derived from an output schema.
const FormatInstructionsVar = "format_instructions"

type TemplateID string

const (
	TemplatePopularInfo      TemplateID = "popular_info"
	TemplateArticle          TemplateID = "article"
	TemplateShortDescription TemplateID = "short_description"
	TemplateMetaTags         TemplateID = "meta_tags"
)

// Template is an f-string style prompt: {name} is replaced by the variable
// of the same name.
type Template struct {
	ID   TemplateID
	Text string
}

var placeholder = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Variables lists the placeholders referenced by the template, in order of
// first appearance.
func (t Template) Variables() []string {
	var out []string
	seen := map[string]bool{}
	for _, m := range placeholder.FindAllStringSubmatch(t.Text, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			out = append(out, m[1])
		}
	}
	return out
}

// Lookup returns a registered template.
func Lookup(id TemplateID) (Template, bool) {
	text, ok := templates[id]
	if !ok {
		return Template{}, false
	}
	return Template{ID: id, Text: text}, true
}

// Render fills template id with vars. formatInstructions, when non-empty, is
// bound to {format_instructions}. Every placeholder must be bound, otherwise a
// *TemplateError is returned. Render has no side effects.
func Render(id TemplateID, vars map[string]any, formatInstructions string) (string, error) {
	tpl, ok := Lookup(id)
	if !ok {
		return "", &TemplateError{Template: id, Reason: "unknown template"}
	}
	return tpl.Render(vars, formatInstructions)
}

// Render is the method form of the package-level Render.
func (t Template) Render(vars map[string]any, formatInstructions string) (string, error) {
	bound := make(map[string]any, len(vars)+1)
	for k, v := range vars {
		bound[k] = v
	}
	if formatInstructions != "" {
		bound[FormatInstructionsVar] = formatInstructions
	}
	for _, name := range t.Variables() {
		if _, ok := bound[name]; !ok {
			return "", &TemplateError{Template: t.ID, Variable: name, Reason: "variable not provided"}
		}
	}

	msgs, err := eprompt.FromMessages(schema.FString, schema.UserMessage(t.Text)).
		Format(context.Background(), bound)
	if err != nil {
		return "", &TemplateError{Template: t.ID, Reason: err.Error()}
	}
	if len(msgs) != 1 {
		return "", &TemplateError{Template: t.ID, Reason: fmt.Sprintf("expected 1 message, got %d", len(msgs))}
	}
	return msgs[0].Content, nil
}

// TemplateError is a rendering defect: unknown template or unbound variable.
type TemplateError struct {
	Template TemplateID
	Variable string
	Reason   string
}

func (e *TemplateError) Error() string {
	if e.Variable != "" {
		return fmt.Sprintf("template %s: %s: %q", e.Template, e.Reason, e.Variable)
	}
	return fmt.Sprintf("template %s: %s", e.Template, e.Reason)
}

func (e *TemplateError) Kind() string { return "template" }
