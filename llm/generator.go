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

package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	"github.com/cloudwego/eino/schema"
	"github.com/pkg/errors"

	"github.com/cloudwego/seowriter/internal/log"
)

// ErrEmptyReply is wrapped when a provider answers with no text.
var ErrEmptyReply = errors.New("empty reply")

// GenerationError covers transport failures, timeouts and provider-side
// rejections.
type GenerationError struct {
	Provider string
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation via %s: %v", e.Provider, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

func (e *GenerationError) Kind() string { return "generation" }

var _ Generator = (*ChatGenerator)(nil)

// ChatGenerator sends a prompt as a single user message to an eino chat model.
type ChatGenerator struct {
	name  string
	model ChatModel
}

func NewChatGenerator(name string, model ChatModel) *ChatGenerator {
	return &ChatGenerator{name: name, model: model}
}

func (g *ChatGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	ctx = callbacks.InitCallbacks(ctx, &callbacks.RunInfo{
		Name:      g.name,
		Type:      "ChatGenerator",
		Component: components.ComponentOfChatModel,
	}, CallbackHandler{})

	log.Debug("[%s] prompt: %s", g.name, prompt)
	out, err := g.model.Generate(ctx, []*schema.Message{schema.UserMessage(prompt)})
	if err != nil {
		return "", &GenerationError{Provider: g.name, Err: err}
	}
	if out == nil || strings.TrimSpace(out.Content) == "" {
		return "", &GenerationError{Provider: g.name, Err: ErrEmptyReply}
	}
	log.Debug("[%s] reply: %d bytes", g.name, len(out.Content))
	return out.Content, nil
}
