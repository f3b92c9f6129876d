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
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/cloudwego/seowriter/internal/log"
)

const perplexityBaseURL = "https://api.perplexity.ai"

var _ Generator = (*SearchGenerator)(nil)

// SearchGenerator talks to a search-augmented, OpenAI-compatible chat
// endpoint (Perplexity by default) whose answers draw on live web results.
type SearchGenerator struct {
	name        string
	model       string
	temperature float32
	maxTokens   int
	client      *openai.Client
}

func NewSearchGenerator(m ModelConfig) *SearchGenerator {
	cfg := openai.DefaultConfig(m.APIKey)
	cfg.BaseURL = m.BaseURL
	if cfg.BaseURL == "" {
		cfg.BaseURL = perplexityBaseURL
	}
	timeout := m.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	cfg.HTTPClient = &http.Client{Timeout: timeout}

	g := &SearchGenerator{
		name:      m.Label(),
		model:     m.ModelName,
		maxTokens: m.MaxTokens,
		client:    openai.NewClientWithConfig(cfg),
	}
	if m.Temperature != nil {
		g.temperature = *m.Temperature
	}
	return g
}

func (g *SearchGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	log.Debug("[%s] search prompt: %s", g.name, prompt)
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   g.maxTokens,
		Temperature: g.temperature,
	})
	if err != nil {
		return "", &GenerationError{Provider: g.name, Err: err}
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", &GenerationError{Provider: g.name, Err: ErrEmptyReply}
	}
	log.Debug("[%s] search reply: %d bytes, %d tokens", g.name, len(resp.Choices[0].Message.Content), resp.Usage.TotalTokens)
	return resp.Choices[0].Message.Content, nil
}
