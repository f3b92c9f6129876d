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
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
)

type ModelConfig struct {
	Name        string        `json:"name" koanf:"name"` // alias of the config, not endpoint!
	APIType     ModelType     `json:"type" koanf:"type"`
	BaseURL     string        `json:"base_url" koanf:"base_url"`
	APIKey      string        `json:"api_key" koanf:"api_key"`
	ModelName   string        `json:"model_name" koanf:"model_name"` // the endpoint of the model, like `gpt-4o-mini`
	Temperature *float32      `json:"temperature" koanf:"temperature"`
	MaxTokens   int           `json:"max_tokens" koanf:"max_tokens"`
	Timeout     time.Duration `json:"timeout" koanf:"timeout"` // per request, default: 600s
	Retries     int           `json:"retries" koanf:"retries"` // extra attempts on transient failures
}

// Label names the config in logs: the alias if set, else the provider type.
func (m ModelConfig) Label() string {
	if m.Name != "" {
		return m.Name
	}
	return string(m.APIType)
}

type ModelType string

func NewModelType(t string) ModelType {
	switch strings.ToLower(t) {
	case "ollama":
		return ModelTypeOllama
	case "ark", "doubao":
		return ModelTypeARK
	case "openai", "gpt":
		return ModelTypeOpenAI
	case "claude", "anthropic":
		return ModelTypeClaude
	case "dashscope", "qwen", "tongyi":
		return ModelTypeDashScope
	case "deepseek":
		return ModelTypeDeepSeek
	case "perplexity", "pplx":
		return ModelTypePerplexity
	}
	return ModelTypeUnknown
}

const (
	ModelTypeUnknown    ModelType = ""
	ModelTypeOllama     ModelType = "ollama"
	ModelTypeARK        ModelType = "ark"
	ModelTypeOpenAI     ModelType = "openai"
	ModelTypeClaude     ModelType = "claude"
	ModelTypeDashScope  ModelType = "dashscope"
	ModelTypeDeepSeek   ModelType = "deepseek"
	ModelTypePerplexity ModelType = "perplexity" // search-augmented, OpenAI-compatible
)

// Generator is one text-generation backend: a prompt in, raw text out.
// Implementations must be safe for concurrent use. Failures are reported as
// *GenerationError.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ChatModel is the interface for making LLM backend.
type ChatModel interface {
	model.BaseChatModel
}

// NewGenerator builds the Generator described by m, wrapped with m's
// retry/timeout policy.
func NewGenerator(ctx context.Context, m ModelConfig) (Generator, error) {
	var g Generator
	switch m.APIType {
	case ModelTypePerplexity:
		g = NewSearchGenerator(m)
	default:
		cm, err := NewChatModel(ctx, m)
		if err != nil {
			return nil, err
		}
		g = NewChatGenerator(m.Label(), cm)
	}
	return WithRetry(g, RetryPolicy{Retries: m.Retries, Timeout: m.Timeout}), nil
}
