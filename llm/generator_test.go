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
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChatModel struct {
	reply *schema.Message
	err   error
	got   []*schema.Message
}

func (m *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	m.got = input
	return m.reply, m.err
}

func (m *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not implemented")
}

func TestChatGenerator_Generate(t *testing.T) {
	m := &fakeChatModel{reply: schema.AssistantMessage(`{"description":"d"}`, nil)}
	g := NewChatGenerator("general", m)
	out, err := g.Generate(context.Background(), "describe it")
	require.NoError(t, err)
	assert.Equal(t, `{"description":"d"}`, out)
	require.Len(t, m.got, 1)
	assert.Equal(t, schema.User, m.got[0].Role)
	assert.Equal(t, "describe it", m.got[0].Content)
}

func TestChatGenerator_Errors(t *testing.T) {
	t.Run("provider failure", func(t *testing.T) {
		g := NewChatGenerator("general", &fakeChatModel{err: errors.New("401 unauthorized")})
		_, err := g.Generate(context.Background(), "p")
		var ge *GenerationError
		require.True(t, errors.As(err, &ge))
		assert.Equal(t, "general", ge.Provider)
		assert.Contains(t, err.Error(), "401 unauthorized")
	})
	t.Run("empty reply", func(t *testing.T) {
		g := NewChatGenerator("general", &fakeChatModel{reply: schema.AssistantMessage("  ", nil)})
		_, err := g.Generate(context.Background(), "p")
		assert.ErrorIs(t, err, ErrEmptyReply)
	})
	t.Run("nil reply", func(t *testing.T) {
		g := NewChatGenerator("general", &fakeChatModel{})
		_, err := g.Generate(context.Background(), "p")
		assert.ErrorIs(t, err, ErrEmptyReply)
	})
}

// completionServer answers OpenAI-compatible chat completion requests with
// content and records the last request body.
func completionServer(t *testing.T, content string, last *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		body, _ := io.ReadAll(r.Body)
		if last != nil {
			_ = json.Unmarshal(body, last)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": time.Now().Unix(),
			"model":   "test-model",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
			"usage": map[string]any{"prompt_tokens": 3, "completion_tokens": 5, "total_tokens": 8},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSearchGenerator_Generate(t *testing.T) {
	var req map[string]any
	srv := completionServer(t, "Remote work adoption grew 40% in 2024.", &req)

	g := NewSearchGenerator(ModelConfig{
		APIType:   ModelTypePerplexity,
		BaseURL:   srv.URL,
		APIKey:    "pplx-test",
		ModelName: "sonar",
	})
	out, err := g.Generate(context.Background(), "Find popular articles on the topic: remote work tools")
	require.NoError(t, err)
	assert.Equal(t, "Remote work adoption grew 40% in 2024.", out)
	assert.Equal(t, "sonar", req["model"])
}

func TestSearchGenerator_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid api key","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	g := NewSearchGenerator(ModelConfig{Name: "search", BaseURL: srv.URL, ModelName: "sonar"})
	_, err := g.Generate(context.Background(), "p")
	var ge *GenerationError
	require.True(t, errors.As(err, &ge))
	assert.Equal(t, "search", ge.Provider)
	assert.False(t, IsRetryable(err))
}

func TestNewGenerator_OpenAI(t *testing.T) {
	srv := completionServer(t, `{"tags":["remote work"]}`, nil)
	temp := float32(0.7)
	g, err := NewGenerator(context.Background(), ModelConfig{
		Name:        "general",
		APIType:     ModelTypeOpenAI,
		BaseURL:     srv.URL,
		APIKey:      "sk-test",
		ModelName:   "gpt-4o-mini",
		Temperature: &temp,
	})
	require.NoError(t, err)
	out, err := g.Generate(context.Background(), "tags please")
	require.NoError(t, err)
	assert.Equal(t, `{"tags":["remote work"]}`, out)
}

func TestNewGenerator_Unsupported(t *testing.T) {
	_, err := NewGenerator(context.Background(), ModelConfig{APIType: "mystery"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported")
}

func TestNewModelType(t *testing.T) {
	assert.Equal(t, ModelTypeOpenAI, NewModelType("GPT"))
	assert.Equal(t, ModelTypePerplexity, NewModelType("pplx"))
	assert.Equal(t, ModelTypeClaude, NewModelType("anthropic"))
	assert.Equal(t, ModelTypeUnknown, NewModelType("other"))
}
