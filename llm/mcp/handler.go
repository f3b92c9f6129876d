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


package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/cloudwego/seowriter/internal/log"
	"github.com/cloudwego/seowriter/internal/pipeline"
	"github.com/cloudwego/seowriter/internal/schema"
)

const (
	ToolGenerateArticle = "generate_article"
	DescGenerateArticle = "Generate an SEO article for a topic and company: researches the topic, " +
		"writes a structured article, then a short description and meta tags. " +
		"Returns the final workflow state as JSON."
)

// Tool pairs an MCP tool definition with its handler.
type Tool struct {
	mcp.Tool
	Handler server.ToolHandlerFunc
}

// NewTool binds the call arguments into R, runs handler and returns its
// result as JSON text. Handler errors become an error result, not a protocol
// error.
func NewTool[R any, T any](name string, desc string, schema json.RawMessage, handler func(ctx context.Context, req R) (*T, error)) Tool {
	return Tool{
		Tool: mcp.NewToolWithRawSchema(name, desc, schema),
		Handler: func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			var req R
			if err := request.BindArguments(&req); err != nil {
				return nil, err
			}
			var final string
			var isError bool
			if resp, err := handler(ctx, req); err != nil {
				isError = true
				final = err.Error()
			} else if js, err := json.Marshal(resp); err != nil {
				isError = true
				final = err.Error()
			} else {
				final = string(js)
			}
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					mcp.NewTextContent(final),
				},
				IsError: isError,
			}, nil
		},
	}
}

func articleInputSchema() json.RawMessage {
	raw, err := json.Marshal(schema.ArticleInputSchema.JSONSchema())
	if err != nil {
		panic(err)
	}
	return raw
}

func getArticleTools(pl *pipeline.Pipeline) []Tool {
	return []Tool{
		NewTool(ToolGenerateArticle, DescGenerateArticle, articleInputSchema(),
			func(ctx context.Context, in schema.ArticleInput) (*pipeline.WorkflowState, error) {
				log.Info("mcp: %s for topic %q", ToolGenerateArticle, in.Topic)
				st, err := pl.Run(ctx, in)
				if err != nil {
					return nil, err
				}
				return st, nil
			}),
	}
}
