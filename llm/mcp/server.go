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
	"github.com/mark3labs/mcp-go/server"

	"github.com/cloudwego/seowriter/internal/pipeline"
)

type ServerOptions struct {
	ServerName    string
	ServerVersion string
	Pipeline      *pipeline.Pipeline
	Verbose       bool
}

// Server exposes the article pipeline as MCP tools.
type Server struct {
	Server *server.MCPServer
}

func NewServer(opts ServerOptions) *Server {
	svr := server.NewMCPServer(opts.ServerName, opts.ServerVersion,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	for _, t := range getArticleTools(opts.Pipeline) {
		svr.AddTool(t.Tool, t.Handler)
	}
	return &Server{Server: svr}
}

// ServeStdio blocks serving JSON-RPC on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.Server)
}
