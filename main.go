// Copyright 2025 CloudWeGo Authors
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

/**
 * Copyright 2024 ByteDance Inc.
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

package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/cloudwego/seowriter/internal/config"
	"github.com/cloudwego/seowriter/internal/log"
	"github.com/cloudwego/seowriter/internal/pipeline"
	"github.com/cloudwego/seowriter/internal/pipeline/steps"
	"github.com/cloudwego/seowriter/internal/schema"
	"github.com/cloudwego/seowriter/internal/telemetry"
	"github.com/cloudwego/seowriter/llm"
	"github.com/cloudwego/seowriter/llm/mcp"
	"github.com/cloudwego/seowriter/version"
)

const Usage = `seowriter <Action> [Flags]
Action:
   generate     research a topic and write an SEO article, description and meta tags
   mcp          run as a MCP server exposing the generate_article tool over stdio
   version      print the version of seowriter
`

type generateOptions struct {
	Topic   string
	Company string
	Config  string
	Format  string
	Trace   bool
}

func main() {
	flags := flag.NewFlagSet("seowriter", flag.ExitOnError)

	flagHelp := flags.Bool("h", false, "Show help message.")
	flagVerbose := flags.Bool("verbose", false, "Verbose mode.")

	var opts generateOptions
	flags.StringVar(&opts.Topic, "topic", "", "article topic (prompted for when empty)")
	flags.StringVar(&opts.Company, "company", "", "company description (prompted for when empty)")
	flags.StringVar(&opts.Config, "config", "", "YAML config file for the search and general models")
	flags.StringVar(&opts.Format, "format", formatText, "output format: text, json or yaml")
	flags.BoolVar(&opts.Trace, "trace", false, "write OpenTelemetry spans to stderr")

	flags.Usage = func() {
		fmt.Fprint(os.Stderr, Usage)
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flags.PrintDefaults()
	}

	if len(os.Args) < 2 {
		flags.Usage()
		os.Exit(1)
	}
	action := strings.ToLower(os.Args[1])

	switch action {
	case "version":
		fmt.Fprintf(os.Stdout, "%s\n", version.Version)

	case "generate":
		parseFlags(flags, flagHelp, flagVerbose)
		if !validFormat(opts.Format) {
			log.Error("Unsupported format: %s. Supported: text, json, yaml\n", opts.Format)
			os.Exit(1)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		err := runGenerate(ctx, opts, os.Stdin, os.Stdout)
		stop()
		if err != nil {
			var se *pipeline.StepError
			if errors.As(err, &se) {
				log.Error("Pipeline: failed step=%s, kind=%s\n", se.Step, se.Kind())
			}
			log.Error("Failed to generate: %v\n", err)
			os.Exit(1)
		}

	case "mcp":
		parseFlags(flags, flagHelp, flagVerbose)

		pl, err := buildPipeline(context.Background(), opts.Config)
		if err != nil {
			log.Error("Failed to set up models: %v\n", err)
			os.Exit(1)
		}
		svr := mcp.NewServer(mcp.ServerOptions{
			ServerName:    "seowriter",
			ServerVersion: version.Version,
			Verbose:       *flagVerbose,
			Pipeline:      pl,
		})
		if err := svr.ServeStdio(); err != nil {
			log.Error("Failed to run MCP server: %v\n", err)
			os.Exit(1)
		}

	default:
		fmt.Fprintf(os.Stderr, "unsupported action: %s\n", action)
		flags.Usage()
		os.Exit(1)
	}
}

func runGenerate(ctx context.Context, opts generateOptions, in io.Reader, out io.Writer) error {
	if opts.Trace {
		shutdown, err := telemetry.InitTracer("seowriter", os.Stderr)
		if err != nil {
			return err
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				log.Warn("Failed to flush traces: %v\n", err)
			}
		}()
	}

	pl, err := buildPipeline(ctx, opts.Config)
	if err != nil {
		return err
	}

	input, err := readInput(opts, in, out)
	if err != nil {
		return err
	}

	st, err := pl.Run(ctx, input)
	if err != nil {
		return err
	}
	return render(out, opts.Format, st)
}

// buildPipeline loads the model config and wires both generators.
func buildPipeline(ctx context.Context, path string) (*pipeline.Pipeline, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	search, err := llm.NewGenerator(ctx, cfg.Search)
	if err != nil {
		return nil, fmt.Errorf("search model: %w", err)
	}
	general, err := llm.NewGenerator(ctx, cfg.General)
	if err != nil {
		return nil, fmt.Errorf("general model: %w", err)
	}
	log.Debug("search=%s/%s general=%s/%s\n", cfg.Search.APIType, cfg.Search.ModelName, cfg.General.APIType, cfg.General.ModelName)
	return steps.NewArticlePipeline(search, general), nil
}

// readInput takes topic and company from flags, prompting on in for any
// that are missing.
func readInput(opts generateOptions, in io.Reader, out io.Writer) (schema.ArticleInput, error) {
	input := schema.ArticleInput{Topic: opts.Topic, CompanyDescription: opts.Company}
	if input.Topic != "" && input.CompanyDescription != "" {
		return input, nil
	}
	r := bufio.NewReader(in)
	ask := func(question string) (string, error) {
		fmt.Fprint(out, question)
		line, err := r.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return "", fmt.Errorf("read answer: %w", err)
		}
		return strings.TrimSpace(line), nil
	}
	var err error
	if input.Topic == "" {
		if input.Topic, err = ask("Enter a topic: "); err != nil {
			return input, err
		}
	}
	if input.CompanyDescription == "" {
		if input.CompanyDescription, err = ask("Enter a company description: "); err != nil {
			return input, err
		}
	}
	return input, nil
}

func parseFlags(flags *flag.FlagSet, flagHelp *bool, flagVerbose *bool) {
	if len(os.Args) > 2 {
		flags.Parse(os.Args[2:])
	}

	if flagHelp != nil && *flagHelp {
		flags.Usage()
		os.Exit(0)
	}

	if flagVerbose != nil && *flagVerbose {
		log.SetLogLevel(log.DebugLevel)
	}
}
