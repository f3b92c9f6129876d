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

package steps

import (
	"strings"

	"github.com/cloudwego/seowriter/internal/parser"
	"github.com/cloudwego/seowriter/internal/pipeline"
	"github.com/cloudwego/seowriter/internal/schema"
	"github.com/cloudwego/seowriter/llm"
	"github.com/cloudwego/seowriter/llm/prompt"
)

const (
	GatherInformation        = "gather_information"
	GenerateArticle          = "generate_article"
	GenerateShortDescription = "generate_short_description"
	GenerateMetaTags         = "generate_meta_tags"
)

// NewArticlePipeline wires the four article steps in order. search backs the
// research step; general backs the three writing steps.
func NewArticlePipeline(search, general llm.Generator) *pipeline.Pipeline {
	return pipeline.New(
		NewGatherInformation(search),
		NewGenerateArticle(general),
		NewGenerateShortDescription(general),
		NewGenerateMetaTags(general),
	)
}

// NewGatherInformation collects popular information on the topic as free text.
func NewGatherInformation(search llm.Generator) pipeline.Step {
	return &llmStep{
		name:     GatherInformation,
		reads:    []pipeline.Key{pipeline.KeyInputs},
		writes:   []pipeline.Key{pipeline.KeyPopularInfo},
		template: prompt.TemplatePopularInfo,
		gen:      search,
		vars: func(st *pipeline.WorkflowState) map[string]any {
			return map[string]any{"topic": st.Inputs.Topic}
		},
		parse: func(raw string) (*pipeline.Update, error) {
			info, err := parser.Text(raw)
			if err != nil {
				return nil, err
			}
			return &pipeline.Update{PopularInfo: &info}, nil
		},
	}
}

// NewGenerateArticle writes the structured article.
func NewGenerateArticle(general llm.Generator) pipeline.Step {
	return &llmStep{
		name:         GenerateArticle,
		reads:        []pipeline.Key{pipeline.KeyInputs, pipeline.KeyPopularInfo},
		writes:       []pipeline.Key{pipeline.KeyArticle},
		template:     prompt.TemplateArticle,
		gen:          general,
		instructions: schema.ArticleSchema.Describe(),
		vars: func(st *pipeline.WorkflowState) map[string]any {
			return map[string]any{
				"topic":               st.Inputs.Topic,
				"company_description": st.Inputs.CompanyDescription,
				"popular_info":        *st.PopularInfo,
			}
		},
		parse: func(raw string) (*pipeline.Update, error) {
			a, err := parser.Parse(raw, schema.ArticleSchema)
			if err != nil {
				return nil, err
			}
			return &pipeline.Update{Article: &a}, nil
		},
	}
}

func NewGenerateShortDescription(general llm.Generator) pipeline.Step {
	return &llmStep{
		name:         GenerateShortDescription,
		reads:        []pipeline.Key{pipeline.KeyArticle},
		writes:       []pipeline.Key{pipeline.KeyShortDescription},
		template:     prompt.TemplateShortDescription,
		gen:          general,
		instructions: schema.ShortDescriptionSchema.Describe(),
		vars: func(st *pipeline.WorkflowState) map[string]any {
			return map[string]any{
				"title":        st.Article.Title,
				"introduction": st.Article.Introduction,
			}
		},
		parse: func(raw string) (*pipeline.Update, error) {
			d, err := parser.Parse(raw, schema.ShortDescriptionSchema)
			if err != nil {
				return nil, err
			}
			return &pipeline.Update{ShortDescription: &d}, nil
		},
	}
}

func NewGenerateMetaTags(general llm.Generator) pipeline.Step {
	return &llmStep{
		name:         GenerateMetaTags,
		reads:        []pipeline.Key{pipeline.KeyArticle},
		writes:       []pipeline.Key{pipeline.KeyMetaTags},
		template:     prompt.TemplateMetaTags,
		gen:          general,
		instructions: schema.MetaTagsSchema.Describe(),
		vars: func(st *pipeline.WorkflowState) map[string]any {
			return map[string]any{
				"title":       st.Article.Title,
				"main_points": bulletList(st.Article.MainPoints),
			}
		},
		parse: func(raw string) (*pipeline.Update, error) {
			m, err := parser.Parse(raw, schema.MetaTagsSchema)
			if err != nil {
				return nil, err
			}
			return &pipeline.Update{MetaTags: &m}, nil
		},
	}
}

func bulletList(items []string) string {
	var sb strings.Builder
	for i, it := range items {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString("- ")
		sb.WriteString(it)
	}
	return sb.String()
}
