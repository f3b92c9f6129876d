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

import (
	"errors"
	"strings"
)

// ArticleInput is supplied once when a workflow starts.
type ArticleInput struct {
	Topic              string `json:"topic" yaml:"topic" jsonschema:"description=The subject the article is about"`
	CompanyDescription string `json:"company_description" yaml:"company_description" jsonschema:"description=What the publishing company does"`
}

// Validate requires both fields to be non-blank.
func (in ArticleInput) Validate() error {
	var missing []string
	if strings.TrimSpace(in.Topic) == "" {
		missing = append(missing, "topic")
	}
	if strings.TrimSpace(in.CompanyDescription) == "" {
		missing = append(missing, "company_description")
	}
	if len(missing) > 0 {
		return errors.New("empty " + strings.Join(missing, ", "))
	}
	return nil
}

type Article struct {
	Title        string   `json:"title" yaml:"title" jsonschema:"description=SEO-optimized title"`
	Introduction string   `json:"introduction" yaml:"introduction" jsonschema:"description=Introduction paragraph"`
	MainPoints   []string `json:"main_points" yaml:"main_points" jsonschema:"description=Main bullet points of the article,minItems=1"`
	Conclusion   string   `json:"conclusion" yaml:"conclusion" jsonschema:"description=Conclusion paragraph"`
}

type ShortDescription struct {
	Description string `json:"description" yaml:"description" jsonschema:"description=Short SEO-friendly description"`
}

// MetaTags keeps tags in first-seen order; duplicates carry no meaning.
type MetaTags struct {
	Tags []string `json:"tags" yaml:"tags" jsonschema:"description=SEO-friendly meta tags"`
}

// Normalize trims tags and drops blanks and repeats.
func (m *MetaTags) Normalize() {
	seen := make(map[string]struct{}, len(m.Tags))
	out := make([]string, 0, len(m.Tags))
	for _, t := range m.Tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	m.Tags = out
}

// Joined renders the tags for display.
func (m MetaTags) Joined() string {
	return strings.Join(m.Tags, ", ")
}

var (
	ArticleInputSchema     = Define[ArticleInput]("article_input")
	ArticleSchema          = Define[Article]("article")
	ShortDescriptionSchema = Define[ShortDescription]("short_description")
	MetaTagsSchema         = Define[MetaTags]("meta_tags")
)
