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

var templates = map[TemplateID]string{
	TemplatePopularInfo: `
You are a helpful research assistant. Find popular articles on the topic: {topic}
`,

	TemplateArticle: `
You are an SEO copywriter. Write an article based on the information below.

Topic: {topic}
Company: {company_description}

Popular information:
{popular_info}

{format_instructions}
`,

	TemplateShortDescription: `
Generate a short SEO-friendly description for an article with the title "{title}" and introduction:
{introduction}

{format_instructions}
`,

	TemplateMetaTags: `
Generate SEO-friendly meta tags for an article titled "{title}" with main points:
{main_points}

{format_instructions}
`,
}
