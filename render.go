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

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/cloudwego/seowriter/internal/pipeline"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

func validFormat(f string) bool {
	return slices.Contains([]string{formatText, formatJSON, formatYAML}, f)
}

// render writes a completed run: the article sections for text, the whole
// state otherwise.
func render(w io.Writer, format string, st *pipeline.WorkflowState) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(st)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(st); err != nil {
			return err
		}
		return enc.Close()
	case formatText:
		return renderText(w, st)
	}
	return fmt.Errorf("unsupported format %q", format)
}

func renderText(w io.Writer, st *pipeline.WorkflowState) error {
	if st.Article == nil || st.ShortDescription == nil || st.MetaTags == nil {
		return fmt.Errorf("run %s is incomplete: stage %s", st.RunID, st.Stage)
	}
	a := st.Article
	fmt.Fprintln(w, "Title:", a.Title)
	fmt.Fprintln(w, "\nShort Description:", st.ShortDescription.Description)
	fmt.Fprintln(w, "\nMeta Tags:", st.MetaTags.Joined())
	fmt.Fprintln(w, "\nIntroduction:", a.Introduction)
	fmt.Fprintln(w, "\nMain Points:")
	for _, p := range a.MainPoints {
		fmt.Fprintln(w, "-", p)
	}
	_, err := fmt.Fprintln(w, "\nConclusion:", a.Conclusion)
	return err
}
