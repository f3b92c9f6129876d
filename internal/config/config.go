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

package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"

	"github.com/cloudwego/seowriter/llm"
)

const EnvPrefix = "SEOWRITER_"

// Config holds the two model deployments the article pipeline needs.
type Config struct {
	Search  llm.ModelConfig `koanf:"search"`  // search-augmented research model
	General llm.ModelConfig `koanf:"general"` // writes the article, description and tags
}

var defaults = map[string]any{
	"search.name":         "search",
	"search.type":         string(llm.ModelTypePerplexity),
	"search.model_name":   "sonar",
	"search.base_url":     "https://api.perplexity.ai",
	"general.name":        "general",
	"general.type":        string(llm.ModelTypeOpenAI),
	"general.model_name":  "gpt-4o-mini",
	"general.temperature": 0.7,
}

var shared = map[string]any{
	"timeout":    "600s",
	"retries":    0,
	"max_tokens": 16384,
}

// Load reads .env (if any), then the optional YAML file at path, then
// SEOWRITER_* environment variables. Missing keys fall back to defaults.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "load config file %s", path)
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, "load environment")
	}

	for key, v := range defaults {
		if !k.Exists(key) {
			k.Set(key, v)
		}
	}
	for _, section := range []string{"search", "general"} {
		for key, v := range shared {
			if !k.Exists(section + "." + key) {
				k.Set(section+"."+key, v)
			}
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	cfg.Search.APIType = llm.NewModelType(string(cfg.Search.APIType))
	cfg.General.APIType = llm.NewModelType(string(cfg.General.APIType))
	if cfg.General.APIKey == "" {
		cfg.General.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.Search.APIKey == "" {
		cfg.Search.APIKey = os.Getenv("PPLX_API_KEY")
	}
	return &cfg, nil
}

// envKey maps SEOWRITER_GENERAL_API_KEY to general.api_key.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.Replace(s, "_", ".", 1)
}

// Validate rejects unknown model types, empty model names and negative
// retry budgets.
func (c *Config) Validate() error {
	for _, m := range []struct {
		section string
		cfg     llm.ModelConfig
	}{{"search", c.Search}, {"general", c.General}} {
		if m.cfg.APIType == llm.ModelTypeUnknown {
			return errors.Errorf("%s: unknown model type", m.section)
		}
		if m.cfg.ModelName == "" {
			return errors.Errorf("%s: model_name is required", m.section)
		}
		if m.cfg.Retries < 0 {
			return errors.Errorf("%s: retries must not be negative", m.section)
		}
		if m.cfg.Timeout < 0 {
			return errors.Errorf("%s: timeout must not be negative, got %v", m.section, m.cfg.Timeout)
		}
	}
	return nil
}
