// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads the user's default scaffold options (author,
// email, license, skip patterns) from a .goscaffold.{yaml,hcl} file.
package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/rs/zerolog"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the defaults from bytes
	Parse(ctx context.Context, data []byte) (*Defaults, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📚 Defaults holds the user's standing scaffold preferences. Explicit
// CLI flags always win over these.
type Defaults struct {
	Author       string   `json:"author,omitempty" yaml:"author,omitempty" hcl:"author,optional"`
	Email        string   `json:"email,omitempty" yaml:"email,omitempty" hcl:"email,optional"`
	License      string   `json:"license,omitempty" yaml:"license,omitempty" hcl:"license,optional"`
	URL          string   `json:"url,omitempty" yaml:"url,omitempty" hcl:"url,optional"`
	Extensions   []string `json:"extensions,omitempty" yaml:"extensions,omitempty" hcl:"extensions,optional"`
	SkipPatterns []string `json:"skip_patterns,omitempty" yaml:"skip_patterns,omitempty" hcl:"skip_patterns,optional"`
}

// 🎯 Load loads defaults from a file
func Load(ctx context.Context, path string) (*Defaults, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading defaults")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading defaults file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing defaults: %w", err)
	}
	return cfg, nil
}

// 🔍 Locate returns the first defaults file found: .goscaffold.{yaml,
// yml,hcl} in the working directory, then in the home directory. An
// empty string means "no defaults file", which is not an error.
func Locate() string {
	names := []string{".goscaffold.yaml", ".goscaffold.yml", ".goscaffold.hcl"}
	dirs := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, home)
	}
	for _, dir := range dirs {
		for _, name := range names {
			p := filepath.Join(dir, name)
			if _, err := os.Stat(p); err == nil {
				return p
			}
		}
	}
	return ""
}

// 🔧 YAMLParser implements the Parser interface for YAML files
type YAMLParser struct{}

func init() {
	Register(&YAMLParser{})
}

func (p *YAMLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".yaml") || strings.HasSuffix(filename, ".yml")
}

func (p *YAMLParser) Parse(ctx context.Context, data []byte) (*Defaults, error) {
	var cfg Defaults
	decoder := yaml.NewDecoder(strings.NewReader(string(data)))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}
	return &cfg, nil
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

func init() {
	Register(&HCLParser{})
}

func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Defaults, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "defaults.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	var cfg Defaults
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &cfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}
	return &cfg, nil
}
