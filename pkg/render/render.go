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

// Package render models lazy, options-parameterized text sources. A
// structure leaf's content is a Renderable that resolves to text only
// once reification knows the final options.
package render

import (
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/walteh/goscaffold/pkg/opts"
	"github.com/walteh/goscaffold/pkg/version"
	"gitlab.com/tozd/go/errors"
)

// funcs are the helpers available inside every template.
var funcs = template.FuncMap{
	"year":        func() string { return strconv.Itoa(time.Now().Year()) },
	"toolVersion": func() string { return version.Version },
	"underline":   func(s string) string { return strings.Repeat("=", len(s)) },
}

// 🎯 Renderable is anything resolvable to text given a set of options.
// Plain strings are wrapped in the trivial String implementation so the
// rest of the codebase only ever deals with this one interface.
type Renderable interface {
	Resolve(o opts.Options) (string, error)
}

// 📝 String is a literal Renderable. The empty string is a valid value
// and produces an empty file, which is distinct from a nil Renderable
// ("do not write").
type String string

func (s String) Resolve(opts.Options) (string, error) {
	return string(s), nil
}

// 🔧 Func adapts a plain function to a Renderable.
type Func func(o opts.Options) (string, error)

func (f Func) Resolve(o opts.Options) (string, error) {
	return f(o)
}

// 📄 Template renders a text/template against the options.
type Template struct {
	name string
	tmpl *template.Template
}

// 🏭 NewTemplate parses text into a named template.
func NewTemplate(name, text string) (*Template, error) {
	t, err := template.New(name).Funcs(funcs).Parse(text)
	if err != nil {
		return nil, errors.Errorf("parsing template %s: %w", name, err)
	}
	return &Template{name: name, tmpl: t}, nil
}

// 🏭 MustTemplate is NewTemplate for static template literals.
func MustTemplate(name, text string) *Template {
	t, err := NewTemplate(name, text)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Template) Name() string {
	return t.name
}

func (t *Template) Resolve(o opts.Options) (string, error) {
	var sb strings.Builder
	if err := t.tmpl.Execute(&sb, o); err != nil {
		return "", errors.Errorf("rendering template %s: %w", t.name, err)
	}
	return sb.String(), nil
}
