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

// Package report prints the user-facing progress lines of a scaffold
// run: one verb-prefixed line per activity, indented by the nesting
// depth of the running action. Indentation is explicit scope state on
// the reporter, never ambient globals.
package report

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// 🎨 display configuration
const (
	indentWidth = 2  // spaces per nesting level
	verbWidth   = 10 // column width for the activity verb
)

var verbColors = map[string]color.Attribute{
	"create":  color.FgGreen,
	"update":  color.FgBlue,
	"remove":  color.FgRed,
	"skip":    color.FgYellow,
	"run":     color.FgCyan,
	"invoke":  color.FgCyan,
	"pretend": color.FgMagenta,
}

// 🎯 Reporter writes indented progress lines to a console writer and
// mirrors every line into zerolog for machine consumption.
type Reporter struct {
	mu      sync.Mutex
	console io.Writer
	depth   int
}

// 🏭 New creates a reporter writing to console. A nil console silences
// the user-facing output but keeps the zerolog mirror.
func New(console io.Writer) *Reporter {
	return &Reporter{console: console}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 NewContext attaches the reporter to a context.
func NewContext(ctx context.Context, r *Reporter) context.Context {
	return context.WithValue(ctx, contextKey{}, r)
}

// 🎯 Ctx returns the reporter from the context, or a silent one.
func Ctx(ctx context.Context) *Reporter {
	if r, ok := ctx.Value(contextKey{}).(*Reporter); ok {
		return r
	}
	return New(nil)
}

// 📝 Report prints one activity line at the current depth. Pretend runs
// prefix the verb so dry-run output stays honest while remaining
// line-for-line identical in shape to a real run.
func (r *Reporter) Report(ctx context.Context, verb, subject string, pretend bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	shown := verb
	if pretend {
		shown = "pretend " + verb
	}
	attr, ok := verbColors[verb]
	if !ok {
		attr = color.FgWhite
	}
	if r.console != nil {
		fmt.Fprintf(r.console, "%s%s %s\n",
			strings.Repeat(" ", r.depth*indentWidth),
			color.New(attr).Sprintf("%-*s", verbWidth, shown),
			subject)
	}
	zerolog.Ctx(ctx).Debug().
		Str("verb", verb).
		Str("subject", subject).
		Bool("pretend", pretend).
		Int("depth", r.depth).
		Msg("report")
}

// 📐 Scope increases the indent depth and returns the matching pop.
// Callers defer the returned func so nesting always unwinds.
func (r *Reporter) Scope() func() {
	r.mu.Lock()
	r.depth++
	r.mu.Unlock()
	return func() {
		r.mu.Lock()
		if r.depth > 0 {
			r.depth--
		}
		r.mu.Unlock()
	}
}
