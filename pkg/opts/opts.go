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

// Package opts holds the scaffold options threaded through the whole
// action pipeline. Actions receive an Options value and return a new one;
// they never mutate the caller's copy in place.
package opts

import (
	"maps"
	"slices"
)

// 📦 Options carries every parameter a scaffold run needs. The struct is
// passed by value through the pipeline; Clone gives actions a safe copy
// before they touch the reference-typed fields.
type Options struct {
	// ProjectPath is the target directory, relative to the working dir.
	ProjectPath string

	// Package is the Python package name (a valid identifier).
	Package string

	// Name is the human-readable project name. Defaults to Package.
	Name string

	Description string
	Author      string
	Email       string
	License     string
	URL         string

	// Update re-runs the scaffold against an existing project.
	Update bool

	// Force allows overwriting files and reusing existing directories.
	Force bool

	// Pretend performs a dry run: identical reporting, zero writes.
	Pretend bool

	// Extensions lists the names of activated extensions, for the record.
	Extensions []string

	// SkipPatterns are doublestar globs pruned from the structure during
	// reification (relative to the project root).
	SkipPatterns []string

	// Extra holds extension-owned keys. Core actions never read it.
	Extra map[string]any
}

// 🔄 Clone returns a deep copy of the options. Actions that append to
// slices or set Extra keys must clone first.
func (o Options) Clone() Options {
	out := o
	out.Extensions = slices.Clone(o.Extensions)
	out.SkipPatterns = slices.Clone(o.SkipPatterns)
	if o.Extra != nil {
		out.Extra = maps.Clone(o.Extra)
	}
	return out
}

// 🔧 WithExtra returns a copy of the options with one extra key set.
func (o Options) WithExtra(key string, value any) Options {
	out := o.Clone()
	if out.Extra == nil {
		out.Extra = map[string]any{}
	}
	out.Extra[key] = value
	return out
}
