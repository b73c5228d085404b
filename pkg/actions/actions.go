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

// Package actions implements the scaffold pipeline: an ordered list of
// named pure steps folded over a (structure, options) pair, with
// positional registration by name and extension-driven rewriting of the
// list before the fold runs.
package actions

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/goscaffold/pkg/opts"
	"github.com/walteh/goscaffold/pkg/report"
	"github.com/walteh/goscaffold/pkg/structure"
	"gitlab.com/tozd/go/errors"
)

// ❌ ErrActionNotFound reports a registration reference that matched no
// action in the list. This is a configuration error, never recovered.
var ErrActionNotFound = errors.New("action not found in pipeline")

// 🧩 StructureDefinitionAction is the conventional name of the action
// that populates the base structure; it is the default insertion point
// for Register when no placement is given.
const StructureDefinitionAction = "define_structure"

// 🎯 Func is one pure step of the pipeline.
type Func func(ctx context.Context, s structure.Structure, o opts.Options) (structure.Structure, opts.Options, error)

// 📛 Action pairs a step with its identity. Identity ("pkg:name") is a
// registration lookup key, not behavioral identity: two actions with the
// same identity are duplicates to extension dedup.
type Action struct {
	Pkg  string
	Name string
	Fn   Func
}

// 🏭 Named builds an action record. Pkg is the defining package's short
// name, Name the function's conventional name.
func Named(pkg, name string, fn Func) Action {
	return Action{Pkg: pkg, Name: name, Fn: fn}
}

// 🔑 ID returns the "pkg:name" identity key.
func (a Action) ID() string {
	return a.Pkg + ":" + a.Name
}

// matches resolves the reference grammar: a bare function name, or
// "pkg:function" when names collide across packages.
func (a Action) matches(ref string) bool {
	if strings.Contains(ref, ":") {
		return a.ID() == ref
	}
	return a.Name == ref
}

// 📌 Placement selects where Register inserts. The zero value means
// "immediately after the structure-definition action".
type Placement struct {
	Before string
	After  string
}

// ➕ Register returns a new list with action inserted immediately before
// or after the FIRST action matching the placement reference. An unknown
// reference fails with ErrActionNotFound.
func Register(list []Action, action Action, where Placement) ([]Action, error) {
	ref := where.After
	offset := 1
	if where.Before != "" {
		ref = where.Before
		offset = 0
	}
	if ref == "" {
		ref = StructureDefinitionAction
	}
	idx := indexOf(list, ref)
	if idx < 0 {
		return nil, errors.Errorf("%w: %q", ErrActionNotFound, ref)
	}
	out := make([]Action, 0, len(list)+1)
	out = append(out, list[:idx+offset]...)
	out = append(out, action)
	out = append(out, list[idx+offset:]...)
	return out, nil
}

// ➖ Unregister returns a new list without the FIRST action matching
// ref. Same not-found semantics as Register.
func Unregister(list []Action, ref string) ([]Action, error) {
	idx := indexOf(list, ref)
	if idx < 0 {
		return nil, errors.Errorf("%w: %q", ErrActionNotFound, ref)
	}
	out := make([]Action, 0, len(list)-1)
	out = append(out, list[:idx]...)
	out = append(out, list[idx+1:]...)
	return out, nil
}

func indexOf(list []Action, ref string) int {
	for i, a := range list {
		if a.matches(ref) {
			return i
		}
	}
	return -1
}

// 🏃 Invoke runs one action: logs its identity, opens a nested report
// scope for its duration, and propagates its error unchanged. An action
// failing aborts the whole pipeline.
func Invoke(ctx context.Context, a Action, s structure.Structure, o opts.Options) (structure.Structure, opts.Options, error) {
	zerolog.Ctx(ctx).Debug().Str("action", a.ID()).Msg("running action")
	rep := report.Ctx(ctx)
	rep.Report(ctx, "run", a.ID(), false)
	pop := rep.Scope()
	defer pop()
	return a.Fn(ctx, s, o)
}

// 🔁 Pipeline folds Invoke over the list, starting from an empty
// structure and the given options.
func Pipeline(ctx context.Context, list []Action, o opts.Options) (structure.Structure, opts.Options, error) {
	s := structure.Structure{}
	var err error
	for _, a := range list {
		s, o, err = Invoke(ctx, a, s, o)
		if err != nil {
			return nil, o, errors.Errorf("action %s: %w", a.ID(), err)
		}
	}
	return s, o, nil
}
