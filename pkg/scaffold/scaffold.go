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

// Package scaffold wires the whole tool together: the default action
// list, the extension activation pre-pass, and the Create entry point
// that folds a (structure, options) pair through the pipeline.
package scaffold

import (
	"context"

	"github.com/go-git/go-billy/v5"
	"github.com/rs/zerolog"
	"github.com/walteh/goscaffold/pkg/actions"
	"github.com/walteh/goscaffold/pkg/config"
	"github.com/walteh/goscaffold/pkg/opts"
	"github.com/walteh/goscaffold/pkg/structure"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Git is the VCS capability the scaffold consumes. vcs.Git is the
// production implementation; tests inject a stub.
type Git interface {
	Probe(ctx context.Context) error
	IsRepository(ctx context.Context, dir string) bool
	HasUncommittedChanges(ctx context.Context, dir string) (bool, error)
	ConfigValue(ctx context.Context, key string) string
	InitAndCommit(ctx context.Context, dir string, changed structure.Structure, pretend bool, message string) error
}

// 🔧 Deps contains the collaborators of a Scaffolder.
type Deps struct {
	// Fs is the filesystem the project path is relative to.
	Fs billy.Filesystem
	// Git is the VCS collaborator.
	Git Git
	// Defaults are the user's standing preferences, may be nil.
	Defaults *config.Defaults
	// Extensions are the activated extensions for this run.
	Extensions []actions.Extension
}

// 🎮 Scaffolder drives one scaffold run.
type Scaffolder struct {
	fs       billy.Filesystem
	git      Git
	defaults *config.Defaults
	exts     []actions.Extension
}

// 🏭 New creates a scaffolder with the given dependencies. Extension
// names listed in the defaults file are resolved through the registry
// and activated alongside the explicitly supplied ones; activation
// dedups by name, so naming an already-supplied extension is harmless.
func New(d Deps) (*Scaffolder, error) {
	if d.Fs == nil {
		return nil, errors.Errorf("filesystem is required")
	}
	if d.Git == nil {
		return nil, errors.Errorf("git collaborator is required")
	}
	exts := append([]actions.Extension{}, d.Extensions...)
	if d.Defaults != nil {
		for _, name := range d.Defaults.Extensions {
			e, ok := actions.LookupExtension(name)
			if !ok {
				return nil, errors.Errorf("unknown extension %q in defaults file", name)
			}
			exts = append(exts, e)
		}
	}
	return &Scaffolder{
		fs:       d.Fs,
		git:      d.Git,
		defaults: d.Defaults,
		exts:     exts,
	}, nil
}

// 🏗️ Create runs the full pipeline: probe the environment, let the
// extensions rewrite the default action list, then fold the actions
// over an empty structure. The returned structure is the changed subset
// reification reported.
func (sc *Scaffolder) Create(ctx context.Context, o opts.Options) (structure.Structure, opts.Options, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("project", o.ProjectPath).Bool("update", o.Update).Msg("starting scaffold run")

	if err := sc.git.Probe(ctx); err != nil {
		return nil, o, err
	}

	list, err := actions.Discover(sc.defaultActions(), sc.exts)
	if err != nil {
		return nil, o, err
	}
	for _, a := range list {
		logger.Debug().Str("action", a.ID()).Msg("pipeline step")
	}
	return actions.Pipeline(ctx, list, o)
}
