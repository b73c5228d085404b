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

// Package reify materializes a structure tree against a filesystem: it
// creates directories, resolves leaf content, invokes each leaf's file
// operation, and returns the subset of the tree that actually changed.
// That changed subset is what VCS staging consumes afterwards.
package reify

import (
	"context"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-billy/v5"
	"github.com/rs/zerolog"
	"github.com/walteh/goscaffold/pkg/fileops"
	"github.com/walteh/goscaffold/pkg/opts"
	"github.com/walteh/goscaffold/pkg/render"
	"github.com/walteh/goscaffold/pkg/report"
	"github.com/walteh/goscaffold/pkg/structure"
	"gitlab.com/tozd/go/errors"
)

// ❌ ErrDirectoryExists reports an unexpected collision: a directory in
// the tree already exists on disk and neither update nor force is set.
var ErrDirectoryExists = errors.New("directory already exists")

// 🏗️ Reify walks the tree depth-first against fs and performs the
// filesystem side effects. The returned structure is homeomorphic to a
// subtree of the input and contains exactly the leaves that were written
// or removed; directories with no changed children are omitted. Pretend
// mode produces the identical changed subset and reporting with zero
// writes.
func Reify(ctx context.Context, fs billy.Filesystem, s structure.Structure, o opts.Options) (structure.Structure, opts.Options, error) {
	changed, err := walk(ctx, fs, s, o, nil)
	if err != nil {
		return nil, o, err
	}
	return changed, o, nil
}

func walk(ctx context.Context, fs billy.Filesystem, dir structure.Structure, o opts.Options, prefix structure.Path) (structure.Structure, error) {
	logger := zerolog.Ctx(ctx)
	rep := report.Ctx(ctx)
	changed := structure.Structure{}

	for _, name := range dir.Keys() {
		path := append(append(structure.Path{}, prefix...), name)
		switch node := dir[name].(type) {
		case structure.Structure:
			if err := makeDir(ctx, fs, path, o); err != nil {
				return nil, err
			}
			pop := rep.Scope()
			sub, err := walk(ctx, fs, node, o, path)
			pop()
			if err != nil {
				return nil, err
			}
			if len(sub) > 0 {
				changed[name] = sub
			}
		case structure.Leaf:
			if node.Content == nil {
				// placeholder leaf, never written
				continue
			}
			if skipped, pattern := matchesSkip(path, o.SkipPatterns); skipped {
				logger.Debug().Str("path", path.String()).Str("pattern", pattern).Msg("leaf pruned by skip pattern")
				rep.Report(ctx, "skip", path.String(), o.Pretend)
				continue
			}
			text, err := node.Content.Resolve(o)
			if err != nil {
				return nil, errors.Errorf("resolving content for %s: %w", path.String(), err)
			}
			op := node.Op
			if op == nil {
				op = fileops.Create
			}
			_, existed := statErr(fs, path.String())
			out, err := op(ctx, fs, path.String(), &text, o)
			if err != nil {
				return nil, errors.Errorf("applying file operation for %s: %w", path.String(), err)
			}
			if out == "" {
				rep.Report(ctx, "skip", path.String(), o.Pretend)
				continue
			}
			verb := "create"
			if existed {
				// a gone file after the op means a removal op ran; pretend
				// runs cannot observe that and report "update" instead
				verb = "update"
				if _, stillThere := statErr(fs, path.String()); !stillThere && !o.Pretend {
					verb = "remove"
				}
			}
			rep.Report(ctx, verb, path.String(), o.Pretend)
			changed[name] = structure.Leaf{Content: render.String(text), Op: node.Op}
		}
	}
	return changed, nil
}

// makeDir creates one directory of the tree. An existing directory is
// fine during update/force runs and a fatal collision otherwise.
func makeDir(ctx context.Context, fs billy.Filesystem, path structure.Path, o opts.Options) error {
	rep := report.Ctx(ctx)
	if _, exists := statErr(fs, path.String()); exists {
		if o.Update || o.Force {
			return nil
		}
		return errors.Errorf("%w: %s", ErrDirectoryExists, path.String())
	}
	if !o.Pretend {
		if err := fs.MkdirAll(path.String(), 0o755); err != nil {
			return errors.Errorf("creating directory %s: %w", path.String(), err)
		}
	}
	rep.Report(ctx, "create", path.String()+"/", o.Pretend)
	return nil
}

func matchesSkip(path structure.Path, patterns []string) (bool, string) {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, path.String()); err == nil && ok {
			return true, pattern
		}
	}
	return false, ""
}

func statErr(fs billy.Filesystem, path string) (error, bool) {
	_, err := fs.Stat(path)
	return err, err == nil
}
