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

package scaffold

import (
	"context"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/goscaffold/pkg/actions"
	"github.com/walteh/goscaffold/pkg/fileops"
	"github.com/walteh/goscaffold/pkg/opts"
	"github.com/walteh/goscaffold/pkg/reify"
	"github.com/walteh/goscaffold/pkg/report"
	"github.com/walteh/goscaffold/pkg/structure"
	"github.com/walteh/goscaffold/pkg/templates"
	"github.com/walteh/goscaffold/pkg/update"
	"gitlab.com/tozd/go/errors"
)

// defaultActions is the fixed core sequence every run starts from.
// Extensions insert around these by name.
func (sc *Scaffolder) defaultActions() []actions.Action {
	return []actions.Action{
		actions.Named("scaffold", "get_default_options", sc.getDefaultOptions),
		actions.Named("scaffold", "verify_options_consistency", sc.verifyOptionsConsistency),
		actions.Named("scaffold", actions.StructureDefinitionAction, sc.defineStructure),
		actions.Named("scaffold", "verify_project_dir", sc.verifyProjectDir),
		actions.Named("scaffold", "version_migration", sc.versionMigration),
		actions.Named("scaffold", "create_structure", sc.createStructure),
		actions.Named("scaffold", "init_vcs", sc.initVCS),
		actions.Named("scaffold", "report_done", sc.reportDone),
	}
}

var identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// sanitizePackage derives a Python package name from a project name.
func sanitizePackage(name string) string {
	out := strings.ToLower(name)
	out = strings.NewReplacer("-", "_", " ", "_", ".", "_").Replace(out)
	var sb strings.Builder
	for _, r := range out {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			sb.WriteRune(r)
		}
	}
	return strings.TrimLeft(sb.String(), "0123456789")
}

// getDefaultOptions fills the derived and defaulted option values:
// name from the project path, package from the name, author identity
// from the defaults file or the user's git config.
func (sc *Scaffolder) getDefaultOptions(ctx context.Context, s structure.Structure, o opts.Options) (structure.Structure, opts.Options, error) {
	if o.ProjectPath == "" {
		return nil, o, errors.Errorf("project path is required")
	}
	o = o.Clone()
	o.ProjectPath = path.Clean(filepath.ToSlash(o.ProjectPath))

	if o.Name == "" {
		o.Name = path.Base(o.ProjectPath)
	}
	if o.Package == "" {
		o.Package = sanitizePackage(o.Name)
	}
	if d := sc.defaults; d != nil {
		if o.Author == "" {
			o.Author = d.Author
		}
		if o.Email == "" {
			o.Email = d.Email
		}
		if o.License == "" {
			o.License = d.License
		}
		if o.URL == "" {
			o.URL = d.URL
		}
		o.SkipPatterns = append(o.SkipPatterns, d.SkipPatterns...)
	}
	if o.Author == "" {
		o.Author = sc.git.ConfigValue(ctx, "user.name")
	}
	if o.Email == "" {
		o.Email = sc.git.ConfigValue(ctx, "user.email")
	}
	if o.License == "" {
		o.License = "MIT"
	}

	o.Extensions = o.Extensions[:0]
	for _, e := range sc.exts {
		o.Extensions = append(o.Extensions, e.Name())
	}
	return s, o, nil
}

// verifyOptionsConsistency rejects self-inconsistent inputs before any
// structure is built.
func (sc *Scaffolder) verifyOptionsConsistency(_ context.Context, s structure.Structure, o opts.Options) (structure.Structure, opts.Options, error) {
	if !identifierRe.MatchString(o.Package) {
		return nil, o, errors.Errorf("%w: %q is not a valid Python identifier", ErrInvalidPackage, o.Package)
	}
	return s, o, nil
}

// defineStructure populates the base project layout. The result is
// merged over whatever earlier actions placed in the tree, so extension
// content registered before this point survives with its own policies.
func (sc *Scaffolder) defineStructure(_ context.Context, s structure.Structure, o opts.Options) (structure.Structure, opts.Options, error) {
	noOverwrite := fileops.NoOverwrite(fileops.Create)
	skeletonOp := fileops.SkipOnUpdate(fileops.Create)

	project := structure.Structure{
		"README.rst":    structure.Leaf{Content: templates.MustGet("readme"), Op: noOverwrite},
		".gitignore":    structure.Leaf{Content: templates.MustGet("gitignore"), Op: noOverwrite},
		"LICENSE.txt":   structure.Leaf{Content: templates.License(o.License), Op: noOverwrite},
		"AUTHORS.rst":   structure.Leaf{Content: templates.MustGet("authors"), Op: noOverwrite},
		"CHANGELOG.rst": structure.Leaf{Content: templates.MustGet("changelog"), Op: noOverwrite},
		"setup.py":      structure.Leaf{Content: templates.MustGet("setup_py"), Op: noOverwrite},
		"setup.cfg":     structure.Leaf{Content: templates.MustGet("setup_cfg"), Op: noOverwrite},
		"src": structure.Structure{
			o.Package: structure.Structure{
				"__init__.py": structure.Leaf{Content: templates.MustGet("init"), Op: noOverwrite},
				"skeleton.py": structure.Leaf{Content: templates.MustGet("skeleton"), Op: skeletonOp},
			},
		},
		"tests": structure.Structure{
			"conftest.py":      structure.Leaf{Content: templates.MustGet("conftest"), Op: noOverwrite},
			"test_skeleton.py": structure.Leaf{Content: templates.MustGet("test_skeleton"), Op: skeletonOp},
		},
		"docs": structure.Structure{
			"index.rst": structure.Leaf{Content: templates.MustGet("docs_index"), Op: noOverwrite},
		},
	}
	return structure.Merge(s, structure.Nest(structure.P(o.ProjectPath), project)), o, nil
}

// verifyProjectDir checks the target directory against the run mode.
func (sc *Scaffolder) verifyProjectDir(ctx context.Context, s structure.Structure, o opts.Options) (structure.Structure, opts.Options, error) {
	_, err := sc.fs.Stat(o.ProjectPath)
	exists := err == nil

	if !o.Update {
		if exists && !o.Force {
			return nil, o, errors.Errorf("%w: %s", reify.ErrDirectoryExists, o.ProjectPath)
		}
		return s, o, nil
	}
	if !exists {
		return nil, o, errors.Errorf("%w: %s", ErrProjectMissing, o.ProjectPath)
	}
	dir := sc.realPath(o.ProjectPath)
	if sc.git.IsRepository(ctx, dir) && !o.Force {
		dirty, err := sc.git.HasUncommittedChanges(ctx, dir)
		if err != nil {
			return nil, o, err
		}
		if dirty {
			return nil, o, errors.Errorf("%w: %s", ErrDirtyWorkspace, o.ProjectPath)
		}
	}
	return s, o, nil
}

// versionMigration applies the update layer; a no-op on fresh runs.
func (sc *Scaffolder) versionMigration(ctx context.Context, s structure.Structure, o opts.Options) (structure.Structure, opts.Options, error) {
	if err := update.Apply(ctx, sc.fs, o); err != nil {
		return nil, o, err
	}
	return s, o, nil
}

// createStructure reifies the tree. From here on the pipeline carries
// the changed subset, not the full planned structure.
func (sc *Scaffolder) createStructure(ctx context.Context, s structure.Structure, o opts.Options) (structure.Structure, opts.Options, error) {
	return reify.Reify(ctx, sc.fs, s, o)
}

// initVCS initializes a repository and commits the changed subset. An
// existing repository is left alone: update runs never auto-commit over
// the user's history.
func (sc *Scaffolder) initVCS(ctx context.Context, changed structure.Structure, o opts.Options) (structure.Structure, opts.Options, error) {
	dir := sc.realPath(o.ProjectPath)
	if sc.git.IsRepository(ctx, dir) {
		report.Ctx(ctx).Report(ctx, "skip", "git init ("+o.ProjectPath+" is already a repository)", o.Pretend)
		return changed, o, nil
	}
	sub := structure.Structure{}
	if node, ok := changed.Get(structure.P(o.ProjectPath)); ok {
		if s, isDir := node.(structure.Structure); isDir {
			sub = s
		}
	}
	if err := sc.git.InitAndCommit(ctx, dir, sub, o.Pretend, "Initial commit (generated by goscaffold)"); err != nil {
		return nil, o, err
	}
	return changed, o, nil
}

// reportDone closes the run.
func (sc *Scaffolder) reportDone(ctx context.Context, changed structure.Structure, o opts.Options) (structure.Structure, opts.Options, error) {
	zerolog.Ctx(ctx).Info().
		Str("project", o.ProjectPath).
		Int("files", len(changed.Files())).
		Bool("pretend", o.Pretend).
		Msg("scaffold run finished")
	return changed, o, nil
}

// realPath maps a project-relative path onto the real OS path backing
// the filesystem, for the git subprocess.
func (sc *Scaffolder) realPath(project string) string {
	return filepath.Join(sc.fs.Root(), filepath.FromSlash(project))
}
