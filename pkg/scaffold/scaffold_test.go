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

package scaffold_test

import (
	"context"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/goscaffold/pkg/actions"
	"github.com/walteh/goscaffold/pkg/config"
	"github.com/walteh/goscaffold/pkg/extensions/noskeleton"
	"github.com/walteh/goscaffold/pkg/opts"
	"github.com/walteh/goscaffold/pkg/reify"
	"github.com/walteh/goscaffold/pkg/scaffold"
	"github.com/walteh/goscaffold/pkg/structure"
	"github.com/walteh/goscaffold/pkg/update"
	"github.com/walteh/goscaffold/pkg/vcs"
)

func testCtx(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

// fakeGit records VCS interactions instead of shelling out.
type fakeGit struct {
	probeErr error
	isRepo   bool
	dirty    bool
	config   map[string]string

	commits []fakeCommit
}

type fakeCommit struct {
	dir     string
	files   []string
	pretend bool
	message string
}

func (g *fakeGit) Probe(context.Context) error { return g.probeErr }
func (g *fakeGit) IsRepository(_ context.Context, _ string) bool {
	return g.isRepo
}
func (g *fakeGit) HasUncommittedChanges(_ context.Context, _ string) (bool, error) {
	return g.dirty, nil
}
func (g *fakeGit) ConfigValue(_ context.Context, key string) string {
	return g.config[key]
}
func (g *fakeGit) InitAndCommit(_ context.Context, dir string, changed structure.Structure, pretend bool, message string) error {
	g.commits = append(g.commits, fakeCommit{dir: dir, files: changed.Files(), pretend: pretend, message: message})
	return nil
}

func newScaffolder(t *testing.T, fs billy.Filesystem, git *fakeGit, exts ...actions.Extension) *scaffold.Scaffolder {
	sc, err := scaffold.New(scaffold.Deps{
		Fs:         fs,
		Git:        git,
		Defaults:   &config.Defaults{Author: "Jane Doe", Email: "jane@example.com"},
		Extensions: exts,
	})
	require.NoError(t, err)
	return sc
}

func readFile(t *testing.T, fs billy.Filesystem, path string) string {
	data, err := util.ReadFile(fs, path)
	require.NoError(t, err)
	return string(data)
}

// 🧪 TestCreateFreshProject tests the whole default pipeline end to end
func TestCreateFreshProject(t *testing.T) {
	ctx := testCtx(t)
	fs := memfs.New()
	git := &fakeGit{}
	sc := newScaffolder(t, fs, git)

	changed, o, err := sc.Create(ctx, opts.Options{ProjectPath: "demo"})
	require.NoError(t, err)

	// derived options
	assert.Equal(t, "demo", o.Name)
	assert.Equal(t, "demo", o.Package)
	assert.Equal(t, "Jane Doe", o.Author)
	assert.Equal(t, "MIT", o.License)

	for _, path := range []string{
		"demo/README.rst",
		"demo/.gitignore",
		"demo/LICENSE.txt",
		"demo/setup.py",
		"demo/setup.cfg",
		"demo/src/demo/__init__.py",
		"demo/src/demo/skeleton.py",
		"demo/tests/test_skeleton.py",
		"demo/tests/conftest.py",
		"demo/docs/index.rst",
	} {
		_, serr := fs.Stat(path)
		assert.NoError(t, serr, path)
	}

	// author flows into rendered content
	assert.Contains(t, readFile(t, fs, "demo/setup.cfg"), "Jane Doe")

	// metadata is readable back and current
	v, err := update.ReadVersion(fs, "demo")
	require.NoError(t, err)
	assert.NotEmpty(t, v)

	// a single initial commit of exactly the changed files
	require.Len(t, git.commits, 1)
	assert.Equal(t, changed["demo"].(structure.Structure).Files(), git.commits[0].files)
	assert.Equal(t, "Initial commit (generated by goscaffold)", git.commits[0].message)
}

// 🧪 TestCreateExistingDirectory tests fresh-run collision semantics
func TestCreateExistingDirectory(t *testing.T) {
	ctx := testCtx(t)
	fs := memfs.New()
	require.NoError(t, fs.MkdirAll("demo", 0o755))
	sc := newScaffolder(t, fs, &fakeGit{})

	_, _, err := sc.Create(ctx, opts.Options{ProjectPath: "demo"})
	require.Error(t, err)
	assert.ErrorIs(t, err, reify.ErrDirectoryExists)

	// force bulldozes through
	_, _, err = sc.Create(ctx, opts.Options{ProjectPath: "demo", Force: true})
	assert.NoError(t, err)
}

// 🧪 TestUpdatePreservesManualEdits tests the no-overwrite contract across runs
func TestUpdatePreservesManualEdits(t *testing.T) {
	ctx := testCtx(t)
	fs := memfs.New()
	git := &fakeGit{}
	sc := newScaffolder(t, fs, git)

	_, _, err := sc.Create(ctx, opts.Options{ProjectPath: "demo"})
	require.NoError(t, err)

	require.NoError(t, util.WriteFile(fs, "demo/README.rst", []byte("my own readme"), 0o644))
	require.NoError(t, util.WriteFile(fs, "demo/src/demo/skeleton.py", []byte("my own code"), 0o644))

	git.isRepo = true // created project is now a repository
	changed, _, err := sc.Create(ctx, opts.Options{ProjectPath: "demo", Update: true})
	require.NoError(t, err)

	assert.Equal(t, "my own readme", readFile(t, fs, "demo/README.rst"))
	assert.Equal(t, "my own code", readFile(t, fs, "demo/src/demo/skeleton.py"))
	assert.Empty(t, changed.Files(), "an untouched project should report no changes")
	assert.Len(t, git.commits, 1, "update runs never auto-commit")
}

// 🧪 TestUpdateMissingProject tests the update-target guard
func TestUpdateMissingProject(t *testing.T) {
	ctx := testCtx(t)
	sc := newScaffolder(t, memfs.New(), &fakeGit{})

	_, _, err := sc.Create(ctx, opts.Options{ProjectPath: "demo", Update: true})
	require.Error(t, err)
	assert.ErrorIs(t, err, scaffold.ErrProjectMissing)
}

// 🧪 TestUpdateDirtyWorkspace tests the uncommitted-changes guard
func TestUpdateDirtyWorkspace(t *testing.T) {
	ctx := testCtx(t)
	fs := memfs.New()
	git := &fakeGit{}
	sc := newScaffolder(t, fs, git)

	_, _, err := sc.Create(ctx, opts.Options{ProjectPath: "demo"})
	require.NoError(t, err)

	git.isRepo = true
	git.dirty = true
	_, _, err = sc.Create(ctx, opts.Options{ProjectPath: "demo", Update: true})
	require.Error(t, err)
	assert.ErrorIs(t, err, scaffold.ErrDirtyWorkspace)

	// force overrides the guard
	_, _, err = sc.Create(ctx, opts.Options{ProjectPath: "demo", Update: true, Force: true})
	assert.NoError(t, err)
}

// 🧪 TestInvalidPackage tests identifier validation of derived names
func TestInvalidPackage(t *testing.T) {
	ctx := testCtx(t)
	sc := newScaffolder(t, memfs.New(), &fakeGit{})

	_, _, err := sc.Create(ctx, opts.Options{ProjectPath: "demo", Package: "123-nope"})
	require.Error(t, err)
	assert.ErrorIs(t, err, scaffold.ErrInvalidPackage)
}

// 🧪 TestPackageSanitization tests name-to-identifier derivation
func TestPackageSanitization(t *testing.T) {
	ctx := testCtx(t)
	fs := memfs.New()
	sc := newScaffolder(t, fs, &fakeGit{})

	_, o, err := sc.Create(ctx, opts.Options{ProjectPath: "My-Fancy Project"})
	require.NoError(t, err)
	assert.Equal(t, "my_fancy_project", o.Package)
	_, serr := fs.Stat("My-Fancy Project/src/my_fancy_project/__init__.py")
	assert.NoError(t, serr)
}

// 🧪 TestGitIdentityFallback tests author defaults from git config
func TestGitIdentityFallback(t *testing.T) {
	ctx := testCtx(t)
	git := &fakeGit{config: map[string]string{"user.name": "Git User", "user.email": "git@example.com"}}
	sc, err := scaffold.New(scaffold.Deps{Fs: memfs.New(), Git: git})
	require.NoError(t, err)

	_, o, err := sc.Create(ctx, opts.Options{ProjectPath: "demo"})
	require.NoError(t, err)
	assert.Equal(t, "Git User", o.Author)
	assert.Equal(t, "git@example.com", o.Email)
}

// 🧪 TestProbeFailure tests that a missing git binary aborts early
func TestProbeFailure(t *testing.T) {
	ctx := testCtx(t)
	git := &fakeGit{probeErr: vcs.ErrGitNotFound}
	sc := newScaffolder(t, memfs.New(), git)

	_, _, err := sc.Create(ctx, opts.Options{ProjectPath: "demo"})
	require.Error(t, err)
	assert.ErrorIs(t, err, vcs.ErrGitNotFound)
}

// 🧪 TestPretendRun tests end-to-end dry-run parity
func TestPretendRun(t *testing.T) {
	ctx := testCtx(t)
	fs := memfs.New()
	git := &fakeGit{}
	sc := newScaffolder(t, fs, git)

	changed, _, err := sc.Create(ctx, opts.Options{ProjectPath: "demo", Pretend: true})
	require.NoError(t, err)

	assert.NotEmpty(t, changed.Files(), "pretend should report the full plan")
	_, serr := fs.Stat("demo")
	assert.Error(t, serr, "pretend should not write anything")
	require.Len(t, git.commits, 1)
	assert.True(t, git.commits[0].pretend)
}

// 🧪 TestNoSkeletonExtension tests the extension pipeline wiring
func TestNoSkeletonExtension(t *testing.T) {
	ctx := testCtx(t)
	fs := memfs.New()
	sc := newScaffolder(t, fs, &fakeGit{}, &noskeleton.Extension{})

	_, o, err := sc.Create(ctx, opts.Options{ProjectPath: "demo"})
	require.NoError(t, err)

	_, serr := fs.Stat("demo/src/demo/skeleton.py")
	assert.Error(t, serr, "skeleton should be rejected before reification")
	_, serr = fs.Stat("demo/tests/test_skeleton.py")
	assert.Error(t, serr)
	_, serr = fs.Stat("demo/src/demo/__init__.py")
	assert.NoError(t, serr, "the rest of the tree should be untouched")
	assert.Contains(t, o.Extensions, "no-skeleton")
}

// 🧪 TestDefaultsFileExtensions tests extensions activated by name from
// the defaults file rather than a CLI flag
func TestDefaultsFileExtensions(t *testing.T) {
	ctx := testCtx(t)
	fs := memfs.New()
	sc, err := scaffold.New(scaffold.Deps{
		Fs:       fs,
		Git:      &fakeGit{},
		Defaults: &config.Defaults{Extensions: []string{"no-skeleton"}},
	})
	require.NoError(t, err)

	_, o, err := sc.Create(ctx, opts.Options{ProjectPath: "demo"})
	require.NoError(t, err)

	_, serr := fs.Stat("demo/src/demo/skeleton.py")
	assert.Error(t, serr, "extension named in the defaults file should be active")
	assert.Contains(t, o.Extensions, "no-skeleton")

	// naming it in the defaults AND supplying it explicitly activates once
	sc, err = scaffold.New(scaffold.Deps{
		Fs:         memfs.New(),
		Git:        &fakeGit{},
		Defaults:   &config.Defaults{Extensions: []string{"no-skeleton"}},
		Extensions: []actions.Extension{&noskeleton.Extension{}},
	})
	require.NoError(t, err)
	_, _, err = sc.Create(ctx, opts.Options{ProjectPath: "demo"})
	assert.NoError(t, err)

	// unknown names are configuration errors, caught at construction
	_, err = scaffold.New(scaffold.Deps{
		Fs:       memfs.New(),
		Git:      &fakeGit{},
		Defaults: &config.Defaults{Extensions: []string{"no-such-extension"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no-such-extension")
}

// 🧪 TestSkipPatternDefaults tests config defaults flowing into the run
func TestSkipPatternDefaults(t *testing.T) {
	ctx := testCtx(t)
	fs := memfs.New()
	sc, err := scaffold.New(scaffold.Deps{
		Fs:       fs,
		Git:      &fakeGit{},
		Defaults: &config.Defaults{SkipPatterns: []string{"**/docs/**"}},
	})
	require.NoError(t, err)

	_, _, err = sc.Create(ctx, opts.Options{ProjectPath: "demo"})
	require.NoError(t, err)
	_, serr := fs.Stat("demo/docs/index.rst")
	assert.Error(t, serr, "configured skip pattern should prune docs")
}
