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

// Package vcs shells out to git for the few capabilities the scaffold
// needs: a pre-flight probe, repository detection, worktree cleanliness,
// default author identity, and the post-reify init/commit that stages
// exactly the changed subset.
package vcs

import (
	"context"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/goscaffold/pkg/report"
	"github.com/walteh/goscaffold/pkg/structure"
	"gitlab.com/tozd/go/errors"
)

// ❌ ErrGitNotFound reports that the git binary is missing or broken,
// detected by the pre-flight probe before the pipeline runs.
var ErrGitNotFound = errors.New("git is not installed or not working")

// 📋 Result holds one command invocation's outcome.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// 🏃 Runner executes git commands. Tests substitute a stub.
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) (Result, error)
}

// execRunner shells out to the real git binary.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, dir string, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		return res, errors.Errorf("running git %s: %w", strings.Join(args, " "), err)
	}
	return res, nil
}

// 🔧 Git wraps a Runner with the scaffold's git capabilities.
type Git struct {
	runner Runner
}

// 🏭 New creates a Git backed by the real binary.
func New() *Git {
	return &Git{runner: execRunner{}}
}

// 🏭 NewWithRunner creates a Git with an injected runner, for tests.
func NewWithRunner(r Runner) *Git {
	return &Git{runner: r}
}

// 🩺 Probe verifies git is available before anything else runs.
func (g *Git) Probe(ctx context.Context) error {
	res, err := g.runner.Run(ctx, "", "--version")
	if err != nil || res.ExitCode != 0 {
		return errors.Errorf("%w: install git and ensure it is on PATH", ErrGitNotFound)
	}
	return nil
}

// 🔍 IsRepository reports whether dir is inside a git worktree.
func (g *Git) IsRepository(ctx context.Context, dir string) bool {
	res, err := g.runner.Run(ctx, dir, "rev-parse", "--is-inside-work-tree")
	return err == nil && res.ExitCode == 0 && strings.TrimSpace(res.Stdout) == "true"
}

// 🔍 HasUncommittedChanges reports a dirty worktree at dir.
func (g *Git) HasUncommittedChanges(ctx context.Context, dir string) (bool, error) {
	res, err := g.runner.Run(ctx, dir, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	if res.ExitCode != 0 {
		return false, errors.Errorf("git status failed in %s: %s", dir, strings.TrimSpace(res.Stderr))
	}
	return strings.TrimSpace(res.Stdout) != "", nil
}

// 👤 ConfigValue reads a git config key ("user.name", "user.email").
// Missing keys return "" without error.
func (g *Git) ConfigValue(ctx context.Context, key string) string {
	res, err := g.runner.Run(ctx, "", "config", "--get", key)
	if err != nil || res.ExitCode != 0 {
		return ""
	}
	return strings.TrimSpace(res.Stdout)
}

// 📦 InitAndCommit initializes a repository at dir and commits exactly
// the files of the changed subset returned by reification. Pretend mode
// reports the commit without running git.
func (g *Git) InitAndCommit(ctx context.Context, dir string, changed structure.Structure, pretend bool, message string) error {
	logger := zerolog.Ctx(ctx)
	files := changed.Files()
	logger.Debug().Str("dir", dir).Int("files", len(files)).Msg("committing changed files")

	rep := report.Ctx(ctx)
	rep.Report(ctx, "run", "git init & commit ("+dir+")", pretend)
	if pretend {
		return nil
	}

	if res, err := g.runner.Run(ctx, dir, "init"); err != nil {
		return err
	} else if res.ExitCode != 0 {
		return errors.Errorf("git init failed in %s: %s", dir, strings.TrimSpace(res.Stderr))
	}
	for _, f := range files {
		if res, err := g.runner.Run(ctx, dir, "add", f); err != nil {
			return err
		} else if res.ExitCode != 0 {
			return errors.Errorf("git add %s failed: %s", f, strings.TrimSpace(res.Stderr))
		}
	}
	if res, err := g.runner.Run(ctx, dir, "commit", "--no-verify", "-m", message); err != nil {
		return err
	} else if res.ExitCode != 0 {
		return errors.Errorf("git commit failed in %s: %s", dir, strings.TrimSpace(res.Stderr))
	}
	return nil
}
