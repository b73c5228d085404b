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

// Package update reads the version a project was generated with from
// its persisted setup.cfg metadata and applies ordered, idempotent
// migrations to bring older projects in line with the running tool.
// setup.cfg editing goes through a comment-preserving INI layer so user
// comments round-trip untouched.
package update

import (
	"bytes"
	"context"
	"path"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/rs/zerolog"
	"github.com/walteh/goscaffold/pkg/opts"
	"github.com/walteh/goscaffold/pkg/report"
	"github.com/walteh/goscaffold/pkg/version"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/mod/semver"
	"gopkg.in/ini.v1"
)

const (
	// ConfigFile is the persisted metadata file of a generated project.
	ConfigFile = "setup.cfg"

	// MetaSection is the section recording tool metadata.
	MetaSection = "goscaffold"

	versionKey = "version"
	packageKey = "package"
)

var (
	// ❌ ErrNoScaffold reports a target that is not a recognizable
	// existing project (missing or unparsable metadata).
	ErrNoScaffold = errors.New("not a recognizable existing project")

	// ❌ ErrVersionFromFuture reports metadata written by a newer tool.
	// Editing it risks destroying fields this version does not know, so
	// the run refuses instead of guessing.
	ErrVersionFromFuture = errors.New("project was generated by a newer goscaffold")
)

// 🔍 ReadVersion returns the version recorded in the project's
// setup.cfg. Missing file, missing section, or an unparsable version
// all fail with ErrNoScaffold.
func ReadVersion(fs billy.Filesystem, projectPath string) (string, error) {
	data, err := util.ReadFile(fs, path.Join(projectPath, ConfigFile))
	if err != nil {
		return "", errors.Errorf("%w: reading %s: %w", ErrNoScaffold, ConfigFile, err)
	}
	f, err := loadCfg(data)
	if err != nil {
		return "", errors.Errorf("%w: parsing %s: %w", ErrNoScaffold, ConfigFile, err)
	}
	return versionFrom(f)
}

func versionFrom(f *ini.File) (string, error) {
	section, err := f.GetSection(MetaSection)
	if err != nil {
		return "", errors.Errorf("%w: missing [%s] section", ErrNoScaffold, MetaSection)
	}
	if !section.HasKey(versionKey) {
		return "", errors.Errorf("%w: missing %s key", ErrNoScaffold, versionKey)
	}
	v := strings.TrimSpace(section.Key(versionKey).String())
	if !semver.IsValid(canonical(v)) {
		return "", errors.Errorf("%w: unparsable version %q", ErrNoScaffold, v)
	}
	return v, nil
}

// loadCfg parses setup.cfg bytes. Python-style indented continuation
// values (classifiers, install_requires) must survive the round trip.
func loadCfg(data []byte) (*ini.File, error) {
	return ini.LoadSources(ini.LoadOptions{
		AllowPythonMultilineValues: true,
		KeyValueDelimiters:         "=",
	}, data)
}

// canonical maps the persisted "1.2.1" form to semver's "v1.2.1".
func canonical(v string) string {
	return "v" + strings.TrimPrefix(v, "v")
}

// olderThan reports a < b for persisted version strings.
func olderThan(a, b string) bool {
	return semver.Compare(canonical(a), canonical(b)) < 0
}

// 🛠️ Migration edits the parsed setup.cfg in place. It must be
// idempotent: re-running against an already-migrated file reports no
// change. Returned bool is "did this step change anything".
type Migration struct {
	Name string
	Fn   func(ctx context.Context, f *ini.File, o opts.Options) (bool, error)
}

// 📜 versioned pairs a version threshold with the migrations that bring
// an older project up to it. Order is ascending and static.
type versioned struct {
	Version string
	Steps   []Migration
}

var migrations = []versioned{
	{
		Version: "1.1.0",
		Steps: []Migration{
			{Name: "add_entry_points", Fn: addEntryPoints},
		},
	},
	{
		Version: "1.2.0",
		Steps: []Migration{
			{Name: "add_setup_requires", Fn: addSetupRequires},
			{Name: "add_package_find", Fn: addPackageFind},
		},
	},
}

// 🔁 Apply runs the migration layer against the project at
// o.ProjectPath. Fresh runs (no update flag) are a pass-through. Update
// runs read the prior version first; an unrecognizable project is fatal.
// The terminal step always rewrites the persisted version to the running
// tool's version, even when zero migrations fired.
func Apply(ctx context.Context, fs billy.Filesystem, o opts.Options) error {
	if !o.Update {
		return nil
	}
	logger := zerolog.Ctx(ctx)

	cfgPath := path.Join(o.ProjectPath, ConfigFile)
	data, err := util.ReadFile(fs, cfgPath)
	if err != nil {
		return errors.Errorf("%w: reading %s: %w", ErrNoScaffold, cfgPath, err)
	}
	f, err := loadCfg(data)
	if err != nil {
		return errors.Errorf("%w: parsing %s: %w", ErrNoScaffold, cfgPath, err)
	}
	prior, err := versionFrom(f)
	if err != nil {
		return err
	}
	if olderThan(version.Version, prior) {
		return errors.Errorf("%w: project version %s, tool version %s", ErrVersionFromFuture, prior, version.Version)
	}

	for _, m := range migrations {
		if !olderThan(prior, m.Version) {
			continue
		}
		for _, step := range m.Steps {
			changed, err := step.Fn(ctx, f, o)
			if err != nil {
				return errors.Errorf("migration %s (for %s): %w", step.Name, m.Version, err)
			}
			logger.Debug().
				Str("migration", step.Name).
				Str("threshold", m.Version).
				Bool("changed", changed).
				Msg("applied migration")
		}
	}

	// record the running version unconditionally
	f.Section(MetaSection).Key(versionKey).SetValue(version.Version)

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return errors.Errorf("serializing %s: %w", cfgPath, err)
	}
	if bytes.Equal(buf.Bytes(), data) {
		return nil
	}
	if !o.Pretend {
		if err := util.WriteFile(fs, cfgPath, buf.Bytes(), 0o644); err != nil {
			return errors.Errorf("writing %s: %w", cfgPath, err)
		}
	}
	report.Ctx(ctx).Report(ctx, "update", cfgPath, o.Pretend)
	return nil
}
