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

package update

import (
	"context"

	"github.com/walteh/goscaffold/pkg/opts"
	"gopkg.in/ini.v1"
)

// Every migration below is guarded by a "does this section/key already
// exist" check so re-running against a migrated file is a no-op.

// addEntryPoints introduces the [options.entry_points] section that
// pre-1.1 projects were generated without.
func addEntryPoints(_ context.Context, f *ini.File, _ opts.Options) (bool, error) {
	const section = "options.entry_points"
	if f.HasSection(section) {
		return false, nil
	}
	s, err := f.NewSection(section)
	if err != nil {
		return false, err
	}
	s.Comment = "; Add console scripts like:\n; console_scripts =\n;     script_name = package.module:function"
	return true, nil
}

// addSetupRequires pins the build-time setuptools requirement that
// pre-1.2 projects left implicit.
func addSetupRequires(_ context.Context, f *ini.File, _ opts.Options) (bool, error) {
	s := f.Section("options")
	if s.HasKey("setup_requires") {
		return false, nil
	}
	if _, err := s.NewKey("setup_requires", "setuptools>=46.1.0"); err != nil {
		return false, err
	}
	return true, nil
}

// addPackageFind adds the src-layout package discovery section for
// pre-1.2 projects, which listed packages by hand.
func addPackageFind(_ context.Context, f *ini.File, _ opts.Options) (bool, error) {
	const section = "options.packages.find"
	if f.HasSection(section) {
		return false, nil
	}
	s, err := f.NewSection(section)
	if err != nil {
		return false, err
	}
	if _, err := s.NewKey("where", "src"); err != nil {
		return false, err
	}
	return true, nil
}
