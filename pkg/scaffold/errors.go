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

import "gitlab.com/tozd/go/errors"

// The CLI catches these kinds and prints a one-line message; anything
// else surfaces as-is. All are fatal and never retried.
var (
	// ❌ ErrInvalidPackage reports a package name that is not a valid
	// Python identifier.
	ErrInvalidPackage = errors.New("invalid package name")

	// ❌ ErrProjectMissing reports an update run against a path that
	// does not exist.
	ErrProjectMissing = errors.New("project directory does not exist, cannot update")

	// ❌ ErrDirtyWorkspace reports an update against a repository with
	// uncommitted changes and no force flag. Refusing protects the
	// user's unsaved work.
	ErrDirtyWorkspace = errors.New("uncommitted changes in project, commit them or pass force")
)
