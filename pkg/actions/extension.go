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

package actions

import (
	"sort"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Extension is a pluggable unit that can rewrite the action list
// before the pipeline runs. Builtin extensions self-register from their
// package init; the activation machinery does not care how the list was
// obtained.
type Extension interface {
	// Name is the user-facing extension name (also its CLI flag).
	Name() string

	// Module is the defining package path, used with Name as the
	// deterministic activation sort key. Builtin extensions live under
	// this module's namespace and therefore sort before third-party ones.
	Module() string

	// AugmentCLI adds the extension's flags to the scaffold command.
	AugmentCLI(cmd *cobra.Command)

	// Activate rewrites the action list (insert/remove steps).
	Activate(list []Action) ([]Action, error)
}

// 🗺️ registry holds every known extension, populated at startup.
var registry []Extension

// 📝 RegisterExtension adds an extension to the process-wide registry.
func RegisterExtension(e Extension) {
	registry = append(registry, e)
}

// 🔍 Extensions returns the registered extensions sorted by
// (module, name).
func Extensions() []Extension {
	out := make([]Extension, len(registry))
	copy(out, registry)
	sortExtensions(out)
	return out
}

// 🔍 LookupExtension finds a registered extension by name.
func LookupExtension(name string) (Extension, bool) {
	for _, e := range registry {
		if e.Name() == name {
			return e, true
		}
	}
	return nil, false
}

func sortExtensions(exts []Extension) {
	sort.SliceStable(exts, func(i, j int) bool {
		if exts[i].Module() != exts[j].Module() {
			return exts[i].Module() < exts[j].Module()
		}
		return exts[i].Name() < exts[j].Name()
	})
}

// 🔎 Discover computes the final action list: sort the extensions by
// (module, name) so the result is independent of the order they were
// supplied, fold Activate over each, then collapse duplicate identities.
// When several extensions touched the same action name the LAST
// occurrence wins, at the position of the first.
func Discover(defaults []Action, exts []Extension) ([]Action, error) {
	sorted := make([]Extension, len(exts))
	copy(sorted, exts)
	sortExtensions(sorted)

	// drop duplicate extensions by name, first one wins
	seen := map[string]bool{}
	list := defaults
	var err error
	for _, e := range sorted {
		if seen[e.Name()] {
			continue
		}
		seen[e.Name()] = true
		list, err = e.Activate(list)
		if err != nil {
			return nil, errors.Errorf("activating extension %s: %w", e.Name(), err)
		}
	}
	return dedup(list), nil
}

// dedup collapses the list by action identity: position of the first
// occurrence, value of the last.
func dedup(list []Action) []Action {
	index := map[string]int{}
	out := make([]Action, 0, len(list))
	for _, a := range list {
		if i, ok := index[a.ID()]; ok {
			out[i] = a
			continue
		}
		index[a.ID()] = len(out)
		out = append(out, a)
	}
	return out
}
