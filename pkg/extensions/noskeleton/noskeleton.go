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

// Package noskeleton drops the example skeleton module and its test
// from the generated layout.
package noskeleton

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/walteh/goscaffold/pkg/actions"
	"github.com/walteh/goscaffold/pkg/opts"
	"github.com/walteh/goscaffold/pkg/structure"
)

const module = "github.com/walteh/goscaffold/pkg/extensions/noskeleton"

// 🔌 Extension removes skeleton.py and test_skeleton.py.
type Extension struct {
	enabled bool
}

func init() {
	actions.RegisterExtension(&Extension{})
}

func (e *Extension) Name() string   { return "no-skeleton" }
func (e *Extension) Module() string { return module }
func (e *Extension) Enabled() bool  { return e.enabled }

func (e *Extension) AugmentCLI(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&e.enabled, "no-skeleton", false, "omit the example skeleton module and its test")
}

func (e *Extension) Activate(list []actions.Action) ([]actions.Action, error) {
	return actions.Register(list,
		actions.Named("noskeleton", "remove_skeleton", removeSkeleton),
		actions.Placement{})
}

func removeSkeleton(_ context.Context, s structure.Structure, o opts.Options) (structure.Structure, opts.Options, error) {
	s = structure.Reject(s, structure.P(o.ProjectPath, "src", o.Package, "skeleton.py"))
	s = structure.Reject(s, structure.P(o.ProjectPath, "tests", "test_skeleton.py"))
	return s, o, nil
}
