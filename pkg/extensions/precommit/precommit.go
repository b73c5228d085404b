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

// Package precommit adds a pre-commit hook configuration to the
// generated layout.
package precommit

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/walteh/goscaffold/pkg/actions"
	"github.com/walteh/goscaffold/pkg/fileops"
	"github.com/walteh/goscaffold/pkg/opts"
	"github.com/walteh/goscaffold/pkg/structure"
	"github.com/walteh/goscaffold/pkg/templates"
)

const module = "github.com/walteh/goscaffold/pkg/extensions/precommit"

// 🔌 Extension adds .pre-commit-config.yaml.
type Extension struct {
	enabled bool
}

func init() {
	actions.RegisterExtension(&Extension{})
}

func (e *Extension) Name() string   { return "pre-commit" }
func (e *Extension) Module() string { return module }
func (e *Extension) Enabled() bool  { return e.enabled }

func (e *Extension) AugmentCLI(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&e.enabled, "pre-commit", false, "generate a pre-commit hook configuration")
}

func (e *Extension) Activate(list []actions.Action) ([]actions.Action, error) {
	return actions.Register(list,
		actions.Named("precommit", "add_precommit_config", addConfig),
		actions.Placement{})
}

func addConfig(_ context.Context, s structure.Structure, o opts.Options) (structure.Structure, opts.Options, error) {
	s = structure.Ensure(s,
		structure.P(o.ProjectPath, ".pre-commit-config.yaml"),
		templates.MustGet("precommit"),
		fileops.NoOverwrite(fileops.Create))
	return s, o, nil
}
