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

// Package namespace nests the generated package under PEP 420 namespace
// directories ("ns1.ns2" puts the package at src/ns1/ns2/<package>).
package namespace

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
	"github.com/walteh/goscaffold/pkg/actions"
	"github.com/walteh/goscaffold/pkg/opts"
	"github.com/walteh/goscaffold/pkg/structure"
	"gitlab.com/tozd/go/errors"
)

const module = "github.com/walteh/goscaffold/pkg/extensions/namespace"

// 🔌 Extension moves the package under namespace directories.
type Extension struct {
	ns string
}

func init() {
	actions.RegisterExtension(&Extension{})
}

func (e *Extension) Name() string   { return "namespace" }
func (e *Extension) Module() string { return module }
func (e *Extension) Enabled() bool  { return e.ns != "" }

func (e *Extension) AugmentCLI(cmd *cobra.Command) {
	cmd.Flags().StringVar(&e.ns, "namespace", "", "put the package inside a namespace, e.g. \"company.team\"")
}

func (e *Extension) Activate(list []actions.Action) ([]actions.Action, error) {
	return actions.Register(list,
		actions.Named("namespace", "move_to_namespace", e.move),
		actions.Placement{})
}

func (e *Extension) move(_ context.Context, s structure.Structure, o opts.Options) (structure.Structure, opts.Options, error) {
	segments := strings.Split(e.ns, ".")
	for _, seg := range segments {
		if seg == "" {
			return nil, o, errors.Errorf("invalid namespace %q", e.ns)
		}
	}
	pkgPath := structure.P(o.ProjectPath, "src", o.Package)
	node, ok := s.Get(pkgPath)
	if !ok {
		return s, o, nil
	}
	s = structure.Reject(s, pkgPath)
	target := append(structure.P(o.ProjectPath, "src"), segments...)
	target = append(target, o.Package)
	s = structure.Merge(s, structure.Nest(target, node))
	return s, o.WithExtra("namespace", e.ns), nil
}
