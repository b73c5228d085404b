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

package main

import (
	"path/filepath"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/goscaffold/pkg/update"
	"github.com/walteh/goscaffold/pkg/version"
	"gitlab.com/tozd/go/errors"
)

// newStatusCmd reports whether a path is a recognizable generated
// project and which tool version wrote it.
func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status [PATH]",
		Short: "show whether a path is a goscaffold project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := "."
			if len(args) == 1 {
				target = args[0]
			}
			abs, err := filepath.Abs(target)
			if err != nil {
				return errors.Errorf("resolving path: %w", err)
			}

			fs := osfs.New(filepath.Dir(abs))
			v, err := update.ReadVersion(fs, filepath.Base(abs))
			if err != nil {
				// one line is enough, the root command is silent on errors
				pterm.Warning.Printfln("%s is not a goscaffold project", abs)
				return err
			}

			pterm.DefaultTable.WithHasHeader().WithData(pterm.TableData{
				{"Project", "Generated by", "Tool version"},
				{abs, "goscaffold " + v, version.Version},
			}).Render()
			if v != version.Version {
				pterm.Info.Printfln("run `goscaffold %s --update` to migrate the project metadata", target)
			}
			return nil
		},
	}
}
