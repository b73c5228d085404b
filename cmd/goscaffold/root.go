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
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/goscaffold/pkg/actions"
	"github.com/walteh/goscaffold/pkg/config"
	"github.com/walteh/goscaffold/pkg/opts"
	"github.com/walteh/goscaffold/pkg/reify"
	"github.com/walteh/goscaffold/pkg/report"
	"github.com/walteh/goscaffold/pkg/scaffold"
	"github.com/walteh/goscaffold/pkg/update"
	"github.com/walteh/goscaffold/pkg/vcs"
	"gitlab.com/tozd/go/errors"

	// builtin extensions register themselves at startup
	_ "github.com/walteh/goscaffold/pkg/extensions/namespace"
	_ "github.com/walteh/goscaffold/pkg/extensions/noskeleton"
	_ "github.com/walteh/goscaffold/pkg/extensions/precommit"
)

var (
	// Flags
	flagPackage     string
	flagName        string
	flagDescription string
	flagAuthor      string
	flagEmail       string
	flagLicense     string
	flagURL         string
	flagUpdate      bool
	flagForce       bool
	flagPretend     bool
	flagSkip        []string
	flagConfig      string
	flagDebug       bool
)

// newRootCmd builds the CLI. Every registered extension augments the
// root command with its own flags.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "goscaffold PROJECT",
		Short:         "generate a Python package project layout",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runCreate,
	}

	cmd.Flags().StringVarP(&flagPackage, "package", "p", "", "package name (default: derived from the project name)")
	cmd.Flags().StringVarP(&flagName, "name", "n", "", "project name (default: project directory name)")
	cmd.Flags().StringVarP(&flagDescription, "description", "d", "", "short project description")
	cmd.Flags().StringVar(&flagAuthor, "author", "", "author name (default: git config user.name)")
	cmd.Flags().StringVar(&flagEmail, "email", "", "author email (default: git config user.email)")
	cmd.Flags().StringVarP(&flagLicense, "license", "l", "", "license identifier (default: MIT)")
	cmd.Flags().StringVarP(&flagURL, "url", "u", "", "project homepage")
	cmd.Flags().BoolVar(&flagUpdate, "update", false, "update an existing generated project, preserving user edits")
	cmd.Flags().BoolVar(&flagForce, "force", false, "overwrite existing files and reuse existing directories")
	cmd.Flags().BoolVar(&flagPretend, "pretend", false, "dry run: report everything, write nothing")
	cmd.Flags().StringSliceVar(&flagSkip, "skip", nil, "glob patterns of files to skip generating")
	cmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "defaults file (default: .goscaffold.{yaml,hcl})")
	cmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")

	for _, e := range actions.Extensions() {
		e.AugmentCLI(cmd)
	}

	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// setupLogging configures zerolog based on flags.
func setupLogging() zerolog.Logger {
	level := zerolog.InfoLevel
	if flagDebug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.NewConsoleWriter()).Level(level).With().Timestamp().Logger()
}

// enabler is the optional capability builtin extensions implement so
// the CLI knows whether their flag was actually set.
type enabler interface {
	Enabled() bool
}

func enabledExtensions() []actions.Extension {
	var out []actions.Extension
	for _, e := range actions.Extensions() {
		if en, ok := e.(enabler); ok && en.Enabled() {
			out = append(out, e)
		}
	}
	return out
}

func runCreate(cmd *cobra.Command, args []string) error {
	logger := setupLogging()
	ctx := logger.WithContext(cmd.Context())
	ctx = report.NewContext(ctx, report.New(os.Stdout))

	abs, err := filepath.Abs(args[0])
	if err != nil {
		return errors.Errorf("resolving project path: %w", err)
	}

	var defaults *config.Defaults
	path := flagConfig
	if path == "" {
		path = config.Locate()
	}
	if path != "" {
		defaults, err = config.Load(ctx, path)
		if err != nil {
			return fail(err)
		}
	}

	sc, err := scaffold.New(scaffold.Deps{
		Fs:         osfs.New(filepath.Dir(abs)),
		Git:        vcs.New(),
		Defaults:   defaults,
		Extensions: enabledExtensions(),
	})
	if err != nil {
		return fail(err)
	}

	o := opts.Options{
		ProjectPath:  filepath.Base(abs),
		Package:      flagPackage,
		Name:         flagName,
		Description:  flagDescription,
		Author:       flagAuthor,
		Email:        flagEmail,
		License:      flagLicense,
		URL:          flagURL,
		Update:       flagUpdate,
		Force:        flagForce,
		Pretend:      flagPretend,
		SkipPatterns: flagSkip,
	}

	changed, o, err := sc.Create(ctx, o)
	if err != nil {
		return fail(err)
	}

	verb := "created"
	if o.Update {
		verb = "updated"
	}
	if o.Pretend {
		pterm.Info.Printfln("pretend run: %s would be %s (%d files)", abs, verb, len(changed.Files()))
	} else {
		pterm.Success.Printfln("project %s (%d files): %s", verb, len(changed.Files()), abs)
	}
	return nil
}

// fail prints a one-line message for the known error kinds and passes
// everything else through untouched.
func fail(err error) error {
	for _, known := range []error{
		reify.ErrDirectoryExists,
		scaffold.ErrInvalidPackage,
		scaffold.ErrProjectMissing,
		scaffold.ErrDirtyWorkspace,
		update.ErrNoScaffold,
		update.ErrVersionFromFuture,
		vcs.ErrGitNotFound,
		actions.ErrActionNotFound,
	} {
		if errors.Is(err, known) {
			pterm.Error.Printfln("%v", err)
			return err
		}
	}
	pterm.Error.Printfln("unexpected error: %+v", err)
	return err
}
