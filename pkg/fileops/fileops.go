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

// Package fileops implements the file-operation policy system. A FileOp
// decides whether and how a single file is written, given the current
// options (force/update/pretend). Policies compose by wrapping: the outer
// condition short-circuits the inner operation.
package fileops

import (
	"context"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/rs/zerolog"
	"github.com/walteh/goscaffold/pkg/opts"
	"gitlab.com/tozd/go/errors"
)

// 🎯 FileOp applies a write policy to a (path, content, options) triple.
// It returns the path if a filesystem change occurred (or would occur in
// pretend mode), and "" for a benign skip. Real I/O errors propagate;
// skips never error.
type FileOp func(ctx context.Context, fs billy.Filesystem, path string, content *string, o opts.Options) (string, error)

// 📝 Create writes content to path unconditionally. A nil content is a
// no-op (the leaf is a placeholder, not an empty file). Pretend mode
// skips the write but reports it as if it happened.
func Create(ctx context.Context, fs billy.Filesystem, path string, content *string, o opts.Options) (string, error) {
	if content == nil {
		return "", nil
	}
	if o.Pretend {
		zerolog.Ctx(ctx).Debug().Str("path", path).Msg("pretending to write file")
		return path, nil
	}
	if err := util.WriteFile(fs, path, []byte(*content), 0o644); err != nil {
		return "", errors.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// 🗑️ Remove deletes path if it exists, including non-empty directories.
// A missing path is a benign skip.
func Remove(ctx context.Context, fs billy.Filesystem, path string, _ *string, o opts.Options) (string, error) {
	if _, err := fs.Lstat(path); err != nil {
		return "", nil
	}
	if o.Pretend {
		zerolog.Ctx(ctx).Debug().Str("path", path).Msg("pretending to remove path")
		return path, nil
	}
	if err := util.RemoveAll(fs, path); err != nil {
		return "", errors.Errorf("removing %s: %w", path, err)
	}
	return path, nil
}

// 🛡️ NoOverwrite wraps inner so an existing file is only touched when
// force is set. Absent files always delegate to inner.
func NoOverwrite(inner FileOp) FileOp {
	return func(ctx context.Context, fs billy.Filesystem, path string, content *string, o opts.Options) (string, error) {
		if o.Force {
			return inner(ctx, fs, path, content, o)
		}
		if _, err := fs.Stat(path); err == nil {
			zerolog.Ctx(ctx).Debug().Str("path", path).Msg("skipping existing file")
			return "", nil
		}
		return inner(ctx, fs, path, content, o)
	}
}

// ⏭️ SkipOnUpdate wraps inner so the file is created on fresh runs but
// left alone during an update pass, unless force is set.
func SkipOnUpdate(inner FileOp) FileOp {
	return func(ctx context.Context, fs billy.Filesystem, path string, content *string, o opts.Options) (string, error) {
		if o.Force || !o.Update {
			return inner(ctx, fs, path, content, o)
		}
		zerolog.Ctx(ctx).Debug().Str("path", path).Msg("skipping file on update")
		return "", nil
	}
}

// 🔐 AddPermissions wraps inner and ORs bits into the file's mode after
// the inner operation ran. A permissions-only change still counts as a
// change for the returned path.
func AddPermissions(bits os.FileMode, inner FileOp) FileOp {
	return func(ctx context.Context, fs billy.Filesystem, path string, content *string, o opts.Options) (string, error) {
		out, err := inner(ctx, fs, path, content, o)
		if err != nil {
			return "", err
		}
		st, serr := fs.Stat(path)
		if serr != nil || st.Mode()&bits == bits {
			return out, nil
		}
		if !o.Pretend {
			if cerr := chmod(fs, path, st.Mode()|bits); cerr != nil {
				return "", errors.Errorf("changing mode of %s: %w", path, cerr)
			}
		}
		return path, nil
	}
}

// chmod applies a mode through whatever the backing filesystem offers.
// billy's interface has no Chmod, so we try a capability assertion first
// and fall back to the real OS path for disk-backed filesystems. Backends
// without either (memfs) keep the reported change without the mode bits.
func chmod(fs billy.Filesystem, path string, mode os.FileMode) error {
	if c, ok := fs.(interface {
		Chmod(name string, mode os.FileMode) error
	}); ok {
		return c.Chmod(path, mode)
	}
	real := filepath.Join(fs.Root(), path)
	if _, err := os.Stat(real); err == nil {
		return os.Chmod(real, mode)
	}
	return nil
}
