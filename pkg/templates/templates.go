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

// Package templates bundles the text assets of the generated project
// layout. Callers get Renderables; the placeholder syntax and storage
// are this package's business only.
package templates

import (
	"embed"
	"sync"

	"github.com/walteh/goscaffold/pkg/render"
	"gitlab.com/tozd/go/errors"
)

//go:embed files/*.tmpl
var files embed.FS

var (
	mu    sync.Mutex
	cache = map[string]*render.Template{}
)

// 🔍 Get returns the named template ("readme", "setup_cfg", ...).
func Get(name string) (*render.Template, error) {
	mu.Lock()
	defer mu.Unlock()
	if t, ok := cache[name]; ok {
		return t, nil
	}
	data, err := files.ReadFile("files/" + name + ".tmpl")
	if err != nil {
		return nil, errors.Errorf("unknown template %q: %w", name, err)
	}
	t, err := render.NewTemplate(name, string(data))
	if err != nil {
		return nil, err
	}
	cache[name] = t
	return t, nil
}

// 🔍 MustGet is Get for the static names the scaffold itself uses.
func MustGet(name string) *render.Template {
	t, err := Get(name)
	if err != nil {
		panic(err)
	}
	return t
}

// 📜 License returns the license text template for an SPDX-ish
// identifier, falling back to MIT for unknown ones.
func License(spdx string) *render.Template {
	switch spdx {
	case "Apache-2.0":
		return MustGet("license_apache")
	case "GPL-3.0-only", "GPL-3.0":
		return MustGet("license_gpl3")
	default:
		return MustGet("license_mit")
	}
}
