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

// Package structure holds the in-memory tree representing a project's
// planned file layout, plus the pure algebra (Merge, Ensure, Modify,
// Reject) that combines trees without touching disk. Nothing in this
// package performs I/O.
package structure

import (
	"sort"
	"strings"

	"github.com/walteh/goscaffold/pkg/fileops"
	"github.com/walteh/goscaffold/pkg/render"
)

// 🌳 Node is either a Leaf (a single file) or a nested Structure
// (a directory). The sum is closed: nothing else implements it.
type Node interface {
	node()
}

// 📁 Structure is a directory node: a mapping from path segment to child
// node. Key order is irrelevant to the algebra; traversal is always over
// sorted keys so output is deterministic.
type Structure map[string]Node

func (Structure) node() {}

// 📄 Leaf is a file node. A nil Content means "do not write" and is
// filtered out during reification; an empty render.String produces an
// empty file. A nil Op means "unspecified" and defaults to plain create
// at reification time, while staying overridable by merges.
type Leaf struct {
	Content render.Renderable
	Op      fileops.FileOp
}

func (Leaf) node() {}

// 🧭 Path is an ordered list of path segments.
type Path []string

// 🔧 P builds a Path from segments, splitting each on "/" so callers may
// pass "a/b/c", ("a", "b", "c"), or any mix; all normalize identically.
func P(segments ...string) Path {
	var out Path
	for _, seg := range segments {
		for _, part := range strings.Split(seg, "/") {
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func (p Path) String() string {
	return strings.Join(p, "/")
}

// 🔑 Keys returns the sorted child names of a directory node.
func (s Structure) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// 🔄 Clone returns a deep copy of the tree. Leaves are value-copied;
// Renderables and FileOps are immutable by convention and shared.
func (s Structure) Clone() Structure {
	out := make(Structure, len(s))
	for k, v := range s {
		out[k] = cloneNode(v)
	}
	return out
}

func cloneNode(n Node) Node {
	if dir, ok := n.(Structure); ok {
		return dir.Clone()
	}
	return n
}

// 🔍 Get returns the node at path, if the whole chain exists.
func (s Structure) Get(path Path) (Node, bool) {
	if len(path) == 0 {
		return nil, false
	}
	cur := s
	for i := 0; i < len(path)-1; i++ {
		child, ok := cur[path[i]]
		if !ok {
			return nil, false
		}
		dir, ok := child.(Structure)
		if !ok {
			return nil, false
		}
		cur = dir
	}
	n, ok := cur[path[len(path)-1]]
	return n, ok
}

// 📜 Files returns the sorted slash-joined paths of every leaf in the
// tree. This is what VCS staging consumes from the changed subset.
func (s Structure) Files() []string {
	var out []string
	var walk func(prefix string, dir Structure)
	walk = func(prefix string, dir Structure) {
		for _, k := range dir.Keys() {
			p := k
			if prefix != "" {
				p = prefix + "/" + k
			}
			switch child := dir[k].(type) {
			case Structure:
				walk(p, child)
			case Leaf:
				out = append(out, p)
			}
		}
	}
	walk("", s)
	return out
}
