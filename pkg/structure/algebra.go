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

package structure

import (
	"github.com/walteh/goscaffold/pkg/fileops"
	"github.com/walteh/goscaffold/pkg/render"
)

// 🔀 Merge combines two trees, right-biased. For each key in new: two
// directories recurse; two leaves merge field-wise (new content wins
// unless nil, new op wins unless nil); a directory-ness disagreement or
// a key absent from old takes new's value outright. Keys only in old are
// preserved. Neither input is aliased by the result.
func Merge(old, new Structure) Structure {
	out := old.Clone()
	for k, nv := range new {
		ov, exists := out[k]
		if !exists {
			out[k] = cloneNode(nv)
			continue
		}
		odir, oIsDir := ov.(Structure)
		ndir, nIsDir := nv.(Structure)
		switch {
		case oIsDir && nIsDir:
			out[k] = Merge(odir, ndir)
		case !oIsDir && !nIsDir:
			out[k] = mergeLeaf(ov.(Leaf), nv.(Leaf))
		default:
			// directory-ness conflict: new replaces the subtree
			out[k] = cloneNode(nv)
		}
	}
	return out
}

func mergeLeaf(old, new Leaf) Leaf {
	out := old
	if new.Content != nil {
		out.Content = new.Content
	}
	if new.Op != nil {
		out.Op = new.Op
	}
	return out
}

// ➕ Ensure guarantees a leaf exists at path, creating intermediate
// directories as needed. A nil content keeps any prior content (pass
// render.String("") to force an empty file); a nil op keeps any prior
// op. The input tree is not modified.
func Ensure(s Structure, path Path, content render.Renderable, op fileops.FileOp) Structure {
	return Modify(s, path, func(prior render.Renderable) render.Renderable {
		if content != nil {
			return content
		}
		return prior
	}, op)
}

// 🛠️ Modify is Ensure with a content transformer: modifier receives the
// prior content (nil if the leaf is absent) and returns the new content,
// enabling append/prepend patterns. A nil op keeps the prior op.
func Modify(s Structure, path Path, modifier func(render.Renderable) render.Renderable, op fileops.FileOp) Structure {
	if len(path) == 0 {
		return s.Clone()
	}
	out := s.Clone()
	cur := out
	for i := 0; i < len(path)-1; i++ {
		seg := path[i]
		dir, ok := cur[seg].(Structure)
		if !ok {
			// absent, or a leaf in the way: replace with a fresh directory
			dir = Structure{}
			cur[seg] = dir
		}
		cur = dir
	}
	name := path[len(path)-1]
	prior, _ := cur[name].(Leaf)
	next := Leaf{Content: modifier(prior.Content), Op: prior.Op}
	if op != nil {
		next.Op = op
	}
	cur[name] = next
	return out
}

// 🪺 Nest roots a node under path, building one directory per segment.
// An empty path returns the node itself when it is a directory, or an
// empty tree otherwise.
func Nest(p Path, n Node) Structure {
	if len(p) == 0 {
		if dir, ok := n.(Structure); ok {
			return dir.Clone()
		}
		return Structure{}
	}
	out := Structure{p[len(p)-1]: cloneNode(n)}
	for i := len(p) - 2; i >= 0; i-- {
		out = Structure{p[i]: out}
	}
	return out
}

// ➖ Reject removes the node at path, but only when every ancestor
// directory exists; otherwise the tree is returned unchanged. A missing
// path is never an error.
func Reject(s Structure, path Path) Structure {
	if len(path) == 0 {
		return s.Clone()
	}
	if _, ok := s.Get(path); !ok {
		return s.Clone()
	}
	out := s.Clone()
	cur := out
	for i := 0; i < len(path)-1; i++ {
		cur = cur[path[i]].(Structure)
	}
	delete(cur, path[len(path)-1])
	return out
}
