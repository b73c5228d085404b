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

package structure_test

import (
	"context"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/goscaffold/pkg/fileops"
	"github.com/walteh/goscaffold/pkg/opts"
	"github.com/walteh/goscaffold/pkg/render"
	"github.com/walteh/goscaffold/pkg/structure"
)

// leaf builds a comparable leaf (nil op so reflect equality works)
func leaf(content string) structure.Leaf {
	return structure.Leaf{Content: render.String(content)}
}

// 🧪 TestPathNormalization tests that both path forms normalize identically
func TestPathNormalization(t *testing.T) {
	assert.Equal(t, structure.P("a", "b", "c"), structure.P("a/b/c"), "split and delimited forms should match")
	assert.Equal(t, structure.P("a/b", "c"), structure.P("a", "b/c"), "mixed forms should match")
	assert.Equal(t, "a/b/c", structure.P("a//b/", "c").String(), "empty segments should be dropped")
}

// 🧪 TestMerge tests the recursive right-biased merge
func TestMerge(t *testing.T) {
	tests := []struct {
		name string
		old  structure.Structure
		new  structure.Structure
		want structure.Structure
	}{
		{
			name: "key_only_in_old_preserved",
			old:  structure.Structure{"a": leaf("1")},
			new:  structure.Structure{"b": leaf("2")},
			want: structure.Structure{"a": leaf("1"), "b": leaf("2")},
		},
		{
			name: "new_leaf_content_wins",
			old:  structure.Structure{"a": leaf("old")},
			new:  structure.Structure{"a": leaf("new")},
			want: structure.Structure{"a": leaf("new")},
		},
		{
			name: "nil_content_keeps_old",
			old:  structure.Structure{"a": leaf("old")},
			new:  structure.Structure{"a": structure.Leaf{}},
			want: structure.Structure{"a": leaf("old")},
		},
		{
			name: "nested_directories_recurse",
			old:  structure.Structure{"d": structure.Structure{"x": leaf("1")}},
			new:  structure.Structure{"d": structure.Structure{"y": leaf("2")}},
			want: structure.Structure{"d": structure.Structure{"x": leaf("1"), "y": leaf("2")}},
		},
		{
			name: "directory_replaces_leaf",
			old:  structure.Structure{"a": leaf("file")},
			new:  structure.Structure{"a": structure.Structure{"x": leaf("1")}},
			want: structure.Structure{"a": structure.Structure{"x": leaf("1")}},
		},
		{
			name: "leaf_replaces_directory",
			old:  structure.Structure{"a": structure.Structure{"x": leaf("1")}},
			new:  structure.Structure{"a": leaf("file")},
			want: structure.Structure{"a": leaf("file")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := structure.Merge(tt.old, tt.new)
			assert.Equal(t, tt.want, got)
		})
	}
}

// 🧪 TestMergeIdempotence tests that re-merging the same right side is a no-op
func TestMergeIdempotence(t *testing.T) {
	a := structure.Structure{
		"x": leaf("1"),
		"d": structure.Structure{"y": leaf("2")},
	}
	b := structure.Structure{
		"x": leaf("other"),
		"d": structure.Structure{"z": leaf("3")},
	}
	once := structure.Merge(a, b)
	twice := structure.Merge(once, b)
	assert.Equal(t, once, twice, "merge(merge(A,B), B) should equal merge(A,B)")
}

// 🧪 TestMergeDoesNotAliasInputs tests the purity contract
func TestMergeDoesNotAliasInputs(t *testing.T) {
	old := structure.Structure{"d": structure.Structure{"x": leaf("1")}}
	new := structure.Structure{"d": structure.Structure{"y": leaf("2")}}
	out := structure.Merge(old, new)

	out["d"].(structure.Structure)["x"] = leaf("mutated")
	assert.Equal(t, leaf("1"), old["d"].(structure.Structure)["x"], "input should be unaffected by output mutation")
}

// 🧪 TestMergeOpPrecedence tests the leaf-level file-op merge behaviorally
func TestMergeOpPrecedence(t *testing.T) {
	var oldCalled, newCalled bool
	oldOp := func(context.Context, billy.Filesystem, string, *string, opts.Options) (string, error) {
		oldCalled = true
		return "", nil
	}
	newOp := func(context.Context, billy.Filesystem, string, *string, opts.Options) (string, error) {
		newCalled = true
		return "", nil
	}

	// new op unspecified: old op survives
	got := structure.Merge(
		structure.Structure{"a": structure.Leaf{Content: render.String("x"), Op: oldOp}},
		structure.Structure{"a": leaf("y")},
	)
	_, err := got["a"].(structure.Leaf).Op(context.Background(), nil, "a", nil, opts.Options{})
	require.NoError(t, err)
	assert.True(t, oldCalled, "old op should survive a nil new op")

	// new op specified: it wins
	got = structure.Merge(
		structure.Structure{"a": structure.Leaf{Content: render.String("x"), Op: oldOp}},
		structure.Structure{"a": structure.Leaf{Op: fileops.FileOp(newOp)}},
	)
	_, err = got["a"].(structure.Leaf).Op(context.Background(), nil, "a", nil, opts.Options{})
	require.NoError(t, err)
	assert.True(t, newCalled, "new op should win when specified")
}

// 🧪 TestEnsure tests leaf creation with intermediate directories
func TestEnsure(t *testing.T) {
	s := structure.Structure{}
	got := structure.Ensure(s, structure.P("a/b/file.txt"), render.String("hi"), nil)
	want := structure.Structure{
		"a": structure.Structure{
			"b": structure.Structure{"file.txt": leaf("hi")},
		},
	}
	assert.Equal(t, want, got)
	assert.Empty(t, s, "input should stay empty")

	// nil content keeps prior content
	got = structure.Ensure(got, structure.P("a/b/file.txt"), nil, nil)
	assert.Equal(t, want, got, "nil content should keep prior content")

	// empty string forces an empty file
	got = structure.Ensure(got, structure.P("a/b/file.txt"), render.String(""), nil)
	assert.Equal(t, leaf(""), got["a"].(structure.Structure)["b"].(structure.Structure)["file.txt"])
}

// 🧪 TestModify tests the append/prepend pattern
func TestModify(t *testing.T) {
	s := structure.Structure{"file": leaf("hello")}
	got := structure.Modify(s, structure.P("file"), func(prior render.Renderable) render.Renderable {
		text, err := prior.Resolve(opts.Options{})
		require.NoError(t, err)
		return render.String(text + " world")
	}, nil)
	assert.Equal(t, leaf("hello world"), got["file"])

	// absent leaf: modifier receives nil
	got = structure.Modify(structure.Structure{}, structure.P("new"), func(prior render.Renderable) render.Renderable {
		assert.Nil(t, prior)
		return render.String("fresh")
	}, nil)
	assert.Equal(t, leaf("fresh"), got["new"])
}

// 🧪 TestReject tests removal and the missing-ancestor guarantee
func TestReject(t *testing.T) {
	s := structure.Structure{
		"a": structure.Structure{
			"b": structure.Structure{"c": leaf("1"), "d": leaf("2")},
		},
	}

	got := structure.Reject(s, structure.P("a/b/c"))
	want := structure.Structure{
		"a": structure.Structure{
			"b": structure.Structure{"d": leaf("2")},
		},
	}
	assert.Equal(t, want, got)

	// missing intermediate segment: unchanged, deep-equal to input
	got = structure.Reject(s, structure.P("a/b/x/c"))
	assert.Equal(t, s, got, "missing path should return the structure unchanged")

	// missing final segment: also unchanged
	got = structure.Reject(s, structure.P("a/b/nope"))
	assert.Equal(t, s, got)
}

// 🧪 TestFiles tests the sorted leaf listing
func TestFiles(t *testing.T) {
	s := structure.Structure{
		"b": leaf("2"),
		"a": structure.Structure{"y": leaf("1"), "x": leaf("0")},
	}
	assert.Equal(t, []string{"a/x", "a/y", "b"}, s.Files())
}

// 🧪 TestNest tests rooting a subtree under a path
func TestNest(t *testing.T) {
	sub := structure.Structure{"f": leaf("1")}
	got := structure.Nest(structure.P("x/y"), sub)
	want := structure.Structure{
		"x": structure.Structure{"y": structure.Structure{"f": leaf("1")}},
	}
	assert.Equal(t, want, got)
}
