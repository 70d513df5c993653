// This file is part of opal, a compiler for a small imperative language.
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

// Package optimize rewrites a parsed ast.Node tree to a fixed point,
// collapsing degenerate Sequence and If nodes that arise from empty
// statements and absent else-branches. The rewrite runs bottom-up on every
// pass so that a collapse exposed by a child's own collapse is caught on the
// very next pass, and Optimize loops until a pass produces no change.
package optimize

import "github.com/mckerracher/opal/ast"

// Optimize rewrites root to a fixed point and returns the result. root may be
// nil (an empty program), in which case nil is returned unchanged.
func Optimize(root *ast.Node) *ast.Node {
	for {
		next, changed := pass(root)
		root = next
		if !changed {
			return root
		}
	}
}

// pass performs one bottom-up traversal, rewriting children before
// inspecting the current node, and reports whether it changed anything.
func pass(n *ast.Node) (*ast.Node, bool) {
	if n == nil {
		return nil, false
	}

	changedHere := false
	if n.Left != nil {
		newLeft, c := pass(n.Left)
		if c {
			changedHere = true
		}
		n.Left = newLeft
	}
	if n.Right != nil {
		newRight, c := pass(n.Right)
		if c {
			changedHere = true
		}
		n.Right = newRight
	}

	switch n.Kind {
	case ast.Sequence:
		// A Sequence with both halves gone vanishes entirely; with exactly
		// one half present it collapses to that half.
		if n.Left == nil && n.Right == nil {
			return nil, true
		}
		if n.Left == nil {
			return n.Right, true
		}
		if n.Right == nil {
			return n.Left, true
		}
	case ast.If:
		// Unlike Sequence, an If never vanishes outright: its cond (the
		// outer node's Left) is never optional, so the both-nil case here
		// can only be the inner then/else node and is left alone. Exactly
		// one nil child still collapses to the other, same as Sequence.
		if n.Left == nil && n.Right != nil {
			return n.Right, true
		}
		if n.Right == nil && n.Left != nil {
			return n.Left, true
		}
	}
	// While is deliberately exempt: a nil body is a legitimate "spin until
	// condition false with no side effects" loop, not a degeneracy.

	return n, changedHere
}
