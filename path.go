// Copyright (c) 2017 Uber Technologies, Inc.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package calcgraph

import (
	"path"
	"strings"
)

// NodePath is the absolute address of a node in a calculation graph.
//
// Paths are /-separated and rooted at "/": a child named C of the node at
// /a is addressed as /a/C. Paths always use forward slashes, on every
// platform, so that two paths compare equal exactly when they address the
// same node.
type NodePath string

// RootPath addresses the root node of a graph.
const RootPath NodePath = "/"

// NewNodePath normalizes s into a NodePath. Backslashes are treated as
// separators, redundant separators and dot segments are collapsed, and the
// result is always absolute.
func NewNodePath(s string) NodePath {
	s = strings.ReplaceAll(s, `\`, "/")
	if !strings.HasPrefix(s, "/") {
		s = "/" + s
	}
	return NodePath(path.Clean(s))
}

// JoinPath returns the path of a child named name under p.
func JoinPath(p NodePath, name string) NodePath {
	return NodePath(path.Join(string(p), name))
}

// IsRoot reports whether p addresses the root node.
func (p NodePath) IsRoot() bool { return p == RootPath }

// Parent returns the path of the group enclosing p. The parent of the root
// is the root itself.
func (p NodePath) Parent() NodePath {
	return NodePath(path.Dir(string(p)))
}

// Base returns the last element of p, which is the name of the node it
// addresses. The base of the root path is "/".
func (p NodePath) Base() string { return path.Base(string(p)) }

// Contains reports whether q addresses p itself or a node inside the
// subtree rooted at p.
func (p NodePath) Contains(q NodePath) bool {
	if p == q || p.IsRoot() {
		return true
	}
	return strings.HasPrefix(string(q), string(p)+"/")
}

func (p NodePath) String() string { return string(p) }
