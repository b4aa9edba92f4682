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
	"errors"
	"fmt"
)

// indexes are the engine's pre-computed view of a graph. They are built
// once per engine and shared, read-only, by every request.
type indexes struct {
	// Every node in the graph, keyed by absolute path.
	nodes map[NodePath]Node

	// Containing group path for every non-root node.
	parent map[NodePath]NodePath

	// Per group, the providers visible inside it: which child subtree
	// supplies each resource. A child group contributes only the outputs
	// its own visibility exposes.
	providers map[NodePath]map[ResourceID]NodePath

	// Per group, its flywires keyed by target point.
	wires map[NodePath]map[ConnectionPoint]Flywire
}

var errNoOutputs = errors.New("atomic node declares no outputs")

func buildIndexes(root Node) (*indexes, error) {
	idx := &indexes{
		nodes:     make(map[NodePath]Node),
		parent:    make(map[NodePath]NodePath),
		providers: make(map[NodePath]map[ResourceID]NodePath),
		wires:     make(map[NodePath]map[ConnectionPoint]Flywire),
	}
	if _, err := idx.index(RootPath, root); err != nil {
		return nil, err
	}
	return idx, nil
}

// index registers the node at path p and returns the set of resources the
// node exposes to its parent.
func (idx *indexes) index(p NodePath, n Node) (map[ResourceID]struct{}, error) {
	idx.nodes[p] = n

	switch n := n.(type) {
	case *Atomic:
		outs := n.calc.Outputs()
		if len(outs) == 0 {
			return nil, errWrapf(errNoOutputs, "node %v", p)
		}
		exposed := make(map[ResourceID]struct{}, len(outs))
		for _, rid := range outs {
			exposed[rid] = struct{}{}
		}
		return exposed, nil

	case *Group:
		return idx.indexGroup(p, n)

	default:
		// Node is sealed; nothing else can reach here.
		return nil, fmt.Errorf("unknown node variant %T at %v", n, p)
	}
}

func (idx *indexes) indexGroup(p NodePath, g *Group) (map[ResourceID]struct{}, error) {
	providers := make(map[ResourceID]NodePath)
	names := make(map[string]struct{}, len(g.children))

	for _, child := range g.children {
		name := child.Name()
		if name == "" || name == "/" {
			return nil, fmt.Errorf("group %v has a child with an invalid name %q", p, name)
		}
		if _, ok := names[name]; ok {
			return nil, NameCollisionError{Group: p, Name: name}
		}
		names[name] = struct{}{}

		childPath := JoinPath(p, name)
		idx.parent[childPath] = p

		exposed, err := idx.index(childPath, child)
		if err != nil {
			return nil, err
		}
		for rid := range exposed {
			if first, ok := providers[rid]; ok {
				return nil, DuplicateProviderError{
					Group:    p,
					Resource: rid,
					First:    first,
					Second:   childPath,
				}
			}
			providers[rid] = childPath
		}
	}
	idx.providers[p] = providers

	wires := make(map[ConnectionPoint]Flywire, len(g.flywires))
	for _, w := range g.flywires {
		if err := w.typeCheck(); err != nil {
			return nil, err
		}
		if !p.Contains(w.Source.Path) || !p.Contains(w.Target.Path) {
			return nil, fmt.Errorf("flywire %v reaches outside group %v", w, p)
		}
		if _, ok := wires[w.Target]; ok {
			return nil, fmt.Errorf("group %v has two flywires targeting %v", p, w.Target)
		}
		wires[w.Target] = w
	}
	idx.wires[p] = wires

	// The group exposes to its parent only the providers that pass its
	// visibility filter, judged on the synthetic point (resource at the
	// group's own path).
	exposed := make(map[ResourceID]struct{}, len(providers))
	for rid := range providers {
		if g.visibility.InScope(ConnectionPoint{Path: p, Resource: rid}) {
			exposed[rid] = struct{}{}
		}
	}
	return exposed, nil
}

// providerIn looks up the provider of rid visible inside the group at g.
func (idx *indexes) providerIn(g NodePath, rid ResourceID) (NodePath, bool) {
	p, ok := idx.providers[g][rid]
	return p, ok
}

// wireIn looks up a flywire of the group at g targeting point p.
func (idx *indexes) wireIn(g NodePath, p ConnectionPoint) (Flywire, bool) {
	w, ok := idx.wires[g][p]
	return w, ok
}

// enclosingGroup returns the path of the group containing p, and false at
// the root.
func (idx *indexes) enclosingGroup(p NodePath) (NodePath, bool) {
	g, ok := idx.parent[p]
	return g, ok
}
