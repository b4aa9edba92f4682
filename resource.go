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

import "fmt"

// A ResourceID identifies a value flowing through a calculation graph.
//
// Implementations must be comparable value types: the engine uses
// ResourceIDs as map keys, and two IDs are the same resource exactly when
// their identity fields are equal. ResourceType is a coarse tag describing
// the kind of value the resource carries; flywires may only connect points
// whose resources share a type tag.
type ResourceID interface {
	fmt.Stringer

	// ResourceType returns the type tag of the resource.
	ResourceType() string
}

// A ConnectionPoint locates a single input or output slot in a graph: the
// resource Resource on the node at Path.
type ConnectionPoint struct {
	Path     NodePath
	Resource ResourceID
}

func (p ConnectionPoint) String() string {
	return fmt.Sprintf("%v:%v", p.Path, p.Resource)
}

// A Flywire rewires one connection point to another across the hierarchy:
// whenever the target point is resolved as an input, the value is taken
// from the source point instead.
type Flywire struct {
	Source ConnectionPoint
	Target ConnectionPoint
}

// NewFlywire builds a flywire from source to target. The two endpoints
// must carry resources of the same type tag.
func NewFlywire(source, target ConnectionPoint) (Flywire, error) {
	w := Flywire{Source: source, Target: target}
	if err := w.typeCheck(); err != nil {
		return Flywire{}, err
	}
	return w, nil
}

func (w Flywire) typeCheck() error {
	if w.Source.Resource == nil || w.Target.Resource == nil {
		return errWrapf(errMissingResource, "invalid flywire %v", w)
	}
	if w.Source.Resource.ResourceType() != w.Target.Resource.ResourceType() {
		return FlywireTypeError{Wire: w}
	}
	return nil
}

func (w Flywire) String() string {
	return fmt.Sprintf("%v -> %v", w.Source, w.Target)
}
