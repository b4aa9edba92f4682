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

// A Calculator is the compute logic carried by an atomic node. The engine
// treats calculators as opaque synchronous functions; it never retains
// state inside them between requests.
//
// Inputs is a static hint of the resources the calculator consumes. The
// authoritative set is obtained by calling ResolveDependencies repeatedly:
// the engine passes in the inputs resolved so far and the calculator
// returns every resource it currently needs, which may grow as earlier
// inputs become available. The engine iterates until the set stops
// growing.
//
// Compute receives the resolved inputs and must return a Result for every
// declared output, or at least for the outputs the request asked for.
// Unless the calculator also implements FailureTolerant, Compute is only
// invoked when all of its inputs resolved successfully.
type Calculator interface {
	// Inputs returns the statically declared input resources.
	Inputs() []ResourceID

	// Outputs returns the resources this calculator produces. Must be
	// non-empty.
	Outputs() []ResourceID

	// ResolveDependencies returns the resources needed given the inputs
	// resolved so far. It must be pure.
	ResolveDependencies(snapshot Snapshot, resolved map[ResourceID]Result) []ResourceID

	// Compute produces the calculator's outputs from its resolved inputs.
	Compute(snapshot Snapshot, inputs map[ResourceID]Result) map[ResourceID]Result

	// Parameters returns the ordered construction parameters of this
	// calculator. The engine never inspects them; they exist so the
	// serialization layer can rebuild the calculator through a registered
	// factory.
	Parameters() []interface{}
}

// FailureTolerant may be implemented by calculators that want Compute to
// run even when some inputs failed to resolve. Without it, any failed
// input short-circuits the node and every output becomes an upstream
// failure, except that an input failed by a dependency cycle passes its
// CycleError on unchanged.
type FailureTolerant interface {
	ToleratesFailedInputs() bool
}

// A Node is one vertex of a calculation graph: either an *Atomic leaf
// carrying a Calculator, or a *Group containing child nodes. There are no
// other implementations; code walking a graph may type-switch over exactly
// these two.
type Node interface {
	// Name returns the node's name, unique among its siblings.
	Name() string

	// calcNode seals the interface.
	calcNode()
}

var (
	_ Node = (*Atomic)(nil)
	_ Node = (*Group)(nil)
)

// Atomic is a leaf node: a named Calculator.
type Atomic struct {
	name string
	calc Calculator
}

// NewAtomic builds an atomic node wrapping calc.
func NewAtomic(name string, calc Calculator) *Atomic {
	return &Atomic{name: name, calc: calc}
}

// Name returns the node's name.
func (a *Atomic) Name() string { return a.name }

// Calculator returns the compute logic carried by the node.
func (a *Atomic) Calculator() Calculator { return a.calc }

func (a *Atomic) calcNode() {}

// Group is a container node: an ordered list of children, a set of
// flywires rewiring points within its subtree, and a visibility filter
// deciding which descendant outputs the group's parent can see.
type Group struct {
	name       string
	children   []Node
	flywires   []Flywire
	visibility Visibility
}

// A GroupOption modifies the default behavior of NewGroup.
type GroupOption interface {
	applyGroupOption(*Group)
}

type groupOptionFunc func(*Group)

func (f groupOptionFunc) applyGroupOption(g *Group) { f(g) }

// WithFlywires attaches flywires to the group. Every endpoint must lie
// within the group's subtree; this is verified when an engine is built.
func WithFlywires(wires ...Flywire) GroupOption {
	return groupOptionFunc(func(g *Group) {
		g.flywires = append(g.flywires, wires...)
	})
}

// WithVisibility sets the group's visibility filter. The default is
// ExposeAll.
func WithVisibility(v Visibility) GroupOption {
	return groupOptionFunc(func(g *Group) {
		g.visibility = v
	})
}

// NewGroup builds a group node with the given children.
func NewGroup(name string, children []Node, opts ...GroupOption) *Group {
	g := &Group{
		name:       name,
		children:   children,
		visibility: ExposeAll(),
	}
	for _, opt := range opts {
		opt.applyGroupOption(g)
	}
	return g
}

// Name returns the node's name.
func (g *Group) Name() string { return g.name }

// Children returns the group's child nodes in order.
func (g *Group) Children() []Node { return g.children }

// Flywires returns the group's flywires.
func (g *Group) Flywires() []Flywire { return g.flywires }

// VisibilityScope returns the group's visibility filter.
func (g *Group) VisibilityScope() Visibility { return g.visibility }

func (g *Group) calcNode() {}
