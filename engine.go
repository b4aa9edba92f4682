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
	"github.com/google/uuid"
	"go.uber.org/atomic"

	"go.uber.org/calcgraph/internal/clock"
)

// Engine evaluates calculation graphs. It is built once from an immutable
// root node and may then serve any number of requests, concurrently: all
// mutable per-request state lives in the evaluation context, never in the
// engine.
type Engine struct {
	root Node
	idx  *indexes

	clock clock.Clock

	beforeCallback BeforeCallback
	callback       Callback

	stats engineStats
}

type engineStats struct {
	evaluations     atomic.Uint64
	computes        atomic.Uint64
	computeFailures atomic.Uint64
}

// Stats is a point-in-time snapshot of the engine's counters.
type Stats struct {
	// Evaluations is the number of Evaluate calls served.
	Evaluations uint64

	// Computes is the number of calculator runs, across all requests.
	Computes uint64

	// ComputeFailures is the number of calculator runs that panicked.
	ComputeFailures uint64
}

// New builds an engine for the graph rooted at root. It fails fast on
// construction problems: duplicate providers within a group, sibling name
// collisions, and ill-typed or out-of-subtree flywires.
func New(root Node, opts ...Option) (*Engine, error) {
	idx, err := buildIndexes(root)
	if err != nil {
		return nil, errWrapf(err, "invalid calculation graph")
	}
	e := &Engine{
		root:  root,
		idx:   idx,
		clock: clock.System,
	}
	for _, opt := range opts {
		opt.applyOption(e)
	}
	return e, nil
}

// Root returns the root node the engine was built from.
func (e *Engine) Root() Node { return e.root }

// Stats returns a snapshot of the engine's counters.
func (e *Engine) Stats() Stats {
	return Stats{
		Evaluations:     e.stats.evaluations.Load(),
		Computes:        e.stats.computes.Load(),
		ComputeFailures: e.stats.computeFailures.Load(),
	}
}

// Evaluate resolves the requested resources at the node addressed by
// path, against the given snapshot. It never returns an error: every
// requested resource gets an entry in the result's Results map, failures
// included, and partial success is the norm.
func (e *Engine) Evaluate(snapshot Snapshot, path NodePath, resources []ResourceID, opts ...EvaluateOption) *EvaluationResult {
	e.stats.evaluations.Inc()

	var options evaluateOptions
	for _, opt := range opts {
		opt.applyEvaluateOption(&options)
	}

	path = NewNodePath(string(path))
	res := &EvaluationResult{
		ID:            uuid.NewString(),
		Snapshot:      snapshot,
		RequestedPath: path,
		Results:       make(map[ResourceID]Result, len(resources)),
		Graph:         e.root,
	}
	if options.hasOverride && !options.override.empty() {
		o := options.override
		res.Override = &o
	}
	res.EvaluatedAt = e.clock.Now()
	defer func() {
		res.Elapsed = e.clock.Since(res.EvaluatedAt)
	}()

	ctx, err := newEvalContext(e, snapshot, options.override)
	if err != nil {
		for _, rid := range resources {
			res.Results[rid] = Failure(err)
		}
		return res
	}
	defer func() {
		res.Nodes = ctx.trace
	}()

	node, ok := e.idx.nodes[path]
	if !ok {
		for _, rid := range resources {
			res.Results[rid] = Failure(UnknownNodeError{Path: path})
		}
		return res
	}

	for _, rid := range resources {
		res.Results[rid] = ctx.resolveRequest(path, node, rid)
	}
	return res
}

// resolveRequest resolves one requested resource: scoped resolution on
// behalf of a virtual consumer sitting at the requested node's containing
// group, with provider lookup starting inside the group itself when the
// requested node is a group.
func (ctx *evalContext) resolveRequest(path NodePath, node Node, rid ResourceID) Result {
	switch n := node.(type) {
	case *Group:
		// A group's resolvable set is its exposed outputs. A resource its
		// visibility hides resolves as if requested from outside the
		// group: through the enclosing scope or not at all.
		if n.VisibilityScope().InScope(ConnectionPoint{Path: path, Resource: rid}) {
			return ctx.resolvePoint(ConnectionPoint{Path: path, Resource: rid}).Value
		}
		group, ok := ctx.eng.idx.enclosingGroup(path)
		if !ok {
			return Failure(UnresolvedDependencyError{Point: ConnectionPoint{Path: path, Resource: rid}})
		}
		return ctx.resolvePoint(ConnectionPoint{Path: group, Resource: rid}).Value
	default:
		group, ok := ctx.eng.idx.enclosingGroup(path)
		if !ok {
			// A lone atomic root provides only its own outputs.
			return ctx.evaluateProvider(path, rid)
		}
		return ctx.resolvePoint(ConnectionPoint{Path: group, Resource: rid}).Value
	}
}
