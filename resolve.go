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

// maxResolveIterations bounds the dependency-discovery loop of a single
// node. A calculator whose dependency set is still growing after this
// many rounds fails with a ComputeError.
const maxResolveIterations = 32

var errDepsUnstable = errors.New("dependency set did not stabilize")

// resolveInput resolves point p as an input of the node at p.Path.
func (ctx *evalContext) resolveInput(p ConnectionPoint) InputResult {
	return ctx.resolvePoint(p)
}

// scanStart returns the group whose providers are consulted first when
// resolving a point at p: the node itself when it is a group, its
// containing group otherwise.
func (ctx *evalContext) scanStart(p NodePath) (NodePath, bool) {
	if _, isGroup := ctx.eng.idx.nodes[p].(*Group); isGroup {
		return p, true
	}
	return ctx.eng.idx.enclosingGroup(p)
}

// resolvePoint is scoped resolution: ad-hoc input overrides first, then
// flywire rewrites (ad-hoc before graph-defined, innermost group first),
// then provider lookup escalating group by group toward the root.
func (ctx *evalContext) resolvePoint(orig ConnectionPoint) InputResult {
	if r, ok := ctx.override.Inputs[orig]; ok {
		return InputResult{Value: r, Source: SourceAdhocInput, Direct: true}
	}

	cur := orig
	rewired := false
	seen := map[ConnectionPoint]struct{}{orig: {}}
	for {
		w, ok := ctx.findWire(cur)
		if !ok {
			break
		}
		next := w.Source
		if _, dup := seen[next]; dup {
			return InputResult{Value: Failure(ctx.inflight.cycle(next)), Source: SourceFlywire}
		}
		seen[next] = struct{}{}
		cur = next
		rewired = true

		// Resolution restarts at the rewired point, so an ad-hoc input
		// pinned there is honored before anything else.
		if r, ok := ctx.override.Inputs[cur]; ok {
			return InputResult{Value: r, Source: SourceFlywire}
		}
	}

	// A flywire source names an output point. When the rewired point
	// lands on a node that itself produces the resource, that node is the
	// provider; scoped lookup applies only when it does not.
	if rewired && ctx.providerAt(cur.Path, cur.Resource) {
		value := ctx.evaluateProvider(cur.Path, cur.Resource)
		return InputResult{Value: value, Source: SourceFlywire, Provider: cur.Path}
	}

	source, direct := SourceSibling, true
	if rewired {
		source, direct = SourceFlywire, false
	}

	start, haveStart := ctx.scanStart(cur.Path)
	for lvl, ok := start, haveStart; ok; lvl, ok = ctx.eng.idx.enclosingGroup(lvl) {
		if pp, found := ctx.eng.idx.providerIn(lvl, cur.Resource); found && pp != cur.Path {
			value := ctx.evaluateProvider(pp, cur.Resource)
			return InputResult{Value: value, Source: source, Direct: direct, Provider: pp}
		}
	}
	return InputResult{Value: Failure(UnresolvedDependencyError{Point: cur}), Source: source, Direct: direct}
}

// providerAt reports whether the node at path itself produces rid. For a
// group the intra-group provider view applies: a flywire may deliberately
// reach an output the group's visibility hides.
func (ctx *evalContext) providerAt(path NodePath, rid ResourceID) bool {
	switch n := ctx.eng.idx.nodes[path].(type) {
	case *Atomic:
		for _, out := range n.calc.Outputs() {
			if out == rid {
				return true
			}
		}
	case *Group:
		if _, ok := ctx.eng.idx.providers[path][rid]; ok {
			return true
		}
	}
	return false
}

// findWire looks for a flywire targeting cur: first among the request's
// ad-hoc wires, then in each group whose subtree contains cur, innermost
// first.
func (ctx *evalContext) findWire(cur ConnectionPoint) (Flywire, bool) {
	if w, ok := ctx.adhocWires[cur]; ok {
		return w, true
	}
	lvl := cur.Path
	if _, isGroup := ctx.eng.idx.nodes[lvl].(*Group); !isGroup {
		var ok bool
		if lvl, ok = ctx.eng.idx.enclosingGroup(lvl); !ok {
			return Flywire{}, false
		}
	}
	for {
		if w, ok := ctx.eng.idx.wireIn(lvl, cur); ok {
			return w, true
		}
		next, ok := ctx.eng.idx.enclosingGroup(lvl)
		if !ok {
			return Flywire{}, false
		}
		lvl = next
	}
}

// evaluateProvider produces the output rid of the node at path,
// memoizing through the request's trace. Ad-hoc output overrides
// substitute here, after any rewiring, so an overridden provider never
// computes.
func (ctx *evalContext) evaluateProvider(path NodePath, rid ResourceID) Result {
	point := ConnectionPoint{Path: path, Resource: rid}
	if r, ok := ctx.override.Outputs[point]; ok {
		ctx.recordOutput(path, rid, r)
		return r
	}
	if r, ok := ctx.cachedOutput(path, rid); ok {
		return r
	}
	if ctx.inflight.contains(point) {
		return Failure(ctx.inflight.cycle(point))
	}
	ctx.inflight.push(point)
	defer ctx.inflight.pop()

	switch n := ctx.eng.idx.nodes[path].(type) {
	case *Atomic:
		return ctx.evaluateAtomic(path, n, rid)
	case *Group:
		// A group produces rid by delegating to the provider visible
		// inside it.
		pp, ok := ctx.eng.idx.providerIn(path, rid)
		if !ok {
			return Failure(UnresolvedDependencyError{Point: point})
		}
		return ctx.evaluateProvider(pp, rid)
	default:
		return Failure(UnknownNodeError{Path: path})
	}
}

// evaluateAtomic runs one atomic node: multi-stage dependency discovery,
// short-circuiting on failed inputs, then the guarded compute. All
// produced outputs are recorded; the value for rid is returned.
func (ctx *evalContext) evaluateAtomic(path NodePath, node *Atomic, rid ResourceID) Result {
	calc := node.calc

	resolved := make(map[ResourceID]Result)
	var order []ResourceID
	stable := false
	for iter := 0; iter < maxResolveIterations; iter++ {
		want, err := ctx.resolveDeps(calc, resolved)
		if err != nil {
			return ctx.failOutputs(path, calc, rid, ComputeError{Path: path, Cause: err})
		}
		fresh := 0
		for _, need := range want {
			if _, done := resolved[need]; done {
				continue
			}
			fresh++
			in := ctx.resolveInput(ConnectionPoint{Path: path, Resource: need})
			resolved[need] = in.Value
			order = append(order, need)
			ctx.recordInput(path, need, in)
		}
		if fresh == 0 {
			stable = true
			break
		}
	}
	if !stable {
		return ctx.failOutputs(path, calc, rid, ComputeError{Path: path, Cause: errDepsUnstable})
	}

	if !toleratesFailures(calc) {
		for _, in := range order {
			cause := resolved[in].Err()
			if cause == nil {
				continue
			}
			// A failure caused by a cycle propagates as the cycle itself,
			// so the requested resource reports CycleError rather than a
			// chain of upstream failures around it.
			var cyc CycleError
			if errors.As(cause, &cyc) {
				return ctx.failOutputs(path, calc, rid, cyc)
			}
			return ctx.failOutputs(path, calc, rid, UpstreamFailureError{Resource: in, Cause: cause})
		}
	}

	info := CallbackInfo{Path: path, Node: node.name, Resources: calc.Outputs()}
	ctx.eng.beforeCompute(info)
	start := ctx.eng.clock.Now()
	outs, err := ctx.compute(calc, resolved)
	info.Runtime = ctx.eng.clock.Since(start)
	info.Err = err
	ctx.eng.afterCompute(info)

	ctx.eng.stats.computes.Inc()
	if err != nil {
		ctx.eng.stats.computeFailures.Inc()
		return ctx.failOutputs(path, calc, rid, ComputeError{Path: path, Cause: err})
	}

	for _, out := range calc.Outputs() {
		if r, ok := outs[out]; ok {
			ctx.recordOutput(path, out, r)
		}
	}
	if r, ok := ctx.cachedOutput(path, rid); ok {
		return r
	}
	r := Failure(ComputeError{Path: path, Cause: fmt.Errorf("output %v not produced", rid)})
	ctx.recordOutput(path, rid, r)
	return r
}

// failOutputs marks every declared output of the node failed with err and
// returns the value recorded for rid.
func (ctx *evalContext) failOutputs(path NodePath, calc Calculator, rid ResourceID, err error) Result {
	r := Failure(err)
	for _, out := range calc.Outputs() {
		ctx.recordOutput(path, out, r)
	}
	if cached, ok := ctx.cachedOutput(path, rid); ok {
		return cached
	}
	return r
}

// resolveDeps calls the calculator's ResolveDependencies on a copy of the
// resolved inputs, converting a panic into an error.
func (ctx *evalContext) resolveDeps(calc Calculator, resolved map[ResourceID]Result) (rids []ResourceID, err error) {
	defer func() {
		if r := recover(); r != nil {
			rids, err = nil, fmt.Errorf("dependency resolution panicked: %v", r)
		}
	}()
	return calc.ResolveDependencies(ctx.snapshot, copyResults(resolved)), nil
}

// compute calls the calculator's Compute on a copy of the resolved
// inputs, converting a panic into an error.
func (ctx *evalContext) compute(calc Calculator, inputs map[ResourceID]Result) (outs map[ResourceID]Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			outs, err = nil, fmt.Errorf("compute panicked: %v", r)
		}
	}()
	return calc.Compute(ctx.snapshot, copyResults(inputs)), nil
}

func copyResults(m map[ResourceID]Result) map[ResourceID]Result {
	out := make(map[ResourceID]Result, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func toleratesFailures(calc Calculator) bool {
	ft, ok := calc.(FailureTolerant)
	return ok && ft.ToleratesFailedInputs()
}
