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

// evalContext is the per-request workspace. Nothing in it is shared
// across requests; the engine's indexes are reached through eng and are
// read-only.
type evalContext struct {
	eng      *Engine
	snapshot Snapshot

	override   Override
	adhocWires map[ConnectionPoint]Flywire

	// trace doubles as the output cache: an output recorded here is never
	// recomputed within the request.
	trace map[NodePath]*NodeEvaluation

	inflight *inflight
}

func newEvalContext(eng *Engine, snapshot Snapshot, override Override) (*evalContext, error) {
	if err := override.validate(); err != nil {
		return nil, err
	}
	return &evalContext{
		eng:        eng,
		snapshot:   snapshot,
		override:   override,
		adhocWires: override.wireIndex(),
		trace:      make(map[NodePath]*NodeEvaluation),
		inflight:   newInflight(),
	}, nil
}

func (ctx *evalContext) nodeEvaluation(path NodePath) *NodeEvaluation {
	ne, ok := ctx.trace[path]
	if !ok {
		ne = newNodeEvaluation()
		ctx.trace[path] = ne
	}
	return ne
}

// recordInput writes an input into the trace. First write wins.
func (ctx *evalContext) recordInput(path NodePath, rid ResourceID, in InputResult) {
	ne := ctx.nodeEvaluation(path)
	if _, ok := ne.Inputs[rid]; !ok {
		ne.Inputs[rid] = in
	}
}

// recordOutput writes an output into the trace. First write wins.
func (ctx *evalContext) recordOutput(path NodePath, rid ResourceID, value Result) {
	ne := ctx.nodeEvaluation(path)
	if _, ok := ne.Outputs[rid]; !ok {
		ne.Outputs[rid] = OutputResult{Value: value}
	}
}

// cachedOutput returns the memoized output for (path, rid), if the
// request already produced it.
func (ctx *evalContext) cachedOutput(path NodePath, rid ResourceID) (Result, bool) {
	ne, ok := ctx.trace[path]
	if !ok {
		return Result{}, false
	}
	out, ok := ne.Outputs[rid]
	return out.Value, ok
}
