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

import "time"

// SourceType records where a resolved input came from.
type SourceType string

const (
	// SourceAdhocInput marks an input pinned by an ad-hoc override.
	SourceAdhocInput SourceType = "ADHOC_INPUT"

	// SourceFlywire marks an input that was satisfied through a flywire
	// rewiring, ad-hoc or graph-defined.
	SourceFlywire SourceType = "FLYWIRE"

	// SourceSibling marks an input supplied by a provider found through
	// scoped resolution.
	SourceSibling SourceType = "SIBLING"
)

// An InputResult is one resolved input in the trace: the value, where it
// came from, and whether it arrived directly. Direct is false only for
// inputs that were rerouted through a flywire.
type InputResult struct {
	Value  Result
	Source SourceType
	Direct bool

	// Provider is the path of the node that supplied the value; empty for
	// ad-hoc inputs.
	Provider NodePath
}

// An OutputResult is one produced output in the trace.
type OutputResult struct {
	Value Result
}

// A NodeEvaluation is the per-node slice of the trace: every input the
// node resolved and every output it produced during one request. Entries
// are recorded once; later writes for the same resource are dropped.
type NodeEvaluation struct {
	Inputs  map[ResourceID]InputResult
	Outputs map[ResourceID]OutputResult
}

func newNodeEvaluation() *NodeEvaluation {
	return &NodeEvaluation{
		Inputs:  make(map[ResourceID]InputResult),
		Outputs: make(map[ResourceID]OutputResult),
	}
}

// An EvaluationResult is the complete outcome of one Evaluate call. It is
// immutable once returned; the engine retains no reference to it.
//
// Results holds one entry per requested resource, success or failure.
// Nodes is the trace: for every node touched by the request, the inputs it
// resolved and the outputs it produced.
type EvaluationResult struct {
	// ID uniquely identifies this evaluation, for correlating traces.
	ID string

	Snapshot      Snapshot
	RequestedPath NodePath

	// Override is the ad-hoc override the request carried, if any.
	Override *Override

	Results map[ResourceID]Result
	Nodes   map[NodePath]*NodeEvaluation

	// Graph is the root node the engine was built from.
	Graph Node

	// EvaluatedAt and Elapsed describe when the evaluation ran and how
	// long it took. They are informational and excluded from structural
	// comparisons of results.
	EvaluatedAt time.Time
	Elapsed     time.Duration
}

// Result returns the outcome for one requested resource.
func (r *EvaluationResult) Result(rid ResourceID) (Result, bool) {
	res, ok := r.Results[rid]
	return res, ok
}

// Node returns the trace slice for the node at path, if the request
// touched it.
func (r *EvaluationResult) Node(path NodePath) (*NodeEvaluation, bool) {
	ne, ok := r.Nodes[path]
	return ne, ok
}
