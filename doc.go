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

// Package calcgraph evaluates hierarchical graphs of calculations
// against a point-in-time snapshot.
//
// A graph is a tree of nodes: atomic nodes carry a Calculator that
// produces resources from resolved inputs, and groups contain child
// nodes, flywires that rewire connection points across the hierarchy,
// and a visibility filter deciding which descendant outputs the group's
// parent can see.
//
// An Engine is built once per graph:
//
//	engine, err := calcgraph.New(root)
//
// and then serves any number of requests, concurrently:
//
//	res := engine.Evaluate(snapshot, "/desk/mid", []calcgraph.ResourceID{midRID})
//
// Evaluate never returns an error. Every requested resource gets an
// entry in the result, a Success carrying the computed value or a
// Failure carrying the reason: an unresolved dependency, a dependency
// cycle, an upstream failure, or a calculator that misbehaved. The
// result also carries a full trace: for every node the request touched,
// the inputs it resolved (and where each one came from) and the outputs
// it produced.
//
// Resolution of an input is scoped. The engine looks for a provider
// among the node's siblings first and then escalates group by group
// toward the root; ad-hoc overrides attached to the request take strict
// precedence, and flywires reroute individual points across the
// hierarchy. Within one request every output is computed at most once.
package calcgraph
