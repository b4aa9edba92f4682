// Copyright (c) 2022 Uber Technologies, Inc.
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

// Package enginetest wraps the engine with methods for easier testing.
package enginetest

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/calcgraph"
)

// Engine wraps calcgraph.Engine to provide methods for easier testing.
type Engine struct {
	*calcgraph.Engine

	t testing.TB
}

// New builds a testing engine for root, halting the test if construction
// fails.
func New(t testing.TB, root calcgraph.Node, opts ...calcgraph.Option) *Engine {
	t.Helper()

	e, err := calcgraph.New(root, opts...)
	require.NoError(t, err, "failed to build engine")
	return &Engine{t: t, Engine: e}
}

// RequireSuccess evaluates a single resource and returns its value,
// halting the test if the resource did not resolve successfully.
func (e *Engine) RequireSuccess(snapshot calcgraph.Snapshot, path calcgraph.NodePath, rid calcgraph.ResourceID, opts ...calcgraph.EvaluateOption) interface{} {
	e.t.Helper()

	res := e.Evaluate(snapshot, path, []calcgraph.ResourceID{rid}, opts...)
	r, ok := res.Result(rid)
	require.True(e.t, ok, "no result for %v", rid)
	require.NoError(e.t, r.Err(), "resource %v failed", rid)
	return r.Value()
}

// RequireFailure evaluates a single resource and returns its error,
// halting the test if the resource resolved successfully.
func (e *Engine) RequireFailure(snapshot calcgraph.Snapshot, path calcgraph.NodePath, rid calcgraph.ResourceID, opts ...calcgraph.EvaluateOption) error {
	e.t.Helper()

	res := e.Evaluate(snapshot, path, []calcgraph.ResourceID{rid}, opts...)
	r, ok := res.Result(rid)
	require.True(e.t, ok, "no result for %v", rid)
	require.Error(e.t, r.Err(), "resource %v unexpectedly succeeded", rid)
	return r.Err()
}
