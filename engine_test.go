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
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.uber.org/calcgraph/internal/clock"
)

var (
	ask = attr("Ask")
	bid = attr("Bid")
	mid = attr("Mid")
)

// askBidMid is the S2 shape: two providers and a calculation over them.
func askBidMid() *Group {
	return NewGroup("root", []Node{
		NewGroup("g", []Node{
			NewAtomic("AskProvider", constCalc{Out: ask, Val: 1.02}),
			NewAtomic("BidProvider", constCalc{Out: bid, Val: 1.00}),
			NewAtomic("MidCalc", midCalc{Ask: ask, Bid: bid, Mid: mid}),
		}),
	})
}

func requireSuccess(t *testing.T, res *EvaluationResult, rid ResourceID) interface{} {
	t.Helper()
	r, ok := res.Result(rid)
	require.True(t, ok, "no result for %v", rid)
	require.NoError(t, r.Err(), "resource %v failed", rid)
	return r.Value()
}

func requireFailure(t *testing.T, res *EvaluationResult, rid ResourceID) error {
	t.Helper()
	r, ok := res.Result(rid)
	require.True(t, ok, "no result for %v", rid)
	require.Error(t, r.Err(), "resource %v unexpectedly succeeded", rid)
	return r.Err()
}

func TestDirectCompute(t *testing.T) {
	root := NewGroup("root", []Node{
		NewAtomic("AskProvider", constCalc{Out: ask, Val: 1.02}),
	})
	e, err := New(root)
	require.NoError(t, err)

	res := e.Evaluate(Snapshot{}, "/AskProvider", []ResourceID{ask})
	assert.Equal(t, 1.02, requireSuccess(t, res, ask))

	require.Len(t, res.Nodes, 1)
	ne, ok := res.Node("/AskProvider")
	require.True(t, ok)
	assert.Empty(t, ne.Inputs)
	require.Len(t, ne.Outputs, 1)
	assert.Equal(t, Success(1.02), ne.Outputs[ask].Value)
}

func TestSiblingDependency(t *testing.T) {
	e, err := New(askBidMid())
	require.NoError(t, err)

	res := e.Evaluate(Snapshot{}, "/g/MidCalc", []ResourceID{mid})
	assert.Equal(t, 1.01, requireSuccess(t, res, mid))

	ne, ok := res.Node("/g/MidCalc")
	require.True(t, ok)
	for _, rid := range []ResourceID{ask, bid} {
		in, ok := ne.Inputs[rid]
		require.True(t, ok, "no trace input for %v", rid)
		assert.Equal(t, SourceSibling, in.Source)
		assert.True(t, in.Direct)
		require.NoError(t, in.Value.Err())
	}
	assert.Equal(t, NodePath("/g/AskProvider"), ne.Inputs[ask].Provider)
}

func TestFlywireRewrite(t *testing.T) {
	cons := attr("Cons")
	wire, err := NewFlywire(
		ConnectionPoint{Path: "/a/AskProvider", Resource: ask},
		ConnectionPoint{Path: "/b/Consumer", Resource: ask},
	)
	require.NoError(t, err)

	root := NewGroup("root", []Node{
		NewGroup("a", []Node{
			NewAtomic("AskProvider", constCalc{Out: ask, Val: 1.02}),
		}, WithVisibility(IncludeOnly())),
		NewGroup("b", []Node{
			NewAtomic("Consumer", relayCalc{In: ask, Out: cons}),
		}),
	}, WithFlywires(wire))

	e, err := New(root)
	require.NoError(t, err)

	res := e.Evaluate(Snapshot{}, "/b/Consumer", []ResourceID{cons})
	assert.Equal(t, 1.02, requireSuccess(t, res, cons))

	ne, ok := res.Node("/b/Consumer")
	require.True(t, ok)
	in := ne.Inputs[ask]
	assert.Equal(t, SourceFlywire, in.Source)
	assert.False(t, in.Direct)
	assert.Equal(t, NodePath("/a/AskProvider"), in.Provider)
}

func TestScopeHiding(t *testing.T) {
	t.Run("hidden from sibling group", func(t *testing.T) {
		cons := attr("Cons")
		root := NewGroup("root", []Node{
			NewGroup("a", []Node{
				NewAtomic("AskProvider", constCalc{Out: ask, Val: 1.02}),
			}, WithVisibility(Exclude(ConnectionPoint{Path: "/a", Resource: ask}))),
			NewAtomic("Consumer", relayCalc{In: ask, Out: cons}),
		})
		e, err := New(root)
		require.NoError(t, err)

		res := e.Evaluate(Snapshot{}, "/Consumer", []ResourceID{cons})
		err = requireFailure(t, res, cons)
		var unresolved UnresolvedDependencyError
		require.ErrorAs(t, err, &unresolved)
		assert.Equal(t, ask, unresolved.Point.Resource)
	})

	t.Run("hidden resource not requestable at the group", func(t *testing.T) {
		root := NewGroup("root", []Node{
			NewGroup("a", []Node{
				NewAtomic("AskProvider", constCalc{Out: ask, Val: 1.02}),
			}, WithVisibility(IncludeOnly())),
		})
		e, err := New(root)
		require.NoError(t, err)

		res := e.Evaluate(Snapshot{}, "/a", []ResourceID{ask})
		var unresolved UnresolvedDependencyError
		require.ErrorAs(t, requireFailure(t, res, ask), &unresolved)
	})

	t.Run("intra-group resolution unrestricted", func(t *testing.T) {
		// The group hides Ask from the parent, but MidCalc sits inside
		// and still sees it.
		root := NewGroup("root", []Node{
			NewGroup("g", []Node{
				NewAtomic("AskProvider", constCalc{Out: ask, Val: 1.02}),
				NewAtomic("BidProvider", constCalc{Out: bid, Val: 1.00}),
				NewAtomic("MidCalc", midCalc{Ask: ask, Bid: bid, Mid: mid}),
			}, WithVisibility(IncludeOnly(ConnectionPoint{Path: "/g", Resource: mid}))),
		})
		e, err := New(root)
		require.NoError(t, err)

		res := e.Evaluate(Snapshot{}, "/g/MidCalc", []ResourceID{mid})
		assert.Equal(t, 1.01, requireSuccess(t, res, mid))
	})
}

func TestAdhocInputOverride(t *testing.T) {
	calls := 0
	root := NewGroup("root", []Node{
		NewGroup("g", []Node{
			NewAtomic("AskProvider", spyCalc{constCalc: constCalc{Out: ask, Val: 1.02}, calls: &calls}),
			NewAtomic("BidProvider", constCalc{Out: bid, Val: 1.00}),
			NewAtomic("MidCalc", midCalc{Ask: ask, Bid: bid, Mid: mid}),
		}),
	})
	e, err := New(root)
	require.NoError(t, err)

	res := e.Evaluate(Snapshot{}, "/g/MidCalc", []ResourceID{mid}, WithOverride(Override{
		Inputs: map[ConnectionPoint]Result{
			{Path: "/g/MidCalc", Resource: ask}: Success(100.0),
		},
	}))
	assert.Equal(t, 50.5, requireSuccess(t, res, mid))
	assert.Zero(t, calls, "overridden provider must not compute")

	ne, ok := res.Node("/g/MidCalc")
	require.True(t, ok)
	in := ne.Inputs[ask]
	assert.Equal(t, SourceAdhocInput, in.Source)
	assert.True(t, in.Direct)
	assert.Empty(t, in.Provider)
}

func TestAdhocOutputOverride(t *testing.T) {
	calls := 0
	root := NewGroup("root", []Node{
		NewGroup("g", []Node{
			NewAtomic("AskProvider", spyCalc{constCalc: constCalc{Out: ask, Val: 1.02}, calls: &calls}),
			NewAtomic("BidProvider", constCalc{Out: bid, Val: 1.00}),
			NewAtomic("MidCalc", midCalc{Ask: ask, Bid: bid, Mid: mid}),
		}),
	})
	e, err := New(root)
	require.NoError(t, err)

	res := e.Evaluate(Snapshot{}, "/g/MidCalc", []ResourceID{mid}, WithOverride(Override{
		Outputs: map[ConnectionPoint]Result{
			{Path: "/g/AskProvider", Resource: ask}: Success(2.00),
		},
	}))
	assert.Equal(t, 1.50, requireSuccess(t, res, mid))
	assert.Zero(t, calls, "overridden provider must not compute")
}

func TestAdhocFlywire(t *testing.T) {
	alt := attrID{Instrument: "X", Source: "ALT", Attr: "Ask"}
	cons := attr("Cons")
	wire, err := NewFlywire(
		ConnectionPoint{Path: "/AltProvider", Resource: alt},
		ConnectionPoint{Path: "/Consumer", Resource: ask},
	)
	require.NoError(t, err)

	root := NewGroup("root", []Node{
		NewAtomic("AskProvider", constCalc{Out: ask, Val: 1.02}),
		NewAtomic("AltProvider", constCalc{Out: alt, Val: 9.99}),
		NewAtomic("Consumer", relayCalc{In: ask, Out: cons}),
	})
	e, err := New(root)
	require.NoError(t, err)

	// Without the override the graph provider wins.
	res := e.Evaluate(Snapshot{}, "/Consumer", []ResourceID{cons})
	assert.Equal(t, 1.02, requireSuccess(t, res, cons))

	// The ad-hoc wire reroutes the consumer's input to the alt source.
	res = e.Evaluate(Snapshot{}, "/Consumer", []ResourceID{cons}, WithOverride(Override{
		Flywires: []Flywire{wire},
	}))
	assert.Equal(t, 9.99, requireSuccess(t, res, cons))
}

func TestOverrideConflict(t *testing.T) {
	e, err := New(askBidMid())
	require.NoError(t, err)

	point := ConnectionPoint{Path: "/g/MidCalc", Resource: ask}
	res := e.Evaluate(Snapshot{}, "/g/MidCalc", []ResourceID{mid}, WithOverride(Override{
		Inputs:  map[ConnectionPoint]Result{point: Success(1.0)},
		Outputs: map[ConnectionPoint]Result{point: Success(2.0)},
	}))

	var conflict OverrideConflictError
	require.ErrorAs(t, requireFailure(t, res, mid), &conflict)
	assert.Equal(t, point, conflict.Point)
}

func TestCycleDetected(t *testing.T) {
	x, y := attr("x"), attr("y")
	root := NewGroup("root", []Node{
		NewGroup("g", []Node{
			NewAtomic("A", relayCalc{In: x, Out: y}),
			NewAtomic("B", relayCalc{In: y, Out: x}),
		}),
	})
	e, err := New(root)
	require.NoError(t, err)

	res := e.Evaluate(Snapshot{}, "/g/A", []ResourceID{y})
	failure := requireFailure(t, res, y)

	var cycle CycleError
	require.ErrorAs(t, failure, &cycle)
	assert.Contains(t, cycle.Error(), "depends on")

	// Nothing computed: both nodes short-circuited.
	assert.Zero(t, e.Stats().Computes)
}

func TestUnresolvedDependency(t *testing.T) {
	missing := attr("Missing")
	e, err := New(askBidMid())
	require.NoError(t, err)

	res := e.Evaluate(Snapshot{}, "/g/MidCalc", []ResourceID{mid, missing})

	// Partial success: the resolvable resource still resolves.
	assert.Equal(t, 1.01, requireSuccess(t, res, mid))

	var unresolved UnresolvedDependencyError
	require.ErrorAs(t, requireFailure(t, res, missing), &unresolved)
	assert.Equal(t, missing, unresolved.Point.Resource)
}

func TestUnknownNode(t *testing.T) {
	e, err := New(askBidMid())
	require.NoError(t, err)

	res := e.Evaluate(Snapshot{}, "/nowhere", []ResourceID{mid})
	var unknown UnknownNodeError
	require.ErrorAs(t, requireFailure(t, res, mid), &unknown)
	assert.Equal(t, NodePath("/nowhere"), unknown.Path)
	assert.Empty(t, res.Nodes)
}

func TestGroupEntryPoint(t *testing.T) {
	e, err := New(askBidMid())
	require.NoError(t, err)

	res := e.Evaluate(Snapshot{}, "/g", []ResourceID{mid})
	assert.Equal(t, 1.01, requireSuccess(t, res, mid))
}

func TestMultiStageDependencies(t *testing.T) {
	sel, high, low, out := attr("Sel"), attr("High"), attr("Low"), attr("Out")

	build := func(selVal float64) *Engine {
		root := NewGroup("root", []Node{
			NewAtomic("Selector", constCalc{Out: sel, Val: selVal}),
			NewAtomic("HighProvider", constCalc{Out: high, Val: 10}),
			NewAtomic("LowProvider", constCalc{Out: low, Val: -10}),
			NewAtomic("Switch", switchCalc{Sel: sel, High: high, Low: low, Out: out}),
		})
		e, err := New(root)
		require.NoError(t, err)
		return e
	}

	t.Run("selector high", func(t *testing.T) {
		res := build(1).Evaluate(Snapshot{}, "/Switch", []ResourceID{out})
		assert.Equal(t, 10.0, requireSuccess(t, res, out))

		// Only the taken branch was resolved.
		ne, ok := res.Node("/Switch")
		require.True(t, ok)
		assert.Len(t, ne.Inputs, 2)
		_, lowResolved := ne.Inputs[low]
		assert.False(t, lowResolved)
	})

	t.Run("selector low", func(t *testing.T) {
		res := build(-1).Evaluate(Snapshot{}, "/Switch", []ResourceID{out})
		assert.Equal(t, -10.0, requireSuccess(t, res, out))
	})
}

func TestDependencySetNeverStabilizes(t *testing.T) {
	out := attr("Out")
	root := NewGroup("root", []Node{
		NewAtomic("Greedy", greedyCalc{Out: out}),
	})
	e, err := New(root)
	require.NoError(t, err)

	res := e.Evaluate(Snapshot{}, "/Greedy", []ResourceID{out})
	var cerr ComputeError
	require.ErrorAs(t, requireFailure(t, res, out), &cerr)
	assert.ErrorIs(t, cerr.Cause, errDepsUnstable)
}

func TestComputePanic(t *testing.T) {
	out := attr("Out")
	root := NewGroup("root", []Node{
		NewAtomic("Panicky", panicCalc{Out: out}),
	})
	e, err := New(root)
	require.NoError(t, err)

	res := e.Evaluate(Snapshot{}, "/Panicky", []ResourceID{out})
	var cerr ComputeError
	require.ErrorAs(t, requireFailure(t, res, out), &cerr)
	assert.Contains(t, cerr.Error(), "great sadness")
	assert.Equal(t, uint64(1), e.Stats().ComputeFailures)
}

func TestMissingOutput(t *testing.T) {
	full, missing := attr("Full"), attr("Hole")
	root := NewGroup("root", []Node{
		NewAtomic("Half", halfCalc{Full: full, Missing: missing}),
	})
	e, err := New(root)
	require.NoError(t, err)

	res := e.Evaluate(Snapshot{}, "/Half", []ResourceID{full, missing})
	assert.Equal(t, 1.0, requireSuccess(t, res, full))

	var cerr ComputeError
	require.ErrorAs(t, requireFailure(t, res, missing), &cerr)
	assert.Contains(t, cerr.Error(), "not produced")
}

func TestUpstreamFailure(t *testing.T) {
	out := attr("Out")
	down := attr("Down")
	root := NewGroup("root", []Node{
		NewAtomic("Panicky", panicCalc{Out: out}),
		NewAtomic("Downstream", relayCalc{In: out, Out: down}),
	})
	e, err := New(root)
	require.NoError(t, err)

	res := e.Evaluate(Snapshot{}, "/Downstream", []ResourceID{down})
	failure := requireFailure(t, res, down)

	var up UpstreamFailureError
	require.ErrorAs(t, failure, &up)
	assert.Equal(t, out, up.Resource)

	var cerr ComputeError
	assert.ErrorAs(t, failure, &cerr, "cause chain reaches the compute failure")
}

func TestFailureTolerantCalculator(t *testing.T) {
	in, out := attr("In"), attr("Out")
	root := NewGroup("root", []Node{
		NewAtomic("Fallback", fallbackCalc{In: in, Out: out, Default: 42}),
	})
	e, err := New(root)
	require.NoError(t, err)

	res := e.Evaluate(Snapshot{}, "/Fallback", []ResourceID{out})
	assert.Equal(t, 42.0, requireSuccess(t, res, out))
}

func TestMemoization(t *testing.T) {
	calls := 0
	one, two := attr("One"), attr("Two")
	root := NewGroup("root", []Node{
		NewAtomic("AskProvider", spyCalc{constCalc: constCalc{Out: ask, Val: 1.02}, calls: &calls}),
		NewAtomic("First", relayCalc{In: ask, Out: one}),
		NewAtomic("Second", relayCalc{In: ask, Out: two}),
	})
	e, err := New(root)
	require.NoError(t, err)

	res := e.Evaluate(Snapshot{}, "/", []ResourceID{one, two})
	assert.Equal(t, 1.02, requireSuccess(t, res, one))
	assert.Equal(t, 1.02, requireSuccess(t, res, two))
	assert.Equal(t, 1, calls, "shared provider computes once per request")

	// A fresh request starts from a cold cache.
	e.Evaluate(Snapshot{}, "/", []ResourceID{one})
	assert.Equal(t, 2, calls)
}

func TestSnapshotReachesCalculator(t *testing.T) {
	out := attr("Out")
	root := NewGroup("root", []Node{
		NewAtomic("Probe", snapshotCalc{Out: out}),
	})
	e, err := New(root)
	require.NoError(t, err)

	res := e.Evaluate(SnapshotOf(7), "/Probe", []ResourceID{out})
	assert.Equal(t, 7.0, requireSuccess(t, res, out))

	res = e.Evaluate(Snapshot{}, "/Probe", []ResourceID{out})
	assert.Equal(t, -1.0, requireSuccess(t, res, out))
}

func TestDeterminism(t *testing.T) {
	resultCmp := cmp.Comparer(func(x, y Result) bool {
		if x.Succeeded() != y.Succeeded() {
			return false
		}
		if x.Succeeded() {
			return x.Value() == y.Value()
		}
		return x.Err().Error() == y.Err().Error()
	})

	e, err := New(askBidMid())
	require.NoError(t, err)

	missing := attr("Missing")
	rids := []ResourceID{mid, missing}
	first := e.Evaluate(SnapshotOf(1), "/g/MidCalc", rids)
	second := e.Evaluate(SnapshotOf(1), "/g/MidCalc", rids)

	assert.Empty(t, cmp.Diff(first.Results, second.Results, resultCmp))
	assert.Empty(t, cmp.Diff(first.Nodes, second.Nodes, resultCmp))
}

func TestEngineStats(t *testing.T) {
	e, err := New(askBidMid())
	require.NoError(t, err)

	e.Evaluate(Snapshot{}, "/g/MidCalc", []ResourceID{mid})
	stats := e.Stats()
	assert.Equal(t, uint64(1), stats.Evaluations)
	assert.Equal(t, uint64(3), stats.Computes)
	assert.Zero(t, stats.ComputeFailures)
}

func TestCallbacks(t *testing.T) {
	var before, after []string
	e, err := New(askBidMid(),
		WithBeforeCallback(func(info CallbackInfo) {
			before = append(before, info.Node)
		}),
		WithCallback(func(info CallbackInfo) {
			after = append(after, info.Node)
			assert.NoError(t, info.Err)
		}),
	)
	require.NoError(t, err)

	e.Evaluate(Snapshot{}, "/g/MidCalc", []ResourceID{mid})

	assert.Equal(t, []string{"AskProvider", "BidProvider", "MidCalc"}, before)
	assert.Equal(t, before, after)
}

func TestClockStampsResult(t *testing.T) {
	e, err := New(askBidMid())
	require.NoError(t, err)

	mock := clock.NewMock()
	e.clock = mock

	res := e.Evaluate(Snapshot{}, "/g/MidCalc", []ResourceID{mid})
	assert.Equal(t, mock.Now(), res.EvaluatedAt)
	assert.Equal(t, time.Duration(0), res.Elapsed)
	assert.NotEmpty(t, res.ID)
}

func TestResultInvariantEveryRequestedResource(t *testing.T) {
	e, err := New(askBidMid())
	require.NoError(t, err)

	rids := []ResourceID{mid, ask, attr("Missing")}
	res := e.Evaluate(Snapshot{}, "/g/MidCalc", rids)
	for _, rid := range rids {
		_, ok := res.Result(rid)
		assert.True(t, ok, "missing result entry for %v", rid)
	}
}

func TestTraceMatchesResults(t *testing.T) {
	e, err := New(askBidMid())
	require.NoError(t, err)

	res := e.Evaluate(Snapshot{}, "/g/MidCalc", []ResourceID{mid})
	ne, ok := res.Node("/g/MidCalc")
	require.True(t, ok)
	r, _ := res.Result(mid)
	assert.Equal(t, r, ne.Outputs[mid].Value)
}
