// Copyright (c) 2019 Uber Technologies, Inc.
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
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisualize(t *testing.T) {
	e, err := New(askBidMid())
	require.NoError(t, err)
	res := e.Evaluate(Snapshot{}, "/g/MidCalc", []ResourceID{mid})

	b := new(bytes.Buffer)
	require.NoError(t, Visualize(res, b))
	out := b.String()

	assert.True(t, strings.HasPrefix(out, "digraph {"))
	assert.True(t, strings.HasSuffix(out, "}"))
	assert.Contains(t, out, `"/g/MidCalc"`)
	assert.Contains(t, out, `"/g/MidCalc" -> "/g/AskProvider"`)
	assert.Contains(t, out, `"/g/MidCalc" -> "/g/BidProvider"`)
	assert.NotContains(t, out, "color=red")
	assert.NotContains(t, out, "style=dashed")
}

func TestVisualizeFailuresAndFlywires(t *testing.T) {
	cons := attr("Cons")
	wire, err := NewFlywire(
		ConnectionPoint{Path: "/a/Panicky", Resource: ask},
		ConnectionPoint{Path: "/b/Consumer", Resource: ask},
	)
	require.NoError(t, err)

	root := NewGroup("root", []Node{
		NewGroup("a", []Node{
			NewAtomic("Panicky", panicCalc{Out: ask}),
		}, WithVisibility(IncludeOnly())),
		NewGroup("b", []Node{
			NewAtomic("Consumer", relayCalc{In: ask, Out: cons}),
		}),
	}, WithFlywires(wire))
	e, err := New(root)
	require.NoError(t, err)
	res := e.Evaluate(Snapshot{}, "/b/Consumer", []ResourceID{cons})

	b := new(bytes.Buffer)
	require.NoError(t, Visualize(res, b))
	out := b.String()

	assert.Contains(t, out, "color=red")
	assert.Contains(t, out, "style=dashed")

	// Everything failed here, so the pruned view keeps both nodes.
	b.Reset()
	require.NoError(t, Visualize(res, b, FailuresOnly()))
	assert.Contains(t, b.String(), `"/a/Panicky"`)
}

func TestVisualizeFailuresOnlyPrunes(t *testing.T) {
	e, err := New(askBidMid())
	require.NoError(t, err)
	res := e.Evaluate(Snapshot{}, "/g/MidCalc", []ResourceID{mid})

	b := new(bytes.Buffer)
	require.NoError(t, Visualize(res, b, FailuresOnly()))
	out := b.String()
	assert.NotContains(t, out, `"/g/MidCalc" [`)
	assert.NotContains(t, out, "->")
}
