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
	"fmt"
)

// CycleError reports that resolution re-entered a connection point that
// was already being evaluated. Point is the re-entered point; Chain is the
// in-flight resolution path that led back to it.
type CycleError struct {
	Point ConnectionPoint
	Chain []ConnectionPoint
}

func (e CycleError) Error() string {
	// We get something like,
	//
	//   cycle detected: /g/A:x
	//   	depends on /g/B:y
	//   	depends on /g/A:x
	//
	b := new(bytes.Buffer)
	fmt.Fprintf(b, "cycle detected: %v", e.Point)
	first := -1
	for i, p := range e.Chain {
		if p == e.Point {
			first = i
			break
		}
	}
	if first >= 0 {
		for _, p := range e.Chain[first+1:] {
			fmt.Fprintf(b, "\n\tdepends on %v", p)
		}
		fmt.Fprintf(b, "\n\tdepends on %v", e.Point)
	}
	return b.String()
}

// inflight is the set of connection points currently being resolved,
// together with the path that got resolution there. Group-level
// evaluations participate too, so a group recursively evaluating its own
// provider is caught.
type inflight struct {
	set   map[ConnectionPoint]struct{}
	chain []ConnectionPoint
}

func newInflight() *inflight {
	return &inflight{set: make(map[ConnectionPoint]struct{})}
}

func (f *inflight) contains(p ConnectionPoint) bool {
	_, ok := f.set[p]
	return ok
}

func (f *inflight) push(p ConnectionPoint) {
	f.set[p] = struct{}{}
	f.chain = append(f.chain, p)
}

func (f *inflight) pop() {
	last := f.chain[len(f.chain)-1]
	f.chain = f.chain[:len(f.chain)-1]
	delete(f.set, last)
}

func (f *inflight) cycle(p ConnectionPoint) CycleError {
	chain := make([]ConnectionPoint, len(f.chain))
	copy(chain, f.chain)
	return CycleError{Point: p, Chain: chain}
}
