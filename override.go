// Copyright (c) 2021 Uber Technologies, Inc.
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

// An Override substitutes values into a single request without touching
// the graph.
//
// Inputs pins the value a node sees for one of its input points; the
// provider that would normally supply it is never consulted. Outputs pins
// the value a provider point produces; the provider's compute is skipped
// for that resource. Flywires adds request-only rewirings, consulted
// before any flywire defined in the graph.
//
// A point may appear in Inputs or in Outputs, not both.
type Override struct {
	Inputs   map[ConnectionPoint]Result
	Outputs  map[ConnectionPoint]Result
	Flywires []Flywire
}

// validate checks the override for internal conflicts and ill-typed
// flywires. Called when the evaluation context is constructed.
func (o Override) validate() error {
	for p := range o.Inputs {
		if _, ok := o.Outputs[p]; ok {
			return OverrideConflictError{Point: p}
		}
	}
	for _, w := range o.Flywires {
		if err := w.typeCheck(); err != nil {
			return err
		}
	}
	return nil
}

// wireIndex indexes the override's flywires by target point.
func (o Override) wireIndex() map[ConnectionPoint]Flywire {
	if len(o.Flywires) == 0 {
		return nil
	}
	idx := make(map[ConnectionPoint]Flywire, len(o.Flywires))
	for _, w := range o.Flywires {
		if _, ok := idx[w.Target]; !ok {
			idx[w.Target] = w
		}
	}
	return idx
}

func (o Override) empty() bool {
	return len(o.Inputs) == 0 && len(o.Outputs) == 0 && len(o.Flywires) == 0
}
