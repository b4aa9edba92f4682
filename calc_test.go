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

import "fmt"

// attrID is the resource type the tests trade in: one attribute of one
// instrument from one source.
type attrID struct {
	Instrument string `json:"instrument"`
	Source     string `json:"source"`
	Attr       string `json:"attr"`
}

func (a attrID) ResourceType() string { return "double" }

func (a attrID) String() string {
	return fmt.Sprintf("%s/%s/%s", a.Instrument, a.Source, a.Attr)
}

func attr(name string) attrID {
	return attrID{Instrument: "X", Source: "S", Attr: name}
}

// constCalc produces a single fixed value.
type constCalc struct {
	Out attrID
	Val float64
}

func (c constCalc) Inputs() []ResourceID  { return nil }
func (c constCalc) Outputs() []ResourceID { return []ResourceID{c.Out} }

func (c constCalc) ResolveDependencies(Snapshot, map[ResourceID]Result) []ResourceID {
	return nil
}

func (c constCalc) Compute(Snapshot, map[ResourceID]Result) map[ResourceID]Result {
	return map[ResourceID]Result{c.Out: Success(c.Val)}
}

func (c constCalc) Parameters() []interface{} {
	return []interface{}{c.Out.Instrument, c.Out.Source, c.Out.Attr, c.Val}
}

func newConstCalc(params []interface{}) (Calculator, error) {
	if len(params) != 4 {
		return nil, fmt.Errorf("constCalc wants 4 parameters, got %d", len(params))
	}
	return constCalc{
		Out: attrID{
			Instrument: params[0].(string),
			Source:     params[1].(string),
			Attr:       params[2].(string),
		},
		Val: params[3].(float64),
	}, nil
}

// spyCalc counts its Compute invocations.
type spyCalc struct {
	constCalc
	calls *int
}

func (s spyCalc) Compute(snapshot Snapshot, inputs map[ResourceID]Result) map[ResourceID]Result {
	*s.calls++
	return s.constCalc.Compute(snapshot, inputs)
}

// midCalc averages two inputs.
type midCalc struct {
	Ask, Bid, Mid attrID
}

func (c midCalc) Inputs() []ResourceID  { return []ResourceID{c.Ask, c.Bid} }
func (c midCalc) Outputs() []ResourceID { return []ResourceID{c.Mid} }

func (c midCalc) ResolveDependencies(Snapshot, map[ResourceID]Result) []ResourceID {
	return []ResourceID{c.Ask, c.Bid}
}

func (c midCalc) Compute(_ Snapshot, inputs map[ResourceID]Result) map[ResourceID]Result {
	ask := inputs[c.Ask].Value().(float64)
	bid := inputs[c.Bid].Value().(float64)
	return map[ResourceID]Result{c.Mid: Success((ask + bid) / 2)}
}

func (c midCalc) Parameters() []interface{} {
	return []interface{}{c.Ask.Attr, c.Bid.Attr, c.Mid.Attr}
}

// relayCalc copies its input to its output.
type relayCalc struct {
	In, Out attrID
}

func (c relayCalc) Inputs() []ResourceID  { return []ResourceID{c.In} }
func (c relayCalc) Outputs() []ResourceID { return []ResourceID{c.Out} }

func (c relayCalc) ResolveDependencies(Snapshot, map[ResourceID]Result) []ResourceID {
	return []ResourceID{c.In}
}

func (c relayCalc) Compute(_ Snapshot, inputs map[ResourceID]Result) map[ResourceID]Result {
	return map[ResourceID]Result{c.Out: inputs[c.In]}
}

func (c relayCalc) Parameters() []interface{} {
	return []interface{}{c.In.Attr, c.Out.Attr}
}

// switchCalc asks for its selector first and only then decides which
// of its two branches it needs.
type switchCalc struct {
	Sel, High, Low, Out attrID
}

func (c switchCalc) Inputs() []ResourceID  { return []ResourceID{c.Sel} }
func (c switchCalc) Outputs() []ResourceID { return []ResourceID{c.Out} }

func (c switchCalc) ResolveDependencies(_ Snapshot, resolved map[ResourceID]Result) []ResourceID {
	deps := []ResourceID{c.Sel}
	sel, ok := resolved[c.Sel]
	if !ok || !sel.Succeeded() {
		return deps
	}
	if sel.Value().(float64) > 0 {
		return append(deps, c.High)
	}
	return append(deps, c.Low)
}

func (c switchCalc) Compute(_ Snapshot, inputs map[ResourceID]Result) map[ResourceID]Result {
	for _, branch := range []attrID{c.High, c.Low} {
		if r, ok := inputs[branch]; ok {
			return map[ResourceID]Result{c.Out: r}
		}
	}
	return map[ResourceID]Result{c.Out: Failure(fmt.Errorf("no branch resolved"))}
}

func (c switchCalc) Parameters() []interface{} {
	return []interface{}{c.Sel.Attr, c.High.Attr, c.Low.Attr, c.Out.Attr}
}

// panicCalc panics in Compute.
type panicCalc struct {
	Out attrID
}

func (c panicCalc) Inputs() []ResourceID  { return nil }
func (c panicCalc) Outputs() []ResourceID { return []ResourceID{c.Out} }

func (c panicCalc) ResolveDependencies(Snapshot, map[ResourceID]Result) []ResourceID {
	return nil
}

func (c panicCalc) Compute(Snapshot, map[ResourceID]Result) map[ResourceID]Result {
	panic("great sadness")
}

func (c panicCalc) Parameters() []interface{} { return nil }

// greedyCalc invents a new dependency every round; its set never
// stabilizes.
type greedyCalc struct {
	Out attrID
}

func (c greedyCalc) Inputs() []ResourceID  { return nil }
func (c greedyCalc) Outputs() []ResourceID { return []ResourceID{c.Out} }

func (c greedyCalc) ResolveDependencies(_ Snapshot, resolved map[ResourceID]Result) []ResourceID {
	return []ResourceID{attr(fmt.Sprintf("dep-%d", len(resolved)))}
}

func (c greedyCalc) Compute(Snapshot, map[ResourceID]Result) map[ResourceID]Result {
	return map[ResourceID]Result{c.Out: Success(0.0)}
}

func (c greedyCalc) Parameters() []interface{} { return nil }

// fallbackCalc tolerates failed inputs and falls back to a default.
type fallbackCalc struct {
	In, Out attrID
	Default float64
}

func (c fallbackCalc) Inputs() []ResourceID  { return []ResourceID{c.In} }
func (c fallbackCalc) Outputs() []ResourceID { return []ResourceID{c.Out} }

func (c fallbackCalc) ToleratesFailedInputs() bool { return true }

func (c fallbackCalc) ResolveDependencies(Snapshot, map[ResourceID]Result) []ResourceID {
	return []ResourceID{c.In}
}

func (c fallbackCalc) Compute(_ Snapshot, inputs map[ResourceID]Result) map[ResourceID]Result {
	in := inputs[c.In]
	if !in.Succeeded() {
		return map[ResourceID]Result{c.Out: Success(c.Default)}
	}
	return map[ResourceID]Result{c.Out: in}
}

func (c fallbackCalc) Parameters() []interface{} { return nil }

// snapshotCalc reports the logical coordinate of the snapshot it was
// computed against.
type snapshotCalc struct {
	Out attrID
}

func (c snapshotCalc) Inputs() []ResourceID  { return nil }
func (c snapshotCalc) Outputs() []ResourceID { return []ResourceID{c.Out} }

func (c snapshotCalc) ResolveDependencies(Snapshot, map[ResourceID]Result) []ResourceID {
	return nil
}

func (c snapshotCalc) Compute(snapshot Snapshot, _ map[ResourceID]Result) map[ResourceID]Result {
	logical, ok := snapshot.Logical()
	if !ok {
		return map[ResourceID]Result{c.Out: Success(float64(-1))}
	}
	return map[ResourceID]Result{c.Out: Success(float64(logical))}
}

func (c snapshotCalc) Parameters() []interface{} { return nil }

// halfCalc declares two outputs but only ever produces one.
type halfCalc struct {
	Full, Missing attrID
}

func (c halfCalc) Inputs() []ResourceID  { return nil }
func (c halfCalc) Outputs() []ResourceID { return []ResourceID{c.Full, c.Missing} }

func (c halfCalc) ResolveDependencies(Snapshot, map[ResourceID]Result) []ResourceID {
	return nil
}

func (c halfCalc) Compute(Snapshot, map[ResourceID]Result) map[ResourceID]Result {
	return map[ResourceID]Result{c.Full: Success(1.0)}
}

func (c halfCalc) Parameters() []interface{} { return nil }
