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
	"bytes"
	"fmt"
	"sort"
)

// String representation of the entire Engine
func (e *Engine) String() string {
	b := &bytes.Buffer{}

	fmt.Fprintln(b, "providers: {")
	groups := make([]NodePath, 0, len(e.idx.providers))
	for g := range e.idx.providers {
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i] < groups[j] })
	for _, g := range groups {
		rids := make([]ResourceID, 0, len(e.idx.providers[g]))
		for rid := range e.idx.providers[g] {
			rids = append(rids, rid)
		}
		sort.Slice(rids, func(i, j int) bool { return rids[i].String() < rids[j].String() })
		for _, rid := range rids {
			fmt.Fprintln(b, "\t", g, ":", rid, "->", e.idx.providers[g][rid])
		}
	}
	fmt.Fprintln(b, "}")

	fmt.Fprintln(b, "flywires: {")
	for _, g := range groups {
		wires := make([]Flywire, 0, len(e.idx.wires[g]))
		for _, w := range e.idx.wires[g] {
			wires = append(wires, w)
		}
		sort.Slice(wires, func(i, j int) bool { return wires[i].String() < wires[j].String() })
		for _, w := range wires {
			fmt.Fprintln(b, "\t", g, ":", w)
		}
	}
	fmt.Fprintln(b, "}")

	return b.String()
}

func (a *Atomic) String() string {
	return fmt.Sprintf("atomic(%v)", a.name)
}

func (g *Group) String() string {
	return fmt.Sprintf("group(%v, %d children)", g.name, len(g.children))
}
