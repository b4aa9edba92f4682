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
	"fmt"
	"io"
	"sort"
	"strconv"

	"go.uber.org/calcgraph/internal/dot"
)

// A VisualizeOption modifies the default behavior of Visualize.
type VisualizeOption interface {
	applyVisualizeOption(*visualizeOptions)
}

type visualizeOptions struct {
	failuresOnly bool
}

// FailuresOnly prunes nodes whose outputs all succeeded from the output
// of Visualize, leaving only the failure paths.
func FailuresOnly() VisualizeOption {
	return failuresOnlyOption{}
}

type failuresOnlyOption struct{}

func (o failuresOnlyOption) String() string {
	return "FailuresOnly()"
}

func (o failuresOnlyOption) applyVisualizeOption(opt *visualizeOptions) {
	opt.failuresOnly = true
}

// Visualize renders the trace of res in DOT format and writes it to w.
// Nodes with failed outputs are colored red; inputs that arrived through
// a flywire render as dashed edges.
func Visualize(res *EvaluationResult, w io.Writer, opts ...VisualizeOption) error {
	var options visualizeOptions
	for _, o := range opts {
		o.applyVisualizeOption(&options)
	}

	dg := createGraph(res)
	if options.failuresOnly {
		pruneSuccess(dg)
	}
	return visualizeGraph(w, dg)
}

func createGraph(res *EvaluationResult) *dot.Graph {
	dg := dot.NewGraph()

	paths := make([]NodePath, 0, len(res.Nodes))
	for p := range res.Nodes {
		paths = append(paths, p)
	}
	sort.Slice(paths, func(i, j int) bool { return paths[i] < paths[j] })

	for _, p := range paths {
		ne := res.Nodes[p]
		n := dg.AddNode(string(p))

		outs := make([]ResourceID, 0, len(ne.Outputs))
		for rid := range ne.Outputs {
			outs = append(outs, rid)
		}
		sort.Slice(outs, func(i, j int) bool { return outs[i].String() < outs[j].String() })
		for _, rid := range outs {
			n.AddOutput(rid.String(), !ne.Outputs[rid].Value.Succeeded())
		}

		ins := make([]ResourceID, 0, len(ne.Inputs))
		for rid := range ne.Inputs {
			ins = append(ins, rid)
		}
		sort.Slice(ins, func(i, j int) bool { return ins[i].String() < ins[j].String() })
		for _, rid := range ins {
			in := ne.Inputs[rid]
			if in.Provider == "" {
				continue
			}
			dg.AddEdge(&dot.Edge{
				From:     string(p),
				To:       string(in.Provider),
				Resource: rid.String(),
				Flywire:  in.Source == SourceFlywire,
				Failed:   !in.Value.Succeeded(),
			})
		}
	}
	return dg
}

func pruneSuccess(dg *dot.Graph) {
	nodes := dg.Nodes[:0]
	kept := make(map[string]struct{})
	for _, n := range dg.Nodes {
		if n.Failed() {
			nodes = append(nodes, n)
			kept[n.Path] = struct{}{}
		}
	}
	dg.Nodes = nodes

	edges := dg.Edges[:0]
	for _, e := range dg.Edges {
		if _, ok := kept[e.From]; !ok {
			continue
		}
		if _, ok := kept[e.To]; !ok {
			continue
		}
		edges = append(edges, e)
	}
	dg.Edges = edges
}

func visualizeGraph(w io.Writer, dg *dot.Graph) error {
	if _, err := io.WriteString(w, "digraph {\n\trankdir=RL;\n"); err != nil {
		return err
	}
	for _, n := range dg.Nodes {
		visualizeNode(w, n)
	}
	for _, e := range dg.Edges {
		attrs := ""
		if e.Flywire {
			attrs += " style=dashed"
		}
		if e.Failed {
			attrs += " color=red"
		}
		fmt.Fprintf(w, "\t%s -> %s [label=%s%s];\n",
			strconv.Quote(e.From), strconv.Quote(e.To), strconv.Quote(e.Resource), attrs)
	}
	_, err := io.WriteString(w, "}")
	return err
}

func visualizeNode(w io.Writer, n *dot.Node) {
	label := n.Path
	for _, p := range n.Outputs {
		label += "\n" + p.Resource
	}
	attrs := "shape=box label=" + strconv.Quote(label)
	if n.Failed() {
		attrs += " color=red"
	}
	fmt.Fprintf(w, "\t%s [%s];\n", strconv.Quote(n.Path), attrs)
}
