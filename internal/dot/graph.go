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

// Package dot holds the in-memory form of the DOT rendering of an
// evaluation trace.
package dot

// Graph is the DOT-format view of one evaluation: the nodes the request
// touched and the edges along which values flowed.
type Graph struct {
	Nodes []*Node
	Edges []*Edge
}

// Node is a single calculation node in the rendered graph.
type Node struct {
	// Path of the node.
	Path string

	// Outputs produced by the node during the evaluation.
	Outputs []*Port
}

// Port is one produced output on a node.
type Port struct {
	Resource string
	Failed   bool
}

// Edge connects a provider node to the consumer whose input it supplied.
type Edge struct {
	// From is the consumer's path, To the provider's.
	From string
	To   string

	// Resource that flowed along the edge.
	Resource string

	// Flywire marks edges that crossed a rewiring; they render dashed.
	Flywire bool

	// Failed marks edges whose value was a failure; they render red.
	Failed bool
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{}
}

// AddNode appends a node and returns it.
func (g *Graph) AddNode(path string) *Node {
	n := &Node{Path: path}
	g.Nodes = append(g.Nodes, n)
	return n
}

// AddEdge appends an edge.
func (g *Graph) AddEdge(e *Edge) {
	g.Edges = append(g.Edges, e)
}

// AddOutput appends a produced output to the node.
func (n *Node) AddOutput(resource string, failed bool) {
	n.Outputs = append(n.Outputs, &Port{Resource: resource, Failed: failed})
}

// Failed reports whether any of the node's outputs failed.
func (n *Node) Failed() bool {
	for _, p := range n.Outputs {
		if p.Failed {
			return true
		}
	}
	return false
}
