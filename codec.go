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

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"time"
)

// Wire form of the graph and of evaluation results. Nodes and resources
// are polymorphic; their concrete types are named through the registry.
// Connection point endpoints serialize with the nodePath and resourceId
// field names; downstream tooling depends on them.

type jsonResource struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

type jsonPoint struct {
	NodePath   string       `json:"nodePath"`
	ResourceID jsonResource `json:"resourceId"`
}

type jsonFlywire struct {
	Source jsonPoint `json:"source"`
	Target jsonPoint `json:"target"`
}

type jsonVisibility struct {
	Mode   string      `json:"mode"`
	Points []jsonPoint `json:"points,omitempty"`
}

type jsonCalculator struct {
	Type       string        `json:"type"`
	Parameters []interface{} `json:"parameters"`
}

type jsonNode struct {
	Kind       string          `json:"kind"`
	Name       string          `json:"name"`
	Calculator *jsonCalculator `json:"calculator,omitempty"`
	Children   []jsonNode      `json:"children,omitempty"`
	Flywires   []jsonFlywire   `json:"flywires,omitempty"`
	Visibility *jsonVisibility `json:"visibility,omitempty"`
}

type jsonResult struct {
	Success interface{}
	Failure string
	failed  bool
}

func (r jsonResult) MarshalJSON() ([]byte, error) {
	if r.failed {
		return json.Marshal(map[string]string{"failure": r.Failure})
	}
	return json.Marshal(map[string]interface{}{"success": r.Success})
}

type jsonSnapshot struct {
	Logical  *int64     `json:"logical,omitempty"`
	Physical *time.Time `json:"physical,omitempty"`
}

// MarshalGraph serializes the graph rooted at root. Every calculator and
// resource type appearing in the graph must have been registered.
func MarshalGraph(root Node) ([]byte, error) {
	jn, err := encodeNode(root)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(jn, "", "  ")
}

// UnmarshalGraph rebuilds a graph serialized by MarshalGraph.
func UnmarshalGraph(data []byte) (Node, error) {
	var jn jsonNode
	if err := json.Unmarshal(data, &jn); err != nil {
		return nil, errWrapf(err, "malformed graph document")
	}
	return decodeNode(jn)
}

func encodeNode(n Node) (jsonNode, error) {
	switch n := n.(type) {
	case *Atomic:
		name, err := registry.calculatorName(n.calc)
		if err != nil {
			return jsonNode{}, errWrapf(err, "cannot serialize node %v", n.name)
		}
		params := n.calc.Parameters()
		if params == nil {
			params = []interface{}{}
		}
		return jsonNode{
			Kind: "atomic",
			Name: n.name,
			Calculator: &jsonCalculator{
				Type:       name,
				Parameters: params,
			},
		}, nil

	case *Group:
		children := make([]jsonNode, 0, len(n.children))
		for _, c := range n.children {
			jc, err := encodeNode(c)
			if err != nil {
				return jsonNode{}, err
			}
			children = append(children, jc)
		}
		wires := make([]jsonFlywire, 0, len(n.flywires))
		for _, w := range n.flywires {
			jw, err := encodeFlywire(w)
			if err != nil {
				return jsonNode{}, err
			}
			wires = append(wires, jw)
		}
		vis, err := encodeVisibility(n.visibility)
		if err != nil {
			return jsonNode{}, err
		}
		return jsonNode{
			Kind:       "group",
			Name:       n.name,
			Children:   children,
			Flywires:   wires,
			Visibility: vis,
		}, nil

	default:
		return jsonNode{}, fmt.Errorf("unknown node variant %T", n)
	}
}

func decodeNode(jn jsonNode) (Node, error) {
	switch jn.Kind {
	case "atomic":
		if jn.Calculator == nil {
			return nil, fmt.Errorf("atomic node %q has no calculator", jn.Name)
		}
		factory, err := registry.calculatorFactory(jn.Calculator.Type)
		if err != nil {
			return nil, errWrapf(err, "cannot decode node %q", jn.Name)
		}
		calc, err := factory(jn.Calculator.Parameters)
		if err != nil {
			return nil, errWrapf(err, "cannot rebuild calculator for node %q", jn.Name)
		}
		return NewAtomic(jn.Name, calc), nil

	case "group":
		children := make([]Node, 0, len(jn.Children))
		for _, jc := range jn.Children {
			c, err := decodeNode(jc)
			if err != nil {
				return nil, err
			}
			children = append(children, c)
		}
		var opts []GroupOption
		if len(jn.Flywires) > 0 {
			wires := make([]Flywire, 0, len(jn.Flywires))
			for _, jw := range jn.Flywires {
				w, err := decodeFlywire(jw)
				if err != nil {
					return nil, err
				}
				wires = append(wires, w)
			}
			opts = append(opts, WithFlywires(wires...))
		}
		if jn.Visibility != nil {
			vis, err := decodeVisibility(*jn.Visibility)
			if err != nil {
				return nil, err
			}
			opts = append(opts, WithVisibility(vis))
		}
		return NewGroup(jn.Name, children, opts...), nil

	default:
		return nil, fmt.Errorf("unknown node kind %q", jn.Kind)
	}
}

func encodeResource(rid ResourceID) (jsonResource, error) {
	name, err := registry.resourceName(rid)
	if err != nil {
		return jsonResource{}, err
	}
	raw, err := json.Marshal(rid)
	if err != nil {
		return jsonResource{}, errWrapf(err, "cannot serialize resource %v", rid)
	}
	return jsonResource{Type: name, Value: raw}, nil
}

func decodeResource(jr jsonResource) (ResourceID, error) {
	t, err := registry.resourceType(jr.Type)
	if err != nil {
		return nil, err
	}
	v := reflect.New(t)
	if err := json.Unmarshal(jr.Value, v.Interface()); err != nil {
		return nil, errWrapf(err, "cannot decode resource of type %q", jr.Type)
	}
	rid, ok := v.Elem().Interface().(ResourceID)
	if !ok {
		return nil, fmt.Errorf("type registered as %q does not implement ResourceID", jr.Type)
	}
	return rid, nil
}

func encodePoint(p ConnectionPoint) (jsonPoint, error) {
	jr, err := encodeResource(p.Resource)
	if err != nil {
		return jsonPoint{}, err
	}
	return jsonPoint{NodePath: string(p.Path), ResourceID: jr}, nil
}

func decodePoint(jp jsonPoint) (ConnectionPoint, error) {
	rid, err := decodeResource(jp.ResourceID)
	if err != nil {
		return ConnectionPoint{}, err
	}
	return ConnectionPoint{Path: NewNodePath(jp.NodePath), Resource: rid}, nil
}

func encodeFlywire(w Flywire) (jsonFlywire, error) {
	src, err := encodePoint(w.Source)
	if err != nil {
		return jsonFlywire{}, err
	}
	tgt, err := encodePoint(w.Target)
	if err != nil {
		return jsonFlywire{}, err
	}
	return jsonFlywire{Source: src, Target: tgt}, nil
}

func decodeFlywire(jw jsonFlywire) (Flywire, error) {
	src, err := decodePoint(jw.Source)
	if err != nil {
		return Flywire{}, err
	}
	tgt, err := decodePoint(jw.Target)
	if err != nil {
		return Flywire{}, err
	}
	return NewFlywire(src, tgt)
}

func encodeVisibility(v Visibility) (*jsonVisibility, error) {
	mode := "exclude"
	if v.Includes() {
		mode = "include"
	}
	points := v.Points()
	jps := make([]jsonPoint, 0, len(points))
	for _, p := range points {
		jp, err := encodePoint(p)
		if err != nil {
			return nil, err
		}
		jps = append(jps, jp)
	}
	return &jsonVisibility{Mode: mode, Points: jps}, nil
}

func decodeVisibility(jv jsonVisibility) (Visibility, error) {
	points := make([]ConnectionPoint, 0, len(jv.Points))
	for _, jp := range jv.Points {
		p, err := decodePoint(jp)
		if err != nil {
			return Visibility{}, err
		}
		points = append(points, p)
	}
	switch jv.Mode {
	case "include":
		return IncludeOnly(points...), nil
	case "exclude":
		return Exclude(points...), nil
	default:
		return Visibility{}, fmt.Errorf("unknown visibility mode %q", jv.Mode)
	}
}

func encodeResult(r Result) jsonResult {
	if r.Succeeded() {
		return jsonResult{Success: r.Value()}
	}
	return jsonResult{Failure: r.Err().Error(), failed: true}
}

// MarshalJSON serializes the result for downstream tooling. The graph and
// every resource in the trace must use registered types. This encoding is
// one-way: traces carry live values and are not decoded back.
func (r *EvaluationResult) MarshalJSON() ([]byte, error) {
	type jsonEntry struct {
		ResourceID jsonResource `json:"resourceId"`
		Value      jsonResult   `json:"value"`
	}
	type jsonInput struct {
		ResourceID jsonResource `json:"resourceId"`
		Value      jsonResult   `json:"value"`
		SourceType SourceType   `json:"sourceType"`
		Direct     bool         `json:"direct"`
		Provider   string       `json:"provider,omitempty"`
	}
	type jsonNodeEvaluation struct {
		Inputs  []jsonInput `json:"inputs"`
		Outputs []jsonEntry `json:"outputs"`
	}
	type jsonPointEntry struct {
		Point jsonPoint  `json:"point"`
		Value jsonResult `json:"value"`
	}
	type jsonOverride struct {
		Inputs   []jsonPointEntry `json:"inputs,omitempty"`
		Outputs  []jsonPointEntry `json:"outputs,omitempty"`
		Flywires []jsonFlywire    `json:"flywires,omitempty"`
	}
	type jsonEvaluationResult struct {
		ID                string                        `json:"id"`
		Snapshot          jsonSnapshot                  `json:"snapshot"`
		RequestedNodePath string                        `json:"requestedNodePath"`
		AdhocOverride     *jsonOverride                 `json:"adhocOverride,omitempty"`
		Results           []jsonEntry                   `json:"results"`
		NodeEvaluationMap map[string]jsonNodeEvaluation `json:"nodeEvaluationMap"`
		Graph             jsonNode                      `json:"graph"`
		EvaluatedAt       time.Time                     `json:"evaluatedAt"`
		ElapsedNanos      int64                         `json:"elapsedNanos"`
	}

	encodeEntries := func(m map[ResourceID]Result) ([]jsonEntry, error) {
		rids := make([]ResourceID, 0, len(m))
		for rid := range m {
			rids = append(rids, rid)
		}
		sort.Slice(rids, func(i, j int) bool { return rids[i].String() < rids[j].String() })
		entries := make([]jsonEntry, 0, len(rids))
		for _, rid := range rids {
			jr, err := encodeResource(rid)
			if err != nil {
				return nil, err
			}
			entries = append(entries, jsonEntry{ResourceID: jr, Value: encodeResult(m[rid])})
		}
		return entries, nil
	}

	encodePointEntries := func(m map[ConnectionPoint]Result) ([]jsonPointEntry, error) {
		points := make([]ConnectionPoint, 0, len(m))
		for p := range m {
			points = append(points, p)
		}
		sort.Slice(points, func(i, j int) bool { return points[i].String() < points[j].String() })
		entries := make([]jsonPointEntry, 0, len(points))
		for _, p := range points {
			jp, err := encodePoint(p)
			if err != nil {
				return nil, err
			}
			entries = append(entries, jsonPointEntry{Point: jp, Value: encodeResult(m[p])})
		}
		return entries, nil
	}

	out := jsonEvaluationResult{
		ID:                r.ID,
		RequestedNodePath: string(r.RequestedPath),
		NodeEvaluationMap: make(map[string]jsonNodeEvaluation, len(r.Nodes)),
		EvaluatedAt:       r.EvaluatedAt,
		ElapsedNanos:      int64(r.Elapsed),
	}
	if logical, ok := r.Snapshot.Logical(); ok {
		out.Snapshot.Logical = &logical
	}
	if physical, ok := r.Snapshot.Physical(); ok {
		out.Snapshot.Physical = &physical
	}

	var err error
	if out.Results, err = encodeEntries(r.Results); err != nil {
		return nil, err
	}

	if r.Override != nil {
		jo := &jsonOverride{}
		if jo.Inputs, err = encodePointEntries(r.Override.Inputs); err != nil {
			return nil, err
		}
		if jo.Outputs, err = encodePointEntries(r.Override.Outputs); err != nil {
			return nil, err
		}
		for _, w := range r.Override.Flywires {
			jw, werr := encodeFlywire(w)
			if werr != nil {
				return nil, werr
			}
			jo.Flywires = append(jo.Flywires, jw)
		}
		out.AdhocOverride = jo
	}

	for path, ne := range r.Nodes {
		jne := jsonNodeEvaluation{Inputs: []jsonInput{}, Outputs: []jsonEntry{}}

		ins := make([]ResourceID, 0, len(ne.Inputs))
		for rid := range ne.Inputs {
			ins = append(ins, rid)
		}
		sort.Slice(ins, func(i, j int) bool { return ins[i].String() < ins[j].String() })
		for _, rid := range ins {
			in := ne.Inputs[rid]
			jr, rerr := encodeResource(rid)
			if rerr != nil {
				return nil, rerr
			}
			jne.Inputs = append(jne.Inputs, jsonInput{
				ResourceID: jr,
				Value:      encodeResult(in.Value),
				SourceType: in.Source,
				Direct:     in.Direct,
				Provider:   string(in.Provider),
			})
		}

		outs := make(map[ResourceID]Result, len(ne.Outputs))
		for rid, o := range ne.Outputs {
			outs[rid] = o.Value
		}
		if jne.Outputs, err = encodeEntries(outs); err != nil {
			return nil, err
		}
		out.NodeEvaluationMap[string(path)] = jne
	}

	if out.Graph, err = encodeNode(r.Graph); err != nil {
		return nil, err
	}

	return json.Marshal(out)
}
