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

package calcgraph

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// UnmarshalGraphYAML rebuilds a graph from a YAML document using the same
// structure and registered types as the JSON form. YAML is the format
// graph definitions are usually authored in; the two forms are
// interchangeable.
func UnmarshalGraphYAML(data []byte) (Node, error) {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errWrapf(err, "malformed graph document")
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, errWrapf(err, "graph document does not map to the wire form")
	}
	return UnmarshalGraph(raw)
}

// MarshalGraphYAML serializes the graph rooted at root as YAML, with the
// same keys as the JSON form.
func MarshalGraphYAML(root Node) ([]byte, error) {
	raw, err := MarshalGraph(root)
	if err != nil {
		return nil, err
	}
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return yaml.Marshal(doc)
}
