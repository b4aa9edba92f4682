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
	"fmt"
	"sort"
	"strings"
)

type visibilityMode int

const (
	visibilityExclude visibilityMode = iota
	visibilityInclude
)

// Visibility controls which of a group's outputs are exposed to the group's
// parent. It is either an include filter (only the listed points are
// visible) or an exclude filter (everything but the listed points is
// visible).
//
// Visibility filters what the parent sees; resolution between nodes inside
// the group is never restricted by it.
type Visibility struct {
	mode   visibilityMode
	points map[ConnectionPoint]struct{}
}

// ExposeAll is the default visibility: every output produced inside the
// group is visible to the parent.
func ExposeAll() Visibility { return Exclude() }

// IncludeOnly builds a visibility that exposes only the given points.
func IncludeOnly(points ...ConnectionPoint) Visibility {
	return Visibility{mode: visibilityInclude, points: pointSet(points)}
}

// Exclude builds a visibility that exposes everything except the given
// points.
func Exclude(points ...ConnectionPoint) Visibility {
	return Visibility{mode: visibilityExclude, points: pointSet(points)}
}

func pointSet(points []ConnectionPoint) map[ConnectionPoint]struct{} {
	set := make(map[ConnectionPoint]struct{}, len(points))
	for _, p := range points {
		set[p] = struct{}{}
	}
	return set
}

// InScope reports whether p passes the filter.
func (v Visibility) InScope(p ConnectionPoint) bool {
	_, listed := v.points[p]
	if v.mode == visibilityInclude {
		return listed
	}
	return !listed
}

// Points returns the filter's point set in a stable order.
func (v Visibility) Points() []ConnectionPoint {
	points := make([]ConnectionPoint, 0, len(v.points))
	for p := range v.points {
		points = append(points, p)
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].String() < points[j].String()
	})
	return points
}

// Includes reports whether v is an include filter.
func (v Visibility) Includes() bool { return v.mode == visibilityInclude }

func (v Visibility) String() string {
	var sb strings.Builder
	if v.mode == visibilityInclude {
		sb.WriteString("include{")
	} else {
		sb.WriteString("exclude{")
	}
	for i, p := range v.Points() {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%v", p)
	}
	sb.WriteString("}")
	return sb.String()
}
