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
	"fmt"
	"time"
)

// A Snapshot names the point in time a request is evaluated against. Both
// coordinates are optional: the logical coordinate is a caller-defined
// sequence number, the physical coordinate a wall-clock instant. The zero
// Snapshot means "now".
//
// The engine passes snapshots through to calculators untouched.
type Snapshot struct {
	logical     int64
	physical    time.Time
	hasLogical  bool
	hasPhysical bool
}

// SnapshotOf returns a snapshot pinned to the given logical coordinate.
func SnapshotOf(logical int64) Snapshot {
	return Snapshot{logical: logical, hasLogical: true}
}

// SnapshotAt returns a snapshot pinned to the given physical instant.
func SnapshotAt(physical time.Time) Snapshot {
	return Snapshot{physical: physical, hasPhysical: true}
}

// WithLogical returns a copy of s pinned to the given logical coordinate.
func (s Snapshot) WithLogical(logical int64) Snapshot {
	s.logical = logical
	s.hasLogical = true
	return s
}

// WithPhysical returns a copy of s pinned to the given physical instant.
func (s Snapshot) WithPhysical(physical time.Time) Snapshot {
	s.physical = physical
	s.hasPhysical = true
	return s
}

// Logical returns the logical coordinate, if one is set.
func (s Snapshot) Logical() (int64, bool) { return s.logical, s.hasLogical }

// Physical returns the physical coordinate, if one is set.
func (s Snapshot) Physical() (time.Time, bool) { return s.physical, s.hasPhysical }

// IsNow reports whether neither coordinate is set.
func (s Snapshot) IsNow() bool { return !s.hasLogical && !s.hasPhysical }

func (s Snapshot) String() string {
	switch {
	case s.hasLogical && s.hasPhysical:
		return fmt.Sprintf("snapshot(logical=%d, physical=%v)", s.logical, s.physical)
	case s.hasLogical:
		return fmt.Sprintf("snapshot(logical=%d)", s.logical)
	case s.hasPhysical:
		return fmt.Sprintf("snapshot(physical=%v)", s.physical)
	default:
		return "snapshot(now)"
	}
}
