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
	"errors"
	"fmt"
)

var errMissingResource = errors.New("connection point has no resource")

// RootCause returns the root cause of the provided error.
//
// Returns the error as-is if no root cause is known.
func RootCause(err error) error {
	if we, ok := err.(wrappedError); ok {
		return we.rootCause
	}
	return err
}

// errWrapf wraps an existing error with more contextual information.
//
// The message for the returned error is the provided error prepended with
// the provided message, separated by a ":".
//
// The given error is treated as the root cause of the returned error,
// retrievable by using RootCause. If the provided error knew its root
// cause, that knowledge is retained in the returned error.
//
//   RootCause(errWrapf(errWrapf(err, ...), ...)) == err
//
// Use errWrapf in the rest of calcgraph in place of fmt.Errorf if the
// message ends with ": <original error>".
func errWrapf(err error, msg string, args ...interface{}) error {
	if err == nil {
		return nil
	}

	rootCause := err
	if we, ok := err.(wrappedError); ok {
		rootCause = we.rootCause
	}

	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}

	return wrappedError{
		rootCause: rootCause,
		err:       fmt.Errorf("%v: %w", msg, err),
	}
}

// wrappedError is a wrapper around error that tracks the root cause of the
// error.
type wrappedError struct {
	rootCause error
	err       error
}

func (e wrappedError) Error() string {
	return e.err.Error()
}

func (e wrappedError) Unwrap() error { return e.err }

// UnresolvedDependencyError reports that no provider, override or flywire
// could satisfy a connection point needed as an input.
type UnresolvedDependencyError struct {
	Point ConnectionPoint
}

func (e UnresolvedDependencyError) Error() string {
	return fmt.Sprintf("no provider for %v", e.Point)
}

// UnknownNodeError reports that a requested path does not address a node
// in the graph.
type UnknownNodeError struct {
	Path NodePath
}

func (e UnknownNodeError) Error() string {
	return fmt.Sprintf("no node at %v", e.Path)
}

// UpstreamFailureError reports that a node could not compute because one
// of its inputs failed. Cause is the input's failure.
type UpstreamFailureError struct {
	Resource ResourceID
	Cause    error
}

func (e UpstreamFailureError) Error() string {
	return fmt.Sprintf("input %v failed: %v", e.Resource, e.Cause)
}

func (e UpstreamFailureError) Unwrap() error { return e.Cause }

// ComputeError reports that a calculator misbehaved: its Compute panicked
// or returned no result for a requested output, or its dependency set
// never stabilized.
type ComputeError struct {
	Path  NodePath
	Cause error
}

func (e ComputeError) Error() string {
	return fmt.Sprintf("compute at %v failed: %v", e.Path, e.Cause)
}

func (e ComputeError) Unwrap() error { return e.Cause }

// DuplicateProviderError reports two children of the same group exposing
// the same resource. Siblings must be disambiguated by sub-groups with
// visibility restrictions.
type DuplicateProviderError struct {
	Group    NodePath
	Resource ResourceID
	First    NodePath
	Second   NodePath
}

func (e DuplicateProviderError) Error() string {
	return fmt.Sprintf("duplicate provider for %v in group %v: %v and %v",
		e.Resource, e.Group, e.First, e.Second)
}

// FlywireTypeError reports a flywire whose endpoints carry resources of
// different type tags.
type FlywireTypeError struct {
	Wire Flywire
}

func (e FlywireTypeError) Error() string {
	return fmt.Sprintf("flywire %v connects resources of different types (%v and %v)",
		e.Wire, e.Wire.Source.Resource.ResourceType(), e.Wire.Target.Resource.ResourceType())
}

// NameCollisionError reports two siblings sharing a name.
type NameCollisionError struct {
	Group NodePath
	Name  string
}

func (e NameCollisionError) Error() string {
	return fmt.Sprintf("group %v has more than one child named %q", e.Group, e.Name)
}

// OverrideConflictError reports a connection point appearing in both the
// input and the output side of an ad-hoc override.
type OverrideConflictError struct {
	Point ConnectionPoint
}

func (e OverrideConflictError) Error() string {
	return fmt.Sprintf("override supplies %v as both an input and an output", e.Point)
}
