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
	"errors"
	"fmt"
)

// Result is the outcome of producing a single value: either a success
// carrying the value, or a failure carrying an error. Failures travel
// through the engine as ordinary values; nothing in the engine panics or
// returns an error for a failed calculation.
//
// The zero Result is a failure; its Err is the same generic "no result"
// error that Failure(nil) carries.
type Result struct {
	value interface{}
	err   error
	ok    bool
}

var errNoResult = errors.New("no result")

// Success wraps a computed value.
func Success(value interface{}) Result {
	return Result{value: value, ok: true}
}

// Failure wraps an error. A nil err is normalized to a generic cause so
// that a failure never reports a nil error.
func Failure(err error) Result {
	if err == nil {
		err = errNoResult
	}
	return Result{err: err}
}

// Succeeded reports whether the result carries a value.
func (r Result) Succeeded() bool { return r.ok }

// Value returns the carried value, or nil for failures.
func (r Result) Value() interface{} { return r.value }

// Err returns the carried error, or nil for successes.
func (r Result) Err() error {
	if r.ok {
		return nil
	}
	if r.err == nil {
		return errNoResult
	}
	return r.err
}

// Unpack splits the result into its value and error.
func (r Result) Unpack() (interface{}, error) {
	return r.value, r.Err()
}

// Map applies f to the carried value of a success and returns the mapped
// success. Failures pass through untouched.
func (r Result) Map(f func(interface{}) interface{}) Result {
	if !r.ok {
		return r
	}
	return Success(f(r.value))
}

// FlatMap applies f to the carried value of a success and returns f's
// result. Failures pass through untouched.
func (r Result) FlatMap(f func(interface{}) Result) Result {
	if !r.ok {
		return r
	}
	return f(r.value)
}

func (r Result) String() string {
	if r.ok {
		return fmt.Sprintf("Success(%v)", r.value)
	}
	return fmt.Sprintf("Failure(%v)", r.Err())
}
