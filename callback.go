// Copyright (c) 2023 Uber Technologies, Inc.
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

import "time"

// CallbackInfo describes one calculator run and is passed to a Callback
// registered with WithCallback.
type CallbackInfo struct {
	// Path of the atomic node that computed.
	Path NodePath

	// Node is the node's name.
	Node string

	// Resources are the node's declared outputs.
	Resources []ResourceID

	// Err is non-nil when the compute panicked; per-output failures
	// returned as values do not set it.
	Err error

	// Runtime is how long the compute took.
	Runtime time.Duration
}

// Callback is a function called after each calculator run when registered
// with [WithCallback].
type Callback func(CallbackInfo)

// WithCallback returns an Option which has the engine call the passed in
// [Callback] after each calculator finishes, successfully or not.
// Callbacks run on the evaluating goroutine; a slow callback slows the
// request.
func WithCallback(callback Callback) Option {
	return withCallbackOption{callback: callback}
}

type withCallbackOption struct {
	callback Callback
}

var _ Option = withCallbackOption{}

func (o withCallbackOption) String() string {
	return "WithCallback()"
}

func (o withCallbackOption) applyOption(e *Engine) {
	e.callback = o.callback
}

func (e *Engine) afterCompute(info CallbackInfo) {
	if e.callback != nil {
		e.callback(info)
	}
}
