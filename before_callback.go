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

// BeforeCallback is a function called before each calculator run when
// registered with [WithBeforeCallback]. It receives the same CallbackInfo
// as [Callback], with Err and Runtime unset.
type BeforeCallback func(CallbackInfo)

// WithBeforeCallback returns an Option which has the engine call the
// passed in [BeforeCallback] just before each calculator runs, after all
// of its inputs have resolved.
func WithBeforeCallback(callback BeforeCallback) Option {
	return withBeforeCallbackOption{callback: callback}
}

type withBeforeCallbackOption struct {
	callback BeforeCallback
}

var _ Option = withBeforeCallbackOption{}

func (o withBeforeCallbackOption) String() string {
	return "WithBeforeCallback()"
}

func (o withBeforeCallbackOption) applyOption(e *Engine) {
	e.beforeCallback = o.callback
}

func (e *Engine) beforeCompute(info CallbackInfo) {
	if e.beforeCallback != nil {
		e.beforeCallback(info)
	}
}
