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

// An Option modifies the default behavior of New.
type Option interface {
	applyOption(*Engine)
}

// An EvaluateOption modifies the default behavior of Evaluate.
type EvaluateOption interface {
	applyEvaluateOption(*evaluateOptions)
}

type evaluateOptions struct {
	override    Override
	hasOverride bool
}

// WithOverride attaches an ad-hoc override to a single request. Pinned
// inputs take strict precedence over providers and flywires; pinned
// outputs substitute at the provider without running its compute; ad-hoc
// flywires are consulted before graph-defined ones.
func WithOverride(o Override) EvaluateOption {
	return withOverrideOption{override: o}
}

type withOverrideOption struct {
	override Override
}

func (o withOverrideOption) String() string {
	return "WithOverride()"
}

func (o withOverrideOption) applyEvaluateOption(opts *evaluateOptions) {
	opts.override = o.override
	opts.hasOverride = true
}
