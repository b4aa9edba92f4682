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
	"reflect"
	"sync"
)

// A CalculatorFactory rebuilds a calculator from its ordered construction
// parameters, as returned by Calculator.Parameters. Parameters arrive the
// way the codec decoded them; JSON and YAML both deliver numbers as
// float64.
type CalculatorFactory func(params []interface{}) (Calculator, error)

// typeRegistry maps the names appearing in serialized graphs to concrete
// Go types. Registration happens in init functions; lookups are
// read-mostly.
type typeRegistry struct {
	mu sync.RWMutex

	calcFactories map[string]CalculatorFactory
	calcNames     map[reflect.Type]string

	resourceTypes map[string]reflect.Type
	resourceNames map[reflect.Type]string
}

var registry = &typeRegistry{
	calcFactories: make(map[string]CalculatorFactory),
	calcNames:     make(map[reflect.Type]string),
	resourceTypes: make(map[string]reflect.Type),
	resourceNames: make(map[reflect.Type]string),
}

// RegisterCalculatorType makes calculators of prototype's concrete type
// serializable under the given name, and decodable through factory.
//
// It panics if the name or the type is already registered, matching the
// behavior of registries in the standard library.
func RegisterCalculatorType(name string, prototype Calculator, factory CalculatorFactory) {
	if name == "" || prototype == nil || factory == nil {
		panic("calcgraph: RegisterCalculatorType with empty name, prototype or factory")
	}
	t := reflect.TypeOf(prototype)

	registry.mu.Lock()
	defer registry.mu.Unlock()
	if _, dup := registry.calcFactories[name]; dup {
		panic(fmt.Sprintf("calcgraph: calculator type %q registered twice", name))
	}
	if prev, dup := registry.calcNames[t]; dup {
		panic(fmt.Sprintf("calcgraph: calculator %v already registered as %q", t, prev))
	}
	registry.calcFactories[name] = factory
	registry.calcNames[t] = name
}

// RegisterResourceType makes resources of prototype's concrete type
// serializable under the given name. The prototype must be a struct
// value; the codec rebuilds resources by unmarshaling into a fresh value
// of its type.
//
// It panics if the name or the type is already registered.
func RegisterResourceType(name string, prototype ResourceID) {
	if name == "" || prototype == nil {
		panic("calcgraph: RegisterResourceType with empty name or prototype")
	}
	t := reflect.TypeOf(prototype)
	if t.Kind() != reflect.Struct {
		panic(fmt.Sprintf("calcgraph: resource prototype must be a struct value, got %v", t))
	}

	registry.mu.Lock()
	defer registry.mu.Unlock()
	if _, dup := registry.resourceTypes[name]; dup {
		panic(fmt.Sprintf("calcgraph: resource type %q registered twice", name))
	}
	if prev, dup := registry.resourceNames[t]; dup {
		panic(fmt.Sprintf("calcgraph: resource %v already registered as %q", t, prev))
	}
	registry.resourceTypes[name] = t
	registry.resourceNames[t] = name
}

func (r *typeRegistry) calculatorName(calc Calculator) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.calcNames[reflect.TypeOf(calc)]
	if !ok {
		return "", fmt.Errorf("calculator type %T is not registered", calc)
	}
	return name, nil
}

func (r *typeRegistry) calculatorFactory(name string) (CalculatorFactory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.calcFactories[name]
	if !ok {
		return nil, fmt.Errorf("unknown calculator type %q", name)
	}
	return f, nil
}

func (r *typeRegistry) resourceName(rid ResourceID) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.resourceNames[reflect.TypeOf(rid)]
	if !ok {
		return "", fmt.Errorf("resource type %T is not registered", rid)
	}
	return name, nil
}

func (r *typeRegistry) resourceType(name string) (reflect.Type, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.resourceTypes[name]
	if !ok {
		return nil, fmt.Errorf("unknown resource type %q", name)
	}
	return t, nil
}
