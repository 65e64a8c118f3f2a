// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cor

import (
	"context"
)

// BaseContext is the default Context. It is not safe for concurrent use; one
// context belongs to one workflow execution.
type BaseContext struct {
	data       map[string]interface{}
	errors     map[string]error
	errorOrder []string // command names in the order their errors were recorded
	context    context.Context
}

// NewBaseContext returns an empty context.
func NewBaseContext() Context {
	return &BaseContext{
		data:       make(map[string]interface{}),
		errors:     make(map[string]error),
		errorOrder: make([]string, 0),
	}
}

// NewContextWith returns a context bound to ctx with input stored under CtxIn.
//
// Inputs:
//   - ctx: The Go context carrying the deadline and the active span.
//   - input: The first command's input. A nil input is stored as is.
//
// Returns:
//   - Context: A fresh context. Call Close once the results have been read.
func NewContextWith(ctx context.Context, input interface{}) Context {
	c := NewBaseContext()
	c.SetContext(ctx)
	if input != nil {
		c.Add(CtxIn, input)
	}
	return c
}

func (c *BaseContext) SetContext(context context.Context) {
	c.context = context
}

func (c *BaseContext) GetContext() context.Context {
	return c.context
}

// Close drops every stored value, so encoded media held by the context can be
// collected while the caller keeps the results it already read. Errors stay.
func (c *BaseContext) Close() {
	clear(c.data)
}

func (c *BaseContext) Add(key string, value interface{}) Context {
	c.data[key] = value
	return c
}

// AddError records err under key. Recording a second error for the same key
// replaces it but keeps the original position.
func (c *BaseContext) AddError(key string, err error) {
	if err == nil {
		return
	}
	if _, ok := c.errors[key]; !ok {
		c.errorOrder = append(c.errorOrder, key)
	}
	c.errors[key] = err
}

func (c *BaseContext) GetErrors() map[string]error {
	return c.errors
}

func (c *BaseContext) FirstError() error {
	if len(c.errorOrder) == 0 {
		return nil
	}
	return c.errors[c.errorOrder[0]]
}

func (c *BaseContext) Get(key string) interface{} {
	return c.data[key]
}

func (c *BaseContext) Remove(key string) {
	delete(c.data, key)
}

func (c *BaseContext) HasErrors() bool {
	return len(c.errors) > 0
}
