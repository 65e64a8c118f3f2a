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

package cor_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jaycherian/gcp-go-style-passport/internal/core/cor"
	"github.com/stretchr/testify/assert"
)

type upper struct {
	cor.BaseCommand
}

func (u *upper) Execute(c cor.Context) {
	u.Succeed(c, strings.ToUpper(c.Get(u.GetInputParam()).(string)))
}

type failing struct {
	cor.BaseCommand
	err error
}

func (f *failing) Execute(c cor.Context) {
	f.Fail(c, f.err)
}

type needsKey struct {
	cor.BaseCommand
	ran bool
}

func (n *needsKey) Execute(c cor.Context) {
	n.ran = true
}

func TestChainPipesOutputToInput(t *testing.T) {
	chain := cor.NewBaseChain("pipe")
	chain.AddCommand(&upper{BaseCommand: *cor.NewBaseCommand("first")})
	chain.AddCommand(&upper{BaseCommand: *cor.NewBaseCommand("second")})

	ctx := cor.NewContextWith(context.Background(), "hello")
	chain.Execute(ctx)

	assert.False(t, ctx.HasErrors())
	assert.Equal(t, "HELLO", ctx.Get(cor.CtxIn))
	assert.Equal(t, context.Background(), ctx.GetContext())
}

func TestChainStopsOnFirstErrorAndKeepsOrder(t *testing.T) {
	first := errors.New("first failure")
	chain := cor.NewBaseChain("stop")
	chain.AddCommand(&failing{BaseCommand: *cor.NewBaseCommand("a"), err: first})
	chain.AddCommand(&failing{BaseCommand: *cor.NewBaseCommand("b"), err: errors.New("second failure")})

	ctx := cor.NewContextWith(context.Background(), "x")
	chain.Execute(ctx)

	assert.Len(t, ctx.GetErrors(), 1)
	assert.Same(t, first, ctx.FirstError())
}

func TestChainContinueOnFailureKeepsFirstError(t *testing.T) {
	first := errors.New("first failure")
	chain := cor.NewBaseChain("continue")
	chain.ContinueOnFailure(true)
	chain.AddCommand(&failing{BaseCommand: *cor.NewBaseCommand("z"), err: first})
	chain.AddCommand(&failing{BaseCommand: *cor.NewBaseCommand("a"), err: errors.New("later failure")})

	ctx := cor.NewContextWith(context.Background(), "x")
	chain.Execute(ctx)

	assert.Len(t, ctx.GetErrors(), 2)
	assert.Same(t, first, ctx.FirstError())
}

func TestChainSkipsCommandWithoutInput(t *testing.T) {
	skipped := &needsKey{BaseCommand: *cor.NewBaseCommand("optional")}
	skipped.InputParamName = "missing"

	chain := cor.NewBaseChain("skip")
	chain.AddCommand(skipped)
	chain.AddCommand(&upper{BaseCommand: *cor.NewBaseCommand("after")})

	ctx := cor.NewContextWith(context.Background(), "kept")
	chain.Execute(ctx)

	assert.False(t, skipped.ran)
	assert.Equal(t, "KEPT", ctx.Get(cor.CtxIn))
}

func TestContextCloseReleasesValues(t *testing.T) {
	ctx := cor.NewContextWith(context.Background(), "payload")
	ctx.AddError("step", errors.New("boom"))
	result := ctx.Get(cor.CtxIn)
	ctx.Close()

	assert.Equal(t, "payload", result)
	assert.Nil(t, ctx.Get(cor.CtxIn))
	assert.EqualError(t, ctx.FirstError(), "boom")
}
