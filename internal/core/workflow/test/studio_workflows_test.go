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

package workflow_test

import (
	"errors"
	"testing"

	"github.com/jaycherian/gcp-go-style-passport/internal/core/commands"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/cor"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/model"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/workflow"
	test "github.com/jaycherian/gcp-go-style-passport/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScriptWorkflow(t *testing.T) {
	fake := test.NewFakeModel(test.ScriptReply())
	wf := workflow.NewScriptWorkflow(config, fake)

	chainCtx := run(wf, &model.ScriptRequest{Topic: "morning coffee", Passport: model.GetExamplePassport()})
	require.NoError(t, chainCtx.FirstError())

	script, ok := chainCtx.Get(cor.CtxIn).(*[]model.ScriptLine)
	require.True(t, ok)
	assert.Equal(t, model.GetExampleScript(), *script)
	assert.Contains(t, fake.LastPrompt(), "morning coffee")
	assert.Contains(t, fake.LastPrompt(), "High-energy explainer")
}

func TestScriptWorkflowNeedsPassport(t *testing.T) {
	fake := test.NewFakeModel(test.ScriptReply())
	chainCtx := run(workflow.NewScriptWorkflow(config, fake), &model.ScriptRequest{Topic: "coffee"})
	assert.True(t, errors.Is(chainCtx.FirstError(), workflow.ErrInvalidRequest))
	assert.Equal(t, 0, fake.Calls())
}

func TestScriptWorkflowMalformed(t *testing.T) {
	chainCtx := run(workflow.NewScriptWorkflow(config, test.NewFakeModel("not json")),
		&model.ScriptRequest{Topic: "coffee", Passport: model.GetExamplePassport()})
	assert.True(t, errors.Is(chainCtx.FirstError(), commands.ErrMalformedResponse))
}

func TestComparisonWorkflow(t *testing.T) {
	fake := test.NewFakeModel("SUMMARY TABLE\nVideo 1 - youtube")
	items := []model.HistoryItem{
		*model.NewHistoryItem(model.GetExamplePassport(), nil, model.PlatformYouTube),
		*model.NewHistoryItem(model.GetExamplePassport(), nil, model.PlatformTikTok),
	}

	chainCtx := run(workflow.NewComparisonWorkflow(config, fake), &model.ComparisonRequest{Items: items})
	require.NoError(t, chainCtx.FirstError())
	assert.Equal(t, "SUMMARY TABLE\nVideo 1 - youtube", chainCtx.Get(cor.CtxIn))
	assert.Contains(t, fake.LastPrompt(), "I have 2 videos")
	assert.Contains(t, fake.LastPrompt(), `"platform": "tiktok"`)
}

func TestInterestMapWorkflowNormalizes(t *testing.T) {
	reply := `{"nodes": [
		{"id": "a", "label": "Cooking", "description": "", "type": "core", "x": -5, "y": 50},
		{"id": "c", "label": "Street food", "description": "", "type": "intersection", "x": 50, "y": 140}
	], "edges": [{"from": "a", "to": "c"}, {"from": "c", "to": "ghost"}]}`
	fake := test.NewFakeModel(reply)

	chainCtx := run(workflow.NewInterestMapWorkflow(config, fake), &model.InterestMapRequest{InterestA: "Cooking", InterestB: "Travel"})
	require.NoError(t, chainCtx.FirstError())

	roadmap, ok := chainCtx.Get(cor.CtxIn).(*model.RoadmapData)
	require.True(t, ok)
	assert.Equal(t, 0.0, roadmap.Nodes[0].X)
	assert.Equal(t, 100.0, roadmap.Nodes[1].Y)
	assert.Equal(t, []model.RoadmapEdge{{From: "a", To: "c"}}, roadmap.Edges)
	assert.Contains(t, fake.LastPrompt(), `"Cooking"`)
}

func TestInterestMapWorkflowRejectsUnknownType(t *testing.T) {
	fake := test.NewFakeModel(`{"nodes": [{"id": "a", "type": "hub"}], "edges": []}`)
	chainCtx := run(workflow.NewInterestMapWorkflow(config, fake), &model.InterestMapRequest{InterestA: "a", InterestB: "b"})
	assert.True(t, errors.Is(chainCtx.FirstError(), commands.ErrMalformedResponse))
}

func TestIdeasWorkflowContext(t *testing.T) {
	fake := test.NewFakeModel(test.IdeasReply())
	wf := workflow.NewIdeasWorkflow(config, fake)

	chainCtx := run(wf, &model.IdeasRequest{Topic: "coffee"})
	require.NoError(t, chainCtx.FirstError())
	assert.Contains(t, fake.LastPrompt(), "no history yet")

	chainCtx = run(wf, &model.IdeasRequest{Topic: "coffee", Latest: model.GetExamplePassport()})
	require.NoError(t, chainCtx.FirstError())
	prompt := fake.LastPrompt()
	assert.Contains(t, prompt, "182 words per minute")
	assert.Contains(t, prompt, "Excitement")
	assert.Contains(t, prompt, "Pattern interrupt")
	assert.NotContains(t, prompt, "payoff is teased")

	ideas, ok := chainCtx.Get(cor.CtxIn).(*[]model.ContentIdea)
	require.True(t, ok)
	assert.Len(t, *ideas, 1)
}
