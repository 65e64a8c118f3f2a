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

// Package test provides shared helpers for the test suite: a cached test
// configuration, a scriptable fake of the generative model and canned model
// replies. Nothing here needs network access or Google Cloud credentials.
package test

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"testing"

	"github.com/jaycherian/gcp-go-style-passport/internal/cloud"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/model"
	"google.golang.org/genai"
)

type StateManager struct {
	config *cloud.Config
	once   sync.Once
}

var state = &StateManager{}

// HandleErr fails the test when err is not nil.
func HandleErr(err error, t *testing.T) {
	t.Helper()
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// GetConfig loads the configuration once and returns a fresh copy of it, so
// tests may mutate their copy. Only the embedded defaults apply unless the
// environment points at other files.
func GetConfig() *cloud.Config {
	state.once.Do(func() {
		config := cloud.NewConfig()
		if err := cloud.LoadConfig(config); err != nil {
			log.Fatalf("failed to load test configuration: %v", err)
		}
		config.Storage.HistoryBackend = cloud.HistoryBackendMemory
		state.config = config
	})
	out := *state.config
	out.TopicSubscriptions = make(map[string]cloud.TopicSubscription, len(state.config.TopicSubscriptions))
	for k, v := range state.config.TopicSubscriptions {
		out.TopicSubscriptions[k] = v
	}
	out.AgentModels = make(map[string]cloud.VertexAiLLMModel, len(state.config.AgentModels))
	for k, v := range state.config.AgentModels {
		out.AgentModels[k] = v
	}
	return &out
}

// FakeModel is a cloud.GenerativeModel that replays canned replies and
// records every request it receives.
type FakeModel struct {
	mu       sync.Mutex
	Replies  []string
	Err      error
	Requests [][]*genai.Content
}

// NewFakeModel returns a model answering with replies in order. The last
// reply is repeated once the list is exhausted.
func NewFakeModel(replies ...string) *FakeModel {
	return &FakeModel{Replies: replies}
}

func (f *FakeModel) GenerateContent(_ context.Context, content []*genai.Content) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Requests = append(f.Requests, content)
	if f.Err != nil {
		return nil, f.Err
	}
	reply := ""
	if n := len(f.Replies); n > 0 {
		idx := len(f.Requests) - 1
		if idx >= n {
			idx = n - 1
		}
		reply = f.Replies[idx]
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: reply}}},
		}},
		UsageMetadata: &genai.GenerateContentResponseUsageMetadata{PromptTokenCount: 10, CandidatesTokenCount: 20},
	}, nil
}

// Calls returns how many requests were made.
func (f *FakeModel) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Requests)
}

// LastPrompt returns the concatenated text parts of the last request.
func (f *FakeModel) LastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Requests) == 0 {
		return ""
	}
	out := ""
	for _, c := range f.Requests[len(f.Requests)-1] {
		for _, p := range c.Parts {
			out += p.Text
		}
	}
	return out
}

// LastInlineData returns the first inline blob of the last request, or nil.
func (f *FakeModel) LastInlineData() *genai.Blob {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Requests) == 0 {
		return nil
	}
	for _, c := range f.Requests[len(f.Requests)-1] {
		for _, p := range c.Parts {
			if p.InlineData != nil {
				return p.InlineData
			}
		}
	}
	return nil
}

// PassportReply is a valid passport as the model would return it.
func PassportReply() string {
	b, _ := json.Marshal(model.GetExamplePassport())
	return string(b)
}

// FencedPassportReply wraps PassportReply in a Markdown code fence, which
// search-grounded replies sometimes carry.
func FencedPassportReply() string {
	return "```json\n" + PassportReply() + "\n```"
}

// ScriptReply is a valid script reply.
func ScriptReply() string {
	b, _ := json.Marshal(model.GetExampleScript())
	return string(b)
}

// RoadmapReply is a valid interest map reply.
func RoadmapReply() string {
	b, _ := json.Marshal(model.GetExampleRoadmap())
	return string(b)
}

// IdeasReply is a valid ideas reply.
func IdeasReply() string {
	b, _ := json.Marshal(model.GetExampleIdeas())
	return string(b)
}

// GetTestAnalysisRequestMessage is a Pub/Sub payload for a reference analysis.
func GetTestAnalysisRequestMessage() string {
	return `{"url": "https://www.tiktok.com/@creator/video/7301234567890?is_from_webapp=1", "platform": "tiktok"}`
}
