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

// Package commands provides the concrete implementations of the Chain of
// Responsibility (COR) pattern's Command interface. This file defines the
// command that sends a prepared prompt to a generative model.
//
// Logic Flow:
//  1. It receives the prompt contents ([]*genai.Content) built by one of the
//     prompt builders, with or without inline media.
//  2. It sends them to the configured model in a single request. The model
//     wrapper waits for the rate limiter; failures are never retried.
//  3. The text of the reply is placed in the context for the next command,
//     usually a JsonToStruct decoder.
package commands

import (
	"fmt"

	"github.com/jaycherian/gcp-go-style-passport/internal/cloud"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/cor"
	"go.opentelemetry.io/otel/metric"
	"google.golang.org/genai"
)

// ContentGenerator is a command that calls a generative model with the
// contents found in its input parameter.
type ContentGenerator struct {
	cor.BaseCommand
	generativeAIModel        cloud.GenerativeModel // The rate-limited generative model client.
	geminiInputTokenCounter  metric.Int64Counter   // OTel counter for input tokens.
	geminiOutputTokenCounter metric.Int64Counter   // OTel counter for output tokens.
}

// NewContentGenerator is the constructor for the ContentGenerator command.
//
// Inputs:
//   - name: A string name for this command instance.
//   - generativeAIModel: The model the prompt is sent to.
//
// Outputs:
//   - *ContentGenerator: The command, with its token counters initialized.
func NewContentGenerator(name string, generativeAIModel cloud.GenerativeModel) *ContentGenerator {
	out := &ContentGenerator{
		BaseCommand:       *cor.NewBaseCommand(name),
		generativeAIModel: generativeAIModel,
	}
	out.geminiInputTokenCounter, _ = out.GetMeter().Int64Counter(fmt.Sprintf("%s.gemini.token.input", out.GetName()))
	out.geminiOutputTokenCounter, _ = out.GetMeter().Int64Counter(fmt.Sprintf("%s.gemini.token.output", out.GetName()))
	return out
}

// IsExecutable also requires a configured model.
func (t *ContentGenerator) IsExecutable(context cor.Context) bool {
	return t.generativeAIModel != nil && t.BaseCommand.IsExecutable(context)
}

// Execute sends the prompt. A backend failure is recorded unchanged so the
// caller can show its message verbatim.
func (t *ContentGenerator) Execute(context cor.Context) {
	contents, ok := context.Get(t.GetInputParam()).([]*genai.Content)
	if !ok || len(contents) == 0 {
		t.Fail(context, fmt.Errorf("no prompt contents in %s", t.GetInputParam()))
		return
	}

	out, err := cloud.GenerateMultiModalResponse(context.GetContext(), t.geminiInputTokenCounter, t.geminiOutputTokenCounter, t.generativeAIModel, contents)
	if err != nil {
		t.Fail(context, err)
		return
	}

	t.Succeed(context, out)
}
