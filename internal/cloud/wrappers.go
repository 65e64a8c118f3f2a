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

// Package cloud provides components for interacting with Google Cloud services.
// This file decorates the Gemini models handle with a rate limiter so the
// studio stays inside its Vertex AI quota. Calls wait for a token; they are
// never retried.
package cloud

import (
	"context"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// GenerativeModel is the one call the studio makes against Gemini. Commands
// depend on this interface so tests can substitute a fake.
type GenerativeModel interface {
	GenerateContent(ctx context.Context, content []*genai.Content) (*genai.GenerateContentResponse, error)
}

// QuotaAwareGenerativeAIModel binds a model name and generation config to the
// shared models handle and throttles calls.
type QuotaAwareGenerativeAIModel struct {
	GenerativeContentConfig *genai.GenerateContentConfig
	ModelName               string
	ModelHandle             *genai.Models
	RateLimit               *rate.Limiter
}

// NewQuotaAwareModel allows a burst of requestsPerSecond calls and refills
// one token per second.
func NewQuotaAwareModel(wrapped *genai.GenerateContentConfig, name string, modelHandle *genai.Models, requestsPerSecond int) *QuotaAwareGenerativeAIModel {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1
	}
	return &QuotaAwareGenerativeAIModel{
		GenerativeContentConfig: wrapped,
		ModelName:               name,
		ModelHandle:             modelHandle,
		RateLimit:               rate.NewLimiter(rate.Every(time.Second), requestsPerSecond),
	}
}

// GenerateContent waits for the limiter and makes a single call. The wait
// only ends early when ctx is done.
func (q *QuotaAwareGenerativeAIModel) GenerateContent(ctx context.Context, content []*genai.Content) (*genai.GenerateContentResponse, error) {
	if err := q.RateLimit.Wait(ctx); err != nil {
		return nil, err
	}
	return q.ModelHandle.GenerateContent(ctx, q.ModelName, content, q.GenerativeContentConfig)
}

// WithResponseSchema returns a copy bound to schema that shares the limiter,
// so per-operation schemas do not multiply the quota.
func (q *QuotaAwareGenerativeAIModel) WithResponseSchema(schema *genai.Schema) *QuotaAwareGenerativeAIModel {
	cfg := genai.GenerateContentConfig{}
	if q.GenerativeContentConfig != nil {
		cfg = *q.GenerativeContentConfig
	}
	cfg.ResponseSchema = schema
	if schema != nil {
		cfg.ResponseMIMEType = "application/json"
	}
	return &QuotaAwareGenerativeAIModel{
		GenerativeContentConfig: &cfg,
		ModelName:               q.ModelName,
		ModelHandle:             q.ModelHandle,
		RateLimit:               q.RateLimit,
	}
}

// WithPlainText returns a copy that asks for free text instead of JSON.
func (q *QuotaAwareGenerativeAIModel) WithPlainText() *QuotaAwareGenerativeAIModel {
	out := q.WithResponseSchema(nil)
	out.GenerativeContentConfig.ResponseMIMEType = ""
	return out
}

// NewGenerateContentConfig turns a model configuration into a genai config.
// Google Search grounding cannot be combined with controlled generation, so a
// search-enabled model gets the tool and no response MIME type.
func NewGenerateContentConfig(values VertexAiLLMModel) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](values.Temperature),
		TopP:            genai.Ptr[float32](values.TopP),
		TopK:            genai.Ptr[float32](values.TopK),
		MaxOutputTokens: values.MaxTokens,
		SafetySettings:  DefaultSafetySettings,
		Tools:           []*genai.Tool{},
	}
	if values.SystemInstructions != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: values.SystemInstructions}}}
	}
	if values.ThinkingBudget > 0 {
		cfg.ThinkingConfig = &genai.ThinkingConfig{ThinkingBudget: genai.Ptr[int32](values.ThinkingBudget)}
	}
	if values.EnableGoogle {
		cfg.Tools = append(cfg.Tools, &genai.Tool{GoogleSearch: &genai.GoogleSearch{}})
	} else {
		cfg.ResponseMIMEType = values.OutputFormat
	}
	return cfg
}

// BindSchema returns m bound to schema when m is a quota-aware model. Other
// implementations are returned unchanged.
func BindSchema(m GenerativeModel, schema *genai.Schema) GenerativeModel {
	if q, ok := m.(*QuotaAwareGenerativeAIModel); ok {
		if q == nil {
			return nil
		}
		return q.WithResponseSchema(schema)
	}
	return m
}

// BindPlainText is BindSchema for free-text replies.
func BindPlainText(m GenerativeModel) GenerativeModel {
	if q, ok := m.(*QuotaAwareGenerativeAIModel); ok {
		if q == nil {
			return nil
		}
		return q.WithPlainText()
	}
	return m
}
