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
// This file contains the hierarchical configuration loader and the helper
// every command uses to call Gemini.
//
// Functions:
//   - LoadConfig: Decodes the embedded defaults, then the base file, then the
//     runtime-specific file on top of each other.
//   - GenerateMultiModalResponse: Makes exactly one model call, records token
//     usage and returns the concatenated response text.
//   - StripCodeFence: Removes a Markdown code fence around a JSON reply.
package cloud

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/jaycherian/gcp-go-style-passport/configs"
	"go.opentelemetry.io/otel/metric"
	"google.golang.org/genai"
)

const (
	ConfigFileBaseName  = ".env"
	ConfigFileExtension = ".toml"
	ConfigSeparator     = "."
	EnvConfigFilePrefix = "GCP_CONFIG_PREFIX" // directory holding the configuration files
	EnvConfigRuntime    = "GCP_RUNTIME"       // runtime name, e.g. "local", "test", "prod"
)

// ErrEmptyResponse is returned when the model answered without any text.
var ErrEmptyResponse = errors.New("model returned an empty response")

func fileExists(in string) bool {
	_, err := os.Stat(in)
	return !errors.Is(err, os.ErrNotExist)
}

// ConfigFiles returns the base and runtime configuration paths derived from
// the environment.
func ConfigFiles() (base string, runtime string) {
	prefix := os.Getenv(EnvConfigFilePrefix)
	if len(prefix) > 0 && !strings.HasSuffix(prefix, string(os.PathSeparator)) {
		prefix = prefix + string(os.PathSeparator)
	}
	runtimeEnvironment := os.Getenv(EnvConfigRuntime)
	if runtimeEnvironment == "" {
		runtimeEnvironment = "test"
	}
	base = prefix + ConfigFileBaseName + ConfigFileExtension
	runtime = prefix + ConfigFileBaseName + ConfigSeparator + runtimeEnvironment + ConfigFileExtension
	return base, runtime
}

// LoadConfig populates baseConfig from the embedded defaults and then lets the
// base file and the runtime file override them. Missing files are skipped.
func LoadConfig(baseConfig interface{}) error {
	if _, err := toml.Decode(configs.Defaults, baseConfig); err != nil {
		return fmt.Errorf("failed to decode embedded defaults: %w", err)
	}

	baseConfigFileName, envConfigFileName := ConfigFiles()
	for _, file := range []string{baseConfigFileName, envConfigFileName} {
		if !fileExists(file) {
			slog.Debug("configuration file not found, skipping", "file", file)
			continue
		}
		if _, err := toml.DecodeFile(file, baseConfig); err != nil {
			return fmt.Errorf("failed to decode configuration file %s: %w", file, err)
		}
		slog.Info("configuration file loaded", "file", file)
	}
	return nil
}

// GenerateMultiModalResponse sends one request to the model. Failures are
// returned as-is; there is no retry.
//
// Inputs:
//   - ctx: The request context.
//   - inputTokenCounter, outputTokenCounter: Counters fed from the usage
//     metadata of the response.
//   - model: The model to call.
//   - content: The prompt, with any inline media.
//
// Returns:
//   - value: The reply text with surrounding whitespace removed.
//   - err: The backend error, or ErrEmptyResponse when the reply has no text.
func GenerateMultiModalResponse(
	ctx context.Context,
	inputTokenCounter metric.Int64Counter,
	outputTokenCounter metric.Int64Counter,
	model GenerativeModel,
	content []*genai.Content) (value string, err error) {

	resp, err := model.GenerateContent(ctx, content)
	if err != nil {
		return "", err
	}
	if resp == nil {
		return "", ErrEmptyResponse
	}
	if resp.UsageMetadata != nil {
		inputTokenCounter.Add(ctx, int64(resp.UsageMetadata.PromptTokenCount))
		outputTokenCounter.Add(ctx, int64(resp.UsageMetadata.CandidatesTokenCount))
	}

	var sb strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part != nil {
				sb.WriteString(part.Text)
			}
		}
	}
	value = strings.TrimSpace(sb.String())
	if value == "" {
		return "", ErrEmptyResponse
	}
	return value, nil
}

// StripCodeFence removes a surrounding ```json ... ``` fence if present.
func StripCodeFence(in string) string {
	out := strings.TrimSpace(in)
	if !strings.HasPrefix(out, "```") {
		return out
	}
	out = strings.TrimPrefix(out, "```")
	out = strings.TrimPrefix(out, "json")
	out = strings.TrimSuffix(strings.TrimSpace(out), "```")
	return strings.TrimSpace(out)
}

// NewTextContent wraps a prompt as a single user turn.
func NewTextContent(in string) []*genai.Content {
	return []*genai.Content{genai.NewContentFromText(in, genai.RoleUser)}
}

// NewInlineMediaContent builds a user turn with inline media followed by the
// prompt text.
func NewInlineMediaContent(data []byte, mimeType string, prompt string) []*genai.Content {
	parts := []*genai.Part{
		{InlineData: &genai.Blob{Data: data, MIMEType: mimeType}},
		{Text: prompt},
	}
	return []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
}
