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

// This file defines the command that turns an AnalysisRequest into the prompt
// for the passport model.
//
// Logic Flow:
//  1. Media mode renders the media analysis template followed by the metrics
//     block. Missing metrics count as zero. If every metric is zero the model
//     is told to read the numbers off the video frames; otherwise it is told
//     to treat them as ground truth. The decoded media is attached inline.
//  2. Reference mode renders the search template with the URL and platform
//     and sends text only; the search-grounded model finds the video itself.
//  3. The request is stored under cloud.GetAnalysisRequestName() for the
//     history and archive commands further down the chain.
package commands

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/jaycherian/gcp-go-style-passport/internal/cloud"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/cor"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/model"
	"google.golang.org/genai"
)

// PassportPromptBuilder builds the analysis prompt for both request modes.
type PassportPromptBuilder struct {
	cor.BaseCommand
	mediaTemplate     *template.Template
	metricsTemplate   *template.Template
	onScreenMetrics   string
	userMetrics       string
	referenceTemplate *template.Template
}

// NewPassportPromptBuilder parses the passport templates from the prompt
// configuration.
func NewPassportPromptBuilder(name string, prompts cloud.PromptTemplates) (*PassportPromptBuilder, error) {
	out := &PassportPromptBuilder{
		BaseCommand:     *cor.NewBaseCommand(name),
		onScreenMetrics: strings.TrimSpace(prompts.OnScreenMetrics),
		userMetrics:     strings.TrimSpace(prompts.UserMetrics),
	}
	var err error
	if out.mediaTemplate, err = template.New("media-analysis").Parse(prompts.MediaAnalysis); err != nil {
		return nil, err
	}
	if out.metricsTemplate, err = template.New("metrics-input").Parse(prompts.MetricsInput); err != nil {
		return nil, err
	}
	if out.referenceTemplate, err = template.New("reference-analysis").Parse(prompts.ReferenceAnalysis); err != nil {
		return nil, err
	}
	return out, nil
}

// GenerateParams creates the template parameters for req.
func (c *PassportPromptBuilder) GenerateParams(req *model.AnalysisRequest) map[string]interface{} {
	params := make(map[string]interface{})
	example, _ := json.Marshal(model.GetExamplePassport())
	params["EXAMPLE_JSON"] = string(example)
	params["URL"] = req.URL
	params["PLATFORM"] = string(req.Platform)
	metrics := req.Metrics
	if metrics == nil {
		metrics = &model.Metrics{}
	}
	params["VIEWS"] = metrics.Views
	params["LIKES"] = metrics.Likes
	params["COMMENTS"] = metrics.Comments
	return params
}

func render(t *template.Template, params map[string]interface{}) (string, error) {
	var buffer bytes.Buffer
	if err := t.Execute(&buffer, params); err != nil {
		return "", fmt.Errorf("failed to execute prompt template %s: %w", t.Name(), err)
	}
	return strings.TrimSpace(buffer.String()), nil
}

// Prompt renders the prompt text for req.
func (c *PassportPromptBuilder) Prompt(req *model.AnalysisRequest) (string, error) {
	params := c.GenerateParams(req)
	if req.Mode == model.AnalysisModeReference {
		return render(c.referenceTemplate, params)
	}

	prompt, err := render(c.mediaTemplate, params)
	if err != nil {
		return "", err
	}
	metrics, err := render(c.metricsTemplate, params)
	if err != nil {
		return "", err
	}
	branch := c.userMetrics
	if !req.Metrics.HasUserMetrics() {
		branch = c.onScreenMetrics
	}
	return strings.Join([]string{prompt, metrics, branch}, "\n\n"), nil
}

func (c *PassportPromptBuilder) Execute(context cor.Context) {
	req, ok := context.Get(c.GetInputParam()).(*model.AnalysisRequest)
	if !ok {
		c.Fail(context, fmt.Errorf("input is not an analysis request"))
		return
	}

	prompt, err := c.Prompt(req)
	if err != nil {
		c.Fail(context, err)
		return
	}

	var contents []*genai.Content
	switch req.Mode {
	case model.AnalysisModeMedia:
		if req.Payload == nil || req.Payload.Data == "" {
			c.Fail(context, fmt.Errorf("media analysis requires a payload"))
			return
		}
		data, err := base64.StdEncoding.DecodeString(req.Payload.Data)
		if err != nil {
			c.Fail(context, fmt.Errorf("invalid media payload: %w", err))
			return
		}
		mimeType := req.Payload.MIMEType
		if mimeType == "" {
			mimeType = model.DefaultMediaMIMEType
		}
		contents = cloud.NewInlineMediaContent(data, mimeType, prompt)
	case model.AnalysisModeReference:
		if strings.TrimSpace(req.URL) == "" {
			c.Fail(context, fmt.Errorf("reference analysis requires a URL"))
			return
		}
		contents = cloud.NewTextContent(prompt)
	default:
		c.Fail(context, fmt.Errorf("unknown analysis mode %q", req.Mode))
		return
	}

	context.Add(cloud.GetAnalysisRequestName(), req)
	c.Succeed(context, contents)
}
