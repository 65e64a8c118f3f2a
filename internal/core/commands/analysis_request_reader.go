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

// This file defines the first command of the Pub/Sub analysis workflow. It
// parses an AnalysisRequests message into a reference-mode AnalysisRequest.
package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jaycherian/gcp-go-style-passport/internal/cloud"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/cor"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/model"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/services"
)

// AnalysisRequestReader converts the raw message into a request.
type AnalysisRequestReader struct {
	cor.BaseCommand
}

func NewAnalysisRequestReader(name string) *AnalysisRequestReader {
	return &AnalysisRequestReader{BaseCommand: *cor.NewBaseCommand(name)}
}

// Execute normalizes the URL. The platform comes from the message when set
// and from the URL otherwise.
func (c *AnalysisRequestReader) Execute(context cor.Context) {
	in, ok := context.Get(c.GetInputParam()).(string)
	if !ok {
		c.Fail(context, fmt.Errorf("message is not text"))
		return
	}

	var msg cloud.AnalysisRequestMessage
	if err := json.Unmarshal([]byte(in), &msg); err != nil {
		c.Fail(context, fmt.Errorf("failed to unmarshal analysis request: %w", err))
		return
	}
	if strings.TrimSpace(msg.URL) == "" {
		c.Fail(context, fmt.Errorf("analysis request has no url"))
		return
	}

	ref := services.Normalize(msg.URL)
	platform := ref.Platform
	if msg.Platform != "" {
		p, err := model.ParsePlatform(msg.Platform)
		if err != nil {
			c.Fail(context, err)
			return
		}
		platform = p
	}

	req := &model.AnalysisRequest{Mode: model.AnalysisModeReference, URL: ref.Cleaned, Platform: platform}
	context.Add(cloud.GetAnalysisRequestName(), req)
	c.Succeed(context, req)
}
