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
	"encoding/base64"
	"testing"

	"github.com/jaycherian/gcp-go-style-passport/internal/core/model"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/services"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/workflow"
	test "github.com/jaycherian/gcp-go-style-passport/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalysisServiceWithoutModels(t *testing.T) {
	history := newHistory()
	analysis := workflow.NewAnalysisService(config, nil, nil, history, nil)
	assert.Nil(t, analysis.Media)
	assert.Nil(t, analysis.Reference)

	_, err := analysis.AnalyzeMedia(ctx, model.AnalysisRequest{
		Payload: &model.Base64Payload{Data: base64.StdEncoding.EncodeToString([]byte("webm-bytes"))},
	})
	assert.ErrorIs(t, err, services.ErrNotConfigured)

	_, err = analysis.AnalyzeReference(ctx, "https://youtu.be/dQw4w9WgXcQ", "")
	assert.ErrorIs(t, err, services.ErrNotConfigured)
	assert.Empty(t, history.List())
}

func TestAnalysisServiceWithOneModel(t *testing.T) {
	fake := test.NewFakeModel(test.PassportReply())
	analysis := workflow.NewAnalysisService(config, fake, nil, newHistory(), nil)

	result, err := analysis.AnalyzeMedia(ctx, model.AnalysisRequest{
		Payload: &model.Base64Payload{Data: base64.StdEncoding.EncodeToString([]byte("webm-bytes")), MIMEType: "video/webm"},
	})
	require.NoError(t, err)
	assert.NotNil(t, result.Passport)

	_, err = analysis.AnalyzeReference(ctx, "https://youtu.be/dQw4w9WgXcQ", "")
	assert.ErrorIs(t, err, services.ErrNotConfigured)
	assert.Equal(t, 1, fake.Calls())
}

func TestStudioServiceWithoutModel(t *testing.T) {
	tools := workflow.NewStudioService(config, nil)

	_, err := tools.GenerateScript(ctx, "morning routines", model.GetExamplePassport())
	assert.ErrorIs(t, err, services.ErrNotConfigured)
	_, err = tools.GenerateInterestMap(ctx, "cooking", "travel")
	assert.ErrorIs(t, err, services.ErrNotConfigured)
	_, err = tools.GenerateContentIdeas(ctx, "coffee", nil)
	assert.ErrorIs(t, err, services.ErrNotConfigured)

	assert.NotNil(t, workflow.NewStudioService(config, test.NewFakeModel()).Script)
}
