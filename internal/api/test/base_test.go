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

package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jaycherian/gcp-go-style-passport/internal/api"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/services"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/workflow"
	"github.com/jaycherian/gcp-go-style-passport/internal/telemetry"
	test "github.com/jaycherian/gcp-go-style-passport/internal/testutil"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	telemetry.SetupLogging(slog.LevelWarn)
	os.Exit(m.Run())
}

type fixture struct {
	analysisModel *test.FakeModel
	toolsModel    *test.FakeModel
	history       *services.HistoryStore
	studio        *services.Studio
	router        *gin.Engine
}

// newFixture wires the real workflows against fake models. The analysis
// model answers with analysisReplies; the studio tools share toolReplies.
func newFixture(analysisReplies []string, toolReplies ...string) *fixture {
	config := test.GetConfig()
	analysisModel := test.NewFakeModel(analysisReplies...)
	toolsModel := test.NewFakeModel(toolReplies...)
	history := services.NewHistoryStore(services.NewMemorySnapshotStore(), config.History.Key, config.History.Capacity)
	analysis := services.NewAnalysisService(nil,
		workflow.NewPassportMediaWorkflow(config, analysisModel, history, nil),
		workflow.NewPassportReferenceWorkflow(config, analysisModel, history, nil))
	studio := services.NewStudio(analysis, history, nil)
	tools := &services.StudioService{
		Script:      workflow.NewScriptWorkflow(config, toolsModel),
		Comparison:  workflow.NewComparisonWorkflow(config, toolsModel),
		InterestMap: workflow.NewInterestMapWorkflow(config, toolsModel),
		Ideas:       workflow.NewIdeasWorkflow(config, toolsModel),
	}
	router := api.NewRouter(&api.Services{
		Studio:  studio,
		History: history,
		Tools:   tools,
	})
	return &fixture{analysisModel: analysisModel, toolsModel: toolsModel, history: history, studio: studio, router: router}
}

func (f *fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *fixture) upload(t *testing.T, data []byte, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "clip.bin")
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analysis/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func errorOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, w)["error"]
}
