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
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/jaycherian/gcp-go-style-passport/internal/api"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/model"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/services"
	test "github.com/jaycherian/gcp-go-style-passport/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) seed(t *testing.T, platforms ...model.Platform) []*model.HistoryItem {
	t.Helper()
	out := make([]*model.HistoryItem, 0, len(platforms))
	for _, p := range platforms {
		item, err := f.history.Add(context.Background(), model.GetExamplePassport(), nil, p)
		require.NoError(t, err)
		out = append(out, item)
	}
	return out
}

func TestHistoryRoutes(t *testing.T) {
	f := newFixture(nil)
	items := f.seed(t, model.PlatformYouTube, model.PlatformTikTok)

	w := f.do(t, http.MethodGet, "/api/v1/history", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]model.HistoryItem](t, w)
	require.Len(t, list, 2)
	assert.Equal(t, items[1].Id, list[0].Id)

	w = f.do(t, http.MethodGet, "/api/v1/history/"+items[0].Id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.PlatformYouTube, decode[model.HistoryItem](t, w).Platform)

	w = f.do(t, http.MethodPost, "/api/v1/history/"+items[0].Id+"/select", nil)
	require.Equal(t, http.StatusOK, w.Code)
	state := decode[model.AppState](t, w)
	assert.Equal(t, model.ViewDashboard, state.View)
	assert.Equal(t, model.PlatformYouTube, state.Platform)
	require.NotNil(t, state.Analysis.Passport)

	w = f.do(t, http.MethodDelete, "/api/v1/history/"+items[0].Id, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = f.do(t, http.MethodDelete, "/api/v1/history/"+items[0].Id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = f.do(t, http.MethodGet, "/api/v1/history/"+items[0].Id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Len(t, f.history.List(), 1)
}

func TestHistoryExport(t *testing.T) {
	f := newFixture(nil)
	item := f.seed(t, model.PlatformInstagram)[0]

	w := f.do(t, http.MethodGet, "/api/v1/history/"+item.Id+"/export?format=json", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "passport-"+item.Id+".json")
	passport := decode[model.StylePassport](t, w)
	assert.Equal(t, model.GetExamplePassport().CreatorProfileSummary, passport.CreatorProfileSummary)

	w = f.do(t, http.MethodGet, "/api/v1/history/"+item.Id+"/export?format=pdf", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportDirectDownload(t *testing.T) {
	f := newFixture(nil)

	w := f.do(t, http.MethodPost, "/api/v1/exports", map[string]any{
		"name": "script", "format": "txt", "kind": api.ContentScript, "content": model.GetExampleScript(),
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, strings.HasPrefix(w.Body.String(), "[00:00-00:03]\nVISUAL: "))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "script.txt")

	w = f.do(t, http.MethodPost, "/api/v1/exports", map[string]any{
		"name": "report", "format": "doc", "kind": api.ContentText, "content": "a < b",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "a &lt; b")
	assert.Equal(t, "application/msword", w.Header().Get("Content-Type"))

	w = f.do(t, http.MethodPost, "/api/v1/exports", map[string]any{"format": "txt", "kind": api.ContentText, "content": 12})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodPost, "/api/v1/exports", map[string]any{"format": "rtf", "content": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportPublishNotConfigured(t *testing.T) {
	f := newFixture(nil)
	w := f.do(t, http.MethodPost, "/api/v1/exports?publish=true", map[string]any{"format": "json", "content": map[string]int{"a": 1}})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestStatsAndArchive(t *testing.T) {
	f := newFixture(nil)
	f.seed(t, model.PlatformYouTube, model.PlatformYouTube, model.PlatformTikTok)

	w := f.do(t, http.MethodGet, "/api/v1/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode[services.DashboardStats](t, w)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.PerPlatform[model.PlatformYouTube])

	w = f.do(t, http.MethodGet, "/api/v1/archive", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	w = f.do(t, http.MethodGet, "/api/v1/archive/abc", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestStudioScript(t *testing.T) {
	f := newFixture([]string{test.PassportReply()}, test.ScriptReply())

	w := f.do(t, http.MethodPost, "/api/v1/studio/script", map[string]string{"topic": "coffee"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, f.toolsModel.Calls())

	w = f.upload(t, []byte("clip"), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodPost, "/api/v1/studio/script", map[string]string{"topic": "coffee"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, model.GetExampleScript(), decode[[]model.ScriptLine](t, w))
	assert.Contains(t, f.toolsModel.LastPrompt(), "coffee")
}

func TestStudioCompare(t *testing.T) {
	f := newFixture(nil, "REPORT")
	items := f.seed(t, model.PlatformYouTube, model.PlatformTikTok)

	w := f.do(t, http.MethodPost, "/api/v1/studio/compare", api.CompareRequest{IDs: []string{items[0].Id}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodPost, "/api/v1/studio/compare", api.CompareRequest{IDs: []string{items[0].Id, "missing"}})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(t, http.MethodPost, "/api/v1/studio/compare", api.CompareRequest{IDs: []string{items[0].Id, items[1].Id}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "REPORT", decode[map[string]string](t, w)["report"])

	f.toolsModel.Replies = []string{""}
	w = f.do(t, http.MethodPost, "/api/v1/studio/compare", api.CompareRequest{IDs: []string{items[0].Id, items[1].Id}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, services.GenericComparisonMessage, decode[map[string]string](t, w)["report"])
}

func TestStudioInterestMap(t *testing.T) {
	f := newFixture(nil, test.RoadmapReply())

	w := f.do(t, http.MethodGet, "/api/v1/studio/interest-map", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(t, http.MethodPost, "/api/v1/studio/interest-map", model.InterestMapRequest{InterestA: "Cooking", InterestB: "Travel"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, decode[model.RoadmapData](t, w).Nodes, 4)

	w = f.do(t, http.MethodPatch, "/api/v1/studio/interest-map/nodes/c", api.MoveNodeRequest{X: 150, Y: -3})
	require.Equal(t, http.StatusOK, w.Code)
	roadmap := decode[model.RoadmapData](t, w)
	for _, n := range roadmap.Nodes {
		if n.Id == "c" {
			assert.Equal(t, 100.0, n.X)
			assert.Equal(t, 0.0, n.Y)
		}
	}

	w = f.do(t, http.MethodPatch, "/api/v1/studio/interest-map/nodes/zz", api.MoveNodeRequest{X: 1, Y: 1})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(t, http.MethodPost, "/api/v1/studio/interest-map", model.InterestMapRequest{InterestA: "Cooking"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStudioIdeasUseLatestPassport(t *testing.T) {
	f := newFixture(nil, test.IdeasReply())
	f.seed(t, model.PlatformYouTube)

	w := f.do(t, http.MethodPost, "/api/v1/studio/ideas", map[string]string{"topic": "coffee"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, model.GetExampleIdeas(), decode[[]model.ContentIdea](t, w))
	assert.Contains(t, f.toolsModel.LastPrompt(), "182 words per minute")
	assert.NotContains(t, f.toolsModel.LastPrompt(), "no history yet")
}
