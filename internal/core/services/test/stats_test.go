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

package services_test

import (
	"testing"

	"github.com/jaycherian/gcp-go-style-passport/internal/core/model"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/services"
	"github.com/stretchr/testify/assert"
)

func TestComputeStats(t *testing.T) {
	calm := model.GetExamplePassport()
	calm.StyleMetrics.WordsPerMinute = 120
	calm.StyleMetrics.DominantEmotion = "Calm"
	calm.EngagementMetrics = nil

	items := []model.HistoryItem{
		*model.NewHistoryItem(model.GetExamplePassport(), nil, model.PlatformYouTube),
		*model.NewHistoryItem(calm, nil, model.PlatformTikTok),
		*model.NewHistoryItem(model.GetExamplePassport(), nil, model.PlatformYouTube),
		{Platform: model.PlatformNative},
	}

	stats := services.ComputeStats(items)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.PerPlatform[model.PlatformYouTube])
	assert.Equal(t, 1, stats.PerPlatform[model.PlatformNative])
	assert.InDelta(t, (182.0+120+182)/3, stats.MeanWordsPerMinute, 1e-9)
	assert.InDelta(t, 74.0, stats.MeanViralityScore, 1e-9)
	assert.Equal(t, 3, stats.SegmentCounts[model.SegmentHook])
	assert.Equal(t, "Excitement", stats.TopEmotion)
}

func TestComputeStatsEmpty(t *testing.T) {
	stats := services.ComputeStats(nil)
	assert.Equal(t, 0, stats.Total)
	assert.Equal(t, 0.0, stats.MeanWordsPerMinute)
	assert.Equal(t, "", stats.TopEmotion)
	assert.NotNil(t, stats.PerPlatform)
}
