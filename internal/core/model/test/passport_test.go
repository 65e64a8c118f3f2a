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

// Package model_test contains unit tests for the data models defined in the
// model package.
package model_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExamplePassportIsValid(t *testing.T) {
	assert.NoError(t, model.GetExamplePassport().Validate())
}

// TestPassportValidateRejects walks through the ways a model response can
// break the contract. Each case must be reported as ErrMalformedPassport.
func TestPassportValidateRejects(t *testing.T) {
	cases := map[string]func(p *model.StylePassport){
		"missing summary":       func(p *model.StylePassport) { p.CreatorProfileSummary = "" },
		"missing insights":      func(p *model.StylePassport) { p.RetentionFormulaInsights = nil },
		"missing emotion":       func(p *model.StylePassport) { p.StyleMetrics.DominantEmotion = " " },
		"missing spectrum":      func(p *model.StylePassport) { p.StyleMetrics.EmotionalSpectrum = nil },
		"missing phrases":       func(p *model.StylePassport) { p.StyleMetrics.SignaturePhrases = nil },
		"missing structure":     func(p *model.StylePassport) { p.VideoStructure = nil },
		"score above range":     func(p *model.StylePassport) { p.StyleMetrics.EmotionalSpectrum[0].Score = 101 },
		"score below range":     func(p *model.StylePassport) { p.StyleMetrics.EmotionalSpectrum[1].Score = -1 },
		"unknown segment":       func(p *model.StylePassport) { p.VideoStructure[0].SegmentType = "Intro" },
		"bad time range":        func(p *model.StylePassport) { p.VideoStructure[0].TimeRange = "start to end" },
		"negative views":        func(p *model.StylePassport) { p.EngagementMetrics.Views = -5 },
		"virality out of range": func(p *model.StylePassport) { p.EngagementMetrics.ViralityScore = 140 },
		"negative words/min":    func(p *model.StylePassport) { p.StyleMetrics.WordsPerMinute = -1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			p := model.GetExamplePassport()
			mutate(p)
			err := p.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, model.ErrMalformedPassport)
		})
	}

	var nilPassport *model.StylePassport
	assert.ErrorIs(t, nilPassport.Validate(), model.ErrMalformedPassport)
}

func TestPassportValidateAcceptsEdgeValues(t *testing.T) {
	p := model.GetExamplePassport()
	p.EngagementMetrics = nil
	p.RetentionFormulaInsights = []string{}
	p.StyleMetrics.EmotionalSpectrum[0].Score = 0
	p.StyleMetrics.EmotionalSpectrum[1].Score = 100
	p.VideoStructure[0].TimeRange = "0:00 - 1:02:03"
	assert.NoError(t, p.Validate())
}

func TestPassportJSONUsesContractNames(t *testing.T) {
	b, err := json.Marshal(model.GetExamplePassport())
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(b, &raw))
	for _, key := range []string{"creator_profile_summary", "retention_formula_insights", "style_metrics", "video_structure", "engagement_metrics"} {
		assert.Contains(t, raw, key)
	}
	metrics := raw["style_metrics"].(map[string]any)
	assert.Contains(t, metrics, "words_per_minute")
	assert.Contains(t, metrics, "emotional_spectrum")
}

func TestParsePlatform(t *testing.T) {
	p, err := model.ParsePlatform(" YouTube ")
	assert.NoError(t, err)
	assert.Equal(t, model.PlatformYouTube, p)

	p, err = model.ParsePlatform("file")
	assert.NoError(t, err)
	assert.Equal(t, model.PlatformNative, p)

	_, err = model.ParsePlatform("vimeo")
	assert.Error(t, err)
}

func TestNewHistoryItem(t *testing.T) {
	url := "https://youtu.be/dQw4w9WgXcQ"
	item := model.NewHistoryItem(model.GetExamplePassport(), &url, model.PlatformYouTube)

	_, err := uuid.Parse(item.Id)
	assert.NoError(t, err)
	assert.WithinDuration(t, time.Now(), item.CreatedAt(), time.Second)
	require.NotNil(t, item.VideoURL)
	assert.Equal(t, url, *item.VideoURL)
}

func TestDurableURLDropsLocalReferences(t *testing.T) {
	for _, in := range []string{"blob:http://localhost/abc", "data:video/webm;base64,AAAA", "  "} {
		v := in
		assert.Nil(t, model.DurableURL(&v), in)
	}
	assert.Nil(t, model.DurableURL(nil))
}
