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

package services

import (
	"github.com/jaycherian/gcp-go-style-passport/internal/core/model"
)

// DashboardStats aggregates the history for the dashboard.
type DashboardStats struct {
	Total              int                       `json:"total"`
	PerPlatform        map[model.Platform]int    `json:"per_platform"`
	MeanWordsPerMinute float64                   `json:"mean_words_per_minute"`
	MeanViralityScore  float64                   `json:"mean_virality_score"`
	SegmentCounts      map[model.SegmentType]int `json:"segment_counts"`
	TopEmotion         string                    `json:"top_emotion"`
}

// ComputeStats summarizes items. Means skip items without the value; the
// top emotion is the most frequent one, ties going to the more recent item.
func ComputeStats(items []model.HistoryItem) DashboardStats {
	out := DashboardStats{
		Total:         len(items),
		PerPlatform:   make(map[model.Platform]int),
		SegmentCounts: make(map[model.SegmentType]int),
	}

	var wpmSum, viralitySum float64
	var wpmN, viralityN int
	emotions := make(map[string]int)
	order := make([]string, 0)

	for _, item := range items {
		out.PerPlatform[item.Platform]++
		p := item.Passport
		if p == nil {
			continue
		}
		if p.StyleMetrics.WordsPerMinute > 0 {
			wpmSum += p.StyleMetrics.WordsPerMinute
			wpmN++
		}
		if p.EngagementMetrics != nil {
			viralitySum += p.EngagementMetrics.ViralityScore
			viralityN++
		}
		for _, seg := range p.VideoStructure {
			out.SegmentCounts[seg.SegmentType]++
		}
		if e := p.StyleMetrics.DominantEmotion; e != "" {
			if emotions[e] == 0 {
				order = append(order, e)
			}
			emotions[e]++
		}
	}

	if wpmN > 0 {
		out.MeanWordsPerMinute = wpmSum / float64(wpmN)
	}
	if viralityN > 0 {
		out.MeanViralityScore = viralitySum / float64(viralityN)
	}
	best := 0
	for _, e := range order {
		if emotions[e] > best {
			best = emotions[e]
			out.TopEmotion = e
		}
	}
	return out
}
