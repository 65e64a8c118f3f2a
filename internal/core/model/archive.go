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

package model

import (
	"encoding/json"
	"time"
)

// PassportRecord is the flattened row archived to BigQuery for every
// analysis. The complete passport is kept as a JSON string so the table
// schema does not follow every change of the document.
type PassportRecord struct {
	Id              string    `json:"id" bigquery:"id"`
	CreateDate      time.Time `json:"create_date" bigquery:"create_date"`
	Platform        string    `json:"platform" bigquery:"platform"`
	VideoURL        string    `json:"video_url" bigquery:"video_url"`
	Summary         string    `json:"summary" bigquery:"summary"`
	WordsPerMinute  float64   `json:"words_per_minute" bigquery:"words_per_minute"`
	DominantEmotion string    `json:"dominant_emotion" bigquery:"dominant_emotion"`
	Views           float64   `json:"views" bigquery:"views"`
	Likes           float64   `json:"likes" bigquery:"likes"`
	Comments        float64   `json:"comments" bigquery:"comments"`
	ViralityScore   float64   `json:"virality_score" bigquery:"virality_score"`
	PassportJSON    string    `json:"passport_json" bigquery:"passport_json"`
}

// NewPassportRecord flattens a history item.
func NewPassportRecord(item *HistoryItem) (*PassportRecord, error) {
	doc, err := json.Marshal(item.Passport)
	if err != nil {
		return nil, err
	}
	out := &PassportRecord{
		Id:           item.Id,
		CreateDate:   item.CreatedAt().UTC(),
		Platform:     string(item.Platform),
		PassportJSON: string(doc),
	}
	if item.VideoURL != nil {
		out.VideoURL = *item.VideoURL
	}
	if p := item.Passport; p != nil {
		out.Summary = p.CreatorProfileSummary
		out.WordsPerMinute = p.StyleMetrics.WordsPerMinute
		out.DominantEmotion = p.StyleMetrics.DominantEmotion
		if m := p.EngagementMetrics; m != nil {
			out.Views = m.Views
			out.Likes = m.Likes
			out.Comments = m.Comments
			out.ViralityScore = m.ViralityScore
		}
	}
	return out, nil
}
