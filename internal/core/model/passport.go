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

// Package model defines the data structures for the application. This file,
// `passport.go`, holds the Style Passport: the structured result returned by
// the generative model after it analyzes a single short-form video.
//
// The passport is produced entirely by the model. The service never computes
// any of its numbers; it only checks that the returned document honours the
// response contract before anything downstream (state, history, exports) is
// allowed to see it.
//
// Structs:
//   - StylePassport: The root analysis document.
//   - StyleMetrics: Pacing and tone measurements, including the emotional spectrum.
//   - EmotionalAxis: One labelled emotion with a 0-100 intensity score.
//   - VideoSegment: One time range of the narrative structure.
//   - EngagementMetrics: Optional audience interaction numbers.
package model

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrMalformedPassport is returned when the model output does not satisfy the
// passport contract. Callers must never install a passport that failed with it.
var ErrMalformedPassport = errors.New("malformed style passport")

// SegmentType classifies a time range of the video's narrative structure.
type SegmentType string

const (
	SegmentHook   SegmentType = "Hook"
	SegmentBody   SegmentType = "Body"
	SegmentClimax SegmentType = "Climax"
	SegmentCTA    SegmentType = "CTA"
	SegmentBridge SegmentType = "Bridge"
)

// SegmentTypes lists the closed segment taxonomy in presentation order.
var SegmentTypes = []SegmentType{SegmentHook, SegmentBody, SegmentClimax, SegmentCTA, SegmentBridge}

// Valid reports whether the segment type belongs to the fixed taxonomy.
func (s SegmentType) Valid() bool {
	for _, t := range SegmentTypes {
		if s == t {
			return true
		}
	}
	return false
}

// timeRangePattern accepts "MM:SS-MM:SS" with optional spaces around the dash.
// Longer videos sometimes come back as "H:MM:SS", so an hour field is tolerated.
var timeRangePattern = regexp.MustCompile(`^\d{1,2}(:\d{2}){1,2}\s*-\s*\d{1,2}(:\d{2}){1,2}$`)

// EmotionalAxis is one labelled emotion of the emotional spectrum.
type EmotionalAxis struct {
	Label string  `json:"label"`
	Score float64 `json:"score"` // 0-100
}

// StyleMetrics captures the creator's pacing and tone.
type StyleMetrics struct {
	WordsPerMinute    float64         `json:"words_per_minute"`
	DominantEmotion   string          `json:"dominant_emotion"`
	EmotionalSpectrum []EmotionalAxis `json:"emotional_spectrum"`
	SignaturePhrases  []string        `json:"signature_phrases"`
}

// VideoSegment is one entry of the ordered video structure.
type VideoSegment struct {
	TimeRange   string      `json:"time_range"` // "MM:SS-MM:SS"
	SegmentType SegmentType `json:"segment_type"`
	Description string      `json:"description"`
}

// EngagementMetrics holds audience numbers. When the caller supplied no
// metrics these may have been read off the video frames by the model and are
// therefore unverified.
type EngagementMetrics struct {
	Views          float64 `json:"views"`
	Likes          float64 `json:"likes"`
	Comments       float64 `json:"comments"`
	EngagementRate string  `json:"engagement_rate,omitempty"`
	ViralityScore  float64 `json:"virality_score,omitempty"` // 0-100
}

// StylePassport is the complete analysis of one video.
type StylePassport struct {
	CreatorProfileSummary    string             `json:"creator_profile_summary"`
	RetentionFormulaInsights []string           `json:"retention_formula_insights"`
	StyleMetrics             StyleMetrics       `json:"style_metrics"`
	VideoStructure           []VideoSegment     `json:"video_structure"`
	EngagementMetrics        *EngagementMetrics `json:"engagement_metrics,omitempty"`
}

// Validate checks the passport against the response contract. Every problem
// found is reported, wrapped in ErrMalformedPassport.
func (p *StylePassport) Validate() error {
	if p == nil {
		return fmt.Errorf("%w: empty document", ErrMalformedPassport)
	}
	problems := make([]string, 0)
	if strings.TrimSpace(p.CreatorProfileSummary) == "" {
		problems = append(problems, "creator_profile_summary is required")
	}
	if p.RetentionFormulaInsights == nil {
		problems = append(problems, "retention_formula_insights is required")
	}
	if p.StyleMetrics.WordsPerMinute < 0 {
		problems = append(problems, "style_metrics.words_per_minute must not be negative")
	}
	if strings.TrimSpace(p.StyleMetrics.DominantEmotion) == "" {
		problems = append(problems, "style_metrics.dominant_emotion is required")
	}
	if p.StyleMetrics.EmotionalSpectrum == nil {
		problems = append(problems, "style_metrics.emotional_spectrum is required")
	}
	for i, axis := range p.StyleMetrics.EmotionalSpectrum {
		if strings.TrimSpace(axis.Label) == "" {
			problems = append(problems, fmt.Sprintf("style_metrics.emotional_spectrum[%d].label is required", i))
		}
		if axis.Score < 0 || axis.Score > 100 {
			problems = append(problems, fmt.Sprintf("style_metrics.emotional_spectrum[%d].score %.2f outside 0-100", i, axis.Score))
		}
	}
	if p.StyleMetrics.SignaturePhrases == nil {
		problems = append(problems, "style_metrics.signature_phrases is required")
	}
	if p.VideoStructure == nil {
		problems = append(problems, "video_structure is required")
	}
	for i, seg := range p.VideoStructure {
		if !timeRangePattern.MatchString(strings.TrimSpace(seg.TimeRange)) {
			problems = append(problems, fmt.Sprintf("video_structure[%d].time_range %q is not MM:SS-MM:SS", i, seg.TimeRange))
		}
		if !seg.SegmentType.Valid() {
			problems = append(problems, fmt.Sprintf("video_structure[%d].segment_type %q is not in the taxonomy", i, seg.SegmentType))
		}
	}
	if m := p.EngagementMetrics; m != nil {
		if m.Views < 0 || m.Likes < 0 || m.Comments < 0 {
			problems = append(problems, "engagement_metrics counts must not be negative")
		}
		if m.ViralityScore < 0 || m.ViralityScore > 100 {
			problems = append(problems, fmt.Sprintf("engagement_metrics.virality_score %.2f outside 0-100", m.ViralityScore))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrMalformedPassport, strings.Join(problems, "; "))
	}
	return nil
}
