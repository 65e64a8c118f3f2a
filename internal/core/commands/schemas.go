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

// This file holds the response schemas sent with every JSON request. They
// mirror the model package types field for field.
package commands

import (
	"github.com/jaycherian/gcp-go-style-passport/internal/core/model"
	"google.golang.org/genai"
)

func stringSchema() *genai.Schema {
	return &genai.Schema{Type: genai.TypeString}
}

func numberSchema() *genai.Schema {
	return &genai.Schema{Type: genai.TypeNumber}
}

func stringArraySchema() *genai.Schema {
	return &genai.Schema{Type: genai.TypeArray, Items: stringSchema()}
}

// PassportSchema is the response contract of both analysis modes.
func PassportSchema() *genai.Schema {
	segmentTypes := make([]string, 0, len(model.SegmentTypes))
	for _, t := range model.SegmentTypes {
		segmentTypes = append(segmentTypes, string(t))
	}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"creator_profile_summary":    stringSchema(),
			"retention_formula_insights": stringArraySchema(),
			"engagement_metrics": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"views":           numberSchema(),
					"likes":           numberSchema(),
					"comments":        numberSchema(),
					"engagement_rate": stringSchema(),
					"virality_score":  numberSchema(),
				},
				Required: []string{"views", "likes", "comments", "engagement_rate", "virality_score"},
			},
			"style_metrics": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"words_per_minute": numberSchema(),
					"dominant_emotion": stringSchema(),
					"emotional_spectrum": {
						Type: genai.TypeArray,
						Items: &genai.Schema{
							Type: genai.TypeObject,
							Properties: map[string]*genai.Schema{
								"label": stringSchema(),
								"score": numberSchema(),
							},
							Required: []string{"label", "score"},
						},
					},
					"signature_phrases": stringArraySchema(),
				},
				Required: []string{"words_per_minute", "dominant_emotion", "emotional_spectrum", "signature_phrases"},
			},
			"video_structure": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"time_range":   stringSchema(),
						"segment_type": {Type: genai.TypeString, Enum: segmentTypes},
						"description":  stringSchema(),
					},
					Required: []string{"time_range", "segment_type", "description"},
				},
			},
		},
		Required: []string{"creator_profile_summary", "retention_formula_insights", "style_metrics", "video_structure"},
	}
}

// ScriptSchema is an array of timed beats.
func ScriptSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"time_range": stringSchema(),
				"visual":     stringSchema(),
				"audio":      stringSchema(),
			},
			Required: []string{"time_range", "visual", "audio"},
		},
	}
}

// RoadmapSchema is the interest map graph.
func RoadmapSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"nodes": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"id":          stringSchema(),
						"label":       stringSchema(),
						"description": stringSchema(),
						"type": {
							Type: genai.TypeString,
							Enum: []string{string(model.NodeCore), string(model.NodeIntersection), string(model.NodeRelated)},
						},
						"x": numberSchema(),
						"y": numberSchema(),
					},
					Required: []string{"id", "label", "description", "type", "x", "y"},
				},
			},
			"edges": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"from": stringSchema(),
						"to":   stringSchema(),
					},
					Required: []string{"from", "to"},
				},
			},
		},
		Required: []string{"nodes", "edges"},
	}
}

// IdeasSchema is an array of content ideas.
func IdeasSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"title":        stringSchema(),
				"hook":         stringSchema(),
				"format":       stringSchema(),
				"why_it_works": stringSchema(),
			},
			Required: []string{"title", "hook", "format", "why_it_works"},
		},
	}
}
