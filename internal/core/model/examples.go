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
// `examples.go`, provides factory functions for hardcoded example instances of
// the data models.
//
// The examples are rendered into prompts as "few-shot" samples so the model
// sees the exact JSON shape it is expected to return. They are also convenient
// fixtures for tests.
package model

// GetExamplePassport creates a sample StylePassport for a fast-paced talking
// head short.
func GetExamplePassport() *StylePassport {
	return &StylePassport{
		CreatorProfileSummary: "High-energy explainer who opens with a bold claim, proves it with quick cuts and closes on a direct question to the viewer.",
		RetentionFormulaInsights: []string{
			"Pattern interrupt in the first second with a zoom-in and raised voice.",
			"Text overlay repeats every spoken number so muted viewers follow along.",
			"The payoff is teased at 0:05 and delivered only at the end.",
		},
		StyleMetrics: StyleMetrics{
			WordsPerMinute:  182,
			DominantEmotion: "Excitement",
			EmotionalSpectrum: []EmotionalAxis{
				{Label: "Excitement", Score: 85},
				{Label: "Curiosity", Score: 70},
				{Label: "Humor", Score: 40},
				{Label: "Trust", Score: 55},
				{Label: "Urgency", Score: 60},
			},
			SignaturePhrases: []string{"Here's the thing", "Stay till the end", "Comment your answer"},
		},
		VideoStructure: []VideoSegment{
			{TimeRange: "00:00-00:03", SegmentType: SegmentHook, Description: "Bold claim to camera with a fast zoom."},
			{TimeRange: "00:03-00:20", SegmentType: SegmentBody, Description: "Three quick proofs, one cut per proof."},
			{TimeRange: "00:20-00:26", SegmentType: SegmentClimax, Description: "The teased payoff is revealed."},
			{TimeRange: "00:26-00:30", SegmentType: SegmentCTA, Description: "Asks viewers to comment their own answer."},
		},
		EngagementMetrics: &EngagementMetrics{
			Views:          125000,
			Likes:          9800,
			Comments:       430,
			EngagementRate: "8.2%",
			ViralityScore:  74,
		},
	}
}

// GetExampleScript creates a sample script in the shape returned by the
// script generator.
func GetExampleScript() []ScriptLine {
	return []ScriptLine{
		{TimeRange: "00:00-00:03", Visual: "Close-up, fast zoom on the presenter.", Audio: "You are brewing coffee wrong."},
		{TimeRange: "00:03-00:15", Visual: "Overhead shot of the scale and grinder.", Audio: "Fifteen grams, medium grind, water just off the boil."},
		{TimeRange: "00:15-00:20", Visual: "Presenter points at the camera.", Audio: "Try it tomorrow and tell me the difference."},
	}
}

// GetExampleRoadmap creates a small interest map with one node of each type.
func GetExampleRoadmap() *RoadmapData {
	return &RoadmapData{
		Nodes: []RoadmapNode{
			{Id: "a", Label: "Cooking", Description: "First interest", Type: NodeCore, X: 20, Y: 50},
			{Id: "b", Label: "Travel", Description: "Second interest", Type: NodeCore, X: 80, Y: 50},
			{Id: "c", Label: "Street food tours", Description: "Where both interests meet", Type: NodeIntersection, X: 50, Y: 50},
			{Id: "d", Label: "Market vlogs", Description: "Short walks through local markets", Type: NodeRelated, X: 50, Y: 20},
		},
		Edges: []RoadmapEdge{{From: "a", To: "c"}, {From: "b", To: "c"}, {From: "c", To: "d"}},
	}
}

// GetExampleIdeas creates sample content ideas.
func GetExampleIdeas() []ContentIdea {
	return []ContentIdea{
		{Title: "One-minute myth check", Hook: "Everyone says this, and it's wrong.", Format: "Talking head with overlays", WhyItWorks: "Opens a loop the viewer wants closed."},
	}
}
