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

// Package model defines the data structures for the application. This file
// holds the outputs of the studio tools that build on a finished passport:
// generated scripts, the interest map and content ideas.
package model

import (
	"fmt"
	"strings"
)

// ScriptLine is one timed beat of a generated script.
type ScriptLine struct {
	TimeRange string `json:"time_range"`
	Visual    string `json:"visual"`
	Audio     string `json:"audio"`
}

// ValidateScript rejects scripts with empty beats.
func ValidateScript(lines []ScriptLine) error {
	for i, l := range lines {
		if strings.TrimSpace(l.TimeRange) == "" || (strings.TrimSpace(l.Visual) == "" && strings.TrimSpace(l.Audio) == "") {
			return fmt.Errorf("script line %d is incomplete", i)
		}
	}
	return nil
}

// NodeType classifies a node of the interest map.
type NodeType string

const (
	NodeCore         NodeType = "core"
	NodeIntersection NodeType = "intersection"
	NodeRelated      NodeType = "related"
)

// RoadmapNode is positioned in percent of the canvas (0-100 on both axes).
type RoadmapNode struct {
	Id          string   `json:"id"`
	Label       string   `json:"label"`
	Description string   `json:"description"`
	Type        NodeType `json:"type"`
	X           float64  `json:"x"`
	Y           float64  `json:"y"`
}

// RoadmapEdge links two nodes by id.
type RoadmapEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// RoadmapData is the interest map built from two interests.
type RoadmapData struct {
	Nodes []RoadmapNode `json:"nodes"`
	Edges []RoadmapEdge `json:"edges"`
}

// ClampPercent keeps a canvas coordinate inside 0-100.
func ClampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// Normalize clamps every node onto the canvas and drops edges that point at
// unknown nodes.
func (r *RoadmapData) Normalize() error {
	ids := make(map[string]bool, len(r.Nodes))
	for i := range r.Nodes {
		n := &r.Nodes[i]
		switch n.Type {
		case NodeCore, NodeIntersection, NodeRelated:
		default:
			return fmt.Errorf("node %q has unknown type %q", n.Id, n.Type)
		}
		n.X = ClampPercent(n.X)
		n.Y = ClampPercent(n.Y)
		ids[n.Id] = true
	}
	edges := make([]RoadmapEdge, 0, len(r.Edges))
	for _, e := range r.Edges {
		if ids[e.From] && ids[e.To] {
			edges = append(edges, e)
		}
	}
	if r.Nodes == nil {
		r.Nodes = make([]RoadmapNode, 0)
	}
	r.Edges = edges
	return nil
}

// MoveNode repositions a node, clamping to the canvas. It returns false when
// the node does not exist.
func (r *RoadmapData) MoveNode(id string, x, y float64) bool {
	for i := range r.Nodes {
		if r.Nodes[i].Id == id {
			r.Nodes[i].X = ClampPercent(x)
			r.Nodes[i].Y = ClampPercent(y)
			return true
		}
	}
	return false
}

// ContentIdea is one suggested short-form video.
type ContentIdea struct {
	Title      string `json:"title"`
	Hook       string `json:"hook"`
	Format     string `json:"format"`
	WhyItWorks string `json:"why_it_works"`
}

// ComparisonEntry is the compact view of a history item sent to the model
// when several videos are compared.
type ComparisonEntry struct {
	Id        int                `json:"id"`
	Platform  Platform           `json:"platform"`
	Metrics   *EngagementMetrics `json:"metrics"`
	Summary   string             `json:"summary"`
	Emotions  string             `json:"emotions"`
	WPM       float64            `json:"wpm"`
	Structure []VideoSegment     `json:"structure"`
}

// NewComparisonEntries numbers the items from one in the given order.
func NewComparisonEntries(items []HistoryItem) []ComparisonEntry {
	out := make([]ComparisonEntry, 0, len(items))
	for i, item := range items {
		e := ComparisonEntry{Id: i + 1, Platform: item.Platform}
		if p := item.Passport; p != nil {
			e.Metrics = p.EngagementMetrics
			e.Summary = p.CreatorProfileSummary
			e.Emotions = p.StyleMetrics.DominantEmotion
			e.WPM = p.StyleMetrics.WordsPerMinute
			e.Structure = p.VideoStructure
		}
		out = append(out, e)
	}
	return out
}

// ScriptRequest asks for a script on Topic in the style of Passport.
type ScriptRequest struct {
	Topic    string         `json:"topic"`
	Passport *StylePassport `json:"passport"`
}

// ComparisonRequest asks for a comparative report over history items.
type ComparisonRequest struct {
	Items []HistoryItem `json:"items"`
}

// InterestMapRequest asks for the fusion map of two interests.
type InterestMapRequest struct {
	InterestA string `json:"interest_a"`
	InterestB string `json:"interest_b"`
}

// IdeasRequest asks for content ideas on Topic. Latest is the most recent
// passport, used as style context when present.
type IdeasRequest struct {
	Topic  string         `json:"topic"`
	Latest *StylePassport `json:"latest,omitempty"`
}
