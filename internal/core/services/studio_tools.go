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

// Package services contains the business logic of the studio. This file
// exposes the generation tools built on a passport or on the history.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jaycherian/gcp-go-style-passport/internal/cloud"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/cor"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/model"
)

const (
	MinComparisonItems = 2
	MaxComparisonItems = 5
)

// ErrComparisonSize is returned when fewer than two or more than five videos
// are compared.
var ErrComparisonSize = fmt.Errorf("a comparison needs between %d and %d videos", MinComparisonItems, MaxComparisonItems)

// GenericComparisonMessage replaces an empty comparison report.
const GenericComparisonMessage = "Could not generate the analysis."

// StudioService runs the generation workflows. Each call is one Gemini
// request; nothing is retried.
type StudioService struct {
	Script      cor.Command
	Comparison  cor.Command
	InterestMap cor.Command
	Ideas       cor.Command
}

func runGeneration(ctx context.Context, workflow cor.Command, input interface{}) (interface{}, error) {
	if workflow == nil {
		return nil, ErrNotConfigured
	}
	chainCtx := cor.NewContextWith(ctx, input)
	defer chainCtx.Close()

	workflow.Execute(chainCtx)
	if err := chainCtx.FirstError(); err != nil {
		return nil, err
	}
	return chainCtx.Get(cor.CtxIn), nil
}

// GenerateScript writes a timed script for topic in the style of passport.
func (s *StudioService) GenerateScript(ctx context.Context, topic string, passport *model.StylePassport) ([]model.ScriptLine, error) {
	out, err := runGeneration(ctx, s.Script, &model.ScriptRequest{Topic: topic, Passport: passport})
	if err != nil {
		return nil, err
	}
	script, ok := out.(*[]model.ScriptLine)
	if !ok {
		return nil, fmt.Errorf("unexpected script result %T", out)
	}
	return *script, nil
}

// CompareVideos writes a plain-text report comparing two to five items. An
// empty reply yields GenericComparisonMessage.
func (s *StudioService) CompareVideos(ctx context.Context, items []model.HistoryItem) (string, error) {
	if len(items) < MinComparisonItems || len(items) > MaxComparisonItems {
		return "", ErrComparisonSize
	}
	out, err := runGeneration(ctx, s.Comparison, &model.ComparisonRequest{Items: items})
	if errors.Is(err, cloud.ErrEmptyResponse) {
		return GenericComparisonMessage, nil
	}
	if err != nil {
		return "", err
	}
	text, _ := out.(string)
	if text == "" {
		return GenericComparisonMessage, nil
	}
	return text, nil
}

// GenerateInterestMap fuses two interests into a node graph.
func (s *StudioService) GenerateInterestMap(ctx context.Context, interestA, interestB string) (*model.RoadmapData, error) {
	out, err := runGeneration(ctx, s.InterestMap, &model.InterestMapRequest{InterestA: interestA, InterestB: interestB})
	if err != nil {
		return nil, err
	}
	roadmap, ok := out.(*model.RoadmapData)
	if !ok {
		return nil, fmt.Errorf("unexpected interest map result %T", out)
	}
	return roadmap, nil
}

// GenerateContentIdeas suggests ideas for topic. latest may be nil.
func (s *StudioService) GenerateContentIdeas(ctx context.Context, topic string, latest *model.StylePassport) ([]model.ContentIdea, error) {
	out, err := runGeneration(ctx, s.Ideas, &model.IdeasRequest{Topic: topic, Latest: latest})
	if err != nil {
		return nil, err
	}
	ideas, ok := out.(*[]model.ContentIdea)
	if !ok {
		return nil, fmt.Errorf("unexpected ideas result %T", out)
	}
	return *ideas, nil
}
