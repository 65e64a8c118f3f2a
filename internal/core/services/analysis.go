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
// runs the analysis workflows on behalf of the HTTP layer and the studio.
//
// The workflows are injected as cor commands so this package does not depend
// on how they are assembled. After a run the passport and the history item
// are read from the well-known context keys.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jaycherian/gcp-go-style-passport/internal/cloud"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/cor"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/model"
)

// ErrNotConfigured is returned when the workflow for an operation was not
// wired, typically because its model is missing from the configuration.
var ErrNotConfigured = errors.New("operation is not configured")

// AnalysisResult is a validated passport and the history entry recorded for
// it. Item is nil when no history is attached to the workflow.
type AnalysisResult struct {
	Passport *model.StylePassport `json:"passport"`
	Item     *model.HistoryItem   `json:"item,omitempty"`
}

// AnalysisService runs the media and reference analysis workflows.
type AnalysisService struct {
	Encoder   *MediaEncoder
	Media     cor.Command
	Reference cor.Command
}

func NewAnalysisService(encoder *MediaEncoder, media cor.Command, reference cor.Command) *AnalysisService {
	if encoder == nil {
		encoder = NewMediaEncoder()
	}
	return &AnalysisService{Encoder: encoder, Media: media, Reference: reference}
}

// AnalyzeMedia analyses an encoded video sent inline. The request is copied
// and forced into media mode.
func (s *AnalysisService) AnalyzeMedia(ctx context.Context, req model.AnalysisRequest) (*AnalysisResult, error) {
	if req.Payload == nil || req.Payload.Data == "" {
		return nil, ErrEmptyMedia
	}
	req.Mode = model.AnalysisModeMedia
	if req.Platform == "" {
		req.Platform = model.PlatformNative
	}
	return s.run(ctx, s.Media, &req)
}

// AnalyzeBlob encodes blob and analyses it in media mode. The blob's source
// URL is used for preview only and never reaches the history.
func (s *AnalysisService) AnalyzeBlob(ctx context.Context, blob *model.MediaBlob, metrics *model.Metrics, platform model.Platform) (*AnalysisResult, error) {
	payload, err := s.Encoder.Encode(ctx, blob)
	if err != nil {
		return nil, err
	}
	return s.AnalyzeMedia(ctx, model.AnalysisRequest{
		Payload:  &payload,
		URL:      blob.SourceURL,
		Metrics:  metrics,
		Platform: platform,
	})
}

// AnalyzeReference analyses a published video by URL. An empty platform is
// taken from the URL.
func (s *AnalysisService) AnalyzeReference(ctx context.Context, url string, platform model.Platform) (*AnalysisResult, error) {
	ref := Normalize(url)
	if strings.TrimSpace(ref.Cleaned) == "" {
		return nil, fmt.Errorf("a video URL is required")
	}
	if platform == "" {
		platform = ref.Platform
	}
	return s.run(ctx, s.Reference, &model.AnalysisRequest{
		Mode:     model.AnalysisModeReference,
		URL:      ref.Cleaned,
		Platform: platform,
	})
}

func (s *AnalysisService) run(ctx context.Context, workflow cor.Command, req *model.AnalysisRequest) (*AnalysisResult, error) {
	if workflow == nil {
		return nil, ErrNotConfigured
	}
	chainCtx := cor.NewContextWith(ctx, req)
	defer chainCtx.Close()

	if !workflow.IsExecutable(chainCtx) {
		return nil, fmt.Errorf("%s cannot run a %s analysis", workflow.GetName(), req.Mode)
	}
	workflow.Execute(chainCtx)
	if err := chainCtx.FirstError(); err != nil {
		return nil, err
	}

	passport, ok := chainCtx.Get(cloud.GetPassportName()).(*model.StylePassport)
	if !ok {
		return nil, model.ErrMalformedPassport
	}
	item, _ := chainCtx.Get(cloud.GetHistoryItemName()).(*model.HistoryItem)
	return &AnalysisResult{Passport: passport, Item: item}, nil
}
