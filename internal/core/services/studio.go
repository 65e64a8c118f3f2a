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
// holds Studio, the owner of the client-visible application state.
//
// Studio serializes state changes behind a mutex and applies the pure
// transitions from the model package. Analyses are single-flight: a second
// request while one is running is rejected with ErrAnalysisInFlight. The
// inference call itself runs outside the lock.
package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/jaycherian/gcp-go-style-passport/internal/core/capture"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/model"
)

// ErrAnalysisInFlight is returned when an analysis is already running.
var ErrAnalysisInFlight = errors.New("an analysis is already in progress")

type Studio struct {
	mu       sync.Mutex
	state    model.AppState
	roadmap  *model.RoadmapData
	analysis *AnalysisService
	history  *HistoryStore
	capture  *capture.Manager
}

// NewStudio starts from the initial state. capture may be nil when the host
// cannot record its display.
func NewStudio(analysis *AnalysisService, history *HistoryStore, capture *capture.Manager) *Studio {
	return &Studio{state: model.NewAppState(), analysis: analysis, history: history, capture: capture}
}

// State returns a snapshot of the state. A capture that died on a device
// error is reported here, since nothing else observes it.
func (s *Studio) State() model.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.IsRecording && s.capture != nil && s.capture.Active() == nil {
		if last := s.capture.Last(); last != nil && last.Err() != nil {
			s.state = model.FailCapture(s.state, capture.Classify(last.Err()).Message)
		}
	}
	return s.state
}

func (s *Studio) update(fn func(model.AppState) model.AppState) model.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = fn(s.state)
	return s.state
}

func (s *Studio) begin(videoURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Analysis.IsAnalyzing {
		return ErrAnalysisInFlight
	}
	s.state = model.BeginAnalysis(s.state, videoURL)
	return nil
}

func (s *Studio) finish(ctx context.Context, result *AnalysisResult, err error) (*AnalysisResult, error) {
	if err != nil {
		slog.WarnContext(ctx, "analysis failed", "error", err)
		s.update(func(st model.AppState) model.AppState { return model.FailAnalysis(st, err) })
		return nil, err
	}
	s.update(func(st model.AppState) model.AppState { return model.CompleteAnalysis(st, result.Passport) })
	return result, nil
}

// AnalyzeMedia runs a media analysis and installs the passport.
func (s *Studio) AnalyzeMedia(ctx context.Context, req model.AnalysisRequest) (*AnalysisResult, error) {
	if err := s.begin(req.URL); err != nil {
		return nil, err
	}
	result, err := s.analysis.AnalyzeMedia(ctx, req)
	return s.finish(ctx, result, err)
}

// AnalyzeBlob encodes and analyses finalized media.
func (s *Studio) AnalyzeBlob(ctx context.Context, blob *model.MediaBlob, metrics *model.Metrics, platform model.Platform) (*AnalysisResult, error) {
	if err := s.begin(blob.SourceURL); err != nil {
		return nil, err
	}
	result, err := s.analysis.AnalyzeBlob(ctx, blob, metrics, platform)
	return s.finish(ctx, result, err)
}

// AnalyzeReference runs a search-grounded analysis of url.
func (s *Studio) AnalyzeReference(ctx context.Context, url string, platform model.Platform) (*AnalysisResult, error) {
	if err := s.begin(Normalize(url).Cleaned); err != nil {
		return nil, err
	}
	result, err := s.analysis.AnalyzeReference(ctx, url, platform)
	return s.finish(ctx, result, err)
}

// StartCapture begins a screen capture. Capture failures are terminal for
// the attempt and are shown to the user; a busy manager is not.
func (s *Studio) StartCapture(ctx context.Context, opts capture.StartOptions) (*capture.Session, error) {
	if s.capture == nil {
		err := capture.NewError(capture.KindUnsupported, capture.ErrNotSupported)
		s.update(func(st model.AppState) model.AppState { return model.FailCapture(st, err.Message) })
		return nil, err
	}
	session, err := s.capture.Start(ctx, opts)
	if errors.Is(err, capture.ErrSessionBusy) {
		return nil, err
	}
	if err != nil {
		msg := capture.Classify(err).Message
		s.update(func(st model.AppState) model.AppState { return model.FailCapture(st, msg) })
		return nil, err
	}
	s.update(model.BeginRecording)
	return session, nil
}

// StopCapture finalizes the capture and analyses the recording. With no
// active capture it returns (nil, nil).
func (s *Studio) StopCapture(ctx context.Context, metrics *model.Metrics) (*AnalysisResult, error) {
	if s.capture == nil {
		return nil, nil
	}
	blob, err := s.capture.Stop(ctx)
	if err != nil {
		msg := capture.Classify(err).Message
		s.update(func(st model.AppState) model.AppState { return model.FailCapture(st, msg) })
		return nil, err
	}
	s.update(model.EndRecording)
	if blob == nil {
		return nil, nil
	}
	return s.AnalyzeBlob(ctx, blob, metrics, model.PlatformNative)
}

// SelectHistory reopens a stored analysis.
func (s *Studio) SelectHistory(id string) (model.AppState, error) {
	item, err := s.history.Get(id)
	if err != nil {
		return s.State(), err
	}
	return s.update(func(st model.AppState) model.AppState { return model.SelectHistory(st, *item) }), nil
}

func (s *Studio) SetView(v model.AppView) model.AppState {
	return s.update(func(st model.AppState) model.AppState { return model.SetView(st, v) })
}

func (s *Studio) ChangePlatform(p model.Platform) model.AppState {
	return s.update(func(st model.AppState) model.AppState { return model.ChangePlatform(st, p) })
}

func (s *Studio) DismissError() model.AppState {
	return s.update(model.DismissError)
}

// CaptureStatus describes the active or most recent capture, or nil.
func (s *Studio) CaptureStatus() *capture.Info {
	if s.capture == nil {
		return nil
	}
	session := s.capture.Active()
	if session == nil {
		session = s.capture.Last()
	}
	if session == nil {
		return nil
	}
	info := session.Info()
	return &info
}

// SetRoadmap keeps the interest map the client is editing.
func (s *Studio) SetRoadmap(r *model.RoadmapData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roadmap = r
}

// Roadmap returns a copy of the current interest map, or nil.
func (s *Studio) Roadmap() *model.RoadmapData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyRoadmap(s.roadmap)
}

// MoveRoadmapNode drags a node of the current interest map. Coordinates are
// clamped to 0..100.
func (s *Studio) MoveRoadmapNode(id string, x, y float64) (*model.RoadmapData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.roadmap == nil || !s.roadmap.MoveNode(id, x, y) {
		return nil, ErrNotFound
	}
	return copyRoadmap(s.roadmap), nil
}

func copyRoadmap(r *model.RoadmapData) *model.RoadmapData {
	if r == nil {
		return nil
	}
	return &model.RoadmapData{
		Nodes: append([]model.RoadmapNode(nil), r.Nodes...),
		Edges: append([]model.RoadmapEdge(nil), r.Edges...),
	}
}
