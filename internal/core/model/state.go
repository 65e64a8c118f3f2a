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
// models the studio's application state as a plain value. Every change goes
// through a transition function that takes the current state and returns the
// next one, so the state can be held by whoever owns it (the HTTP server, the
// CLI, a test) without package-level singletons.
package model

import (
	"errors"
	"fmt"
	"strings"
)

// AppView is the screen the client should show.
type AppView string

const (
	ViewUpload    AppView = "upload"
	ViewDashboard AppView = "dashboard"
	ViewGenerate  AppView = "generate"
	ViewHistory   AppView = "history"
	ViewRoadmap   AppView = "roadmap"
)

// ParseView validates a view name.
func ParseView(in string) (AppView, error) {
	switch v := AppView(strings.ToLower(strings.TrimSpace(in))); v {
	case ViewUpload, ViewDashboard, ViewGenerate, ViewHistory, ViewRoadmap:
		return v, nil
	default:
		return "", fmt.Errorf("unknown view %q", in)
	}
}

// GenericAnalysisError is shown when the failure carries no usable message or
// the model returned an unusable document.
const GenericAnalysisError = "Analysis failed."

// AnalysisState is the current analysis as seen by the client.
type AnalysisState struct {
	IsAnalyzing bool           `json:"isAnalyzing"`
	Passport    *StylePassport `json:"passport"`
	VideoURL    *string        `json:"videoUrl"`
	Error       *string        `json:"error"`
}

// AppState is the whole client-visible state of one studio instance.
type AppState struct {
	View        AppView       `json:"view"`
	Platform    Platform      `json:"platform"`
	Analysis    AnalysisState `json:"analysis"`
	IsRecording bool          `json:"isRecording"`
}

// NewAppState returns the initial state: the upload screen with Instagram
// preselected.
func NewAppState() AppState {
	return AppState{View: ViewUpload, Platform: PlatformInstagram}
}

func strPtr(s string) *string {
	return &s
}

// SetView switches the screen.
func SetView(s AppState, v AppView) AppState {
	s.View = v
	return s
}

// ChangePlatform selects a platform and clears the preview URL and any error
// so stale input from another platform is not carried over.
func ChangePlatform(s AppState, p Platform) AppState {
	s.Platform = p
	s.Analysis.VideoURL = nil
	s.Analysis.Error = nil
	return s
}

// BeginAnalysis marks an analysis in flight. The previous passport stays
// visible until a new one replaces it.
func BeginAnalysis(s AppState, videoURL string) AppState {
	s.Analysis.IsAnalyzing = true
	s.Analysis.Error = nil
	if videoURL != "" {
		s.Analysis.VideoURL = strPtr(videoURL)
	} else {
		s.Analysis.VideoURL = nil
	}
	return s
}

// CompleteAnalysis installs a validated passport and moves to the dashboard.
func CompleteAnalysis(s AppState, p *StylePassport) AppState {
	s.Analysis.IsAnalyzing = false
	s.Analysis.Passport = p
	s.Analysis.Error = nil
	s.View = ViewDashboard
	return s
}

// FailAnalysis clears the in-flight flag and records a user-visible message.
// The passport from an earlier analysis is left untouched.
func FailAnalysis(s AppState, err error) AppState {
	s.Analysis.IsAnalyzing = false
	s.Analysis.Error = strPtr(AnalysisErrorMessage(err))
	return s
}

// AnalysisErrorMessage picks the message shown for a failed analysis:
// backend errors verbatim, malformed documents generically.
func AnalysisErrorMessage(err error) string {
	if err == nil || errors.Is(err, ErrMalformedPassport) {
		return GenericAnalysisError
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return GenericAnalysisError
}

// SelectHistory reopens a stored analysis on the dashboard.
func SelectHistory(s AppState, item HistoryItem) AppState {
	s.Analysis = AnalysisState{Passport: item.Passport, VideoURL: item.VideoURL}
	s.View = ViewDashboard
	return s
}

// BeginRecording flags an active capture and clears the previous error.
func BeginRecording(s AppState) AppState {
	s.IsRecording = true
	s.Analysis.Error = nil
	return s
}

// EndRecording clears the capture flag.
func EndRecording(s AppState) AppState {
	s.IsRecording = false
	return s
}

// FailCapture records a capture error message. Capture errors are terminal
// for the attempt; the user starts again manually.
func FailCapture(s AppState, message string) AppState {
	s.IsRecording = false
	s.Analysis.Error = strPtr(message)
	return s
}

// DismissError clears the visible error.
func DismissError(s AppState) AppState {
	s.Analysis.Error = nil
	return s
}
