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

// Package model defines the core data structures for the application.
// This file, `transient.go`, contains the objects that only live for the
// duration of one request: captured media, encoded payloads and the analysis
// request handed to the workflows. None of them are persisted.
package model

// DefaultMediaMIMEType is used when neither the recorder nor the upload
// declared a container type.
const DefaultMediaMIMEType = "video/webm"

// MediaBlob is a finalized piece of media held in memory.
type MediaBlob struct {
	Data     []byte
	MIMEType string
	// SourceURL is the process-local reference the client used for preview,
	// e.g. "blob:..." for captures. It is never persisted.
	SourceURL string
}

// Size returns the blob length in bytes.
func (b *MediaBlob) Size() int {
	if b == nil {
		return 0
	}
	return len(b.Data)
}

// Base64Payload is a transport-safe encoding of a MediaBlob.
type Base64Payload struct {
	Data     string `json:"data"`
	MIMEType string `json:"mime_type"`
}

// Metrics are the engagement counts a user may type in before analysis.
type Metrics struct {
	Views    int64 `json:"views"`
	Likes    int64 `json:"likes"`
	Comments int64 `json:"comments"`
}

// HasUserMetrics reports whether any count is non-zero. All zeros means the
// user left the fields empty.
func (m *Metrics) HasUserMetrics() bool {
	return m != nil && (m.Views > 0 || m.Likes > 0 || m.Comments > 0)
}

// AnalysisMode selects how the model gets access to the video.
type AnalysisMode string

const (
	// AnalysisModeMedia sends the encoded video inline.
	AnalysisModeMedia AnalysisMode = "media"
	// AnalysisModeReference sends only the URL and relies on search grounding.
	AnalysisModeReference AnalysisMode = "reference"
)

// AnalysisRequest is constructed per invocation and never stored.
type AnalysisRequest struct {
	Mode     AnalysisMode
	Payload  *Base64Payload // media mode
	URL      string         // reference mode, or the preview URL in media mode
	Metrics  *Metrics       // optional
	Platform Platform
}
