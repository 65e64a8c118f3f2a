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

// Package cloud contains data structures and utilities for interacting with
// Google Cloud services. This file defines the context keys and messages that
// travel through the workflows: the Pub/Sub analysis request, the decoded
// passport, the history item and the GCS object an export is published to.
package cloud

// GetAnalysisRequestName is the context key the *model.AnalysisRequest of a
// running analysis is stored under.
func GetAnalysisRequestName() string {
	return "__ANALYSIS__REQ__"
}

// GetGCSObjectName is the context key a published GCS object is stored under.
func GetGCSObjectName() string {
	return "__GCS__OBJ__"
}

// GetPassportName is the context key of the decoded passport.
func GetPassportName() string {
	return "__PASSPORT__"
}

// GetHistoryItemName is the context key of the history item created for an
// analysis.
func GetHistoryItemName() string {
	return "__HISTORY__ITEM__"
}

// GetExportName is the context key of a rendered export file.
func GetExportName() string {
	return "__EXPORT__"
}

// AnalysisRequestMessage is the JSON payload of the AnalysisRequests
// subscription.
//
//	{"url": "https://www.tiktok.com/@creator/video/7301", "platform": "tiktok"}
type AnalysisRequestMessage struct {
	URL      string `json:"url"`
	Platform string `json:"platform,omitempty"` // detected from the URL when empty
}

// GCSObject is a written object. SignedURL is set once the object has been
// signed for download.
type GCSObject struct {
	Bucket    string `json:"bucket"`
	Name      string `json:"name"`
	MIMEType  string `json:"mime_type"`
	SignedURL string `json:"signed_url,omitempty"`
}
