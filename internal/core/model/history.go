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

package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// HistoryKey is the well-known key the history snapshot is stored under.
const HistoryKey = "analysis_history"

// DefaultHistoryCapacity is the number of analyses kept, most recent first.
const DefaultHistoryCapacity = 20

// HistoryItem is one successful analysis. VideoURL is nil when the analysed
// media only existed inside the process (blob references, captures, uploads).
type HistoryItem struct {
	Id        string         `json:"id"`
	Timestamp int64          `json:"timestamp"` // unix milliseconds
	Passport  *StylePassport `json:"passport"`
	VideoURL  *string        `json:"videoUrl"`
	Platform  Platform       `json:"platform"`
	Thumbnail string         `json:"thumbnail,omitempty"`
}

// NewHistoryItem creates a history item stamped with a random id and the
// current time.
func NewHistoryItem(passport *StylePassport, videoURL *string, platform Platform) *HistoryItem {
	return &HistoryItem{
		Id:        uuid.NewString(),
		Timestamp: time.Now().UnixMilli(),
		Passport:  passport,
		VideoURL:  DurableURL(videoURL),
		Platform:  platform,
	}
}

// CreatedAt returns the creation time.
func (h *HistoryItem) CreatedAt() time.Time {
	return time.UnixMilli(h.Timestamp)
}

// DurableURL drops process-local references so they are never persisted as
// dangling links.
func DurableURL(in *string) *string {
	if in == nil {
		return nil
	}
	v := strings.TrimSpace(*in)
	if v == "" || strings.HasPrefix(v, "blob:") || strings.HasPrefix(v, "data:") {
		return nil
	}
	return &v
}
