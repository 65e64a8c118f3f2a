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
	"fmt"
	"strings"
)

// Platform is the closed set of sources a video reference can come from.
type Platform string

const (
	PlatformYouTube   Platform = "youtube"
	PlatformInstagram Platform = "instagram"
	PlatformTikTok    Platform = "tiktok"
	PlatformNative    Platform = "native"
)

// Platforms lists every platform variant.
var Platforms = []Platform{PlatformYouTube, PlatformInstagram, PlatformTikTok, PlatformNative}

// ParsePlatform maps user input onto a platform variant. "file" is accepted
// as an alias for native media.
func ParsePlatform(in string) (Platform, error) {
	switch strings.ToLower(strings.TrimSpace(in)) {
	case "youtube":
		return PlatformYouTube, nil
	case "instagram":
		return PlatformInstagram, nil
	case "tiktok":
		return PlatformTikTok, nil
	case "native", "file", "":
		return PlatformNative, nil
	default:
		return "", fmt.Errorf("unknown platform %q", in)
	}
}

// NormalizedVideoRef is derived deterministically from a pasted URL and is
// never mutated afterwards.
type NormalizedVideoRef struct {
	Original string   `json:"original"`
	Cleaned  string   `json:"cleaned"`
	Platform Platform `json:"platform"`
	ID       string   `json:"id,omitempty"` // empty when the id could not be resolved
}

// Resolved reports whether a platform-specific id was extracted.
func (r NormalizedVideoRef) Resolved() bool {
	return r.ID != ""
}

// EmbedKind tells the client which player to render.
type EmbedKind string

const (
	EmbedIFrame     EmbedKind = "iframe"
	EmbedBlockquote EmbedKind = "blockquote"
	EmbedVideo      EmbedKind = "video"
	EmbedUnresolved EmbedKind = "unresolved"
	EmbedEmpty      EmbedKind = "empty"
)

// Embed describes a renderable player for a NormalizedVideoRef.
type Embed struct {
	Kind      EmbedKind         `json:"kind"`
	Src       string            `json:"src,omitempty"`
	ScriptSrc string            `json:"script_src,omitempty"`
	Attrs     map[string]string `json:"attrs,omitempty"`
	Portrait  bool              `json:"portrait"`
}
