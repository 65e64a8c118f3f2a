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

// Package services provides the business logic layer of the studio. This
// file, `resolver.go`, turns a pasted video URL into a NormalizedVideoRef and
// describes the player a client should render for it.
//
// Every function here is pure: no I/O, no logging, and malformed input yields
// an unresolved reference instead of an error.
package services

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/jaycherian/gcp-go-style-passport/internal/core/model"
)

const (
	instagramHost = "instagram.com"
	tiktokHost    = "tiktok.com"

	instagramEmbedScript  = "//www.instagram.com/embed.js"
	instagramEmbedVersion = "14"
	tiktokEmbedScript     = "https://www.tiktok.com/embed.js"
	tiktokFallbackID      = "tiktok-video"
)

var youtubeFallbackPattern = regexp.MustCompile(`(?:youtube\.com/(?:[^/]+/.+/|(?:v|e(?:mbed)?)/|.*[?&]v=)|youtu\.be/)([^"&?/\s]{11})`)

// CleanURL trims the input, strips the query of Instagram and TikTok links and
// fixes the trailing slash: Instagram permalinks end in exactly one slash,
// everything else loses one trailing slash.
func CleanURL(raw string) string {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return ""
	}
	if strings.Contains(cleaned, instagramHost) || strings.Contains(cleaned, tiktokHost) {
		cleaned, _, _ = strings.Cut(cleaned, "?")
	}
	if strings.Contains(cleaned, instagramHost) {
		if !strings.HasSuffix(cleaned, "/") {
			cleaned += "/"
		}
	} else {
		cleaned = strings.TrimSuffix(cleaned, "/")
	}
	return cleaned
}

// DetectPlatform classifies a cleaned URL by its host markers.
func DetectPlatform(cleaned string) model.Platform {
	lower := strings.ToLower(cleaned)
	switch {
	case strings.Contains(lower, "youtube.com"), strings.Contains(lower, "youtu.be"):
		return model.PlatformYouTube
	case strings.Contains(cleaned, instagramHost):
		return model.PlatformInstagram
	case strings.Contains(cleaned, tiktokHost):
		return model.PlatformTikTok
	default:
		return model.PlatformNative
	}
}

// Normalize derives the reference for a pasted URL.
func Normalize(raw string) model.NormalizedVideoRef {
	cleaned := CleanURL(raw)
	ref := model.NormalizedVideoRef{Original: raw, Cleaned: cleaned, Platform: DetectPlatform(cleaned)}
	if cleaned == "" {
		return ref
	}
	switch ref.Platform {
	case model.PlatformYouTube:
		ref.ID = YouTubeID(cleaned)
	case model.PlatformInstagram:
		ref.ID = cleaned
	case model.PlatformTikTok:
		ref.ID = TikTokID(cleaned)
	case model.PlatformNative:
		ref.ID = cleaned
	}
	return ref
}

// cutID ends an id at the first '?', '&' or '/'.
func cutID(in string) string {
	if i := strings.IndexAny(in, "?&/"); i >= 0 {
		return in[:i]
	}
	return in
}

// YouTubeID extracts the video id from any of the supported link shapes,
// returning "" when nothing matched.
func YouTubeID(link string) string {
	if id := youtubeIDFromURL(link); id != "" {
		return id
	}
	if m := youtubeFallbackPattern.FindStringSubmatch(link); m != nil {
		return m[1]
	}
	return ""
}

func youtubeIDFromURL(link string) string {
	if !strings.HasPrefix(link, "http") {
		link = "https://" + link
	}
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	path := u.Path
	if _, after, ok := strings.Cut(path, "/shorts/"); ok {
		return cutID(after)
	}
	if q := u.Query(); q.Has("v") {
		return cutID(q.Get("v"))
	}
	if strings.Contains(strings.ToLower(u.Hostname()), "youtu.be") {
		return cutID(strings.TrimPrefix(path, "/"))
	}
	if _, after, ok := strings.Cut(path, "/embed/"); ok {
		return cutID(after)
	}
	if _, after, ok := strings.Cut(path, "/live/"); ok {
		return cutID(after)
	}
	return ""
}

// TikTokID is the last path segment of a cleaned TikTok URL.
func TikTokID(cleaned string) string {
	parts := strings.Split(cleaned, "/")
	id, _, _ := strings.Cut(parts[len(parts)-1], "?")
	if id == "" {
		return tiktokFallbackID
	}
	return id
}

// IsShorts reports whether the link points at a vertical YouTube short.
func IsShorts(raw string) bool {
	return strings.Contains(strings.ToLower(raw), "/shorts/")
}

// EmbedFor describes the player for ref. origin is passed to the YouTube
// iframe so the player API accepts messages from the client page.
func EmbedFor(ref model.NormalizedVideoRef, origin string) model.Embed {
	if ref.Cleaned == "" {
		return model.Embed{Kind: model.EmbedEmpty}
	}
	switch ref.Platform {
	case model.PlatformYouTube:
		if !ref.Resolved() {
			return model.Embed{Kind: model.EmbedUnresolved}
		}
		return model.Embed{
			Kind: model.EmbedIFrame,
			Src:  "https://www.youtube.com/embed/" + ref.ID + "?autoplay=0&rel=0&playsinline=1&origin=" + origin,
			Attrs: map[string]string{
				"allow":          "accelerometer; autoplay; clipboard-write; encrypted-media; gyroscope; picture-in-picture; web-share",
				"referrerpolicy": "strict-origin-when-cross-origin",
			},
			Portrait: IsShorts(ref.Original),
		}
	case model.PlatformInstagram:
		return model.Embed{
			Kind:      model.EmbedBlockquote,
			ScriptSrc: instagramEmbedScript,
			Attrs: map[string]string{
				"class":                  "instagram-media",
				"data-instgrm-permalink": ref.ID,
				"data-instgrm-version":   instagramEmbedVersion,
			},
			Portrait: true,
		}
	case model.PlatformTikTok:
		return model.Embed{
			Kind:      model.EmbedBlockquote,
			ScriptSrc: tiktokEmbedScript,
			Attrs: map[string]string{
				"class":         "tiktok-embed",
				"cite":          ref.Cleaned,
				"data-video-id": ref.ID,
			},
			Portrait: true,
		}
	case model.PlatformNative:
		return model.Embed{Kind: model.EmbedVideo, Src: ref.Cleaned}
	}
	return model.Embed{Kind: model.EmbedUnresolved}
}
