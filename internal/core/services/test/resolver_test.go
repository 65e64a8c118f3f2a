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

package services_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/jaycherian/gcp-go-style-passport/internal/core/model"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/services"
	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestNormalizeYouTubeShapes(t *testing.T) {
	cases := map[string]string{
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ":               "dQw4w9WgXcQ",
		"https://www.youtube.com/watch?feature=share&v=dQw4w9WgXcQ": "dQw4w9WgXcQ",
		"https://youtube.com/shorts/abcdefghijk?feature=share":      "abcdefghijk",
		"https://youtu.be/dQw4w9WgXcQ?t=30":                         "dQw4w9WgXcQ",
		"https://www.youtube.com/embed/dQw4w9WgXcQ":                 "dQw4w9WgXcQ",
		"https://www.youtube.com/live/dQw4w9WgXcQ?si=x":             "dQw4w9WgXcQ",
		"youtu.be/dQw4w9WgXcQ":                                      "dQw4w9WgXcQ",
		"  https://www.YouTube.com/watch?v=dQw4w9WgXcQ/  ":          "dQw4w9WgXcQ",
	}
	for in, want := range cases {
		ref := services.Normalize(in)
		assert.Equal(t, model.PlatformYouTube, ref.Platform, in)
		assert.Equal(t, want, ref.ID, in)
		assert.True(t, ref.Resolved(), in)
	}
}

func TestNormalizeYouTubeUnresolved(t *testing.T) {
	ref := services.Normalize("https://www.youtube.com/@creator")
	assert.Equal(t, model.PlatformYouTube, ref.Platform)
	assert.Equal(t, "", ref.ID)
	assert.False(t, ref.Resolved())
	assert.Equal(t, model.EmbedUnresolved, services.EmbedFor(ref, "http://localhost").Kind)
}

func TestNormalizeInstagramAndTikTok(t *testing.T) {
	ig := services.Normalize("https://www.instagram.com/reel/C1a2b3?igsh=abc")
	assert.Equal(t, model.PlatformInstagram, ig.Platform)
	assert.Equal(t, "https://www.instagram.com/reel/C1a2b3/", ig.Cleaned)
	assert.Equal(t, ig.Cleaned, ig.ID)

	tt := services.Normalize("https://www.tiktok.com/@creator/video/7301234567890?is_from_webapp=1")
	assert.Equal(t, model.PlatformTikTok, tt.Platform)
	assert.Equal(t, "https://www.tiktok.com/@creator/video/7301234567890", tt.Cleaned)
	assert.Equal(t, "7301234567890", tt.ID)

	assert.Equal(t, "tiktok-video", services.TikTokID("https://www.tiktok.com/"))
}

func TestNormalizeNative(t *testing.T) {
	ref := services.Normalize(" /videos/clip.mp4/ ")
	assert.Equal(t, model.PlatformNative, ref.Platform)
	assert.Equal(t, "/videos/clip.mp4", ref.Cleaned)
	assert.Equal(t, ref.Cleaned, ref.ID)
	assert.Equal(t, model.Embed{Kind: model.EmbedVideo, Src: "/videos/clip.mp4"}, services.EmbedFor(ref, ""))

	assert.Equal(t, model.EmbedEmpty, services.EmbedFor(services.Normalize("   "), "").Kind)
}

func TestEmbedFor(t *testing.T) {
	yt := services.EmbedFor(services.Normalize("https://www.youtube.com/shorts/abcdefghijk"), "http://localhost:8080")
	assert.Equal(t, model.EmbedIFrame, yt.Kind)
	assert.Equal(t, "https://www.youtube.com/embed/abcdefghijk?autoplay=0&rel=0&playsinline=1&origin=http://localhost:8080", yt.Src)
	assert.True(t, yt.Portrait)

	ig := services.EmbedFor(services.Normalize("https://www.instagram.com/p/XYZ"), "")
	assert.Equal(t, model.EmbedBlockquote, ig.Kind)
	assert.Equal(t, "//www.instagram.com/embed.js", ig.ScriptSrc)
	assert.Equal(t, "14", ig.Attrs["data-instgrm-version"])
	assert.Equal(t, "https://www.instagram.com/p/XYZ/", ig.Attrs["data-instgrm-permalink"])

	tt := services.EmbedFor(services.Normalize("https://www.tiktok.com/@a/video/42"), "")
	assert.Equal(t, "42", tt.Attrs["data-video-id"])
	assert.Equal(t, "https://www.tiktok.com/@a/video/42", tt.Attrs["cite"])
}

func TestYouTubeIDProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		id := rapid.StringMatching(`[A-Za-z0-9_-]{11}`).Draw(t, "id")
		shape := rapid.SampledFrom([]string{
			"https://www.youtube.com/watch?v=%s",
			"https://m.youtube.com/watch?v=%s&t=42s",
			"https://www.youtube.com/shorts/%s",
			"https://youtu.be/%s",
			"https://youtu.be/%s?si=share",
			"https://www.youtube.com/embed/%s?start=3",
			"https://www.youtube.com/live/%s",
		}).Draw(t, "shape")

		ref := services.Normalize(fmt.Sprintf(shape, id))
		if ref.Platform != model.PlatformYouTube || ref.ID != id {
			t.Fatalf("got %q on %s, want %q", ref.ID, ref.Platform, id)
		}
	})
}

func TestQueryStrippingProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		code := rapid.StringMatching(`[A-Za-z0-9_]{1,12}`).Draw(t, "code")
		query := rapid.StringMatching(`(\?[a-z]{1,6}=[a-z0-9]{0,6})?`).Draw(t, "query")
		slash := rapid.SampledFrom([]string{"", "/"}).Draw(t, "slash")

		ig := services.Normalize("https://www.instagram.com/reel/" + code + slash + query)
		if strings.Contains(ig.Cleaned, "?") || !strings.HasSuffix(ig.Cleaned, code+"/") || strings.HasSuffix(ig.Cleaned, "//") {
			t.Fatalf("instagram cleaned to %q", ig.Cleaned)
		}

		tt := services.Normalize("https://www.tiktok.com/@creator/video/" + code + query)
		if strings.Contains(tt.Cleaned, "?") || tt.ID != code {
			t.Fatalf("tiktok cleaned to %q with id %q", tt.Cleaned, tt.ID)
		}
	})
}

func TestNormalizeNeverPanics(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		raw := rapid.String().Draw(t, "raw")
		ref := services.Normalize(raw)
		if ref.Platform == model.PlatformYouTube && strings.ContainsAny(ref.ID, "?&/") {
			t.Fatalf("youtube id %q was not cut", ref.ID)
		}
		if ref.Platform == model.PlatformNative && ref.ID != ref.Cleaned {
			t.Fatalf("native id %q differs from %q", ref.ID, ref.Cleaned)
		}
		_ = services.EmbedFor(ref, "")
	})
}
