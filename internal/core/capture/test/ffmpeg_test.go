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

package capture_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jaycherian/gcp-go-style-passport/internal/core/capture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const encodersOutput = `Encoders:
 V..... = Video
 A..... = Audio
 ------
 V....D libx264              libx264 H.264 / AVC / MPEG-4 AVC (codec h264)
 V....D libvpx               libvpx VP8 (codec vp8)
 A....D libopus              libopus Opus (codec opus)
`

func TestParseEncoders(t *testing.T) {
	got := capture.ParseEncoders([]byte(encodersOutput))
	assert.True(t, got["libx264"])
	assert.True(t, got["libvpx"])
	assert.True(t, got["libopus"])
	assert.False(t, got["libvpx-vp9"])
	assert.False(t, got["Video"])
}

func TestClassifyStderr(t *testing.T) {
	assert.ErrorIs(t, capture.ClassifyStderr("[x11grab] Cannot open display :0.0, error 1."), capture.ErrDeviceNotFound)
	assert.ErrorIs(t, capture.ClassifyStderr("avfoundation: Permission denied"), capture.ErrPermissionDenied)
	assert.ErrorIs(t, capture.ClassifyStderr("Unknown input format: 'x11grab'"), capture.ErrNotSupported)
	assert.NoError(t, capture.ClassifyStderr("frame=  1 fps=0.0"))
}

func TestRecordArgs(t *testing.T) {
	f := capture.NewFFmpegCapturer("ffmpeg", "x11grab", ":1", "")
	c := capture.DefaultConstraints()
	args := strings.Join(f.RecordArgs(c, &capture.Region{X: 4, Y: 8, Width: 640, Height: 360}, "libvpx", "webm", 1_000_000), " ")

	assert.Contains(t, args, "-f x11grab -framerate 24 -video_size 1280x720 -i :1")
	assert.Contains(t, args, "-vf crop=640:360:4:8")
	assert.Contains(t, args, "-c:v libvpx")
	assert.Contains(t, args, "-b:v 1000000")
	assert.True(t, strings.HasSuffix(args, "-f webm pipe:1"))
	assert.NotContains(t, args, "-c:a")

	mp4 := strings.Join(f.RecordArgs(c, nil, "libx264", "mp4", 500_000), " ")
	assert.Contains(t, mp4, "-movflags frag_keyframe+empty_moov")
	assert.NotContains(t, mp4, "crop=")
}

func TestNewFFmpegCapturerDefaults(t *testing.T) {
	f := capture.NewFFmpegCapturer("", "gdigrab", "", "")
	assert.Equal(t, "ffmpeg", f.Path)
	assert.Equal(t, "desktop", f.InputDevice)

	missing := capture.NewFFmpegCapturer("/nonexistent/ffmpeg-binary", "x11grab", ":0", "")
	assert.False(t, missing.Supported())
}

// fakeFFmpeg answers the probe and encoder queries and, when recording,
// writes a few bytes and waits for stdin to close.
const fakeFFmpeg = `#!/bin/sh
case "$*" in
*-encoders*) exit 0 ;;
*pipe:1*) printf 'webm'; cat >/dev/null; exit 0 ;;
esac
exit 0
`

func TestFFmpegRecorderStopWhileTracksStop(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "ffmpeg")
	require.NoError(t, os.WriteFile(path, []byte(fakeFFmpeg), 0o755))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	f := capture.NewFFmpegCapturer(path, "x11grab", ":9", "")
	require.True(t, f.Supported())
	stream, err := f.Acquire(ctx, capture.DefaultConstraints())
	require.NoError(t, err)
	rec, err := f.NewRecorder(stream, capture.RecorderOptions{MIMEType: capture.DefaultMIMEType, BitsPerSecond: capture.MaxBitsPerSecond})
	require.NoError(t, err)
	require.NoError(t, rec.Start(10*time.Millisecond, func([]byte) {}))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for _, tr := range stream.Tracks() {
			tr.Stop()
		}
	}()
	assert.NoError(t, rec.Stop(ctx))
	wg.Wait()

	for _, tr := range stream.Tracks() {
		assert.True(t, tr.Stopped())
	}
}
