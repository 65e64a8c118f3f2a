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

// Package capture records a bounded-quality screen capture and hands back a
// single media blob. The device side is reached only through the capability
// interfaces in this file, so the Manager works the same against the host
// ffmpeg recorder and against test fakes.
package capture

import (
	"context"
	"time"
)

// Capture ceilings. Requests above these are clamped down.
const (
	MaxWidth         = 1280
	MaxHeight        = 720
	IdealFrameRate   = 24
	MaxFrameRate     = 30
	MaxBitsPerSecond = 1_000_000
	DefaultTimeslice = time.Second
)

// DefaultMIMEType is used when no preferred container is supported.
const DefaultMIMEType = "video/webm"

// PreferredMIMETypes is the container preference, first supported wins.
var PreferredMIMETypes = []string{
	"video/webm; codecs=h264",
	"video/webm; codecs=vp9",
	"video/webm; codecs=vp8",
	"video/mp4",
}

// Range is an ideal value with an upper bound.
type Range struct {
	Ideal int `json:"ideal"`
	Max   int `json:"max"`
}

// Constraints are requested from the display capturer.
type Constraints struct {
	Width     Range `json:"width"`
	Height    Range `json:"height"`
	FrameRate Range `json:"frame_rate"`
	Audio     bool  `json:"audio"`
}

// DefaultConstraints asks for 1280x720 at 24 fps (30 max) with audio.
func DefaultConstraints() Constraints {
	return Constraints{
		Width:     Range{Ideal: MaxWidth, Max: MaxWidth},
		Height:    Range{Ideal: MaxHeight, Max: MaxHeight},
		FrameRate: Range{Ideal: IdealFrameRate, Max: MaxFrameRate},
		Audio:     true,
	}
}

func clampRange(r Range, ceiling int) Range {
	if r.Max <= 0 || r.Max > ceiling {
		r.Max = ceiling
	}
	if r.Ideal <= 0 || r.Ideal > r.Max {
		r.Ideal = r.Max
	}
	return r
}

// Clamp bounds every range by the package ceilings.
func (c Constraints) Clamp() Constraints {
	c.Width = clampRange(c.Width, MaxWidth)
	c.Height = clampRange(c.Height, MaxHeight)
	fr := c.FrameRate
	if fr.Ideal <= 0 {
		fr.Ideal = IdealFrameRate
	}
	c.FrameRate = clampRange(fr, MaxFrameRate)
	return c
}

// Region is a rectangle on the captured surface in pixels.
type Region struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Track is one media track of a captured stream.
type Track interface {
	Kind() string // "video" or "audio"
	Stop()
	Stopped() bool
}

// RegionCropper is implemented by video tracks that can restrict capture to
// a region of the surface.
type RegionCropper interface {
	CropTo(ctx context.Context, region Region) error
}

// Stream is an acquired capture.
type Stream interface {
	VideoTracks() []Track
	Tracks() []Track
}

// DisplayCapturer acquires a capture of the display. Acquire may block while
// the user is asked for permission.
type DisplayCapturer interface {
	Supported() bool
	Acquire(ctx context.Context, constraints Constraints) (Stream, error)
}

// CodecProber reports whether a container/codec string can be recorded.
type CodecProber interface {
	IsTypeSupported(mimeType string) bool
}

// RecorderOptions configure a recorder.
type RecorderOptions struct {
	MIMEType      string
	BitsPerSecond int
	// OnError is called at most once when the device fails while recording.
	OnError func(error)
}

// Recorder encodes a stream into chunks.
type Recorder interface {
	// Start begins recording and delivers a chunk roughly every timeslice.
	Start(timeslice time.Duration, onChunk func([]byte)) error
	// Stop ends recording and returns after the final chunk was delivered.
	Stop(ctx context.Context) error
}

// RecorderFactory creates recorders for acquired streams.
type RecorderFactory interface {
	NewRecorder(stream Stream, opts RecorderOptions) (Recorder, error)
}

// SelectMIMEType returns the first preferred type the prober supports, or
// DefaultMIMEType.
func SelectMIMEType(prober CodecProber) string {
	if prober == nil {
		return DefaultMIMEType
	}
	for _, candidate := range PreferredMIMETypes {
		if prober.IsTypeSupported(candidate) {
			return candidate
		}
	}
	return DefaultMIMEType
}
