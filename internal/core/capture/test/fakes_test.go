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

// Package capture_test drives the capture manager against in-memory fakes of
// the display, codec and recorder capabilities.
package capture_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jaycherian/gcp-go-style-passport/internal/core/capture"
)

type fakeTrack struct {
	kind  string
	stops atomic.Int32
}

func (t *fakeTrack) Kind() string  { return t.kind }
func (t *fakeTrack) Stop()         { t.stops.Add(1) }
func (t *fakeTrack) Stopped() bool { return t.stops.Load() > 0 }

type croppingTrack struct {
	fakeTrack
	err    error
	region *capture.Region
}

func (t *croppingTrack) CropTo(_ context.Context, r capture.Region) error {
	if t.err != nil {
		return t.err
	}
	t.region = &r
	return nil
}

type fakeStream struct {
	video capture.Track
	audio *fakeTrack
}

func (s *fakeStream) VideoTracks() []capture.Track { return []capture.Track{s.video} }
func (s *fakeStream) Tracks() []capture.Track {
	return []capture.Track{s.video, s.audio}
}

type fakeCapturer struct {
	unsupported bool
	err         error
	stream      *fakeStream
	gotConstr   capture.Constraints
	// block holds Acquire until released, to observe the negotiating state.
	block chan struct{}
}

func newFakeCapturer(video capture.Track) *fakeCapturer {
	if video == nil {
		video = &fakeTrack{kind: "video"}
	}
	return &fakeCapturer{stream: &fakeStream{video: video, audio: &fakeTrack{kind: "audio"}}}
}

func (c *fakeCapturer) Supported() bool { return !c.unsupported }

func (c *fakeCapturer) Acquire(ctx context.Context, constraints capture.Constraints) (capture.Stream, error) {
	c.gotConstr = constraints
	if c.block != nil {
		select {
		case <-c.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if c.err != nil {
		return nil, c.err
	}
	return c.stream, nil
}

type fakeProber map[string]bool

func (p fakeProber) IsTypeSupported(mimeType string) bool { return p[mimeType] }

type fakeRecorder struct {
	mu        sync.Mutex
	opts      capture.RecorderOptions
	timeslice time.Duration
	onChunk   func([]byte)
	final     []byte
	startErr  error
	stopErr   error
	stops     int
}

func (r *fakeRecorder) Start(timeslice time.Duration, onChunk func([]byte)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.startErr != nil {
		return r.startErr
	}
	r.timeslice = timeslice
	r.onChunk = onChunk
	return nil
}

func (r *fakeRecorder) emit(chunk []byte) {
	r.mu.Lock()
	cb := r.onChunk
	r.mu.Unlock()
	cb(chunk)
}

func (r *fakeRecorder) Stop(_ context.Context) error {
	r.mu.Lock()
	r.stops++
	final, cb, err := r.final, r.onChunk, r.stopErr
	r.mu.Unlock()
	if final != nil && cb != nil {
		cb(final)
	}
	return err
}

type fakeFactory struct {
	recorder *fakeRecorder
	err      error
}

func (f *fakeFactory) NewRecorder(_ capture.Stream, opts capture.RecorderOptions) (capture.Recorder, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.recorder.opts = opts
	return f.recorder, nil
}

var errBoom = errors.New("boom")
