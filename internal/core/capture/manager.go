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

package capture

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/jaycherian/gcp-go-style-passport/internal/core/model"
)

// Options configure a Manager. Zero values fall back to the package
// defaults; values above the ceilings are clamped.
type Options struct {
	Constraints   Constraints
	BitsPerSecond int
	Timeslice     time.Duration
}

func (o Options) normalized() Options {
	if o.Constraints == (Constraints{}) {
		o.Constraints = DefaultConstraints()
	}
	o.Constraints = o.Constraints.Clamp()
	if o.BitsPerSecond <= 0 || o.BitsPerSecond > MaxBitsPerSecond {
		o.BitsPerSecond = MaxBitsPerSecond
	}
	if o.Timeslice <= 0 {
		o.Timeslice = DefaultTimeslice
	}
	return o
}

// StartOptions are per-capture parameters.
type StartOptions struct {
	// Region restricts the capture when the video track supports cropping.
	Region *Region
}

// Manager owns at most one capture session at a time.
type Manager struct {
	mu        sync.Mutex
	capturer  DisplayCapturer
	prober    CodecProber
	recorders RecorderFactory
	options   Options
	active    *Session
	last      *Session
}

// NewManager wires the device capabilities. prober may be nil.
func NewManager(capturer DisplayCapturer, prober CodecProber, recorders RecorderFactory, options Options) *Manager {
	return &Manager{
		capturer:  capturer,
		prober:    prober,
		recorders: recorders,
		options:   options.normalized(),
	}
}

// Options returns the effective options.
func (m *Manager) Options() Options {
	return m.options
}

// Active returns the session in progress, or nil.
func (m *Manager) Active() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// Last returns the most recent session whether or not it finished.
func (m *Manager) Last() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

// Start acquires the display and begins recording. Failures are returned as
// *Error and are terminal for the attempt.
//
// Inputs:
//   - ctx: Bounds display acquisition and the region crop.
//   - opts: The optional crop region.
//
// Returns:
//   - *Session: The active session.
//   - error: ErrSessionBusy while another session runs, otherwise an *Error.
func (m *Manager) Start(ctx context.Context, opts StartOptions) (*Session, error) {
	m.mu.Lock()
	if m.active != nil {
		m.mu.Unlock()
		return nil, ErrSessionBusy
	}
	if m.capturer == nil || m.recorders == nil || !m.capturer.Supported() {
		m.mu.Unlock()
		return nil, NewError(KindUnsupported, ErrNotSupported)
	}
	session := newSession()
	_ = session.fire(EventStart)
	if opts.Region != nil {
		region := *opts.Region
		session.region = &region
	}
	m.active = session
	m.last = session
	m.mu.Unlock()

	stream, err := m.capturer.Acquire(ctx, m.options.Constraints)
	if err != nil {
		return nil, m.abort(session, EventAcquireError, err)
	}
	session.mu.Lock()
	session.stream = stream
	session.mu.Unlock()

	if opts.Region != nil {
		m.crop(ctx, session, stream, *opts.Region)
	}

	mimeType := SelectMIMEType(m.prober)
	recorder, err := m.recorders.NewRecorder(stream, RecorderOptions{
		MIMEType:      mimeType,
		BitsPerSecond: m.options.BitsPerSecond,
		OnError:       func(err error) { m.deviceError(session, err) },
	})
	if err != nil {
		return nil, m.abort(session, EventDeviceError, err)
	}

	session.mu.Lock()
	session.mimeType = mimeType
	session.recorder = recorder
	session.startedAt = time.Now()
	session.mu.Unlock()

	if err := session.fire(EventAcquireOK); err != nil {
		return nil, m.abort(session, EventDeviceError, err)
	}
	if err := recorder.Start(m.options.Timeslice, session.appendChunk); err != nil {
		return nil, m.abort(session, EventDeviceError, err)
	}
	slog.InfoContext(ctx, "capture started", "session", session.ID(), "mime_type", mimeType)
	return session, nil
}

// crop is best effort: failures are logged and the capture continues with
// the full surface.
func (m *Manager) crop(ctx context.Context, session *Session, stream Stream, region Region) {
	videos := stream.VideoTracks()
	if len(videos) == 0 {
		return
	}
	cropper, ok := videos[0].(RegionCropper)
	if !ok {
		slog.WarnContext(ctx, "video track does not support region capture, recording full surface", "session", session.ID())
		return
	}
	if err := cropper.CropTo(ctx, region); err != nil {
		slog.WarnContext(ctx, "region crop failed, recording full surface", "session", session.ID(), "error", err)
		return
	}
	session.mu.Lock()
	session.cropped = true
	session.mu.Unlock()
}

func (m *Manager) abort(session *Session, e Event, cause error) error {
	classified := Classify(cause)
	session.mu.Lock()
	session.err = classified
	_ = session.fireLocked(e)
	session.mu.Unlock()
	session.releaseTracks()

	m.mu.Lock()
	if m.active == session {
		m.active = nil
	}
	m.mu.Unlock()
	slog.Warn("capture failed", "session", session.ID(), "kind", classified.Kind, "error", cause)
	return classified
}

func (m *Manager) deviceError(session *Session, err error) {
	session.fail(Classify(err))
	m.mu.Lock()
	if m.active == session {
		m.active = nil
	}
	m.mu.Unlock()
	slog.Warn("capture device error", "session", session.ID(), "error", err)
}

// Stop finalizes the active session: the recorder is stopped, the chunks are
// joined in arrival order and every track is stopped. With no active session
// Stop does nothing and returns (nil, nil). While the display is still being
// negotiated Stop returns ErrSessionBusy and the session is left alone.
func (m *Manager) Stop(ctx context.Context) (*model.MediaBlob, error) {
	m.mu.Lock()
	session := m.active
	if session == nil {
		m.mu.Unlock()
		return nil, nil
	}
	if session.State() == StateNegotiating {
		m.mu.Unlock()
		return nil, ErrSessionBusy
	}
	if err := session.fire(EventUserStop); err != nil {
		m.mu.Unlock()
		return nil, nil
	}
	m.mu.Unlock()

	session.mu.Lock()
	recorder := session.recorder
	mimeType := session.mimeType
	session.mu.Unlock()

	var stopErr error
	if recorder != nil {
		stopErr = recorder.Stop(ctx)
	}
	data := session.assemble()
	session.releaseTracks()

	m.mu.Lock()
	if m.active == session {
		m.active = nil
	}
	m.mu.Unlock()

	if stopErr != nil {
		session.fail(stopErr)
		return nil, Classify(stopErr)
	}
	if err := session.fire(EventFinalized); err != nil {
		if sErr := session.Err(); sErr != nil {
			return nil, Classify(sErr)
		}
		return nil, NewError(KindUnknown, errors.New("capture ended before it was finalized"))
	}
	if mimeType == "" {
		mimeType = DefaultMIMEType
	}
	slog.InfoContext(ctx, "capture finalized", "session", session.ID(), "bytes", len(data))
	return &model.MediaBlob{Data: data, MIMEType: mimeType, SourceURL: "blob:capture/" + session.ID()}, nil
}
