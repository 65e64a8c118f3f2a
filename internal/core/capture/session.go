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
	"bytes"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// State of a capture session.
type State string

const (
	StateIdle        State = "idle"
	StateNegotiating State = "negotiating"
	StateActive      State = "active"
	StateFinalizing  State = "finalizing"
	StateComplete    State = "complete"
	StateFailed      State = "failed"
)

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StateComplete || s == StateFailed
}

// Event drives the session state machine.
type Event string

const (
	EventStart         Event = "start"
	EventAcquireOK     Event = "acquire_ok"
	EventAcquireError  Event = "acquire_error"
	EventChunkReceived Event = "chunk_received"
	EventUserStop      Event = "user_stop"
	EventFinalized     Event = "finalized"
	EventDeviceError   Event = "device_error"
)

var transitions = map[State]map[Event]State{
	StateIdle: {
		EventStart: StateNegotiating,
	},
	StateNegotiating: {
		EventAcquireOK:    StateActive,
		EventAcquireError: StateFailed,
		EventDeviceError:  StateFailed,
	},
	StateActive: {
		EventChunkReceived: StateActive,
		EventUserStop:      StateFinalizing,
		EventDeviceError:   StateFailed,
	},
	StateFinalizing: {
		EventChunkReceived: StateFinalizing,
		EventFinalized:     StateComplete,
		EventDeviceError:   StateFailed,
	},
}

// Next returns the state reached from s on e, or an error for an illegal
// transition.
func Next(s State, e Event) (State, error) {
	if next, ok := transitions[s][e]; ok {
		return next, nil
	}
	return s, fmt.Errorf("illegal capture transition: %s on %s", s, e)
}

// Session is one capture attempt. Chunks are kept in arrival order.
type Session struct {
	mu        sync.Mutex
	id        string
	state     State
	mimeType  string
	startedAt time.Time
	chunks    [][]byte
	size      int
	err       error
	stream    Stream
	recorder  Recorder
	region    *Region
	cropped   bool
	released  bool
}

func newSession() *Session {
	return &Session{id: uuid.NewString(), state: StateIdle, chunks: make([][]byte, 0)}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err is the failure that ended the session, if any.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Session) fire(e Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fireLocked(e)
}

func (s *Session) fireLocked(e Event) error {
	next, err := Next(s.state, e)
	if err != nil {
		return err
	}
	s.state = next
	return nil
}

// appendChunk is the recorder callback. Empty chunks and chunks arriving
// outside Active/Finalizing are dropped.
func (s *Session) appendChunk(chunk []byte) {
	if len(chunk) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fireLocked(EventChunkReceived) != nil {
		return
	}
	buf := make([]byte, len(chunk))
	copy(buf, chunk)
	s.chunks = append(s.chunks, buf)
	s.size += len(buf)
}

func (s *Session) assemble() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return bytes.Join(s.chunks, nil)
}

// releaseTracks stops every track once. Later calls do nothing.
func (s *Session) releaseTracks() {
	s.mu.Lock()
	if s.released || s.stream == nil {
		s.mu.Unlock()
		return
	}
	s.released = true
	stream := s.stream
	s.mu.Unlock()

	for _, t := range stream.Tracks() {
		if !t.Stopped() {
			t.Stop()
		}
	}
}

func (s *Session) fail(err error) {
	s.mu.Lock()
	if s.err == nil {
		s.err = err
	}
	_ = s.fireLocked(EventDeviceError)
	s.mu.Unlock()
	s.releaseTracks()
}

// Info is a snapshot of a session for status reporting.
type Info struct {
	ID        string    `json:"id"`
	State     State     `json:"state"`
	MIMEType  string    `json:"mime_type"`
	StartedAt time.Time `json:"started_at"`
	Chunks    int       `json:"chunks"`
	Bytes     int       `json:"bytes"`
	Region    *Region   `json:"region,omitempty"`
	Cropped   bool      `json:"cropped"`
	Error     string    `json:"error,omitempty"`
}

// Info returns a snapshot of the session.
func (s *Session) Info() Info {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := Info{
		ID:        s.id,
		State:     s.state,
		MIMEType:  s.mimeType,
		StartedAt: s.startedAt,
		Chunks:    len(s.chunks),
		Bytes:     s.size,
		Cropped:   s.cropped,
	}
	if s.region != nil {
		region := *s.region
		out.Region = &region
	}
	if s.err != nil {
		out.Error = Classify(s.err).Message
	}
	return out
}
