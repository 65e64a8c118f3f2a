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
	"errors"
	"fmt"
)

// Device implementations return these so the manager can classify failures.
var (
	ErrNotSupported     = errors.New("display capture not supported")
	ErrPermissionDenied = errors.New("display capture permission denied")
	ErrDeviceNotFound   = errors.New("capture device not found")
)

// ErrSessionBusy is returned by Start while another session is in progress,
// and by Stop while the display is still being negotiated.
var ErrSessionBusy = errors.New("a capture session is already in progress")

// Kind classifies a capture failure.
type Kind string

const (
	KindUnsupported      Kind = "unsupported"
	KindPermissionDenied Kind = "permission_denied"
	KindNotFound         Kind = "not_found"
	KindUnknown          Kind = "unknown"
)

var kindMessages = map[Kind]string{
	KindUnsupported:      "Your environment does not support screen capture.",
	KindPermissionDenied: "Screen access was denied. Please allow screen capture and try again.",
	KindNotFound:         "No recording device was found.",
	KindUnknown:          "Could not start screen capture.",
}

// Error is a terminal capture failure with a user-facing message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// NewError builds an Error with the standard message for kind.
func NewError(kind Kind, err error) *Error {
	msg, ok := kindMessages[kind]
	if !ok {
		kind, msg = KindUnknown, kindMessages[KindUnknown]
	}
	return &Error{Kind: kind, Message: msg, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Classify maps any error onto the taxonomy. Errors that already are an
// *Error are returned unchanged.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}
	var ce *Error
	if errors.As(err, &ce) {
		return ce
	}
	switch {
	case errors.Is(err, ErrNotSupported):
		return NewError(KindUnsupported, err)
	case errors.Is(err, ErrPermissionDenied):
		return NewError(KindPermissionDenied, err)
	case errors.Is(err, ErrDeviceNotFound):
		return NewError(KindNotFound, err)
	default:
		return NewError(KindUnknown, err)
	}
}
