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

package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/h2non/filetype"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/model"
)

// ErrEmptyMedia is returned when there is nothing to encode.
var ErrEmptyMedia = errors.New("media is empty")

// MediaEncoder converts finalized media into the base64 transport payload.
// No size limit is applied; the inference backend rejects oversized input.
type MediaEncoder struct{}

func NewMediaEncoder() *MediaEncoder {
	return &MediaEncoder{}
}

type encodeResult struct {
	payload model.Base64Payload
	err     error
}

// Encode reads the blob and encodes it with standard base64. The work runs
// on its own goroutine and the caller waits for its completion or for ctx.
func (e *MediaEncoder) Encode(ctx context.Context, blob *model.MediaBlob) (model.Base64Payload, error) {
	if blob == nil || len(blob.Data) == 0 {
		return model.Base64Payload{}, ErrEmptyMedia
	}
	done := make(chan encodeResult, 1)
	go func() {
		mimeType := blob.MIMEType
		if mimeType == "" {
			mimeType = SniffMIME(blob.Data, model.DefaultMediaMIMEType)
		}
		done <- encodeResult{payload: model.Base64Payload{
			Data:     base64.StdEncoding.EncodeToString(blob.Data),
			MIMEType: mimeType,
		}}
	}()
	select {
	case r := <-done:
		return r.payload, r.err
	case <-ctx.Done():
		return model.Base64Payload{}, ctx.Err()
	}
}

// Decode returns the raw bytes of a payload.
func (e *MediaEncoder) Decode(payload model.Base64Payload) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(payload.Data)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 payload: %w", err)
	}
	return data, nil
}

// ParseDataURL splits "data:<mime>;base64,<payload>" into a payload. A bare
// base64 string is accepted with an empty MIME type.
func ParseDataURL(in string) (model.Base64Payload, error) {
	in = strings.TrimSpace(in)
	if !strings.HasPrefix(in, "data:") {
		if in == "" {
			return model.Base64Payload{}, ErrEmptyMedia
		}
		return model.Base64Payload{Data: in}, nil
	}
	header, data, ok := strings.Cut(in, ",")
	if !ok {
		return model.Base64Payload{}, fmt.Errorf("data URL has no payload")
	}
	meta := strings.TrimPrefix(header, "data:")
	mimeType, encoding, _ := strings.Cut(meta, ";")
	if encoding != "base64" {
		return model.Base64Payload{}, fmt.Errorf("unsupported data URL encoding %q", encoding)
	}
	if data == "" {
		return model.Base64Payload{}, ErrEmptyMedia
	}
	return model.Base64Payload{Data: data, MIMEType: mimeType}, nil
}

// SniffMIME guesses the container from the leading bytes, returning fallback
// for unknown content.
func SniffMIME(data []byte, fallback string) string {
	head := data
	if len(head) > 262 {
		head = head[:262]
	}
	kind, err := filetype.Match(head)
	if err != nil || kind == filetype.Unknown {
		return fallback
	}
	return kind.MIME.Value
}
