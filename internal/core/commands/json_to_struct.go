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

package commands

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jaycherian/gcp-go-style-passport/internal/cloud"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/cor"
)

// ErrMalformedResponse is the default error for model replies that cannot be
// decoded.
var ErrMalformedResponse = errors.New("malformed model response")

// JsonToStruct decodes the model's JSON reply into a T and checks it with an
// optional validation hook. A Markdown code fence around the reply is removed
// first. Nothing is written to the context unless decoding and validation
// both succeed.
type JsonToStruct[T any] struct {
	cor.BaseCommand
	malformed error
	validate  func(*T) error
}

// NewJsonToStruct creates the decoder. Decoding failures are wrapped in
// malformed (ErrMalformedResponse when nil). The result is stored under
// outputParamName as well as cor.CtxOut.
func NewJsonToStruct[T any](name string, outputParamName string, malformed error, validate func(*T) error) *JsonToStruct[T] {
	if malformed == nil {
		malformed = ErrMalformedResponse
	}
	out := JsonToStruct[T]{BaseCommand: *cor.NewBaseCommand(name), malformed: malformed, validate: validate}
	out.OutputParamName = outputParamName
	return &out
}

func (s *JsonToStruct[T]) Execute(context cor.Context) {
	in, ok := context.Get(s.GetInputParam()).(string)
	if !ok {
		s.Fail(context, fmt.Errorf("%w: reply is not text", s.malformed))
		return
	}

	doc := new(T)
	if err := json.Unmarshal([]byte(cloud.StripCodeFence(in)), doc); err != nil {
		s.Fail(context, fmt.Errorf("%w: %v", s.malformed, err))
		return
	}
	if s.validate != nil {
		if err := s.validate(doc); err != nil {
			if !errors.Is(err, s.malformed) {
				err = fmt.Errorf("%w: %v", s.malformed, err)
			}
			s.Fail(context, err)
			return
		}
	}

	s.Succeed(context, doc)
	context.Add(cor.CtxOut, doc)
}
