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

package api_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jaycherian/gcp-go-style-passport/internal/api"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/capture"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/model"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/services"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/workflow"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err    error
		status int
		msg    string
	}{
		{services.ErrAnalysisInFlight, http.StatusConflict, services.ErrAnalysisInFlight.Error()},
		{capture.ErrSessionBusy, http.StatusConflict, capture.ErrSessionBusy.Error()},
		{fmt.Errorf("lookup: %w", services.ErrNotFound), http.StatusNotFound, "lookup: not found"},
		{services.ErrComparisonSize, http.StatusBadRequest, services.ErrComparisonSize.Error()},
		{fmt.Errorf("%w: topic is empty", workflow.ErrInvalidRequest), http.StatusBadRequest, "invalid request: topic is empty"},
		{services.ErrNotConfigured, http.StatusServiceUnavailable, services.ErrNotConfigured.Error()},
		{capture.NewError(capture.KindPermissionDenied, capture.ErrPermissionDenied), http.StatusForbidden,
			"Screen access was denied. Please allow screen capture and try again."},
		{capture.NewError(capture.KindNotFound, capture.ErrDeviceNotFound), http.StatusNotFound, "No recording device was found."},
		{fmt.Errorf("%w: missing summary", model.ErrMalformedPassport), http.StatusBadGateway, model.GenericAnalysisError},
		{errors.New("quota exceeded"), http.StatusInternalServerError, "quota exceeded"},
	}
	for _, tc := range cases {
		status, msg := api.StatusFor(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.msg, msg)
	}
}
