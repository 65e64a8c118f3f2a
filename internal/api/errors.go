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

package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/capture"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/commands"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/model"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/services"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/workflow"
)

// errBadRequest marks request validation failures raised by the handlers.
var errBadRequest = errors.New("bad request")

var captureStatus = map[capture.Kind]int{
	capture.KindUnsupported:      http.StatusNotImplemented,
	capture.KindPermissionDenied: http.StatusForbidden,
	capture.KindNotFound:         http.StatusNotFound,
	capture.KindUnknown:          http.StatusInternalServerError,
}

// StatusFor maps an error onto an HTTP status and the message shown to the
// user. Backend failures keep their message; malformed documents do not.
func StatusFor(err error) (int, string) {
	var capErr *capture.Error
	switch {
	case errors.As(err, &capErr):
		return captureStatus[capErr.Kind], capErr.Message
	case errors.Is(err, services.ErrAnalysisInFlight), errors.Is(err, capture.ErrSessionBusy):
		return http.StatusConflict, err.Error()
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, errBadRequest),
		errors.Is(err, services.ErrComparisonSize),
		errors.Is(err, services.ErrUnknownFormat),
		errors.Is(err, services.ErrEmptyMedia),
		errors.Is(err, workflow.ErrInvalidRequest):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrNotConfigured):
		return http.StatusServiceUnavailable, err.Error()
	case errors.Is(err, commands.ErrMalformedResponse):
		return http.StatusBadGateway, err.Error()
	case errors.Is(err, model.ErrMalformedPassport):
		return http.StatusBadGateway, model.GenericAnalysisError
	default:
		return http.StatusInternalServerError, model.AnalysisErrorMessage(err)
	}
}

func abortWithError(c *gin.Context, err error) {
	status, msg := StatusFor(err)
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), "request failed", "path", c.FullPath(), "status", status, "error", err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
