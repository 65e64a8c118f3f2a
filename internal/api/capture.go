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
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/capture"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/model"
)

// StartCaptureRequest optionally restricts the capture to a region.
type StartCaptureRequest struct {
	Region *capture.Region `json:"region"`
}

// StopCaptureRequest carries the metrics typed in while recording.
type StopCaptureRequest struct {
	Metrics *model.Metrics `json:"metrics"`
}

// bindOptional decodes a JSON body when one was sent.
func bindOptional(c *gin.Context, dst any) error {
	if c.Request.ContentLength == 0 {
		return nil
	}
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// CaptureRouter sets up the screen recording routes.
func CaptureRouter(r *gin.RouterGroup, s *Services) {
	rec := r.Group("/capture")
	{
		rec.GET("", func(c *gin.Context) {
			info := s.Studio.CaptureStatus()
			if info == nil {
				c.JSON(http.StatusOK, gin.H{"state": capture.StateIdle})
				return
			}
			c.JSON(http.StatusOK, info)
		})

		rec.POST("/start", func(c *gin.Context) {
			var req StartCaptureRequest
			if err := bindOptional(c, &req); err != nil {
				badRequest(c, err)
				return
			}
			session, err := s.Studio.StartCapture(c.Request.Context(), capture.StartOptions{Region: req.Region})
			if err != nil {
				abortWithError(c, err)
				return
			}
			c.JSON(http.StatusOK, session.Info())
		})

		rec.POST("/stop", func(c *gin.Context) {
			var req StopCaptureRequest
			if err := bindOptional(c, &req); err != nil {
				badRequest(c, err)
				return
			}
			result, err := s.Studio.StopCapture(c.Request.Context(), req.Metrics)
			if err != nil {
				abortWithError(c, err)
				return
			}
			if result == nil {
				c.Status(http.StatusNoContent)
				return
			}
			c.JSON(http.StatusOK, result)
		})
	}
}
