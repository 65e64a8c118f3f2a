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
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/model"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/services"
)

// MediaAnalysisRequest carries an already encoded video. Data may be a data
// URL or bare base64.
type MediaAnalysisRequest struct {
	Data     string         `json:"data"`
	MIMEType string         `json:"mime_type"`
	URL      string         `json:"url"`
	Platform string         `json:"platform"`
	Metrics  *model.Metrics `json:"metrics"`
}

// ReferenceAnalysisRequest asks for an analysis of a public link.
type ReferenceAnalysisRequest struct {
	URL      string `json:"url"`
	Platform string `json:"platform"`
}

// platformOrDefault parses in, falling back to def when in is empty.
func platformOrDefault(in string, def model.Platform) (model.Platform, error) {
	if strings.TrimSpace(in) == "" {
		return def, nil
	}
	p, err := model.ParsePlatform(in)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return p, nil
}

// formCount reads an optional non-negative count. Empty fields are zero.
func formCount(c *gin.Context, key string) (int64, error) {
	v := strings.TrimSpace(c.PostForm(key))
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", errBadRequest, key)
	}
	return n, nil
}

// AnalysisRouter sets up the routes that start analyses.
func AnalysisRouter(r *gin.RouterGroup, s *Services) {
	analysis := r.Group("/analysis")
	{
		analysis.GET("", func(c *gin.Context) {
			c.JSON(http.StatusOK, s.Studio.State())
		})

		// multipart: file, views, likes, comments, platform
		analysis.POST("/upload", func(c *gin.Context) {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.MaxUploadBytes)
			header, err := c.FormFile("file")
			if err != nil {
				badRequest(c, fmt.Errorf("file is required: %v", err))
				return
			}
			f, err := header.Open()
			if err != nil {
				abortWithError(c, err)
				return
			}
			defer f.Close()
			data, err := io.ReadAll(f)
			if err != nil {
				abortWithError(c, err)
				return
			}

			metrics := &model.Metrics{}
			for key, dst := range map[string]*int64{"views": &metrics.Views, "likes": &metrics.Likes, "comments": &metrics.Comments} {
				if *dst, err = formCount(c, key); err != nil {
					abortWithError(c, err)
					return
				}
			}
			platform, err := platformOrDefault(c.PostForm("platform"), model.PlatformNative)
			if err != nil {
				abortWithError(c, err)
				return
			}

			mimeType := header.Header.Get("Content-Type")
			if mimeType == "" || mimeType == "application/octet-stream" {
				mimeType = services.SniffMIME(data, model.DefaultMediaMIMEType)
			}
			blob := &model.MediaBlob{Data: data, MIMEType: mimeType}
			result, err := s.Studio.AnalyzeBlob(c.Request.Context(), blob, metrics, platform)
			if err != nil {
				abortWithError(c, err)
				return
			}
			c.JSON(http.StatusOK, result)
		})

		analysis.POST("/media", func(c *gin.Context) {
			var req MediaAnalysisRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				badRequest(c, err)
				return
			}
			payload, err := services.ParseDataURL(req.Data)
			if err != nil {
				abortWithError(c, fmt.Errorf("%w: %v", errBadRequest, err))
				return
			}
			if req.MIMEType != "" {
				payload.MIMEType = req.MIMEType
			}
			if payload.MIMEType == "" {
				raw, err := s.Encoder.Decode(payload)
				if err != nil {
					abortWithError(c, fmt.Errorf("%w: %v", errBadRequest, err))
					return
				}
				payload.MIMEType = services.SniffMIME(raw, model.DefaultMediaMIMEType)
			}
			platform, err := platformOrDefault(req.Platform, model.PlatformNative)
			if err != nil {
				abortWithError(c, err)
				return
			}
			result, err := s.Studio.AnalyzeMedia(c.Request.Context(), model.AnalysisRequest{
				Mode:     model.AnalysisModeMedia,
				Payload:  &payload,
				URL:      req.URL,
				Metrics:  req.Metrics,
				Platform: platform,
			})
			if err != nil {
				abortWithError(c, err)
				return
			}
			c.JSON(http.StatusOK, result)
		})

		analysis.POST("/reference", func(c *gin.Context) {
			var req ReferenceAnalysisRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				badRequest(c, err)
				return
			}
			if strings.TrimSpace(req.URL) == "" {
				badRequest(c, fmt.Errorf("url is required"))
				return
			}
			platform, err := platformOrDefault(req.Platform, "")
			if err != nil {
				abortWithError(c, err)
				return
			}
			result, err := s.Studio.AnalyzeReference(c.Request.Context(), req.URL, platform)
			if err != nil {
				abortWithError(c, err)
				return
			}
			c.JSON(http.StatusOK, result)
		})
	}
}

// StateRouter sets up the navigation routes of the client state.
func StateRouter(r *gin.RouterGroup, s *Services) {
	state := r.Group("/state")
	{
		state.GET("", func(c *gin.Context) {
			c.JSON(http.StatusOK, s.Studio.State())
		})

		state.PUT("/view", func(c *gin.Context) {
			var req struct {
				View string `json:"view"`
			}
			if err := c.ShouldBindJSON(&req); err != nil {
				badRequest(c, err)
				return
			}
			v, err := model.ParseView(req.View)
			if err != nil {
				badRequest(c, err)
				return
			}
			c.JSON(http.StatusOK, s.Studio.SetView(v))
		})

		state.PUT("/platform", func(c *gin.Context) {
			var req struct {
				Platform string `json:"platform"`
			}
			if err := c.ShouldBindJSON(&req); err != nil {
				badRequest(c, err)
				return
			}
			p, err := model.ParsePlatform(req.Platform)
			if err != nil {
				badRequest(c, err)
				return
			}
			c.JSON(http.StatusOK, s.Studio.ChangePlatform(p))
		})

		state.DELETE("/error", func(c *gin.Context) {
			c.JSON(http.StatusOK, s.Studio.DismissError())
		})
	}
}
