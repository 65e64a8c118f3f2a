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

// Package api exposes the studio over HTTP with gin. Each file registers one
// route group on the /api/v1 router; handlers only translate between HTTP
// and the services.
package api

import (
	"github.com/gin-gonic/gin"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/cor"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/services"
)

// DefaultMaxUploadBytes bounds multipart uploads when no limit is configured.
const DefaultMaxUploadBytes = 512 << 20

// Services are the dependencies shared by the handlers. Exports and Archive
// may be nil.
type Services struct {
	Studio         *services.Studio
	History        *services.HistoryStore
	Tools          *services.StudioService
	Exports        cor.Command
	Archive        *services.ArchiveService
	Encoder        *services.MediaEncoder
	EmbedOrigin    string
	MaxUploadBytes int64
}

// NewRouter registers every route group under /api/v1 on a new engine.
//
// Inputs:
//   - s: The services behind the handlers. Without Archive or Exports the
//     archive and publish routes answer 503.
//   - middleware: Handlers run before the routes, in order.
//
// Returns:
//   - *gin.Engine: The engine, ready for http.Server.
func NewRouter(s *Services, middleware ...gin.HandlerFunc) *gin.Engine {
	if s.Encoder == nil {
		s.Encoder = services.NewMediaEncoder()
	}
	if s.MaxUploadBytes <= 0 {
		s.MaxUploadBytes = DefaultMaxUploadBytes
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware...)

	apiV1 := r.Group("/api/v1")
	{
		ResolveRouter(apiV1, s)
		AnalysisRouter(apiV1, s)
		StateRouter(apiV1, s)
		CaptureRouter(apiV1, s)
		HistoryRouter(apiV1, s)
		ExportRouter(apiV1, s)
		StudioRouter(apiV1, s)
		Dashboard(apiV1, s)
	}
	return r
}
