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
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/model"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/services"
)

// ResolveResponse is the normalized reference with its embed description.
type ResolveResponse struct {
	Ref   model.NormalizedVideoRef `json:"ref"`
	Embed model.Embed              `json:"embed"`
}

// ResolveRouter serves GET /resolve?url=.
func ResolveRouter(r *gin.RouterGroup, s *Services) {
	r.GET("/resolve", func(c *gin.Context) {
		raw := c.Query("url")
		ref := services.Normalize(raw)
		if ref.Cleaned == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
			return
		}
		c.JSON(http.StatusOK, ResolveResponse{Ref: ref, Embed: services.EmbedFor(ref, s.EmbedOrigin)})
	})
}
