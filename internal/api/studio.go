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

// CompareRequest names the history items to compare, in order.
type CompareRequest struct {
	IDs []string `json:"ids"`
}

// MoveNodeRequest is a drag of one interest map node, in percent.
type MoveNodeRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// StudioRouter sets up the generation tools.
func StudioRouter(r *gin.RouterGroup, s *Services) {
	studio := r.Group("/studio")
	{
		// The passport defaults to the one currently shown.
		studio.POST("/script", func(c *gin.Context) {
			var req model.ScriptRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				badRequest(c, err)
				return
			}
			if req.Passport == nil {
				req.Passport = s.Studio.State().Analysis.Passport
			}
			script, err := s.Tools.GenerateScript(c.Request.Context(), req.Topic, req.Passport)
			if err != nil {
				abortWithError(c, err)
				return
			}
			c.JSON(http.StatusOK, script)
		})

		studio.POST("/compare", func(c *gin.Context) {
			var req CompareRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				badRequest(c, err)
				return
			}
			if len(req.IDs) < services.MinComparisonItems || len(req.IDs) > services.MaxComparisonItems {
				abortWithError(c, services.ErrComparisonSize)
				return
			}
			items := make([]model.HistoryItem, 0, len(req.IDs))
			for _, id := range req.IDs {
				item, err := s.History.Get(id)
				if err != nil {
					abortWithError(c, err)
					return
				}
				items = append(items, *item)
			}
			report, err := s.Tools.CompareVideos(c.Request.Context(), items)
			if err != nil {
				abortWithError(c, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"report": report})
		})

		studio.GET("/interest-map", func(c *gin.Context) {
			roadmap := s.Studio.Roadmap()
			if roadmap == nil {
				abortWithError(c, services.ErrNotFound)
				return
			}
			c.JSON(http.StatusOK, roadmap)
		})

		studio.POST("/interest-map", func(c *gin.Context) {
			var req model.InterestMapRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				badRequest(c, err)
				return
			}
			roadmap, err := s.Tools.GenerateInterestMap(c.Request.Context(), req.InterestA, req.InterestB)
			if err != nil {
				abortWithError(c, err)
				return
			}
			s.Studio.SetRoadmap(roadmap)
			c.JSON(http.StatusOK, roadmap)
		})

		studio.PATCH("/interest-map/nodes/:id", func(c *gin.Context) {
			var req MoveNodeRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				badRequest(c, err)
				return
			}
			roadmap, err := s.Studio.MoveRoadmapNode(c.Param("id"), req.X, req.Y)
			if err != nil {
				abortWithError(c, err)
				return
			}
			c.JSON(http.StatusOK, roadmap)
		})

		// Ideas use the most recent analysis as style context.
		studio.POST("/ideas", func(c *gin.Context) {
			var req model.IdeasRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				badRequest(c, err)
				return
			}
			if latest := s.History.Latest(); req.Latest == nil && latest != nil {
				req.Latest = latest.Passport
			}
			ideas, err := s.Tools.GenerateContentIdeas(c.Request.Context(), req.Topic, req.Latest)
			if err != nil {
				abortWithError(c, err)
				return
			}
			c.JSON(http.StatusOK, ideas)
		})
	}
}
