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
	"github.com/jaycherian/gcp-go-style-passport/internal/core/services"
)

// HistoryRouter sets up the routes over the stored analyses.
func HistoryRouter(r *gin.RouterGroup, s *Services) {
	history := r.Group("/history")
	{
		history.GET("", func(c *gin.Context) {
			c.JSON(http.StatusOK, s.History.List())
		})

		history.GET("/:id", func(c *gin.Context) {
			item, err := s.History.Get(c.Param("id"))
			if err != nil {
				abortWithError(c, err)
				return
			}
			c.JSON(http.StatusOK, item)
		})

		history.DELETE("/:id", func(c *gin.Context) {
			removed, err := s.History.Delete(c.Request.Context(), c.Param("id"))
			if !removed {
				abortWithError(c, services.ErrNotFound)
				return
			}
			if err != nil {
				// the item is gone from memory, only the snapshot is stale
				c.JSON(http.StatusOK, gin.H{"deleted": true, "warning": err.Error()})
				return
			}
			c.Status(http.StatusNoContent)
		})

		history.POST("/:id/select", func(c *gin.Context) {
			state, err := s.Studio.SelectHistory(c.Param("id"))
			if err != nil {
				abortWithError(c, err)
				return
			}
			c.JSON(http.StatusOK, state)
		})

		history.GET("/:id/export", func(c *gin.Context) {
			item, err := s.History.Get(c.Param("id"))
			if err != nil {
				abortWithError(c, err)
				return
			}
			file, err := services.Export("passport-"+item.Id, c.DefaultQuery("format", services.FormatJSON), item.Passport)
			if err != nil {
				abortWithError(c, err)
				return
			}
			writeFile(c, file)
		})
	}
}
