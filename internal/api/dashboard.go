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

// This file defines the dashboard endpoints: aggregate statistics over the
// local history and read access to the BigQuery archive.
//
// Functions:
//   - Dashboard: registers GET /stats, GET /archive and GET /archive/:id.
//     The archive routes answer 503 when archiving is not configured.
package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/services"
)

// Dashboard configures the statistics and archive routes.
//
// Inputs:
//   - r: the /api/v1 router group.
//   - s: the shared services. s.Archive may be nil.
func Dashboard(r *gin.RouterGroup, s *Services) {
	stats := r.Group("/stats")
	{
		stats.GET("", func(c *gin.Context) {
			c.JSON(http.StatusOK, services.ComputeStats(s.History.List()))
		})
	}

	archive := r.Group("/archive")
	{
		archive.GET("", func(c *gin.Context) {
			if s.Archive == nil {
				abortWithError(c, services.ErrNotConfigured)
				return
			}
			limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
			if err != nil {
				limit = 20
			}
			records, err := s.Archive.Recent(c.Request.Context(), limit)
			if err != nil {
				abortWithError(c, err)
				return
			}
			c.JSON(http.StatusOK, records)
		})

		archive.GET("/:id", func(c *gin.Context) {
			if s.Archive == nil {
				abortWithError(c, services.ErrNotConfigured)
				return
			}
			record, err := s.Archive.Get(c.Request.Context(), c.Param("id"))
			if err != nil {
				abortWithError(c, err)
				return
			}
			c.JSON(http.StatusOK, record)
		})
	}
}
