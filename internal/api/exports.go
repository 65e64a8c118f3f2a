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
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/model"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/services"
)

// Content kinds accepted by the export route.
const (
	ContentText   = "text"
	ContentScript = "script"
	ContentJSON   = "json"
)

// ExportBody asks for a download of arbitrary studio content.
type ExportBody struct {
	Name    string          `json:"name"`
	Format  string          `json:"format"`
	Kind    string          `json:"kind"`
	Content json.RawMessage `json:"content"`
}

// Decode turns the raw content into the value the exporters expect.
func (b *ExportBody) Decode() (any, error) {
	switch b.Kind {
	case ContentText:
		var s string
		if err := json.Unmarshal(b.Content, &s); err != nil {
			return nil, fmt.Errorf("%w: text content must be a string", errBadRequest)
		}
		return s, nil
	case ContentScript:
		var script []model.ScriptLine
		if err := json.Unmarshal(b.Content, &script); err != nil {
			return nil, fmt.Errorf("%w: script content must be a list of lines", errBadRequest)
		}
		return script, nil
	case ContentJSON, "":
		var v any
		if err := json.Unmarshal(b.Content, &v); err != nil {
			return nil, fmt.Errorf("%w: %v", errBadRequest, err)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("%w: unknown content kind %q", errBadRequest, b.Kind)
	}
}

func writeFile(c *gin.Context, file *services.ExportFile) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.FileName))
	c.Data(http.StatusOK, file.MIMEType, file.Data)
}

// ExportRouter serves POST /exports. With publish=true the file is written
// to the exports bucket and a signed URL is returned instead of the bytes.
func ExportRouter(r *gin.RouterGroup, s *Services) {
	r.POST("/exports", func(c *gin.Context) {
		var body ExportBody
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		if body.Name == "" {
			body.Name = "export"
		}
		content, err := body.Decode()
		if err != nil {
			abortWithError(c, err)
			return
		}

		publish, _ := strconv.ParseBool(c.DefaultQuery("publish", "false"))
		if !publish {
			file, err := services.Export(body.Name, body.Format, content)
			if err != nil {
				abortWithError(c, err)
				return
			}
			writeFile(c, file)
			return
		}

		if _, err := services.NewExporter(body.Format); err != nil {
			abortWithError(c, err)
			return
		}
		obj, err := services.PublishExport(c.Request.Context(), s.Exports, &services.ExportRequest{
			Name:    body.Name,
			Format:  body.Format,
			Content: content,
		})
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusCreated, obj)
	})
}
