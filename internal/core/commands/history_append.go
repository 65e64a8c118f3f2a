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

package commands

import (
	"fmt"
	"log/slog"

	"github.com/jaycherian/gcp-go-style-passport/internal/cloud"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/cor"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/model"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/services"
)

// HistoryAppend records a validated passport in the analysis history. The
// video URL and platform come from the request stored by the prompt builder.
// Process-local URLs are stored as null by the history item constructor.
type HistoryAppend struct {
	cor.BaseCommand
	history *services.HistoryStore
}

func NewHistoryAppend(name string, history *services.HistoryStore) *HistoryAppend {
	out := &HistoryAppend{BaseCommand: *cor.NewBaseCommand(name), history: history}
	out.OutputParamName = cloud.GetHistoryItemName()
	return out
}

func (h *HistoryAppend) IsExecutable(context cor.Context) bool {
	return h.history != nil && h.BaseCommand.IsExecutable(context)
}

// Execute appends the item. A failed snapshot write is logged and does not
// fail the analysis; the in-memory history already holds the item.
func (h *HistoryAppend) Execute(context cor.Context) {
	passport, ok := context.Get(h.GetInputParam()).(*model.StylePassport)
	if !ok {
		h.Fail(context, fmt.Errorf("input is not a style passport"))
		return
	}

	var videoURL *string
	platform := model.PlatformNative
	if req, ok := context.Get(cloud.GetAnalysisRequestName()).(*model.AnalysisRequest); ok {
		if req.URL != "" {
			u := req.URL
			videoURL = &u
		}
		if req.Platform != "" {
			platform = req.Platform
		}
	}

	item, err := h.history.Add(context.GetContext(), passport, videoURL, platform)
	if err != nil {
		slog.WarnContext(context.GetContext(), "history snapshot not persisted", "id", item.Id, "error", err)
	}

	h.Succeed(context, item)
	context.Add(cor.CtxOut, item)
}
