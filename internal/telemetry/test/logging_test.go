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

package telemetry_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/jaycherian/gcp-go-style-passport/internal/telemetry"
	"github.com/zeebo/assert"
)

func TestLogHandlerUsesCloudLoggingKeys(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(telemetry.NewLogHandler(&buf, slog.LevelInfo))
	logger.WarnContext(context.Background(), "history snapshot unreadable", "key", "analysis_history")

	var entry map[string]any
	assert.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, entry["severity"], "WARNING")
	assert.Equal(t, entry["message"], "history snapshot unreadable")
	assert.Equal(t, entry["key"], "analysis_history")
	_, hasTimestamp := entry["timestamp"]
	assert.True(t, hasTimestamp)
}

func TestLogHandlerHonoursLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(telemetry.NewLogHandler(&buf, slog.LevelWarn))
	logger.Info("dropped")
	assert.Equal(t, buf.Len(), 0)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, telemetry.ParseLevel("DEBUG"), slog.LevelDebug)
	assert.Equal(t, telemetry.ParseLevel("warning"), slog.LevelWarn)
	assert.Equal(t, telemetry.ParseLevel(""), slog.LevelInfo)
}
