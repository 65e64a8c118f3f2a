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

// Package workflow_test runs the workflows against a scripted model and an
// in-memory history, so no Google Cloud project is needed.
package workflow_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/jaycherian/gcp-go-style-passport/internal/cloud"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/cor"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/services"
	"github.com/jaycherian/gcp-go-style-passport/internal/telemetry"
	test "github.com/jaycherian/gcp-go-style-passport/internal/testutil"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
)

const tName = "github.com/jaycherian/gcp-go-style-passport/tests/workflow"

var (
	tracer = otel.Tracer(tName)
	logger = otelslog.NewLogger(tName)
)

var (
	ctx    context.Context
	config *cloud.Config
)

func TestMain(m *testing.M) {
	var cancel context.CancelFunc
	ctx, cancel = context.WithCancel(context.Background())
	defer cancel()

	config = test.GetConfig()
	telemetry.SetupLogging(slog.LevelWarn)

	exitCode := m.Run()
	cancel()
	os.Exit(exitCode)
}

func newHistory() *services.HistoryStore {
	return services.NewHistoryStore(services.NewMemorySnapshotStore(), config.History.Key, config.History.Capacity)
}

func run(command cor.Command, input interface{}) cor.Context {
	spanCtx, span := tracer.Start(ctx, command.GetName())
	defer span.End()

	chainCtx := cor.NewContextWith(spanCtx, input)
	if command.IsExecutable(chainCtx) {
		command.Execute(chainCtx)
	}
	logger.DebugContext(spanCtx, "workflow finished", "workflow", command.GetName(), "errors", len(chainCtx.GetErrors()))
	return chainCtx
}
