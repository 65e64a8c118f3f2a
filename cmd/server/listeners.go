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

// Package main contains the logic for setting up and starting the Pub/Sub
// message listeners. A message on the analysis request subscription runs a
// reference analysis, so batches of links can be queued from outside the UI.
package main

import (
	"context"
	"log/slog"

	"github.com/jaycherian/gcp-go-style-passport/internal/cloud"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/cor"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/workflow"
)

// SetupListeners attaches the analysis request workflow to its subscription
// and starts listening in the background until ctx is done.
//
// Inputs:
//   - config: The application's configuration.
//   - cloudClients: The initialized cloud clients and their listeners.
//   - reference: The reference analysis workflow run for each request. When
//     nil the subscription is left alone.
//   - ctx: The application's root context.
func SetupListeners(config *cloud.Config, cloudClients *cloud.ServiceClients, reference cor.Command, ctx context.Context) {
	listener, ok := cloudClients.PubSubListeners[cloud.SubscriptionAnalysisRequests]
	if !ok {
		slog.Info("no analysis request subscription configured", "subscriptions", len(config.TopicSubscriptions))
		return
	}
	if reference == nil {
		slog.Warn("search model is not configured, analysis requests are not consumed", "subscription", cloud.SubscriptionAnalysisRequests)
		return
	}
	listener.SetCommand(workflow.NewAnalysisRequestWorkflow(reference))
	listener.Listen(ctx)
}
