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

package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/jaycherian/gcp-go-style-passport/internal/api"
	"github.com/jaycherian/gcp-go-style-passport/internal/cloud"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/capture"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/commands"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/services"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/workflow"
)

// StateManager holds the shared components of the server.
type StateManager struct {
	config   *cloud.Config
	cloud    *cloud.ServiceClients
	snapshot services.SnapshotStore
	services *api.Services
}

var state = &StateManager{}

// Close releases the cloud clients and the snapshot store.
func (s *StateManager) Close() {
	if c, ok := s.snapshot.(io.Closer); ok {
		if err := c.Close(); err != nil {
			slog.Warn("failed to close snapshot store", "error", err)
		}
	}
	if s.cloud != nil {
		s.cloud.Close()
	}
}

func SetupOS() (err error) {
	if os.Getenv(cloud.EnvConfigFilePrefix) == "" {
		if err = os.Setenv(cloud.EnvConfigFilePrefix, "configs"); err != nil {
			return err
		}
	}
	if os.Getenv(cloud.EnvConfigRuntime) == "" {
		err = os.Setenv(cloud.EnvConfigRuntime, "local")
	}
	return err
}

func GetConfig() *cloud.Config {
	if state.config == nil {
		if err := SetupOS(); err != nil {
			log.Fatalf("failed to setup os: %v\n", err)
		}
		config := cloud.NewConfig()
		if err := cloud.LoadConfig(config); err != nil {
			log.Fatalf("failed to load configuration: %v\n", err)
		}
		state.config = config
	}
	return state.config
}

// agentModel returns the named model as an interface that is nil when the
// model is not configured.
func agentModel(clients *cloud.ServiceClients, name string) cloud.GenerativeModel {
	if m := clients.Model(name); m != nil {
		return m
	}
	slog.Warn("agent model is not configured", "model", name)
	return nil
}

// NewSnapshotStore opens the history backend selected in configuration.
func NewSnapshotStore(config *cloud.Config, clients *cloud.ServiceClients) (services.SnapshotStore, error) {
	switch config.Storage.HistoryBackend {
	case cloud.HistoryBackendGCS:
		return services.NewGCSSnapshotStore(clients.StorageClient, config.Storage.HistoryBucket, "history/"), nil
	case cloud.HistoryBackendMemory:
		return services.NewMemorySnapshotStore(), nil
	default:
		path := config.Storage.SQLitePath
		if path == "" {
			path = "style-passport.db"
		}
		return services.OpenSQLiteSnapshotStore(path)
	}
}

// NewCaptureManager builds the ffmpeg-backed recorder, or returns nil when
// the host cannot grab its display.
func NewCaptureManager(config *cloud.Config) *capture.Manager {
	c := config.Capture
	ffmpeg := capture.NewFFmpegCapturer(c.FFmpegPath, c.InputFormat, c.InputDevice, c.AudioDevice)
	if !ffmpeg.Supported() {
		slog.Warn("screen capture is not available on this host", "ffmpeg", ffmpeg.Path, "input_format", ffmpeg.InputFormat)
		return nil
	}
	return capture.NewManager(ffmpeg, ffmpeg, ffmpeg, capture.Options{
		Constraints: capture.Constraints{
			Width:     capture.Range{Ideal: c.Width, Max: c.Width},
			Height:    capture.Range{Ideal: c.Height, Max: c.Height},
			FrameRate: capture.Range{Ideal: c.FrameRateIdeal, Max: c.FrameRateMax},
			Audio:     c.Audio,
		},
		BitsPerSecond: c.BitsPerSecond,
		Timeslice:     time.Duration(c.TimesliceMs) * time.Millisecond,
	})
}

func InitState(ctx context.Context) {
	config := GetConfig()

	cloudClients, err := cloud.NewCloudServiceClients(ctx, config)
	if err != nil {
		panic(err)
	}
	state.cloud = cloudClients

	state.snapshot, err = NewSnapshotStore(config, cloudClients)
	if err != nil {
		panic(err)
	}
	history := services.NewHistoryStore(state.snapshot, config.History.Key, config.History.Capacity)
	history.Load(ctx)

	bq := cloudClients.BiqQueryClient
	analysis := workflow.NewAnalysisService(config,
		agentModel(cloudClients, cloud.ModelAnalysis),
		agentModel(cloudClients, cloud.ModelSearch),
		history, bq)
	tools := workflow.NewStudioService(config, agentModel(cloudClients, cloud.ModelCreative))

	s := &api.Services{
		Studio:         services.NewStudio(analysis, history, NewCaptureManager(config)),
		History:        history,
		Tools:          tools,
		EmbedOrigin:    config.Application.EmbedOrigin,
		MaxUploadBytes: config.Storage.MaxUploadMegabyte << 20,
	}

	if bucket := config.Storage.ExportsBucket; bucket != "" && cloudClients.StorageClient != nil {
		var signer commands.URLSigner
		if cloudClients.IAMClient != nil {
			signer = &cloud.URLSigner{
				StorageClient: cloudClients.StorageClient,
				IAMClient:     cloudClients.IAMClient,
				SignerEmail:   config.Application.SignerServiceAccountEmail,
			}
		}
		expires := time.Duration(config.Storage.SignedURLMinutes) * time.Minute
		s.Exports = workflow.NewExportPublishWorkflow(cloudClients.StorageClient, bucket, signer, expires)
	}

	if bq != nil {
		s.Archive = &services.ArchiveService{
			BigqueryClient: bq,
			DatasetName:    config.BigQueryDataSource.DatasetName,
			PassportTable:  config.BigQueryDataSource.PassportTable,
		}
	}
	state.services = s

	SetupListeners(config, cloudClients, analysis.Reference, ctx)
}
