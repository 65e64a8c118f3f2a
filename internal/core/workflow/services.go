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

package workflow

import (
	"cloud.google.com/go/bigquery"
	"github.com/jaycherian/gcp-go-style-passport/internal/cloud"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/cor"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/services"
)

// NewAnalysisService wires the passport workflows into an AnalysisService.
// A mode whose model is nil gets no workflow, so its calls fail with
// services.ErrNotConfigured.
//
// Inputs:
//   - config: The application's configuration.
//   - analysisModel: The schema-bound model for media analyses.
//   - searchModel: The search-grounded model for reference analyses.
//   - history: The history every successful analysis is appended to.
//   - bigqueryClient: The archive client; nil disables archiving.
func NewAnalysisService(config *cloud.Config, analysisModel cloud.GenerativeModel, searchModel cloud.GenerativeModel, history *services.HistoryStore, bigqueryClient *bigquery.Client) *services.AnalysisService {
	var media, reference cor.Command
	if analysisModel != nil {
		media = NewPassportMediaWorkflow(config, analysisModel, history, bigqueryClient)
	}
	if searchModel != nil {
		reference = NewPassportReferenceWorkflow(config, searchModel, history, bigqueryClient)
	}
	return services.NewAnalysisService(services.NewMediaEncoder(), media, reference)
}

// NewStudioService wires the generation workflows to the creative model.
// Without a model every tool reports services.ErrNotConfigured.
func NewStudioService(config *cloud.Config, creative cloud.GenerativeModel) *services.StudioService {
	if creative == nil {
		return &services.StudioService{}
	}
	return &services.StudioService{
		Script:      NewScriptWorkflow(config, creative),
		Comparison:  NewComparisonWorkflow(config, creative),
		InterestMap: NewInterestMapWorkflow(config, creative),
		Ideas:       NewIdeasWorkflow(config, creative),
	}
}
