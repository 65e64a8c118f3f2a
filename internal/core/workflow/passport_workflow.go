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

// Package workflow assembles commands into the studio's pipelines. This file
// defines the passport workflows that turn an AnalysisRequest into a
// validated StylePassport.
//
// Logic Flow:
//  1. build-passport-prompt renders the prompt (and attaches inline media in
//     media mode).
//  2. generate-passport sends one request to Gemini. Media mode uses the
//     analysis model bound to the passport schema; reference mode uses the
//     search-grounded model, which cannot take a schema.
//  3. convert-passport decodes and validates the reply. A malformed reply
//     stops the chain with model.ErrMalformedPassport.
//  4. append-history prepends the passport to the history.
//  5. archive-passport writes the analysis to BigQuery when archiving is on.
//     The insert is bounded by archive_timeout and a failure is only logged:
//     the passport is already in the history.
package workflow

import (
	"cloud.google.com/go/bigquery"
	"github.com/jaycherian/gcp-go-style-passport/internal/cloud"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/commands"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/cor"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/model"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/services"
)

// PassportWorkflow is the analysis pipeline for one request mode.
type PassportWorkflow struct {
	cor.BaseCommand
	config         *cloud.Config
	mode           model.AnalysisMode
	genaiModel     cloud.GenerativeModel
	history        *services.HistoryStore
	bigqueryClient *bigquery.Client
	chain          cor.Chain // The underlying chain of commands to be executed.
}

// Execute runs the chain. The request is expected under cor.CtxIn.
func (p *PassportWorkflow) Execute(context cor.Context) {
	p.chain.Execute(context)
}

// IsExecutable requires an analysis request of this workflow's mode.
func (p *PassportWorkflow) IsExecutable(context cor.Context) bool {
	if !p.BaseCommand.IsExecutable(context) {
		return false
	}
	req, ok := context.Get(p.GetInputParam()).(*model.AnalysisRequest)
	return ok && req.Mode == p.mode
}

func validatePassport(p *model.StylePassport) error {
	return p.Validate()
}

func (p *PassportWorkflow) initializeChain() {
	prompt, err := commands.NewPassportPromptBuilder("build-passport-prompt", p.config.PromptTemplates)
	if err != nil {
		panic(err) // Panic on failure, as the app cannot run without valid templates.
	}

	out := cor.NewBaseChain(p.GetName())
	out.AddCommand(prompt)
	out.AddCommand(commands.NewContentGenerator("generate-passport", p.genaiModel))
	out.AddCommand(commands.NewJsonToStruct[model.StylePassport](
		"convert-passport", cloud.GetPassportName(), model.ErrMalformedPassport, validatePassport))
	out.AddCommand(commands.NewHistoryAppend("append-history", p.history))
	out.AddCommand(commands.NewPassportPersistToBigQuery(
		"archive-passport",
		p.bigqueryClient,
		p.config.BigQueryDataSource.DatasetName,
		p.config.BigQueryDataSource.PassportTable,
		cloud.GetHistoryItemName(),
		p.config.BigQueryDataSource.ArchiveTimeout))

	p.chain = out
}

func newPassportWorkflow(name string, mode model.AnalysisMode, config *cloud.Config, genaiModel cloud.GenerativeModel, history *services.HistoryStore, bigqueryClient *bigquery.Client) *PassportWorkflow {
	if !config.BigQueryDataSource.ArchiveEnabled {
		bigqueryClient = nil
	}
	workflow := &PassportWorkflow{
		BaseCommand:    *cor.NewBaseCommand(name),
		config:         config,
		mode:           mode,
		genaiModel:     genaiModel,
		history:        history,
		bigqueryClient: bigqueryClient,
	}
	workflow.initializeChain()
	return workflow
}

// NewPassportMediaWorkflow analyses inline media. genaiModel is bound to the
// passport schema.
func NewPassportMediaWorkflow(config *cloud.Config, genaiModel cloud.GenerativeModel, history *services.HistoryStore, bigqueryClient *bigquery.Client) *PassportWorkflow {
	return newPassportWorkflow("passport-media-workflow", model.AnalysisModeMedia, config,
		cloud.BindSchema(genaiModel, commands.PassportSchema()), history, bigqueryClient)
}

// NewPassportReferenceWorkflow analyses a published video by URL with the
// search-grounded model.
func NewPassportReferenceWorkflow(config *cloud.Config, genaiModel cloud.GenerativeModel, history *services.HistoryStore, bigqueryClient *bigquery.Client) *PassportWorkflow {
	return newPassportWorkflow("passport-reference-workflow", model.AnalysisModeReference, config, genaiModel, history, bigqueryClient)
}
