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
	"github.com/jaycherian/gcp-go-style-passport/internal/core/commands"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/cor"
)

// AnalysisRequestWorkflow serves the AnalysisRequests subscription: it reads
// the message and runs the reference analysis for it.
type AnalysisRequestWorkflow struct {
	cor.BaseCommand
	chain cor.Chain
}

func (a *AnalysisRequestWorkflow) Execute(context cor.Context) {
	a.chain.Execute(context)
}

// NewAnalysisRequestWorkflow wraps reference, which is usually the workflow
// returned by NewPassportReferenceWorkflow.
func NewAnalysisRequestWorkflow(reference cor.Command) *AnalysisRequestWorkflow {
	out := &AnalysisRequestWorkflow{BaseCommand: *cor.NewBaseCommand("analysis-request-workflow")}
	chain := cor.NewBaseChain(out.GetName())
	chain.AddCommand(commands.NewAnalysisRequestReader("read-analysis-request"))
	chain.AddCommand(reference)
	out.chain = chain
	return out
}
