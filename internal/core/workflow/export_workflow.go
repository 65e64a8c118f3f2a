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
	"time"

	"cloud.google.com/go/storage"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/commands"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/cor"
)

// ExportPublishWorkflow renders an export and, when a bucket is configured,
// uploads it and signs a download URL. Without a bucket only the rendered
// file is produced.
type ExportPublishWorkflow struct {
	cor.BaseCommand
	chain cor.Chain
}

func (e *ExportPublishWorkflow) Execute(context cor.Context) {
	e.chain.Execute(context)
}

func NewExportPublishWorkflow(client *storage.Client, bucket string, signer commands.URLSigner, expires time.Duration) *ExportPublishWorkflow {
	out := &ExportPublishWorkflow{BaseCommand: *cor.NewBaseCommand("export-publish-workflow")}
	chain := cor.NewBaseChain(out.GetName())
	chain.AddCommand(commands.NewExportRender("render-export"))
	chain.AddCommand(commands.NewExportUpload("upload-export", client, bucket, "exports/"))
	chain.AddCommand(commands.NewExportSign("sign-export", signer, expires))
	out.chain = chain
	return out
}
