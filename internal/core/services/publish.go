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

package services

import (
	"context"
	"fmt"

	"github.com/jaycherian/gcp-go-style-passport/internal/cloud"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/cor"
)

// PublishExport runs the export publish workflow for req and returns the
// written object. SignedURL is empty when no signer is configured.
func PublishExport(ctx context.Context, workflow cor.Command, req *ExportRequest) (*cloud.GCSObject, error) {
	if workflow == nil {
		return nil, ErrNotConfigured
	}
	chainCtx := cor.NewContextWith(ctx, req)
	defer chainCtx.Close()

	workflow.Execute(chainCtx)
	if err := chainCtx.FirstError(); err != nil {
		return nil, err
	}
	obj, ok := chainCtx.Get(cloud.GetGCSObjectName()).(*cloud.GCSObject)
	if !ok {
		return nil, fmt.Errorf("export was not uploaded")
	}
	return obj, nil
}
