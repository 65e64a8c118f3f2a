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

// This file defines the commands of the export publish workflow.
//
// Logic Flow:
//  1. ExportRender turns an ExportRequest into a file with services.Export.
//  2. ExportUpload writes the file to the exports bucket under a unique
//     prefix so repeated exports of the same name never collide.
//  3. ExportSign attaches a V4 signed download URL to the written object.
package commands

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/jaycherian/gcp-go-style-passport/internal/cloud"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/cor"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/services"
)

// ExportRender renders the requested export.
type ExportRender struct {
	cor.BaseCommand
}

func NewExportRender(name string) *ExportRender {
	out := &ExportRender{BaseCommand: *cor.NewBaseCommand(name)}
	out.OutputParamName = cloud.GetExportName()
	return out
}

func (c *ExportRender) Execute(context cor.Context) {
	req, ok := context.Get(c.GetInputParam()).(*services.ExportRequest)
	if !ok {
		c.Fail(context, fmt.Errorf("input is not an export request"))
		return
	}
	file, err := services.Export(req.Name, req.Format, req.Content)
	if err != nil {
		c.Fail(context, err)
		return
	}
	c.Succeed(context, file)
	context.Add(cor.CtxOut, file)
}

// ExportUpload writes a rendered file to a GCS bucket.
type ExportUpload struct {
	cor.BaseCommand
	client *storage.Client // The GCS client for interacting with the storage service.
	bucket string          // The name of the destination GCS bucket.
	prefix string
}

func NewExportUpload(name string, client *storage.Client, bucket string, prefix string) *ExportUpload {
	out := &ExportUpload{BaseCommand: *cor.NewBaseCommand(name), client: client, bucket: bucket, prefix: prefix}
	out.OutputParamName = cloud.GetGCSObjectName()
	return out
}

// IsExecutable requires a client and a bucket.
func (c *ExportUpload) IsExecutable(context cor.Context) bool {
	return c.client != nil && c.bucket != "" && c.BaseCommand.IsExecutable(context)
}

// ObjectName returns the object a file is written to.
func (c *ExportUpload) ObjectName(fileName string) string {
	return fmt.Sprintf("%s%s/%s/%s", c.prefix, time.Now().UTC().Format("2006/01/02"), uuid.NewString(), fileName)
}

func (c *ExportUpload) Execute(context cor.Context) {
	file, ok := context.Get(c.GetInputParam()).(*services.ExportFile)
	if !ok {
		c.Fail(context, fmt.Errorf("input is not an export file"))
		return
	}

	obj := c.client.Bucket(c.bucket).Object(c.ObjectName(file.FileName))
	writer := obj.NewWriter(context.GetContext())
	writer.ContentType = file.MIMEType
	writer.ContentDisposition = fmt.Sprintf("attachment; filename=%q", file.FileName)

	if written, err := io.Copy(writer, bytes.NewReader(file.Data)); err != nil {
		_ = writer.Close()
		slog.ErrorContext(context.GetContext(), "failed to copy to GCS or partial write", "bytes", written, "error", err)
		c.Fail(context, err)
		return
	}
	if err := writer.Close(); err != nil {
		c.Fail(context, fmt.Errorf("failed to close GCS writer: %w", err))
		return
	}

	slog.InfoContext(context.GetContext(), "export uploaded", "bucket", c.bucket, "object", obj.ObjectName())
	out := &cloud.GCSObject{Bucket: c.bucket, Name: obj.ObjectName(), MIMEType: file.MIMEType}
	c.Succeed(context, out)
	context.Add(cor.CtxOut, out)
}

// URLSigner signs GCS objects for download.
type URLSigner interface {
	SignedURL(ctx context.Context, bucket, object string, expires time.Duration) (string, error)
}

// ExportSign attaches a signed URL to the uploaded object.
type ExportSign struct {
	cor.BaseCommand
	signer  URLSigner
	expires time.Duration
}

func NewExportSign(name string, signer URLSigner, expires time.Duration) *ExportSign {
	return &ExportSign{BaseCommand: *cor.NewBaseCommand(name), signer: signer, expires: expires}
}

func (c *ExportSign) IsExecutable(context cor.Context) bool {
	return c.signer != nil && c.BaseCommand.IsExecutable(context)
}

func (c *ExportSign) Execute(context cor.Context) {
	obj, ok := context.Get(c.GetInputParam()).(*cloud.GCSObject)
	if !ok {
		c.Fail(context, fmt.Errorf("input is not a GCS object"))
		return
	}
	u, err := c.signer.SignedURL(context.GetContext(), obj.Bucket, obj.Name, c.expires)
	if err != nil {
		c.Fail(context, err)
		return
	}
	obj.SignedURL = u
	c.Succeed(context, obj)
}
