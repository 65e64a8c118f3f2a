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

// This file defines the command that archives a finished analysis to
// BigQuery. It runs as the last step of the passport workflows and only when
// archiving is enabled (a nil client skips it). The passport is already in
// the history at that point, so an archive failure is logged and the chain
// carries on.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/cor"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/model"
)

// PassportPersistToBigQuery inserts a PassportRecord for the history item
// found under itemParam.
type PassportPersistToBigQuery struct {
	cor.BaseCommand
	client    *bigquery.Client // The client for interacting with the BigQuery service.
	dataset   string           // The name of the BigQuery dataset.
	table     string           // The name of the target table within the dataset.
	itemParam string           // The context key of the *model.HistoryItem.
	timeout   time.Duration    // Upper bound for one insert, retries included.
}

// DefaultArchiveTimeout bounds an insert when no timeout is configured.
const DefaultArchiveTimeout = 10 * time.Second

// NewPassportPersistToBigQuery creates the archive command.
//
// Inputs:
//   - name: The command name used for logs and metrics.
//   - client: The BigQuery client; nil disables the command.
//   - dataset, table: The destination table.
//   - itemParam: The context key holding the *model.HistoryItem.
//   - timeout: The deadline for one insert. Zero or less uses DefaultArchiveTimeout.
func NewPassportPersistToBigQuery(name string, client *bigquery.Client, dataset string, table string, itemParam string, timeout time.Duration) *PassportPersistToBigQuery {
	if timeout <= 0 {
		timeout = DefaultArchiveTimeout
	}
	return &PassportPersistToBigQuery{
		BaseCommand: *cor.NewBaseCommand(name),
		client:      client,
		dataset:     dataset,
		table:       table,
		itemParam:   itemParam,
		timeout:     timeout,
	}
}

// IsExecutable requires a client and a history item.
func (s *PassportPersistToBigQuery) IsExecutable(context cor.Context) bool {
	return s.client != nil && context != nil && context.Get(s.itemParam) != nil
}

// Execute archives the history item. Failures are logged at WARN and the
// item is passed on unchanged.
func (s *PassportPersistToBigQuery) Execute(context cor.Context) {
	item := context.Get(s.itemParam).(*model.HistoryItem)

	err := s.archive(context.GetContext(), item)
	if err != nil {
		s.ErrorCounter.Add(context.GetContext(), 1)
		slog.WarnContext(context.GetContext(), "failed to archive passport", "id", item.Id, "table", s.table, "error", err)
		context.Add(s.GetOutputParam(), item)
		return
	}

	slog.InfoContext(context.GetContext(), "passport archived", "id", item.Id, "table", s.table)
	s.Succeed(context, item)
}

// archive flattens item and puts one row. The inserter retries until its
// context ends, so the call runs under its own deadline.
func (s *PassportPersistToBigQuery) archive(ctx context.Context, item *model.HistoryItem) error {
	record, err := model.NewPassportRecord(item)
	if err != nil {
		return fmt.Errorf("failed to flatten passport %s: %w", item.Id, err)
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.client.Dataset(s.dataset).Table(s.table).Inserter().Put(ctx, record)
}
