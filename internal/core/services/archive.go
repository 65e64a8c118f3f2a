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

// Package services contains the business logic of the studio. This file,
// archive.go, reads the passport archive that the analysis workflows append
// to in BigQuery.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/bigquery"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/model"
	"google.golang.org/api/iterator"
)

// ArchiveService queries the passport table.
type ArchiveService struct {
	BigqueryClient *bigquery.Client // Client for interacting with Google BigQuery.
	DatasetName    string           // The name of the BigQuery dataset.
	PassportTable  string           // The table the workflows insert into.
}

// GetFQN returns the table name in the dotted form used by standard SQL.
func (s *ArchiveService) GetFQN() string {
	fqn := s.BigqueryClient.Dataset(s.DatasetName).Table(s.PassportTable).FullyQualifiedName()
	return strings.Replace(fqn, ":", ".", -1)
}

// Recent returns up to limit archived analyses, newest first.
func (s *ArchiveService) Recent(ctx context.Context, limit int) ([]model.PassportRecord, error) {
	if s.BigqueryClient == nil {
		return nil, ErrNotConfigured
	}
	if limit <= 0 || limit > MaxArchivePage {
		limit = MaxArchivePage
	}
	q := s.BigqueryClient.Query(fmt.Sprintf(QryRecentPassports, s.GetFQN()))
	q.Parameters = []bigquery.QueryParameter{{Name: "limit", Value: limit}}
	itr, err := q.Read(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]model.PassportRecord, 0)
	for {
		var record model.PassportRecord
		err := itr.Next(&record)
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, nil
}

// Get returns one archived analysis.
func (s *ArchiveService) Get(ctx context.Context, id string) (*model.PassportRecord, error) {
	if s.BigqueryClient == nil {
		return nil, ErrNotConfigured
	}
	q := s.BigqueryClient.Query(fmt.Sprintf(QryFindPassportById, s.GetFQN()))
	q.Parameters = []bigquery.QueryParameter{{Name: "id", Value: id}}
	itr, err := q.Read(ctx)
	if err != nil {
		return nil, err
	}
	record := &model.PassportRecord{}
	err = itr.Next(record)
	if errors.Is(err, iterator.Done) {
		return nil, ErrNotFound
	}
	return record, err
}
