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

// Package services contains the business logic of the studio. This file
// centralizes the BigQuery SQL used by the archive. The table name is
// injected with fmt.Sprintf; values are bound as named query parameters.
package services

// MaxArchivePage caps the rows returned by one archive query.
const MaxArchivePage = 100

const (
	// QryRecentPassports lists the newest archived analyses.
	QryRecentPassports = "SELECT * FROM `%s` ORDER BY create_date DESC LIMIT @limit"

	// QryFindPassportById looks up one analysis by its history id.
	QryFindPassportById = "SELECT * FROM `%s` WHERE id = @id LIMIT 1"
)
