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

package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jaycherian/gcp-go-style-passport/internal/cli"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/model"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryOpener hands every command the same in-memory store.
func memoryOpener(store services.SnapshotStore) cli.StoreOpener {
	return func(string) (services.SnapshotStore, error) { return store, nil }
}

func seeded(t *testing.T, platforms ...model.Platform) (services.SnapshotStore, []*model.HistoryItem) {
	t.Helper()
	store := services.NewMemorySnapshotStore()
	h := services.NewHistoryStore(store, "", 0)
	items := make([]*model.HistoryItem, 0, len(platforms))
	for _, p := range platforms {
		item, err := h.Add(context.Background(), model.GetExamplePassport(), nil, p)
		require.NoError(t, err)
		items = append(items, item)
	}
	return store, items
}

func run(t *testing.T, store services.SnapshotStore, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := cli.NewRootCmd(memoryOpener(store))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestNormalize(t *testing.T) {
	out, err := run(t, services.NewMemorySnapshotStore(), "normalize", "https://www.youtube.com/shorts/dQw4w9WgXcQ")
	require.NoError(t, err)

	var got struct {
		Ref   model.NormalizedVideoRef `json:"ref"`
		Embed model.Embed              `json:"embed"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, model.PlatformYouTube, got.Ref.Platform)
	assert.Equal(t, "dQw4w9WgXcQ", got.Ref.ID)
	assert.True(t, got.Embed.Portrait)

	_, err = run(t, services.NewMemorySnapshotStore(), "normalize")
	assert.Error(t, err)
}

func TestHistoryList(t *testing.T) {
	store, items := seeded(t, model.PlatformYouTube, model.PlatformTikTok)

	out, err := run(t, store, "history", "list")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], items[1].Id))
	assert.Contains(t, lines[2], "youtube")

	out, err = run(t, services.NewMemorySnapshotStore(), "history", "list")
	require.NoError(t, err)
	assert.Equal(t, "No analyses found.\n", out)
}

func TestHistoryDelete(t *testing.T) {
	store, items := seeded(t, model.PlatformYouTube, model.PlatformTikTok)

	_, err := run(t, store, "history", "delete", items[0].Id)
	require.NoError(t, err)

	h := services.NewHistoryStore(store, "", 0)
	h.Load(context.Background())
	require.Len(t, h.List(), 1)
	assert.Equal(t, items[1].Id, h.List()[0].Id)

	_, err = run(t, store, "history", "delete", items[0].Id)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestHistoryExport(t *testing.T) {
	store, items := seeded(t, model.PlatformInstagram)

	out, err := run(t, store, "history", "export", items[0].Id)
	require.NoError(t, err)
	var passport model.StylePassport
	require.NoError(t, json.Unmarshal([]byte(out), &passport))
	assert.Equal(t, model.GetExamplePassport().CreatorProfileSummary, passport.CreatorProfileSummary)

	path := filepath.Join(t.TempDir(), "passport.doc")
	_, err = run(t, store, "history", "export", items[0].Id, "-f", "doc", "-o", path)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	_, err = run(t, store, "history", "export", items[0].Id, "-f", "pdf")
	assert.ErrorIs(t, err, services.ErrUnknownFormat)
	_, err = run(t, store, "history", "export", "missing")
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestStats(t *testing.T) {
	store, _ := seeded(t, model.PlatformYouTube, model.PlatformYouTube, model.PlatformTikTok)

	out, err := run(t, store, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Analyses:        3")
	assert.Contains(t, out, "youtube")
	assert.NotContains(t, out, "instagram")
}
