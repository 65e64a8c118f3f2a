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

// Package cli implements stylectl, a command line companion of the studio
// server that works directly on the history snapshot.
package cli

import (
	"fmt"
	"io"

	"github.com/jaycherian/gcp-go-style-passport/internal/core/model"
	"github.com/jaycherian/gcp-go-style-passport/internal/core/services"
	"github.com/spf13/cobra"
)

// StoreOpener opens the snapshot store at path.
type StoreOpener func(path string) (services.SnapshotStore, error)

// OpenSQLite is the default StoreOpener.
func OpenSQLite(path string) (services.SnapshotStore, error) {
	return services.OpenSQLiteSnapshotStore(path)
}

type rootOptions struct {
	open     StoreOpener
	dbPath   string
	key      string
	capacity int
}

// NewRootCmd builds the command tree. open is called once per command that
// touches the history.
func NewRootCmd(open StoreOpener) *cobra.Command {
	opts := &rootOptions{open: open}
	root := &cobra.Command{
		Use:   "stylectl",
		Short: "Inspect and maintain a Style Passport studio",
		Long: `stylectl normalizes video links and manages the analysis history
kept by the studio server.

History commands read and write the same SQLite snapshot the server uses,
so stop the server before deleting items.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.dbPath, "db", "style-passport.db", "path of the SQLite history snapshot")
	root.PersistentFlags().StringVar(&opts.key, "key", model.HistoryKey, "snapshot key of the history")
	root.PersistentFlags().IntVar(&opts.capacity, "capacity", model.DefaultHistoryCapacity, "history capacity")

	root.AddCommand(newNormalizeCmd(), newHistoryCmd(opts), newStatsCmd(opts))
	return root
}

// loadHistory opens the store and rehydrates the history from it.
func (o *rootOptions) loadHistory(cmd *cobra.Command) (*services.HistoryStore, func(), error) {
	store, err := o.open(o.dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening history: %w", err)
	}
	closer := func() {
		if c, ok := store.(io.Closer); ok {
			_ = c.Close()
		}
	}
	history := services.NewHistoryStore(store, o.key, o.capacity)
	history.Load(cmd.Context())
	return history, closer, nil
}
