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
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/jaycherian/gcp-go-style-passport/internal/core/model"
)

// ErrNotFound is returned when an id does not match any stored item.
var ErrNotFound = errors.New("not found")

// HistoryStore is the capped, most-recent-first list of finished analyses.
// The in-memory list is authoritative; every mutation writes a snapshot.
type HistoryStore struct {
	mu       sync.RWMutex
	store    SnapshotStore
	key      string
	capacity int
	items    []model.HistoryItem
}

// NewHistoryStore creates an empty store. Call Load to rehydrate it.
func NewHistoryStore(store SnapshotStore, key string, capacity int) *HistoryStore {
	if key == "" {
		key = model.HistoryKey
	}
	if capacity <= 0 {
		capacity = model.DefaultHistoryCapacity
	}
	return &HistoryStore{store: store, key: key, capacity: capacity, items: make([]model.HistoryItem, 0)}
}

func (h *HistoryStore) Capacity() int {
	return h.capacity
}

// DecodeHistory parses a snapshot. Anything unusable yields an empty list.
func DecodeHistory(data []byte) ([]model.HistoryItem, error) {
	items := make([]model.HistoryItem, 0)
	if len(data) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return make([]model.HistoryItem, 0), err
	}
	return items, nil
}

// Load replaces the in-memory list with the stored snapshot. A missing or
// corrupt snapshot leaves the history empty and is logged once.
func (h *HistoryStore) Load(ctx context.Context) {
	items := make([]model.HistoryItem, 0)
	data, err := h.store.Read(ctx, h.key)
	switch {
	case errors.Is(err, ErrSnapshotNotFound):
	case err != nil:
		slog.WarnContext(ctx, "history snapshot unreadable, starting empty", "key", h.key, "error", err)
	default:
		decoded, decodeErr := DecodeHistory(data)
		if decodeErr != nil {
			slog.WarnContext(ctx, "history snapshot corrupt, starting empty", "key", h.key, "error", decodeErr)
		} else {
			items = decoded
		}
	}
	if len(items) > h.capacity {
		items = items[:h.capacity]
	}
	h.mu.Lock()
	h.items = items
	h.mu.Unlock()
}

// persist writes the snapshot. Callers hold the write lock.
func (h *HistoryStore) persist(ctx context.Context) error {
	data, err := json.Marshal(h.items)
	if err != nil {
		return err
	}
	if err := h.store.Write(ctx, h.key, data); err != nil {
		slog.WarnContext(ctx, "failed to persist history snapshot", "key", h.key, "error", err)
		return err
	}
	return nil
}

// Add prepends a new item and evicts the oldest beyond capacity. The item is
// kept in memory even when persisting fails; the error is still returned.
//
// Inputs:
//   - ctx: Used for the snapshot write.
//   - passport: The validated passport.
//   - videoURL: The source URL. A "blob:" URL is stored as null.
//   - platform: The platform the video was analysed for.
//
// Returns:
//   - *model.HistoryItem: The new item with its id and timestamp.
//   - error: The snapshot write failure, if any.
func (h *HistoryStore) Add(ctx context.Context, passport *model.StylePassport, videoURL *string, platform model.Platform) (*model.HistoryItem, error) {
	item := model.NewHistoryItem(passport, videoURL, platform)
	h.mu.Lock()
	defer h.mu.Unlock()
	items := make([]model.HistoryItem, 0, h.capacity)
	items = append(items, *item)
	items = append(items, h.items...)
	if len(items) > h.capacity {
		items = items[:h.capacity]
	}
	h.items = items
	return item, h.persist(ctx)
}

// Delete removes the item with id. It reports whether anything was removed.
func (h *HistoryStore) Delete(ctx context.Context, id string) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := range h.items {
		if h.items[i].Id == id {
			h.items = append(h.items[:i:i], h.items[i+1:]...)
			return true, h.persist(ctx)
		}
	}
	return false, nil
}

// List returns a copy of the items, most recent first.
func (h *HistoryStore) List() []model.HistoryItem {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]model.HistoryItem, len(h.items))
	copy(out, h.items)
	return out
}

func (h *HistoryStore) Get(id string) (*model.HistoryItem, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for i := range h.items {
		if h.items[i].Id == id {
			item := h.items[i]
			return &item, nil
		}
	}
	return nil, ErrNotFound
}

// Latest returns the most recent item, or nil.
func (h *HistoryStore) Latest() *model.HistoryItem {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.items) == 0 {
		return nil
	}
	item := h.items[0]
	return &item
}
