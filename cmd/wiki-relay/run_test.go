// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/sirseerhq/wiki-relay/internal/config"
	relayerrors "github.com/sirseerhq/wiki-relay/internal/errors"
	"github.com/sirseerhq/wiki-relay/internal/mediawiki"
	"github.com/sirseerhq/wiki-relay/internal/output"
	"github.com/sirseerhq/wiki-relay/internal/state"
)

// fakeStore records watermark writes in memory.
type fakeStore struct {
	current  state.Watermark
	writes   []int64
	writeErr error
}

func (s *fakeStore) Read() state.Watermark {
	return s.current
}

func (s *fakeStore) Write(rev int64) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	s.writes = append(s.writes, rev)
	s.current = state.At(rev)
	return nil
}

// fakeNotifier records sent batches. It checks that the watermark was
// persisted before anything was sent.
type fakeNotifier struct {
	store   *fakeStore
	batches [][]string
	err     error

	writesAtSend int
}

func (n *fakeNotifier) Send(ctx context.Context, messages []string) error {
	if n.err != nil {
		return n.err
	}
	if len(messages) == 0 {
		return nil
	}
	n.writesAtSend = len(n.store.writes)
	n.batches = append(n.batches, append([]string(nil), messages...))
	return nil
}

func newTestRunner(pages map[string]mediawiki.Page, last state.Watermark) (*runner, *fakeStore, *fakeNotifier, *mediawiki.MockClient) {
	store := &fakeStore{current: last}
	notify := &fakeNotifier{store: store}
	client := mediawiki.NewMockClient(pages)
	cfg := config.DefaultConfig()
	cfg.URL = "https://wiki.example/w/"
	cfg.ShortURL = "https://wiki.example/"

	return &runner{
		cfg:      cfg,
		store:    store,
		client:   client,
		notifier: notify,
		logger:   zerolog.Nop(),
	}, store, notify, client
}

func TestRunner_Run(t *testing.T) {
	tests := []struct {
		name        string
		pages       map[string]mediawiki.Page
		last        state.Watermark
		wantWrites  []int64
		wantBatches [][]string
	}{
		{
			name: "new change is sent and watermark advances",
			pages: map[string]mediawiki.Page{
				"5": mediawiki.NewPage("Foo", mediawiki.Revision{RevID: 101, User: "Alice", Comment: "fix typo"}),
			},
			last:       state.At(100),
			wantWrites: []int64{101},
			wantBatches: [][]string{{
				"Alice changed Foo (fix typo) https://wiki.example/?diff=101",
			}},
		},
		{
			name: "missing page only leaves watermark alone",
			pages: map[string]mediawiki.Page{
				"-1": {Title: "Ghost"},
			},
			last: state.At(100),
		},
		{
			name: "minor and stale changes are not sent",
			pages: map[string]mediawiki.Page{
				"5": mediawiki.NewPage("Foo", mediawiki.Revision{RevID: 120, User: "Alice", Minor: true}),
				"6": mediawiki.NewPage("Bar", mediawiki.Revision{RevID: 90, User: "Bob"}),
			},
			last: state.At(100),
		},
		{
			name: "first run records the watermark and sends nothing",
			pages: map[string]mediawiki.Page{
				"5": mediawiki.NewPage("Foo", mediawiki.Revision{RevID: 7, User: "Alice"}),
				"6": mediawiki.NewPage("Bar", mediawiki.Revision{RevID: 9, User: "Bob"}),
			},
			wantWrites: []int64{9},
		},
		{
			name:  "first run with empty listing writes nothing",
			pages: map[string]mediawiki.Page{},
		},
		{
			name: "several changes are sent in revision order",
			pages: map[string]mediawiki.Page{
				"5": mediawiki.NewPage("Foo", mediawiki.Revision{RevID: 103, User: "Alice"}),
				"6": mediawiki.NewPage("Bar", mediawiki.Revision{RevID: 102, User: "Bob", Comment: "/* Intro */ reword"}),
			},
			last:       state.At(100),
			wantWrites: []int64{103},
			wantBatches: [][]string{{
				"Bob changed Bar (reword →Intro) https://wiki.example/?diff=102",
				"Alice changed Foo https://wiki.example/?diff=103",
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, store, notify, client := newTestRunner(tt.pages, tt.last)

			if err := r.run(context.Background()); err != nil {
				t.Fatalf("run() error = %v", err)
			}

			if client.CallCount != 1 {
				t.Errorf("RecentChanges called %d times, want 1", client.CallCount)
			}
			if !reflect.DeepEqual(client.LastNamespaces, []int{0, 1}) {
				t.Errorf("namespaces = %v, want [0 1]", client.LastNamespaces)
			}
			if !reflect.DeepEqual(store.writes, tt.wantWrites) {
				t.Errorf("writes = %v, want %v", store.writes, tt.wantWrites)
			}
			if !reflect.DeepEqual(notify.batches, tt.wantBatches) {
				t.Errorf("batches = %q, want %q", notify.batches, tt.wantBatches)
			}
			if len(notify.batches) > 0 && notify.writesAtSend != len(tt.wantWrites) {
				t.Error("messages were sent before the watermark was stored")
			}
		})
	}
}

func TestRunner_FetchErrorLeavesWatermark(t *testing.T) {
	r, store, notify, client := newTestRunner(nil, state.At(100))
	client.ShouldFailNetwork = true

	err := r.run(context.Background())
	if !errors.Is(err, relayerrors.ErrNetworkFailure) {
		t.Fatalf("run() error = %v, want ErrNetworkFailure", err)
	}
	if len(store.writes) != 0 {
		t.Errorf("writes = %v, want none", store.writes)
	}
	if len(notify.batches) != 0 {
		t.Errorf("batches = %v, want none", notify.batches)
	}
}

func TestRunner_WriteErrorSendsNothing(t *testing.T) {
	pages := map[string]mediawiki.Page{
		"5": mediawiki.NewPage("Foo", mediawiki.Revision{RevID: 101, User: "Alice"}),
	}
	r, store, notify, _ := newTestRunner(pages, state.At(100))
	store.writeErr = fmt.Errorf("disk full: %w", relayerrors.ErrStateWrite)

	err := r.run(context.Background())
	if !errors.Is(err, relayerrors.ErrStateWrite) {
		t.Fatalf("run() error = %v, want ErrStateWrite", err)
	}
	if len(notify.batches) != 0 {
		t.Errorf("batches = %v, want none", notify.batches)
	}
}

func TestRunner_NotifyErrorAfterWatermark(t *testing.T) {
	pages := map[string]mediawiki.Page{
		"5": mediawiki.NewPage("Foo", mediawiki.Revision{RevID: 101, User: "Alice"}),
	}
	r, store, notify, _ := newTestRunner(pages, state.At(100))
	notify.err = fmt.Errorf("connection refused: %w", relayerrors.ErrNotifyFailed)

	err := r.run(context.Background())
	if !errors.Is(err, relayerrors.ErrNotifyFailed) {
		t.Fatalf("run() error = %v, want ErrNotifyFailed", err)
	}
	if !reflect.DeepEqual(store.writes, []int64{101}) {
		t.Errorf("writes = %v, want [101]", store.writes)
	}
}

func TestRunner_DryRun(t *testing.T) {
	pages := map[string]mediawiki.Page{
		"5": mediawiki.NewPage("Foo", mediawiki.Revision{RevID: 101, User: "Alice", Comment: "fix"}),
		"6": mediawiki.NewPage("Bar", mediawiki.Revision{RevID: 99, User: "Bob"}),
	}
	r, store, notify, _ := newTestRunner(pages, state.At(100))
	var buf bytes.Buffer
	r.preview = &buf

	if err := r.run(context.Background()); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if len(store.writes) != 0 {
		t.Errorf("writes = %v, want none in dry-run", store.writes)
	}
	if len(notify.batches) != 0 {
		t.Errorf("batches = %v, want none in dry-run", notify.batches)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d preview lines, want 1: %q", len(lines), buf.String())
	}
	var p output.Preview
	if err := json.Unmarshal([]byte(lines[0]), &p); err != nil {
		t.Fatalf("preview is not JSON: %v", err)
	}
	want := output.Preview{
		RevID:   101,
		PageID:  5,
		Title:   "Foo",
		User:    "Alice",
		Message: "Alice changed Foo (fix) https://wiki.example/?diff=101",
	}
	if p != want {
		t.Errorf("preview = %+v, want %+v", p, want)
	}
}

func TestMapErrorToExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"nil", nil, 0},
		{"config", fmt.Errorf("url is required: %w", relayerrors.ErrInvalidConfig), 2},
		{"network", fmt.Errorf("fetch: %w", relayerrors.ErrNetworkFailure), 3},
		{"relay network", fmt.Errorf("dial: %w: %w", relayerrors.ErrNotifyFailed, relayerrors.ErrNetworkFailure), 3},
		{"invalid response", fmt.Errorf("decode: %w", relayerrors.ErrInvalidResponse), 1},
		{"state write", fmt.Errorf("rename: %w", relayerrors.ErrStateWrite), 1},
		{"plain", errors.New("boom"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapErrorToExitCode(tt.err)
			if got != tt.wantCode {
				t.Errorf("mapErrorToExitCode(%v) = %d, want %d", tt.err, got, tt.wantCode)
			}
		})
	}
}
