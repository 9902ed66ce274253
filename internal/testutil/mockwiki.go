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

// Package testutil provides common test helpers for wiki-relay: a mock
// api.php server, a fake irccat relay and small file helpers.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
)

// MockWiki is an httptest server standing in for a wiki's api.php.
type MockWiki struct {
	*httptest.Server

	mu       sync.Mutex
	requests []*url.URL
	agents   []string
}

// NewMockWiki creates a mock wiki that answers every api.php request with
// the JSON encoding of body.
func NewMockWiki(t *testing.T, body interface{}) *MockWiki {
	t.Helper()
	return NewMockWikiHandler(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_ = json.NewEncoder(w).Encode(body)
	})
}

// NewMockWikiHandler creates a mock wiki backed by handler. Requests are
// recorded before the handler runs.
func NewMockWikiHandler(t *testing.T, handler http.HandlerFunc) *MockWiki {
	t.Helper()
	m := &MockWiki{}
	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		m.requests = append(m.requests, r.URL)
		m.agents = append(m.agents, r.Header.Get("User-Agent"))
		m.mu.Unlock()

		if r.URL.Path != "/w/api.php" {
			http.NotFound(w, r)
			return
		}
		handler(w, r)
	}))
	t.Cleanup(m.Close)
	return m
}

// NewErrorWiki creates a mock wiki that always answers with statusCode.
func NewErrorWiki(t *testing.T, statusCode int) *MockWiki {
	t.Helper()
	return NewMockWikiHandler(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(statusCode)
		_, _ = w.Write([]byte(http.StatusText(statusCode)))
	})
}

// BaseURL returns the script path of the mock wiki, ending in a slash.
func (m *MockWiki) BaseURL() string {
	return m.URL + "/w/"
}

// Requests returns the URLs of all requests received so far.
func (m *MockWiki) Requests() []*url.URL {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*url.URL(nil), m.requests...)
}

// UserAgents returns the User-Agent header of all requests received so far.
func (m *MockWiki) UserAgents() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.agents...)
}

// Rev describes one page and its newest revision in a mock response.
type Rev struct {
	PageID  int
	Title   string
	RevID   int64
	User    string
	Comment string
	Minor   bool
}

// RecentChangesResponse builds a legacy-format api.php response holding the
// given pages. Missing pages (negative ids) carry a "missing" flag and no
// revisions, the way MediaWiki reports them.
func RecentChangesResponse(revs ...Rev) map[string]interface{} {
	pages := make(map[string]interface{}, len(revs))
	for _, r := range revs {
		key := fmt.Sprintf("%d", r.PageID)
		if r.PageID < 0 {
			pages[key] = map[string]interface{}{
				"ns":      0,
				"title":   r.Title,
				"missing": "",
			}
			continue
		}

		rev := map[string]interface{}{
			"revid":   r.RevID,
			"user":    r.User,
			"comment": r.Comment,
		}
		if r.Minor {
			rev["minor"] = ""
		}
		pages[key] = map[string]interface{}{
			"pageid":    r.PageID,
			"ns":        0,
			"title":     r.Title,
			"revisions": []interface{}{rev},
		}
	}

	return map[string]interface{}{
		"batchcomplete": "",
		"query": map[string]interface{}{
			"pages": pages,
		},
	}
}

// EmptyResponse is what api.php returns when the generator yields no pages.
func EmptyResponse() map[string]interface{} {
	return map[string]interface{}{"batchcomplete": ""}
}

// ErrorResponse builds a MediaWiki error envelope.
func ErrorResponse(code, info string) map[string]interface{} {
	return map[string]interface{}{
		"error": map[string]interface{}{
			"code": code,
			"info": info,
		},
	}
}
