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

package mediawiki

import (
	"context"
	"fmt"

	relayerrors "github.com/sirseerhq/wiki-relay/internal/errors"
)

// MockClient is a mock implementation of the Client interface for testing.
type MockClient struct {
	// Pages to return
	Pages map[string]Page

	// Error to return
	Error error

	// Behavior flags
	ShouldFailNetwork bool

	// Track calls for verification
	CallCount      int
	LastNamespaces []int
}

// NewMockClient creates a new mock client returning pages.
func NewMockClient(pages map[string]Page) *MockClient {
	return &MockClient{Pages: pages}
}

// RecentChanges implements the Client interface
func (m *MockClient) RecentChanges(ctx context.Context, namespaces []int) (map[string]Page, error) {
	m.CallCount++
	m.LastNamespaces = append([]int(nil), namespaces...)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if m.ShouldFailNetwork {
		return nil, fmt.Errorf("dial tcp: connection refused: %w", relayerrors.ErrNetworkFailure)
	}

	if m.Error != nil {
		return nil, m.Error
	}

	if m.Pages == nil {
		return map[string]Page{}, nil
	}
	return m.Pages, nil
}

// NewPage builds a page with a single revision, the shape most tests need.
func NewPage(title string, rev Revision) Page {
	return Page{Title: title, Revisions: []Revision{rev}}
}
