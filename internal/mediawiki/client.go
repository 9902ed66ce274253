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

import "context"

// Client defines the interface for listing recent wiki changes.
// This interface allows for easy mocking in tests.
type Client interface {
	// RecentChanges returns the recently changed pages in the given
	// namespaces, keyed by the page key the API used. Missing pages show up
	// under negative keys.
	RecentChanges(ctx context.Context, namespaces []int) (map[string]Page, error)
}
