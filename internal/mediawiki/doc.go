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

// Package mediawiki fetches recent changes from a MediaWiki site's action API.
//
// The package issues a single api.php query that uses the recentchanges
// generator together with prop=revisions, so each changed page comes back
// with its newest revision. Results are returned exactly as the server sent
// them, keyed by page id; filtering is left to the caller because the
// server-side "!minor" filter is best effort.
//
// Basic usage:
//
//	client := mediawiki.NewAPIClient(mediawiki.Options{
//	    BaseURL:   "https://wiki.example/w/",
//	    UserAgent: "wiki-relay/dev",
//	})
//	pages, err := client.RecentChanges(ctx, []int{0, 1})
//	if err != nil {
//	    // Handle error
//	}
//	for key, page := range pages {
//	    // Process page
//	}
package mediawiki
