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

// Package changes turns a recent-changes listing into relay messages.
//
// Process compares every page's newest revision against the watermark and
// keeps the ones that are new, not minor and not a missing-page sentinel.
// Each decision is independent of the others, so the map iteration order of
// the listing has no effect on the result. Messages are sorted by revision
// id so that a chat channel sees edits in the order they were made.
package changes
