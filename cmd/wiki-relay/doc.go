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

// Package main implements the wiki-relay command-line interface.
// This tool polls a MediaWiki site for recent edits and forwards one line
// per edit to an irccat relay, which rebroadcasts them to a chat channel.
//
// wiki-relay is a batch job: every invocation performs a single poll and
// exits. Run it from cron or a systemd timer. The highest revision already
// announced is kept in a small watermark file so consecutive runs neither
// repeat nor skip edits. The very first run only records the watermark and
// sends nothing.
//
// Usage:
//
//	wiki-relay [--config wiki-relay.yaml] [--dry-run]
//	wiki-relay reset
//
// Example:
//
//	*/5 * * * * /opt/wiki-relay/wiki-relay --config /etc/wiki-relay.yaml
//
// Exit codes:
//   - 0: Success
//   - 1: General error
//   - 2: Configuration error
//   - 3: Network error
package main
