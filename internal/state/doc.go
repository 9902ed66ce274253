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

// Package state persists the relay watermark: the highest wiki revision id
// for which a notification has already been sent.
//
// The watermark lives in a plain text file holding a single decimal integer,
// so operators can inspect or reset it with standard tools. Writes are
// atomic, using a write-to-temp-and-rename pattern so a crash never leaves a
// truncated file behind. Reads never fail: a missing, unreadable or
// non-numeric file yields an unset watermark, which the caller treats as a
// first run.
//
// Example usage:
//
//	store := state.NewStore("/var/lib/wiki-relay/revid.txt", zerolog.Nop())
//	wm := store.Read()
//	if !wm.Set {
//	    // first run
//	}
//	err := store.Write(12345)
package state
