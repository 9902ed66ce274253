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

package changes

import (
	"sort"
	"strconv"

	"github.com/sirseerhq/wiki-relay/internal/mediawiki"
	"github.com/sirseerhq/wiki-relay/internal/state"
)

// Record is the processor's view of one page in the listing.
type Record struct {
	PageID   int64
	Title    string
	Revision mediawiki.Revision
}

// Stats counts how the records of one listing were classified.
type Stats struct {
	Examined int
	Missing  int
	Minor    int
	Stale    int
	Emitted  int
}

// Result is the outcome of processing one listing.
type Result struct {
	// Messages holds one line per eligible record, oldest revision first.
	Messages []string

	// Records holds the eligible records, in the same order as Messages.
	Records []Record

	// Watermark is the highest revision id covered after this run.
	Watermark state.Watermark

	// Advanced reports whether Watermark moved past the starting watermark
	// and therefore needs to be persisted.
	Advanced bool

	// FirstRun reports that no watermark existed before this run. Nothing
	// should be sent for a first run.
	FirstRun bool

	Stats Stats
}

// Process filters the listing against last and formats the new changes.
//
// A page is eligible when its key is a non-negative page id, it has at least
// one revision, its newest revision is not minor and that revision is newer
// than last. Only eligible records move the watermark.
func Process(pages map[string]mediawiki.Page, last state.Watermark, f Formatter) Result {
	res := Result{
		Watermark: last,
		FirstRun:  !last.Set,
	}

	var eligible []Record
	for key, page := range pages {
		res.Stats.Examined++

		rec, ok := recordFor(key, page)
		if !ok {
			res.Stats.Missing++
			continue
		}
		if rec.Revision.Minor {
			res.Stats.Minor++
			continue
		}
		if last.Covers(rec.Revision.RevID) {
			res.Stats.Stale++
			continue
		}

		eligible = append(eligible, rec)
		if !res.Watermark.Set || rec.Revision.RevID > res.Watermark.Revision {
			res.Watermark = state.At(rec.Revision.RevID)
		}
	}

	sort.Slice(eligible, func(i, j int) bool {
		a, b := eligible[i], eligible[j]
		if a.Revision.RevID != b.Revision.RevID {
			return a.Revision.RevID < b.Revision.RevID
		}
		return a.PageID < b.PageID
	})

	res.Records = eligible
	res.Messages = make([]string, 0, len(eligible))
	for _, rec := range eligible {
		res.Messages = append(res.Messages, f.Format(rec.Revision.User, rec.Title, rec.Revision.Comment, rec.Revision.RevID))
	}
	res.Stats.Emitted = len(eligible)
	res.Advanced = res.Watermark.Set && (!last.Set || res.Watermark.Revision > last.Revision)

	return res
}

// recordFor converts a listing entry, rejecting missing-page sentinels and
// pages without revisions.
func recordFor(key string, page mediawiki.Page) (Record, bool) {
	id, err := strconv.ParseInt(key, 10, 64)
	if err != nil || id < 0 {
		return Record{}, false
	}
	rev, ok := page.Latest()
	if !ok {
		return Record{}, false
	}
	return Record{PageID: id, Title: page.Title, Revision: rev}, true
}
