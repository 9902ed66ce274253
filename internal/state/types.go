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

package state

import "strconv"

// Watermark is the highest revision id already notified.
// The zero value is an unset watermark, meaning no prior state exists.
type Watermark struct {
	// Revision is the watermark value. Only meaningful when Set is true.
	Revision int64

	// Set reports whether a watermark was found.
	Set bool
}

// At returns a watermark set to rev.
func At(rev int64) Watermark {
	return Watermark{Revision: rev, Set: true}
}

// Covers reports whether rev has already been notified. An unset watermark
// covers nothing.
func (w Watermark) Covers(rev int64) bool {
	return w.Set && rev <= w.Revision
}

// String returns the decimal watermark, or "none" when unset.
func (w Watermark) String() string {
	if !w.Set {
		return "none"
	}
	return strconv.FormatInt(w.Revision, 10)
}
