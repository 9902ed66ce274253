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
	"regexp"
	"strconv"
	"strings"
)

// commentMaxLen is the length formatted edit summaries are shortened to.
const commentMaxLen = 40

const ellipsis = "..."

// sectionRE matches a "/* section */ rest" edit summary, as MediaWiki writes
// it when a single section is edited.
var sectionRE = regexp.MustCompile(`/\* *(.*?) *\*/ *(.*)`)

// Formatter renders change records as relay lines.
type Formatter struct {
	// ShortURL is the base the diff link is appended to.
	ShortURL string
}

// Format returns "<user> changed <title> (<comment>) <short_url>?diff=<revid>".
// The comment part is left out when the edit summary is empty.
func (f Formatter) Format(user, title, comment string, revID int64) string {
	parts := []string{user + " changed " + title}
	if comment != "" {
		parts = append(parts, "("+FormatComment(comment)+")")
	}
	parts = append(parts, f.ShortURL+"?diff="+strconv.FormatInt(revID, 10))
	return strings.Join(parts, " ")
}

// FormatComment moves a leading section marker behind the summary text the
// way the wiki's history page shows it ("/* Intro */ fixed typo" becomes
// "fixed typo →Intro") and shortens the result to 40 characters.
func FormatComment(raw string) string {
	comment := sectionRE.ReplaceAllString(raw, "${2} →${1}")
	return Ellipsize(strings.TrimSpace(comment), commentMaxLen)
}

// Ellipsize shortens s to roughly maxLen runes, cutting at a word boundary
// and appending "...". Punctuation right before the cut gets a separating
// space, which may push the result one rune past maxLen.
func Ellipsize(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}

	// +1 in case the cut lands exactly on a word boundary
	limit := maxLen - len(ellipsis) + 1
	end := lastSpace(runes[:limit])
	if end < 0 {
		end = maxLen - len(ellipsis)
	}
	cut := string(runes[:end])

	if end > 0 && strings.ContainsRune(" .,;:-+=&?!", runes[end-1]) {
		cut += " "
	}
	return cut + ellipsis
}

func lastSpace(runes []rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if runes[i] == ' ' {
			return i
		}
	}
	return -1
}
