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
	"bytes"
	"encoding/json"
)

// Page is one entry of the query.pages object.
type Page struct {
	PageID    int64      `json:"pageid,omitempty"`
	Namespace int        `json:"ns"`
	Title     string     `json:"title"`
	Revisions []Revision `json:"revisions"`
}

// Latest returns the newest revision of the page. The API lists revisions
// newest first.
func (p Page) Latest() (Revision, bool) {
	if len(p.Revisions) == 0 {
		return Revision{}, false
	}
	return p.Revisions[0], true
}

// Revision is a single page revision as returned by prop=revisions.
type Revision struct {
	RevID     int64  `json:"revid"`
	ParentID  int64  `json:"parentid,omitempty"`
	User      string `json:"user"`
	Comment   string `json:"comment"`
	Timestamp string `json:"timestamp,omitempty"`
	Minor     Flag   `json:"minor,omitempty"`
}

// Flag decodes MediaWiki boolean flags. The legacy JSON format signals a set
// flag by the presence of the key (usually with an empty string value);
// formatversion=2 uses real booleans.
type Flag bool

// UnmarshalJSON implements json.Unmarshaler.
func (f *Flag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")), bytes.Equal(data, []byte("false")):
		*f = false
	default:
		*f = true
	}
	return nil
}

// APIError is the error envelope api.php returns for rejected requests.
type APIError struct {
	Code string `json:"code"`
	Info string `json:"info"`
}

// queryResponse is the subset of the api.php response the client reads.
type queryResponse struct {
	BatchComplete json.RawMessage `json:"batchcomplete,omitempty"`
	Error         *APIError       `json:"error,omitempty"`
	Query         *struct {
		Pages map[string]Page `json:"pages"`
	} `json:"query,omitempty"`
}

// recentChangesQuery is encoded into the api.php query string.
type recentChangesQuery struct {
	Action     string `url:"action"`
	Prop       string `url:"prop"`
	Generator  string `url:"generator"`
	Namespaces []int  `url:"grcnamespace" del:"|"`
	Show       string `url:"grcshow"`
	Limit      int    `url:"grclimit"`
	Format     string `url:"format"`
}

// Default values for the recent changes query
const (
	defaultLimit = 50
	defaultShow  = "!bot|!minor"
)
