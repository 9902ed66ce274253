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

package testutil

import (
	"encoding/json"
	"net"
	"net/http"
	"reflect"
	"testing"
	"time"
)

func TestMockWiki_RecordsRequests(t *testing.T) {
	wiki := NewMockWiki(t, RecentChangesResponse(
		Rev{PageID: 5, Title: "Foo", RevID: 101, User: "Alice", Minor: true},
		Rev{PageID: -1, Title: "Ghost"},
	))

	req, err := http.NewRequest(http.MethodGet, wiki.BaseURL()+"api.php?action=query", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("User-Agent", "probe/1")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()

	var body struct {
		Query struct {
			Pages map[string]map[string]interface{} `json:"pages"`
		} `json:"query"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := body.Query.Pages["-1"]["missing"]; !ok {
		t.Error("missing page has no missing flag")
	}
	revs := body.Query.Pages["5"]["revisions"].([]interface{})
	if _, ok := revs[0].(map[string]interface{})["minor"]; !ok {
		t.Error("minor revision has no minor flag")
	}

	if got := wiki.UserAgents(); !reflect.DeepEqual(got, []string{"probe/1"}) {
		t.Errorf("UserAgents() = %v", got)
	}
	if got := wiki.Requests()[0].Query().Get("action"); got != "query" {
		t.Errorf("action = %q, want query", got)
	}
}

func TestMockWiki_UnknownPath(t *testing.T) {
	wiki := NewMockWiki(t, EmptyResponse())

	resp, err := http.Get(wiki.URL + "/index.php")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestRelay_ReceivesLines(t *testing.T) {
	relay := NewRelay(t)

	conn, err := net.Dial("tcp", relay.listener.Addr().String())
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	if _, err := conn.Write([]byte("#chan first\r\nsecond\r\n")); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	conn.Close()

	conns := relay.WaitForConnections(t, 1, 2*time.Second)
	lines := SplitLines(t, conns[0])
	if want := []string{"#chan first", "second"}; !reflect.DeepEqual(lines, want) {
		t.Errorf("lines = %q, want %q", lines, want)
	}
}
