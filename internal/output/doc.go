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

// Package output writes dry-run previews in NDJSON (Newline Delimited JSON)
// format: one JSON object per message that a real run would have sent to the
// relay. The format is easy to inspect by eye and to pipe into jq.
//
// Example usage:
//
//	w := output.NewWriter(os.Stdout)
//	for _, p := range previews {
//	    if err := w.Write(p); err != nil {
//	        return err
//	    }
//	}
//	fmt.Fprintf(os.Stderr, "%d messages\n", w.Count())
package output
