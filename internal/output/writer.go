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

package output

import (
	"encoding/json"
	"fmt"
	"io"
)

// Preview is one message a run would send, with the change it describes.
type Preview struct {
	RevID   int64  `json:"revid"`
	PageID  int64  `json:"page_id"`
	Title   string `json:"title"`
	User    string `json:"user"`
	Message string `json:"message"`
}

// Writer handles streaming NDJSON output to an io.Writer.
type Writer struct {
	encoder *json.Encoder
	count   int
}

// NewWriter creates a new NDJSON writer that writes to w.
func NewWriter(w io.Writer) *Writer {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &Writer{encoder: enc}
}

// Write writes a single preview as one NDJSON line.
func (w *Writer) Write(p Preview) error {
	if err := w.encoder.Encode(p); err != nil {
		return fmt.Errorf("failed to write preview: %w", err)
	}
	w.count++
	return nil
}

// Count returns the number of previews written.
func (w *Writer) Count() int {
	return w.count
}
