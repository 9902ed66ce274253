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

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

// BenchmarkWrite benchmarks atomic watermark writes
func BenchmarkWrite(b *testing.B) {
	store := NewStore(filepath.Join(b.TempDir(), "revid.txt"), zerolog.Nop())

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if err := store.Write(int64(i)); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkRead benchmarks watermark reads
func BenchmarkRead(b *testing.B) {
	store := NewStore(filepath.Join(b.TempDir(), "revid.txt"), zerolog.Nop())
	if err := store.Write(5000000); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if wm := store.Read(); !wm.Set {
			b.Fatal("watermark not set")
		}
	}
}
