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
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	relayerrors "github.com/sirseerhq/wiki-relay/internal/errors"
)

// Store reads and writes the watermark file.
type Store struct {
	path   string
	logger zerolog.Logger
}

// NewStore returns a Store backed by the file at path. The file does not
// need to exist yet.
func NewStore(path string, logger zerolog.Logger) *Store {
	return &Store{path: path, logger: logger}
}

// Path returns the location of the watermark file.
func (s *Store) Path() string {
	return s.path
}

// Read returns the persisted watermark. Absent, unreadable or corrupt files
// all yield an unset watermark; only the corrupt case is logged since an
// absent file is the normal first-run state.
func (s *Store) Read() Watermark {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn().Err(err).Str("path", s.path).Msg("cannot read watermark file, treating as first run")
		}
		return Watermark{}
	}

	rev, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		s.logger.Warn().Str("path", s.path).Msg("watermark file is not a number, treating as first run")
		return Watermark{}
	}

	return At(rev)
}

// Write atomically replaces the watermark file with the decimal text of rev.
// Errors wrap ErrStateWrite; the caller must not notify when Write fails.
func (s *Store) Write(rev int64) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create watermark directory: %v: %w", err, relayerrors.ErrStateWrite)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary watermark file: %v: %w", err, relayerrors.ErrStateWrite)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(strconv.FormatInt(rev, 10)); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write temporary watermark file: %v: %w", err, relayerrors.ErrStateWrite)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to sync temporary watermark file: %v: %w", err, relayerrors.ErrStateWrite)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close temporary watermark file: %v: %w", err, relayerrors.ErrStateWrite)
	}

	// CreateTemp uses 0600; the watermark is not secret.
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to set watermark file mode: %v: %w", err, relayerrors.ErrStateWrite)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to rename temporary watermark file: %v: %w", err, relayerrors.ErrStateWrite)
	}

	return nil
}

// Reset removes the watermark file so the next run behaves as a first run.
func (s *Store) Reset() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete watermark file: %w", err)
	}
	return nil
}
