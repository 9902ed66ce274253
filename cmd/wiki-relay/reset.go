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

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sirseerhq/wiki-relay/internal/config"
	relayerrors "github.com/sirseerhq/wiki-relay/internal/errors"
	"github.com/sirseerhq/wiki-relay/internal/logging"
	"github.com/sirseerhq/wiki-relay/internal/state"
)

// newResetCommand removes the watermark so the next run starts over.
func newResetCommand(opts *runOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Forget the stored watermark",
		Long: `Delete the revid file. The next run behaves like a first run: it records
the current watermark and sends nothing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(opts.configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = opts.logLevel
			}
			if cfg.RevIDFile == "" {
				return fmt.Errorf("revid_file cannot be empty: %w", relayerrors.ErrInvalidConfig)
			}

			logger, err := logging.New(cmd.ErrOrStderr(), cfg.LogLevel)
			if err != nil {
				return fmt.Errorf("%v: %w", err, relayerrors.ErrInvalidConfig)
			}

			if err := state.NewStore(cfg.RevIDFile, logger).Reset(); err != nil {
				return err
			}
			logger.Info().Str("path", cfg.RevIDFile).Msg("watermark reset")
			return nil
		},
	}
}
