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
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sirseerhq/wiki-relay/internal/changes"
	"github.com/sirseerhq/wiki-relay/internal/config"
	relayerrors "github.com/sirseerhq/wiki-relay/internal/errors"
	"github.com/sirseerhq/wiki-relay/internal/irccat"
	"github.com/sirseerhq/wiki-relay/internal/logging"
	"github.com/sirseerhq/wiki-relay/internal/mediawiki"
	"github.com/sirseerhq/wiki-relay/internal/output"
	"github.com/sirseerhq/wiki-relay/internal/state"
)

// runOptions holds the command-line flags.
type runOptions struct {
	configPath  string
	logLevel    string
	logLevelSet bool
	dryRun      bool
	timeout     time.Duration
	timeoutSet  bool
}

// watermarkStore is the part of *state.Store a run needs.
type watermarkStore interface {
	Read() state.Watermark
	Write(rev int64) error
}

// notifier is the part of *irccat.Client a run needs.
type notifier interface {
	Send(ctx context.Context, messages []string) error
}

// runner performs one poll.
type runner struct {
	cfg      *config.Config
	store    watermarkStore
	client   mediawiki.Client
	notifier notifier
	logger   zerolog.Logger

	// preview receives NDJSON instead of the relay when set.
	preview io.Writer
}

// runRelay loads the configuration, wires the components and performs a poll.
func runRelay(cmd *cobra.Command, opts runOptions) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logger, err := logging.New(cmd.ErrOrStderr(), cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("%v: %w", err, relayerrors.ErrInvalidConfig)
	}

	r := newRunner(cfg, logger)
	if opts.dryRun {
		r.preview = cmd.OutOrStdout()
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	return r.run(ctx)
}

// loadConfig applies the configuration sources in precedence order and
// validates the result.
func loadConfig(opts runOptions) (*config.Config, error) {
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return nil, err
	}

	if opts.logLevelSet {
		cfg.LogLevel = opts.logLevel
	}
	if opts.timeoutSet {
		cfg.Timeout = opts.timeout
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newRunner builds the production components from cfg.
func newRunner(cfg *config.Config, logger zerolog.Logger) *runner {
	return &runner{
		cfg:   cfg,
		store: state.NewStore(cfg.RevIDFile, logger),
		client: mediawiki.NewAPIClient(mediawiki.Options{
			BaseURL:            cfg.URL,
			InsecureSkipVerify: cfg.TLS.InsecureSkipVerify,
			UserAgent:          "wiki-relay/" + version,
			Logger:             logger,
		}),
		notifier: irccat.NewClient(irccat.Options{
			Host:    cfg.Relay.Host,
			Port:    cfg.Relay.Port,
			Channel: cfg.Relay.Channel,
		}),
		logger: logger,
	}
}

// run reads the watermark, fetches and processes recent changes, persists
// the new watermark and only then notifies the relay. A crash between the
// two steps drops notifications instead of duplicating them.
func (r *runner) run(ctx context.Context) error {
	last := r.store.Read()
	r.logger.Debug().Stringer("watermark", last).Msg("loaded watermark")

	pages, err := r.client.RecentChanges(ctx, r.cfg.Namespaces)
	if err != nil {
		return fmt.Errorf("failed to fetch recent changes: %w", err)
	}

	res := changes.Process(pages, last, changes.Formatter{ShortURL: r.cfg.EffectiveShortURL()})
	r.logger.Info().
		Int("pages", res.Stats.Examined).
		Int("missing", res.Stats.Missing).
		Int("minor", res.Stats.Minor).
		Int("stale", res.Stats.Stale).
		Int("new", res.Stats.Emitted).
		Stringer("watermark", res.Watermark).
		Msg("processed recent changes")

	if r.preview != nil {
		return writePreviews(r.preview, res)
	}

	if res.Advanced {
		if err := r.store.Write(res.Watermark.Revision); err != nil {
			return err
		}
		r.logger.Debug().Stringer("watermark", res.Watermark).Msg("stored watermark")
	}

	if res.FirstRun {
		r.logger.Info().Int("skipped", len(res.Messages)).Msg("no previous watermark, not sending notifications on first run")
		return nil
	}

	if err := r.notifier.Send(ctx, res.Messages); err != nil {
		return err
	}
	if len(res.Messages) > 0 {
		r.logger.Info().Int("messages", len(res.Messages)).Msg("notified relay")
	}

	return nil
}

// writePreviews prints what a real run would send, including on first runs.
func writePreviews(w io.Writer, res changes.Result) error {
	ow := output.NewWriter(w)
	for i, rec := range res.Records {
		err := ow.Write(output.Preview{
			RevID:   rec.Revision.RevID,
			PageID:  rec.PageID,
			Title:   rec.Title,
			User:    rec.Revision.User,
			Message: res.Messages[i],
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// mapErrorToExitCode maps internal errors to appropriate exit codes
func mapErrorToExitCode(err error) int {
	if err == nil {
		return 0
	}

	if errors.Is(err, relayerrors.ErrInvalidConfig) {
		return 2 // Configuration errors
	}

	if errors.Is(err, relayerrors.ErrNetworkFailure) {
		return 3 // Network errors
	}

	return 1 // General error
}
