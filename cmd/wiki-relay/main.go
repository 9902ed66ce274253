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
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := newRootCommand()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(mapErrorToExitCode(err))
	}
}

// newRootCommand builds the command tree. The root command performs a poll.
func newRootCommand() *cobra.Command {
	var opts runOptions

	rootCmd := &cobra.Command{
		Use:   "wiki-relay",
		Short: "Relay recent wiki edits to an irccat channel",
		Long: `wiki-relay polls a MediaWiki site's api.php for recent, non-minor,
non-bot edits and sends one line per new edit to an irccat relay.

Each invocation performs a single poll. The highest revision already announced
is stored in the revid file; the first run only records it and sends nothing.`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true, // Don't show usage on error
		SilenceErrors: true, // We'll handle error printing ourselves
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.logLevelSet = cmd.Flags().Changed("log-level")
			opts.timeoutSet = cmd.Flags().Changed("timeout")
			return runRelay(cmd, opts)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to the YAML configuration file (default: wiki-relay.yaml next to the binary, then in the current directory)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error (overrides log_level)")
	rootCmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Print the messages as NDJSON instead of sending them; the revid file is left untouched")
	rootCmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "Abort the run after this long (overrides timeout, 0 disables)")

	rootCmd.AddCommand(newResetCommand(&opts))

	return rootCmd
}
