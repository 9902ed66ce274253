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

// Package config provides configuration management for wiki-relay with
// support for multiple configuration sources and a well-defined precedence
// order.
//
// Configuration sources (in precedence order, highest to lowest):
//  1. Command-line flags
//  2. Environment variables (WIKI_RELAY_*)
//  3. Configuration file
//  4. Built-in defaults
//
// The configuration file is YAML. When no path is given, wiki-relay.yaml is
// looked up next to the executable and then in the current directory, so a
// cron entry can run the binary from anywhere.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	relayerrors "github.com/sirseerhq/wiki-relay/internal/errors"
)

// FileName is the configuration file name searched for by default.
const FileName = "wiki-relay.yaml"

// LoadConfig loads configuration from the file at configPath, or from the
// first file found in the standard locations when configPath is empty, and
// applies environment overrides on top.
//
// Returns an error if the specified config file cannot be loaded, but will
// succeed with defaults if no config file is found in standard locations.
// The result still needs Validate.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if err := loadConfigFile(configPath, cfg); err != nil {
			return nil, err
		}
	} else {
		for _, path := range defaultPaths() {
			if _, err := os.Stat(path); err == nil {
				if err := loadConfigFile(path, cfg); err != nil {
					return nil, err
				}
				break
			}
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.RevIDFile = expandPath(cfg.RevIDFile)
	if cfg.URL != "" && !strings.HasSuffix(cfg.URL, "/") {
		cfg.URL += "/"
	}

	return cfg, nil
}

// defaultPaths lists the locations searched when no config path is given.
func defaultPaths() []string {
	var paths []string
	if dir := executableDir(); dir != "" {
		paths = append(paths, filepath.Join(dir, FileName))
	}
	return append(paths, FileName)
}

// loadConfigFile reads and parses a YAML config file
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %v: %w", path, err, relayerrors.ErrInvalidConfig)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %v: %w", path, err, relayerrors.ErrInvalidConfig)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("WIKI_RELAY_URL"); v != "" {
		cfg.URL = v
	}
	if v := os.Getenv("WIKI_RELAY_SHORT_URL"); v != "" {
		cfg.ShortURL = v
	}
	if v := os.Getenv("WIKI_RELAY_REVID_FILE"); v != "" {
		cfg.RevIDFile = v
	}
	if v := os.Getenv("WIKI_RELAY_NAMESPACES"); v != "" {
		list, err := ParseNamespaces(v)
		if err != nil {
			return fmt.Errorf("WIKI_RELAY_NAMESPACES: %v: %w", err, relayerrors.ErrInvalidConfig)
		}
		cfg.Namespaces = list
	}

	// Relay
	if v := os.Getenv("WIKI_RELAY_HOST"); v != "" {
		cfg.Relay.Host = v
	}
	if v := os.Getenv("WIKI_RELAY_PORT"); v != "" {
		port, err := parsePositiveInt(v)
		if err != nil {
			return fmt.Errorf("WIKI_RELAY_PORT: %v: %w", err, relayerrors.ErrInvalidConfig)
		}
		cfg.Relay.Port = port
	}
	if v := os.Getenv("WIKI_RELAY_CHANNEL"); v != "" {
		cfg.Relay.Channel = v
	}

	if v := os.Getenv("WIKI_RELAY_INSECURE_SKIP_VERIFY"); v != "" {
		cfg.TLS.InsecureSkipVerify = parseBool(v)
	}
	if v := os.Getenv("WIKI_RELAY_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("WIKI_RELAY_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("WIKI_RELAY_TIMEOUT: %v: %w", err, relayerrors.ErrInvalidConfig)
		}
		cfg.Timeout = d
	}

	return nil
}

// executableDir returns the directory holding the running binary, or "" if
// it cannot be determined.
func executableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe)
}

// defaultRevIDFile places the watermark next to the executable.
func defaultRevIDFile() string {
	if dir := executableDir(); dir != "" {
		return filepath.Join(dir, "revid.txt")
	}
	return "revid.txt"
}

// expandPath expands ~ and environment variables in paths
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home := os.Getenv("HOME")
		if home == "" {
			home = os.Getenv("USERPROFILE") // Windows
		}
		path = filepath.Join(home, path[2:])
	}
	return os.ExpandEnv(path)
}

// parsePositiveInt parses a string to a positive integer
func parsePositiveInt(s string) (int, error) {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("failed to parse integer from '%s': %w", s, err)
	}
	if i <= 0 {
		return 0, fmt.Errorf("value must be positive, got: %d", i)
	}
	return i, nil
}

// parseBool parses various boolean representations
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "yes" || s == "1" || s == "on"
}

// EffectiveShortURL returns the base for diff links: ShortURL when set,
// URL otherwise.
func (c *Config) EffectiveShortURL() string {
	if c.ShortURL != "" {
		return c.ShortURL
	}
	return c.URL
}

// Validate checks that the configuration can drive a run. It must be called
// after all sources, flags included, have been applied. Errors wrap
// ErrInvalidConfig.
func (c *Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("url is required: %w", relayerrors.ErrInvalidConfig)
	}
	u, err := url.Parse(c.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("url %q must be an absolute http(s) URL: %w", c.URL, relayerrors.ErrInvalidConfig)
	}
	if c.RevIDFile == "" {
		return fmt.Errorf("revid_file cannot be empty: %w", relayerrors.ErrInvalidConfig)
	}
	if len(c.Namespaces) == 0 {
		return fmt.Errorf("at least one namespace is required: %w", relayerrors.ErrInvalidConfig)
	}
	if c.Relay.Host == "" {
		return fmt.Errorf("relay host cannot be empty: %w", relayerrors.ErrInvalidConfig)
	}
	if c.Relay.Port <= 0 || c.Relay.Port > 65535 {
		return fmt.Errorf("relay port %d is out of range: %w", c.Relay.Port, relayerrors.ErrInvalidConfig)
	}
	if strings.ContainsAny(c.Relay.Channel, " \r\n") {
		return fmt.Errorf("relay channel %q must be a single token: %w", c.Relay.Channel, relayerrors.ErrInvalidConfig)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout cannot be negative, got: %s: %w", c.Timeout, relayerrors.ErrInvalidConfig)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level %q: %w", c.LogLevel, relayerrors.ErrInvalidConfig)
	}
	return nil
}
