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

// Package config types define the configuration structures used throughout
// wiki-relay. These types represent settings that can be loaded from YAML
// configuration files, environment variables, or command-line flags.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete configuration for one wiki-relay run.
// It is built once at startup and handed to each component's constructor.
type Config struct {
	// URL is the wiki script path; api.php is requested below it.
	URL string `yaml:"url"`

	// ShortURL is the base for diff links in messages. Defaults to URL.
	ShortURL string `yaml:"short_url"`

	// RevIDFile is where the watermark is persisted.
	RevIDFile string `yaml:"revid_file"`

	// Namespaces lists the namespace ids whose changes are relayed.
	Namespaces NamespaceList `yaml:"namespaces"`

	Relay    RelayConfig   `yaml:"relay"`
	TLS      TLSConfig     `yaml:"tls"`
	LogLevel string        `yaml:"log_level"`
	Timeout  time.Duration `yaml:"timeout"`
}

// RelayConfig describes the irccat relay messages are sent to.
type RelayConfig struct {
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
	Channel string `yaml:"channel"`
}

// TLSConfig controls certificate verification for the wiki API.
type TLSConfig struct {
	InsecureSkipVerify bool `yaml:"insecure_skip_verify"`
}

// NamespaceList is a list of namespace ids. In YAML it may be written either
// as a comma separated string ("0,1") or as a sequence ([0, 1]).
type NamespaceList []int

// UnmarshalYAML implements yaml.Unmarshaler.
func (n *NamespaceList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		list, err := ParseNamespaces(value.Value)
		if err != nil {
			return err
		}
		*n = list
		return nil
	case yaml.SequenceNode:
		var ids []int
		if err := value.Decode(&ids); err != nil {
			return fmt.Errorf("namespaces: %w", err)
		}
		*n = ids
		return nil
	default:
		return fmt.Errorf("namespaces: expected a string or a list, line %d", value.Line)
	}
}

// String returns the comma separated form.
func (n NamespaceList) String() string {
	parts := make([]string, len(n))
	for i, id := range n {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

// ParseNamespaces parses a comma separated list of namespace ids.
// Blank entries are ignored.
func ParseNamespaces(s string) (NamespaceList, error) {
	list := NamespaceList{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid namespace id %q", part)
		}
		list = append(list, id)
	}
	return list, nil
}

// DefaultConfig returns a Config holding the built-in defaults. URL has no
// default and must be configured.
func DefaultConfig() *Config {
	return &Config{
		RevIDFile:  defaultRevIDFile(),
		Namespaces: NamespaceList{0, 1},
		Relay: RelayConfig{
			Host: "irccat",
			Port: 12345,
		},
		LogLevel: "info",
		Timeout:  30 * time.Second,
	}
}
