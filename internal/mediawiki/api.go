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

package mediawiki

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/go-querystring/query"
	"github.com/rs/zerolog"

	relayerrors "github.com/sirseerhq/wiki-relay/internal/errors"
	"github.com/sirseerhq/wiki-relay/internal/neterror"
)

// Options configures an APIClient.
type Options struct {
	// BaseURL is the script path of the wiki, ending in a slash.
	// The client requests BaseURL + "api.php".
	BaseURL string

	// InsecureSkipVerify disables TLS certificate verification.
	InsecureSkipVerify bool

	// UserAgent is sent with every request.
	UserAgent string

	// HTTPClient overrides the client built from the other options.
	HTTPClient *http.Client

	Logger zerolog.Logger
}

// APIClient implements Client against a live api.php endpoint.
type APIClient struct {
	endpoint   string
	httpClient *http.Client
	inspector  neterror.Inspector
	logger     zerolog.Logger
}

// NewAPIClient creates a new client for the wiki at opts.BaseURL.
// A missing trailing slash on the base URL is added.
func NewAPIClient(opts Options) *APIClient {
	base := opts.BaseURL
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		if opts.InsecureSkipVerify {
			opts.Logger.Warn().Str("url", base).Msg("TLS certificate verification is disabled for the wiki API")
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // explicit opt-out
		}
		httpClient = &http.Client{
			Transport: &userAgentTransport{
				userAgent: opts.UserAgent,
				base:      transport,
			},
		}
	}

	return &APIClient{
		endpoint:   base + "api.php",
		httpClient: httpClient,
		inspector:  neterror.NewInspector(),
		logger:     opts.Logger,
	}
}

// Endpoint returns the api.php URL the client queries.
func (c *APIClient) Endpoint() string {
	return c.endpoint
}

// RecentChanges issues one recentchanges query for the given namespaces,
// limited to the newest 50 non-bot, non-minor changes.
func (c *APIClient) RecentChanges(ctx context.Context, namespaces []int) (map[string]Page, error) {
	params, err := query.Values(recentChangesQuery{
		Action:     "query",
		Prop:       "revisions",
		Generator:  "recentchanges",
		Namespaces: namespaces,
		Show:       defaultShow,
		Limit:      defaultLimit,
		Format:     "json",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %v: %w", err, relayerrors.ErrFetchFailed)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().Str("url", req.URL.String()).Msg("querying recent changes")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.mapError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%s returned status %d: %w", c.endpoint, resp.StatusCode, relayerrors.ErrFetchFailed)
	}

	var body queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		if c.inspector.IsNetworkError(err) {
			return nil, c.mapError(err)
		}
		return nil, fmt.Errorf("failed to decode response from %s: %v: %w", c.endpoint, err, relayerrors.ErrInvalidResponse)
	}

	return c.pagesFrom(&body)
}

// pagesFrom extracts query.pages from a decoded response.
func (c *APIClient) pagesFrom(body *queryResponse) (map[string]Page, error) {
	if body.Error != nil {
		return nil, fmt.Errorf("%s: %s: %w", body.Error.Code, body.Error.Info, relayerrors.ErrAPIError)
	}

	if body.Query == nil {
		// The API omits query entirely when the generator yields nothing.
		if len(body.BatchComplete) > 0 {
			return map[string]Page{}, nil
		}
		return nil, fmt.Errorf("response has no query object: %w", relayerrors.ErrInvalidResponse)
	}

	if body.Query.Pages == nil {
		return nil, fmt.Errorf("response has no query.pages object: %w", relayerrors.ErrInvalidResponse)
	}

	return body.Query.Pages, nil
}

// mapError maps transport errors to our domain errors with actionable messages
func (c *APIClient) mapError(err error) error {
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("request to %s canceled: %w", c.endpoint, err)
	}

	if c.inspector.IsTLSError(err) {
		return fmt.Errorf("TLS error talking to %s. Fix the certificate or set tls.insecure_skip_verify: %w: %w",
			c.endpoint, err, relayerrors.ErrNetworkFailure)
	}

	if c.inspector.IsNetworkError(err) {
		return fmt.Errorf("network error connecting to %s: %w: %w", c.endpoint, err, relayerrors.ErrNetworkFailure)
	}

	return fmt.Errorf("request to %s failed: %w: %w", c.endpoint, err, relayerrors.ErrFetchFailed)
}
