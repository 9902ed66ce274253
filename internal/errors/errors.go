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

// Package errors defines sentinel errors for consistent error handling across the application.
// These errors map to specific exit codes in the CLI so schedulers can tell
// configuration problems apart from transient network failures.
package errors

import "errors"

// Sentinel errors for consistent error handling and exit code mapping
var (
	// ErrInvalidConfig indicates a missing or malformed configuration value.
	// Maps to exit code 2.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrNetworkFailure indicates a network connection problem, either towards
	// the wiki API or the notification relay.
	// Maps to exit code 3.
	ErrNetworkFailure = errors.New("network connection failed")

	// ErrFetchFailed indicates the change-listing request did not succeed.
	ErrFetchFailed = errors.New("fetching recent changes failed")

	// ErrInvalidResponse indicates the API answered with something that is not
	// a recognizable change listing.
	ErrInvalidResponse = errors.New("invalid api response")

	// ErrAPIError indicates the API answered with a MediaWiki error envelope.
	ErrAPIError = errors.New("api returned an error")

	// ErrStateWrite indicates the watermark could not be persisted.
	ErrStateWrite = errors.New("failed to write watermark")

	// ErrNotifyFailed indicates delivery to the notification relay failed.
	ErrNotifyFailed = errors.New("failed to notify relay")
)
