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

package neterror

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"net"
	"strings"
)

// Inspector defines the interface for classifying transport errors.
type Inspector interface {
	// IsNetworkError returns true if the error represents a network connectivity error.
	IsNetworkError(err error) bool

	// IsTimeout returns true if the error represents a timeout or deadline.
	IsTimeout(err error) bool

	// IsTLSError returns true if the error represents a certificate or handshake failure.
	IsTLSError(err error) bool
}

// ChainInspector checks the error chain with errors.As first and falls back
// to matching well-known message fragments, which is all that survives some
// wrapping in net/http.
type ChainInspector struct{}

// NewInspector creates a new ChainInspector.
func NewInspector() Inspector {
	return &ChainInspector{}
}

// IsNetworkError checks if the error is a network connectivity error.
// Timeouts and TLS failures count as network errors.
func (i *ChainInspector) IsNetworkError(err error) bool {
	if err == nil {
		return false
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	if i.IsTimeout(err) || i.IsTLSError(err) {
		return true
	}

	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "temporary failure") ||
		strings.Contains(errStr, "dial tcp") ||
		strings.Contains(errStr, "network is unreachable") ||
		strings.Contains(errStr, "broken pipe")
}

// IsTimeout checks if the error is a timeout.
func (i *ChainInspector) IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "timeout")
}

// IsTLSError checks if the error is a TLS handshake or certificate error.
func (i *ChainInspector) IsTLSError(err error) bool {
	if err == nil {
		return false
	}

	var unknownAuth x509.UnknownAuthorityError
	if errors.As(err, &unknownAuth) {
		return true
	}
	var hostErr x509.HostnameError
	if errors.As(err, &hostErr) {
		return true
	}
	var certErr x509.CertificateInvalidError
	if errors.As(err, &certErr) {
		return true
	}
	var verifyErr *tls.CertificateVerificationError
	if errors.As(err, &verifyErr) {
		return true
	}

	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "tls handshake") ||
		strings.Contains(errStr, "x509:") ||
		strings.Contains(errStr, "certificate")
}
