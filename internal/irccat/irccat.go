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

// Package irccat delivers lines to an irccat-style relay: a plain TCP
// listener that rebroadcasts every received line to a chat channel.
//
// Each Send opens one connection, writes every message terminated by CRLF
// and closes the connection again. Relays that route by the first token of
// a connection can be given a channel name, which is prepended to the first
// line only.
package irccat

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	relayerrors "github.com/sirseerhq/wiki-relay/internal/errors"
	"github.com/sirseerhq/wiki-relay/internal/neterror"
)

// Dialer opens network connections. *net.Dialer satisfies it.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// Options configures a Client.
type Options struct {
	Host    string
	Port    int
	Channel string

	// Dialer overrides the default *net.Dialer.
	Dialer Dialer
}

// Client sends messages to one relay.
type Client struct {
	addr      string
	channel   string
	dialer    Dialer
	inspector neterror.Inspector
}

// NewClient creates a relay client.
func NewClient(opts Options) *Client {
	dialer := opts.Dialer
	if dialer == nil {
		dialer = &net.Dialer{}
	}
	return &Client{
		addr:      net.JoinHostPort(opts.Host, strconv.Itoa(opts.Port)),
		channel:   opts.Channel,
		dialer:    dialer,
		inspector: neterror.NewInspector(),
	}
}

// Addr returns the relay address in host:port form.
func (c *Client) Addr() string {
	return c.addr
}

// Send writes messages to the relay over a single connection. It does
// nothing for an empty slice. Lines that were written before a failure may
// already have reached the relay.
func (c *Client) Send(ctx context.Context, messages []string) error {
	if len(messages) == 0 {
		return nil
	}

	conn, err := c.dialer.DialContext(ctx, "tcp", c.addr)
	if err != nil {
		if c.inspector.IsNetworkError(err) {
			return fmt.Errorf("failed to connect to relay %s: %w: %w: %w", c.addr, err, relayerrors.ErrNotifyFailed, relayerrors.ErrNetworkFailure)
		}
		return fmt.Errorf("failed to connect to relay %s: %w: %w", c.addr, err, relayerrors.ErrNotifyFailed)
	}

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetWriteDeadline(deadline)
	}

	// An expired deadline unblocks a pending write on cancellation.
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetWriteDeadline(time.Unix(1, 0))
	})
	defer stop()

	w := bufio.NewWriter(conn)
	for i, msg := range messages {
		if i == 0 && c.channel != "" {
			msg = c.channel + " " + msg
		}
		if _, err := w.WriteString(msg + "\r\n"); err != nil {
			_ = conn.Close()
			return c.writeError(ctx, err)
		}
	}
	if err := w.Flush(); err != nil {
		_ = conn.Close()
		return c.writeError(ctx, err)
	}

	if err := conn.Close(); err != nil {
		return fmt.Errorf("failed to close relay connection: %w: %w", err, relayerrors.ErrNotifyFailed)
	}
	return nil
}

func (c *Client) writeError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
		err = fmt.Errorf("%w (%w)", ctxErr, err)
	}
	return fmt.Errorf("failed to write to relay %s: %w: %w: %w", c.addr, err, relayerrors.ErrNotifyFailed, relayerrors.ErrNetworkFailure)
}
