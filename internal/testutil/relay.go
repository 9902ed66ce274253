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

package testutil

import (
	"bufio"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"
)

// Relay is a fake irccat listener that records every connection's raw bytes.
type Relay struct {
	listener net.Listener

	mu    sync.Mutex
	conns []string
	done  chan struct{}
	wg    sync.WaitGroup
}

// NewRelay starts a fake relay on a random loopback port.
func NewRelay(t *testing.T) *Relay {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to start fake relay: %v", err)
	}

	r := &Relay{listener: ln, done: make(chan struct{})}
	r.wg.Add(1)
	go r.serve()
	t.Cleanup(r.Close)
	return r
}

func (r *Relay) serve() {
	defer r.wg.Done()
	for {
		conn, err := r.listener.Accept()
		if err != nil {
			return
		}
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			defer conn.Close()
			data, _ := io.ReadAll(conn)
			r.mu.Lock()
			r.conns = append(r.conns, string(data))
			r.mu.Unlock()
		}()
	}
}

// Host returns the listening host.
func (r *Relay) Host() string {
	host, _, _ := net.SplitHostPort(r.listener.Addr().String())
	return host
}

// Port returns the listening port.
func (r *Relay) Port() int {
	_, port, _ := net.SplitHostPort(r.listener.Addr().String())
	n, _ := strconv.Atoi(port)
	return n
}

// Close stops the listener and waits for open connections to finish.
func (r *Relay) Close() {
	select {
	case <-r.done:
		return
	default:
		close(r.done)
	}
	_ = r.listener.Close()
	r.wg.Wait()
}

// Connections returns the raw data received on each finished connection.
func (r *Relay) Connections() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.conns...)
}

// WaitForConnections blocks until n connections have finished or the timeout
// passes, and returns what was received.
func (r *Relay) WaitForConnections(t *testing.T, n int, timeout time.Duration) []string {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if conns := r.Connections(); len(conns) >= n {
			return conns
		}
		time.Sleep(10 * time.Millisecond)
	}
	conns := r.Connections()
	t.Fatalf("Expected %d relay connections, got %d", n, len(conns))
	return conns
}

// SplitLines splits raw relay data into CRLF-terminated lines, failing the
// test if any line is not terminated by CRLF.
func SplitLines(t *testing.T, raw string) []string {
	t.Helper()

	var lines []string
	sc := bufio.NewScanner(strings.NewReader(raw))
	sc.Split(scanCRLF)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if !strings.HasSuffix(raw, "\r\n") && raw != "" {
		t.Fatalf("Relay data %q is not CRLF terminated", raw)
	}
	return lines
}

func scanCRLF(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := strings.Index(string(data), "\r\n"); i >= 0 {
		return i + 2, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
