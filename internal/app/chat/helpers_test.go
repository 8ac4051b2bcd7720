package chat

import (
	"bufio"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"linechat/internal/configs"
)

const ioTimeout = 2 * time.Second

type nopStream struct{}

func (nopStream) Read(_ []byte) (int, error)         { return 0, io.EOF }
func (nopStream) Write(p []byte) (int, error)        { return len(p), nil }
func (nopStream) Close() error                       { return nil }
func (nopStream) SetReadDeadline(_ time.Time) error  { return nil }
func (nopStream) SetWriteDeadline(_ time.Time) error { return nil }

// chunkReader returns one chunk per Read call, then io.EOF.
type chunkReader struct {
	chunks []string
}

func (r *chunkReader) Read(p []byte) (int, error) {
	if len(r.chunks) == 0 {
		return 0, io.EOF
	}
	n := copy(p, r.chunks[0])
	r.chunks[0] = r.chunks[0][n:]
	if r.chunks[0] == "" {
		r.chunks = r.chunks[1:]
	}
	return n, nil
}

func testConfig() *configs.AppConfig {
	cfg := configs.Default()
	cfg.HandshakeTimeout = ioTimeout
	cfg.WriteTimeout = ioTimeout
	cfg.MetricsLogInterval = 0
	return cfg
}

func newTestManager(t *testing.T, cfg *configs.AppConfig) *Manager {
	t.Helper()
	if cfg == nil {
		cfg = testConfig()
	}
	m := NewManager(cfg)
	t.Cleanup(m.Shutdown)
	return m
}

// newRegisteredClient registers a client backed by nopStream. Its queue is read with drain.
func newRegisteredClient(t *testing.T, m *Manager, name string) *Client {
	t.Helper()
	c := newClient(m, nopStream{}, TransportTCP, "127.0.0.1:4000")
	if _, err := m.registry.Register(name, c); err != nil {
		t.Fatalf("Register(%q): %v", name, err)
	}
	return c
}

// drain returns every payload currently queued for c.
func drain(c *Client) []string {
	var out []string
	for {
		select {
		case p := <-c.send:
			out = append(out, string(p))
		default:
			return out
		}
	}
}

// testConn is the peer side of a net.Pipe served by a Manager.
type testConn struct {
	t    *testing.T
	name string
	conn net.Conn
	r    *bufio.Reader
}

func dial(t *testing.T, m *Manager) *testConn {
	t.Helper()
	server, client := net.Pipe()
	go m.HandleConn(server, TransportTCP, "10.1.2.3:5555")
	t.Cleanup(func() { _ = client.Close() })
	return &testConn{t: t, conn: client, r: newLineReader(client)}
}

func newLineReader(conn net.Conn) *bufio.Reader {
	return bufio.NewReader(conn)
}

// login dials, sends name and consumes the caller's own join announcement and presence list.
func login(t *testing.T, m *Manager, name string, present ...string) *testConn {
	t.Helper()
	tc := dial(t, m)
	tc.name = name
	tc.send(name)
	tc.expect(name + " has joined the chat.")
	tc.expectUsers(present...)
	return tc
}

func (tc *testConn) send(line string) {
	tc.t.Helper()
	_ = tc.conn.SetWriteDeadline(time.Now().Add(ioTimeout))
	if _, err := tc.conn.Write([]byte(line + "\n")); err != nil {
		tc.t.Fatalf("%s: write %q: %v", tc.name, line, err)
	}
}

func (tc *testConn) readLine() (string, error) {
	_ = tc.conn.SetReadDeadline(time.Now().Add(ioTimeout))
	line, err := tc.r.ReadString('\n')
	return strings.TrimSuffix(line, "\n"), err
}

func (tc *testConn) expect(want string) {
	tc.t.Helper()
	got, err := tc.readLine()
	if err != nil {
		tc.t.Fatalf("%s: expected %q, read error: %v", tc.name, want, err)
	}
	if got != want {
		tc.t.Fatalf("%s: expected %q, got %q", tc.name, want, got)
	}
}

// expectUsers expects a full presence list block in sorted order.
func (tc *testConn) expectUsers(names ...string) {
	tc.t.Helper()
	tc.expect("/users")
	for _, n := range names {
		tc.expect(n)
	}
}

func (tc *testConn) expectNotice(text string) {
	tc.t.Helper()
	tc.expect("/server")
	tc.expect(text)
}

// readUntil reads lines until want is seen and returns every line read before it.
func (tc *testConn) readUntil(want string) []string {
	tc.t.Helper()
	var seen []string
	for {
		got, err := tc.readLine()
		if err != nil {
			tc.t.Fatalf("%s: waiting for %q, read error: %v (seen %q)", tc.name, want, err, seen)
		}
		if got == want {
			return seen
		}
		seen = append(seen, got)
	}
}

func (tc *testConn) expectClosed() {
	tc.t.Helper()
	line, err := tc.readLine()
	if err == nil {
		tc.t.Fatalf("%s: expected closed connection, got %q", tc.name, line)
	}
	if err != io.EOF {
		tc.t.Fatalf("%s: expected io.EOF, got %v", tc.name, err)
	}
}
