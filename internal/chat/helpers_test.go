package chat

import (
	"bufio"
	"bytes"
	"errors"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/andy6609/terminal-chat/internal/console"
)

var fixedTime = time.Date(2026, time.January, 2, 13, 5, 0, 0, time.Local)

func fixedClock() time.Time { return fixedTime }

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTestServer(t *testing.T) (*Server, *lockedBuffer) {
	t.Helper()
	out := &lockedBuffer{}
	srv := NewServer("127.0.0.1:0", nil,
		WithDisplay(console.New(out)),
		WithClock(fixedClock),
		WithHostNick("Host"),
	)
	return srv, out
}

func startTestServer(t *testing.T) (*Server, *lockedBuffer) {
	t.Helper()
	srv, out := newTestServer(t)
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(srv.Stop)
	return srv, out
}

type peer struct {
	conn  net.Conn
	lines chan string
}

func (p *peer) send(t *testing.T, line string) {
	t.Helper()
	if _, err := p.conn.Write([]byte(line + "\n")); err != nil {
		t.Fatalf("send %q: %v", line, err)
	}
}

// dialPeer connects to srv and waits for the welcome so the session is
// registered before returning.
func dialPeer(t *testing.T, srv *Server) *peer {
	t.Helper()
	conn, err := net.Dial("tcp", srv.Addr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	p := &peer{conn: conn, lines: readLines(conn)}
	waitForSuffix(t, p.lines, "Server: Type /help for a list of commands.")
	return p
}

// dialNamed connects and renames the session, waiting until the rename
// notice has been broadcast.
func dialNamed(t *testing.T, srv *Server, nick string) *peer {
	t.Helper()
	p := dialPeer(t, srv)
	p.send(t, NickLine(nick))
	waitForSuffix(t, p.lines, "changed nickname to "+nick)
	return p
}

func readLines(r net.Conn) chan string {
	ch := make(chan string, 256)
	go func() {
		defer close(ch)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			ch <- sc.Text()
		}
	}()
	return ch
}

func waitForSuffix(t *testing.T, ch <-chan string, suffix string) string {
	t.Helper()
	deadline := time.NewTimer(2 * time.Second)
	defer deadline.Stop()
	for {
		select {
		case s, ok := <-ch:
			if !ok {
				t.Fatalf("connection closed waiting for suffix %q", suffix)
			}
			if strings.HasSuffix(s, suffix) {
				return s
			}
		case <-deadline.C:
			t.Fatalf("timeout waiting for suffix %q", suffix)
		}
	}
}

func expectNoLine(t *testing.T, ch <-chan string, wait time.Duration) {
	t.Helper()
	select {
	case s, ok := <-ch:
		if ok {
			t.Fatalf("unexpected line %q", s)
		}
	case <-time.After(wait):
	}
}

func expectClosed(t *testing.T, ch <-chan string) {
	t.Helper()
	deadline := time.NewTimer(2 * time.Second)
	defer deadline.Stop()
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline.C:
			t.Fatal("timeout waiting for connection close")
		}
	}
}

func eventually(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal(msg)
}

// pipeSession returns a session backed by net.Pipe and the lines its peer
// receives.
func pipeSession(t *testing.T, addr string) (*Session, <-chan string) {
	t.Helper()
	server, client := net.Pipe()
	t.Cleanup(func() {
		server.Close()
		client.Close()
	})
	s := NewSession(server)
	s.Addr = addr
	return s, readLines(client)
}

type brokenConn struct{ net.Conn }

func (brokenConn) Write([]byte) (int, error) { return 0, errors.New("connection reset") }
func (brokenConn) Close() error              { return nil }
func (brokenConn) RemoteAddr() net.Addr      { return &net.TCPAddr{} }
