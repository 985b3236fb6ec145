package client

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/andy6609/terminal-chat/internal/chat"
	"github.com/andy6609/terminal-chat/internal/console"
)

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

func startServer(t *testing.T) *chat.Server {
	t.Helper()
	srv := chat.NewServer("127.0.0.1:0", nil)
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(srv.Stop)
	return srv
}

func waitFor(t *testing.T, cond func() bool, msg string) {
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

func nicks(srv *chat.Server) []string {
	var out []string
	for _, e := range srv.Registry().List() {
		out = append(out, e.Nick)
	}
	return out
}

func TestDialAnnouncesNickname(t *testing.T) {
	srv := startServer(t)
	out := &lockedBuffer{}

	c, err := Dial(context.Background(), srv.Addr().String(), "Zoe", console.New(out), nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(func() { c.Close() })

	waitFor(t, func() bool { return strings.Join(nicks(srv), ",") == "Zoe" }, "server never saw the /nick announcement")
	waitFor(t, func() bool { return strings.Contains(out.String(), "Server: Welcome to the chat!") }, "welcome not displayed")
}

func TestInputRenameAndExit(t *testing.T) {
	srv := startServer(t)
	out := &lockedBuffer{}

	c, err := Dial(context.Background(), srv.Addr().String(), "Zoe", console.New(out), nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}

	if err := c.Input("/nick Ada"); err != nil {
		t.Fatalf("Input: %v", err)
	}
	if c.Nick() != "Ada" {
		t.Fatalf("local nick = %q", c.Nick())
	}
	waitFor(t, func() bool { return strings.Contains(out.String(), "Zoe changed nickname to Ada") }, "rename notice not received")

	if err := c.Input("/clear"); err != nil {
		t.Fatalf("Input /clear: %v", err)
	}
	if err := c.Input("/exit"); !errors.Is(err, chat.ErrExit) {
		t.Fatalf("expected ErrExit, got %v", err)
	}
	select {
	case <-c.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("read loop did not stop after /exit")
	}
	waitFor(t, func() bool { return srv.Registry().Len() == 0 }, "server kept the session after /exit")
}

func TestRunRelaysBetweenClients(t *testing.T) {
	srv := startServer(t)
	aOut, bOut := &lockedBuffer{}, &lockedBuffer{}

	a, err := Dial(context.Background(), srv.Addr().String(), "A", console.New(aOut), nil)
	if err != nil {
		t.Fatalf("Dial A: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	b, err := Dial(context.Background(), srv.Addr().String(), "B", console.New(bOut), nil)
	if err != nil {
		t.Fatalf("Dial B: %v", err)
	}
	t.Cleanup(func() { b.Close() })
	waitFor(t, func() bool { return strings.Join(nicks(srv), ",") == "A,B" }, "nicknames not registered")

	pr, pw := io.Pipe()
	done := make(chan error, 1)
	go func() { done <- a.Run(context.Background(), pr) }()

	_, _ = io.WriteString(pw, "hello\n\n/exit\n")
	waitFor(t, func() bool { return strings.Contains(bOut.String(), "[A]: hello") }, "B never got the message")

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after /exit")
	}
	_ = pw.Close()
	if strings.Contains(aOut.String(), "[A]: hello") {
		t.Fatal("sender received its own message")
	}
}

func TestLongLineDoesNotDisconnectReceivers(t *testing.T) {
	srv := startServer(t)
	aOut, bOut := &lockedBuffer{}, &lockedBuffer{}

	a, err := Dial(context.Background(), srv.Addr().String(), "A", console.New(aOut), nil)
	if err != nil {
		t.Fatalf("Dial A: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	b, err := Dial(context.Background(), srv.Addr().String(), "B", console.New(bOut), nil)
	if err != nil {
		t.Fatalf("Dial B: %v", err)
	}
	t.Cleanup(func() { b.Close() })
	waitFor(t, func() bool { return strings.Join(nicks(srv), ",") == "A,B" }, "nicknames not registered")

	long := strings.Repeat("x", 70*1024)
	if err := a.Input(long); err != nil {
		t.Fatalf("Input: %v", err)
	}
	waitFor(t, func() bool { return strings.Contains(bOut.String(), "[A]: "+long+"\n") }, "B never got the long line")

	select {
	case <-b.Done():
		t.Fatal("receiver disconnected after a long line")
	default:
	}
	if err := a.Input("after"); err != nil {
		t.Fatalf("Input: %v", err)
	}
	waitFor(t, func() bool { return strings.Contains(bOut.String(), "[A]: after") }, "B stopped receiving after the long line")
	if strings.Contains(bOut.String(), "Disconnected from server.") {
		t.Fatal("receiver printed a disconnect")
	}
}

func TestRunForwardsLongInputLine(t *testing.T) {
	srv := startServer(t)
	bOut := &lockedBuffer{}

	a, err := Dial(context.Background(), srv.Addr().String(), "A", nil, nil)
	if err != nil {
		t.Fatalf("Dial A: %v", err)
	}
	b, err := Dial(context.Background(), srv.Addr().String(), "B", console.New(bOut), nil)
	if err != nil {
		t.Fatalf("Dial B: %v", err)
	}
	t.Cleanup(func() { b.Close() })
	waitFor(t, func() bool { return strings.Join(nicks(srv), ",") == "A,B" }, "nicknames not registered")

	long := strings.Repeat("y", 70*1024)
	done := make(chan error, 1)
	go func() { done <- a.Run(context.Background(), strings.NewReader(long+"\n/exit\n")) }()

	waitFor(t, func() bool { return strings.Contains(bOut.String(), "[A]: "+long+"\n") }, "long stdin line not forwarded")
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after /exit")
	}
}
