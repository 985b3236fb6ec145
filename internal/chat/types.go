package chat

import (
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
)

const DefaultNick = "Guest"

// Session is the server-side state of one accepted connection. The nickname
// lives in the Registry, not here.
type Session struct {
	ID          uuid.UUID
	Conn        net.Conn
	Addr        string
	ConnectedAt time.Time

	wmu sync.Mutex // serializes writes so lines from concurrent broadcasts never interleave
}

func NewSession(conn net.Conn) *Session {
	addr := ""
	if ra := conn.RemoteAddr(); ra != nil {
		addr = ra.String()
	}
	return &Session{
		ID:          uuid.New(),
		Conn:        conn,
		Addr:        addr,
		ConnectedAt: time.Now(),
	}
}

// Send writes one newline-terminated line to the peer.
func (s *Session) Send(line string) error {
	s.wmu.Lock()
	defer s.wmu.Unlock()
	return writeLine(s.Conn, line)
}

// Close closes the socket. Errors are ignored; the peer may already be gone.
func (s *Session) Close() {
	_ = s.Conn.Close()
}

var (
	ErrExit         = errorString("exit requested")
	ErrServerClosed = errorString("server closed")
)

type errorString string

func (e errorString) Error() string { return string(e) }
