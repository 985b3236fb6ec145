package chat

import (
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/andy6609/terminal-chat/internal/console"
)

const addrNotFound = "Not found"

type Server struct {
	addr    string
	logger  *slog.Logger
	reg     *Registry
	display *console.Display
	now     func() time.Time

	hostMu   sync.Mutex
	hostNick string

	listener  net.Listener
	advertise string
	port      int
	metrics   *http.Server

	closing atomic.Bool
	wg      sync.WaitGroup
}

type Option func(s *Server)

// WithDisplay sets the host display every broadcast is mirrored to.
func WithDisplay(d *console.Display) Option {
	return func(s *Server) {
		if d != nil {
			s.display = d
		}
	}
}

// WithHostNick sets the nickname used for chat typed at the host console.
func WithHostNick(nick string) Option {
	return func(s *Server) {
		if nick != "" {
			s.hostNick = nick
		}
	}
}

// WithClock overrides the time source used for message timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

func NewServer(addr string, logger *slog.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		addr:     addr,
		logger:   logger,
		reg:      NewRegistry(),
		display:  console.New(io.Discard),
		now:      time.Now,
		hostNick: "Host",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) Registry() *Registry {
	return s.reg
}

func (s *Server) Start() error {
	if s.closing.Load() {
		return ErrServerClosed
	}
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.listener = ln
	if tcp, ok := ln.Addr().(*net.TCPAddr); ok {
		s.port = tcp.Port
	}
	s.advertise = LocalIPv4()

	s.wg.Add(1)
	go s.acceptLoop(ln)

	s.logger.Info("server started", "addr", ln.Addr().String(), "advertise", s.advertise)
	return nil
}

// Addr returns the bound listener address, or nil before Start.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop closes the listener and every session, then waits for all handlers.
func (s *Server) Stop() {
	if !s.closing.CompareAndSwap(false, true) {
		return
	}
	s.logger.Info("shutting down")

	if s.listener != nil {
		s.listener.Close()
	}
	if s.metrics != nil {
		_ = s.metrics.Close()
	}
	for _, sess := range s.reg.Snapshot() {
		sess.Close()
	}
	s.wg.Wait()

	s.logger.Info("shutdown complete")
}

func (s *Server) acceptLoop(ln net.Listener) {
	defer s.wg.Done()
	for {
		conn, err := ln.Accept()
		if err != nil {
			// Listener closed: normal shutdown path.
			if !s.closing.Load() {
				s.logger.Debug("accept loop ended", "error", err)
			}
			return
		}

		sess := NewSession(conn)
		s.reg.Add(sess, DefaultNick)
		if s.closing.Load() {
			// Stop may already have taken its snapshot; this session is
			// not in it, so nobody else will close it.
			s.reg.Remove(sess)
			sess.Close()
			return
		}
		s.logger.Info("client connected", "session", sess.ID.String(), "addr", sess.Addr)

		s.printCount()
		s.Notice("A new user connected.", sess)

		s.wg.Add(1)
		go s.handle(sess)
	}
}

func (s *Server) HostNick() string {
	s.hostMu.Lock()
	defer s.hostMu.Unlock()
	return s.hostNick
}

func (s *Server) setHostNick(nick string) (old string) {
	s.hostMu.Lock()
	defer s.hostMu.Unlock()
	old, s.hostNick = s.hostNick, nick
	return old
}

func (s *Server) printCount() {
	s.display.Printf("> Connected users: %d\n", s.reg.Len())
}

// LocalIPv4 returns the first IPv4 address of the local hostname. It is
// informational only; failures degrade to a placeholder.
func LocalIPv4() string {
	host, err := os.Hostname()
	if err != nil {
		return addrNotFound
	}
	ips, err := net.LookupIP(host)
	if err != nil {
		return addrNotFound
	}
	for _, ip := range ips {
		if v4 := ip.To4(); v4 != nil {
			return v4.String()
		}
	}
	return addrNotFound
}
