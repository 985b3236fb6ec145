package chat

import (
	"bufio"
	"context"
	"io"
	"strings"
)

// HostInput handles one line typed at the host console. It returns ErrExit
// when the operator asked to terminate the process.
func (s *Server) HostInput(line string) error {
	text := strings.TrimSpace(line)
	if text == "" {
		return nil
	}
	if strings.HasPrefix(text, "/") {
		switch s.dispatch(&caller{reply: s.display.Println}, text) {
		case resultExit:
			return ErrExit
		case resultHandled:
			return nil
		}
	}
	s.Chat(s.HostNick(), line, nil)
	return nil
}

// RunConsole reads operator lines from in until it is exhausted, ctx is
// cancelled, or /exit is typed (ErrExit).
func (s *Server) RunConsole(ctx context.Context, in io.Reader) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		r := bufio.NewReader(in)
		for {
			line, err := ReadLine(r)
			if err != nil {
				return
			}
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		s.display.Prompt()
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if err := s.HostInput(line); err != nil {
				return err
			}
		}
	}
}

// Banner prints the server details shown once after start.
func (s *Server) Banner() {
	s.display.Printf("\nServer created!\nName: %s\nIP: %s\nPort: %d\n\n", s.HostNick(), s.advertise, s.port)
}
