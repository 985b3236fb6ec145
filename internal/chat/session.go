package chat

import (
	"bufio"
	"errors"
	"io"
	"strings"
	"time"
)

// handle runs the per-session loop: welcome, then read lines until the peer
// goes away, then close exactly once.
func (s *Server) handle(sess *Session) {
	defer s.wg.Done()
	log := s.logger.With("session", sess.ID.String(), "addr", sess.Addr)

	now := s.now()
	_ = sess.Send(NoticeLine(now, "Welcome to the chat!"))
	_ = sess.Send(NoticeLine(now, "Type /help for a list of commands."))

	reader := bufio.NewReader(sess.Conn)
	for {
		line, err := ReadLine(reader)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.Debug("read failed", "error", err)
			}
			break
		}

		text := strings.TrimSpace(line)
		if text == "" {
			continue
		}
		if strings.HasPrefix(text, "/") {
			res := s.dispatch(&caller{session: sess, reply: peerReply(sess)}, text)
			if res == resultExit {
				break
			}
			if res == resultHandled {
				continue
			}
		}
		s.Chat(s.reg.Nick(sess), line, sess)
	}

	s.closeSession(sess)
}

func (s *Server) closeSession(sess *Session) {
	nick, removed := s.reg.Remove(sess)
	sess.Close()
	if !removed {
		// Already removed by a kick, which made its own announcement.
		return
	}

	s.logger.Info("client disconnected",
		"session", sess.ID.String(),
		"nick", nick,
		"connected_for", time.Since(sess.ConnectedAt).Round(time.Second),
	)
	if s.closing.Load() {
		return
	}
	s.Notice(nick+" disconnected.", nil)
	s.printCount()
}

func peerReply(sess *Session) func(string) {
	return func(line string) {
		_ = sess.Send(line)
	}
}
