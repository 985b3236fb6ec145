package chat

// Broadcast writes line to every registered session except exclude and
// mirrors it to the host display. It returns the number of sessions the
// line was written to.
//
// Delivery is best effort: each recipient is written independently, a failed
// write is counted and dropped, never retried and never reported to the
// sender. The registry lock is released before any write happens.
func (s *Server) Broadcast(line string, exclude *Session) int {
	delivered := 0
	for _, sess := range s.reg.Snapshot() {
		if sess == exclude {
			continue
		}
		if err := sess.Send(line); err != nil {
			BroadcastSendFailures.Inc()
			s.logger.Debug("broadcast send dropped", "session", sess.ID.String(), "addr", sess.Addr, "error", err)
			continue
		}
		delivered++
	}
	s.display.Println(line)
	return delivered
}

// Notice broadcasts a server notice.
func (s *Server) Notice(text string, exclude *Session) int {
	MessagesTotal.WithLabelValues("notice").Inc()
	return s.Broadcast(NoticeLine(s.now(), text), exclude)
}

// Chat broadcasts a chat line from nick.
func (s *Server) Chat(nick, text string, exclude *Session) int {
	MessagesTotal.WithLabelValues("chat").Inc()
	return s.Broadcast(ChatLine(s.now(), nick, text), exclude)
}
