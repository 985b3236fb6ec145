package chat

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
)

type result int

const (
	resultNotCommand result = iota // caller treats the line as chat
	resultHandled
	resultExit
)

// caller is who issued a command: a remote peer (session set) or the host
// console (session nil). reply goes to the caller only, never broadcast.
type caller struct {
	session *Session
	reply   func(string)
}

func (c *caller) host() bool { return c.session == nil }

func (c *caller) origin() string {
	if c.host() {
		return "host"
	}
	return "peer"
}

type command struct {
	hostOnly bool
	run      func(s *Server, c *caller, arg string) result
}

var commands = map[string]command{
	"/nick":  {run: (*Server).cmdNick},
	"/help":  {run: (*Server).cmdHelp},
	"/clear": {run: (*Server).cmdClear},
	"/exit":  {run: (*Server).cmdExit},
	"/info":  {hostOnly: true, run: (*Server).cmdInfo},
	"/users": {hostOnly: true, run: (*Server).cmdUsers},
	"/kick":  {hostOnly: true, run: (*Server).cmdKick},
}

// SplitCommand splits a slash line into its lower-cased first token and the
// trimmed remainder.
func SplitCommand(line string) (name, arg string) {
	line = strings.TrimSpace(line)
	i := strings.IndexFunc(line, unicode.IsSpace)
	if i < 0 {
		return strings.ToLower(line), ""
	}
	return strings.ToLower(line[:i]), strings.TrimSpace(line[i:])
}

func (s *Server) dispatch(c *caller, line string) result {
	name, arg := SplitCommand(line)
	cmd, ok := commands[name]
	if !ok {
		return resultNotCommand
	}

	start := time.Now()
	defer func() {
		CommandsTotal.WithLabelValues(name, c.origin()).Inc()
		CommandDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	}()

	if cmd.hostOnly && !c.host() {
		c.reply("Host only command.")
		return resultHandled
	}
	return cmd.run(s, c, arg)
}

func (s *Server) cmdNick(c *caller, arg string) result {
	if arg == "" {
		c.reply("Usage: /nick <name>")
		return resultHandled
	}

	var old string
	if c.host() {
		old = s.setHostNick(arg)
	} else {
		var ok bool
		old, ok = s.reg.Rename(c.session, arg)
		if !ok {
			return resultHandled
		}
		s.logger.Info("nickname changed", "session", c.session.ID.String(), "old", old, "new", arg)
	}
	s.Notice(fmt.Sprintf("%s changed nickname to %s", old, arg), nil)
	return resultHandled
}

func (s *Server) cmdHelp(c *caller, _ string) result {
	c.reply("Commands:")
	c.reply("  /nick <name>  change your nickname")
	c.reply("  /help         show this list")
	c.reply("  /clear        clear the screen")
	c.reply("  /exit         leave the chat")
	if c.host() {
		c.reply("  /info         show server details")
		c.reply("  /users        list connected users")
		c.reply("  /kick <n>     disconnect user number n")
	}
	return resultHandled
}

func (s *Server) cmdClear(c *caller, _ string) result {
	if c.host() {
		s.display.Clear()
	}
	return resultHandled
}

func (s *Server) cmdExit(c *caller, _ string) result {
	if !c.host() {
		c.reply(NoticeLine(s.now(), "Bye."))
	}
	return resultExit
}

func (s *Server) cmdInfo(c *caller, _ string) result {
	c.reply("")
	c.reply("Server Name: " + s.HostNick())
	c.reply("IP: " + s.advertise)
	c.reply(fmt.Sprintf("Port: %d", s.port))
	c.reply(fmt.Sprintf("Connected Users: %d", s.reg.Len()))
	c.reply("")
	return resultHandled
}

func (s *Server) cmdUsers(c *caller, _ string) result {
	c.reply("")
	c.reply("Connected Users:")
	for _, e := range s.reg.List() {
		c.reply(fmt.Sprintf("%d. %s (%s)", e.Index, e.Nick, e.Addr))
	}
	c.reply("")
	return resultHandled
}

func (s *Server) cmdKick(c *caller, arg string) result {
	n, err := strconv.Atoi(arg)
	if err != nil {
		c.reply("Usage: /kick <number>")
		return resultHandled
	}
	if _, ok := s.Kick(n); !ok {
		c.reply("Invalid number.")
	}
	return resultHandled
}

// Kick disconnects the session at 1-based position n of the current listing.
// The target gets a notice first, is removed, then its socket is closed; the
// remaining sessions get a "was kicked" notice. ok is false if n does not
// resolve to a live session.
func (s *Server) Kick(n int) (nick string, ok bool) {
	e, ok := s.reg.At(n)
	if !ok {
		return "", false
	}

	_ = e.Session.Send(NoticeLine(s.now(), "You were kicked."))
	nick, removed := s.reg.Remove(e.Session)
	e.Session.Close()
	if !removed {
		// The peer left between lookup and removal; its handler announced it.
		return e.Nick, false
	}

	s.logger.Info("client kicked",
		"session", e.Session.ID.String(),
		"nick", nick,
		"connected_for", time.Since(e.Session.ConnectedAt).Round(time.Second),
	)
	s.Notice(nick+" was kicked.", nil)
	s.printCount()
	return nick, true
}
