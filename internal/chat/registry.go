package chat

import "sync"

// Entry is one row of a Registry listing. Index is 1-based and positional,
// so it can shift between two listings if membership changes in between.
type Entry struct {
	Index   int
	Nick    string
	Addr    string
	Session *Session
}

// Registry owns the live sessions and their nicknames. A single mutex guards
// both the ordered list and the nickname map; nothing holds it across
// network I/O.
type Registry struct {
	mu       sync.Mutex
	sessions []*Session // connection order
	nicks    map[*Session]string
}

func NewRegistry() *Registry {
	return &Registry{
		nicks: make(map[*Session]string),
	}
}

// Add appends s in connection order. Adding an already registered session
// is a no-op.
func (r *Registry) Add(s *Session, nick string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.nicks[s]; ok {
		return
	}
	r.sessions = append(r.sessions, s)
	r.nicks[s] = nick
	ConnectedSessions.Inc()
}

// Remove deletes s and reports the nickname it had. removed is false when s
// was already gone, which happens when a kick and a disconnect race.
func (r *Registry) Remove(s *Session) (nick string, removed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	nick, ok := r.nicks[s]
	if !ok {
		return DefaultNick, false
	}
	delete(r.nicks, s)
	for i, cur := range r.sessions {
		if cur == s {
			r.sessions = append(r.sessions[:i], r.sessions[i+1:]...)
			break
		}
	}
	ConnectedSessions.Dec()
	return nick, true
}

// Rename replaces the nickname of a registered session and returns the
// previous one. ok is false if s is no longer registered.
func (r *Registry) Rename(s *Session, nick string) (old string, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	old, ok = r.nicks[s]
	if !ok {
		return DefaultNick, false
	}
	r.nicks[s] = nick
	return old, true
}

// Nick returns the current nickname of s, or DefaultNick if s is not
// registered.
func (r *Registry) Nick(s *Session) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if nick, ok := r.nicks[s]; ok {
		return nick
	}
	return DefaultNick
}

func (r *Registry) contains(s *Session) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.nicks[s]
	return ok
}

// Snapshot returns a copy of the live sessions for iteration outside the lock.
func (r *Registry) Snapshot() []*Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Session, len(r.sessions))
	copy(out, r.sessions)
	return out
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// List returns the numbered listing used by /users.
func (r *Registry) List() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, 0, len(r.sessions))
	for i, s := range r.sessions {
		out = append(out, Entry{
			Index:   i + 1,
			Nick:    r.nicks[s],
			Addr:    s.Addr,
			Session: s,
		})
	}
	return out
}

// At resolves a 1-based positional index against the current order.
func (r *Registry) At(n int) (Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n < 1 || n > len(r.sessions) {
		return Entry{}, false
	}
	s := r.sessions[n-1]
	return Entry{Index: n, Nick: r.nicks[s], Addr: s.Addr, Session: s}, true
}
