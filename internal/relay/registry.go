package relay

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/momaws232/ChatCord/internal/domain"
)

type regEntry struct {
	handle string
	conn   Conn
}

// Registry maps a user identity to its single live connection.
// A new registration for the same identity silently supersedes the old
// one; the superseded connection is not closed here, it just stops
// being routable.
type Registry struct {
	mu     sync.RWMutex
	byUser map[domain.UserID]*regEntry
}

func NewRegistry() *Registry {
	return &Registry{byUser: make(map[domain.UserID]*regEntry)}
}

// Register records handle as the current connection for user. Last
// registration wins.
func (r *Registry) Register(handle string, user domain.UserID, conn Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.byUser[user]; ok {
		log.Info().Str("module", "relay.registry").Str("user", string(user)).
			Str("old_handle", old.handle).Str("handle", handle).Msg("connection superseded")
	}
	r.byUser[user] = &regEntry{handle: handle, conn: conn}
}

// Unregister removes the mapping for user only if handle is still the
// current one. A stale disconnect arriving after the user reconnected
// must not clobber the newer registration. Reports whether the entry
// was removed.
func (r *Registry) Unregister(handle string, user domain.UserID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.byUser[user]
	if !ok || e.handle != handle {
		return false
	}
	delete(r.byUser, user)
	return true
}

// Lookup returns the live connection for user, if any.
func (r *Registry) Lookup(user domain.UserID) (Conn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byUser[user]
	if !ok {
		return nil, false
	}
	return e.conn, true
}

// Peers snapshots every live connection except the one owned by
// except. Callers iterate the copy without holding the lock.
func (r *Registry) Peers(except domain.UserID) []Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Conn, 0, len(r.byUser))
	for user, e := range r.byUser {
		if user == except {
			continue
		}
		out = append(out, e.conn)
	}
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byUser)
}
