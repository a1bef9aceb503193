package relay

import (
	"sync"

	"github.com/momaws232/ChatCord/internal/domain"
)

type callState struct {
	creator domain.UserID
	order   []domain.UserID
	members map[domain.UserID]struct{}
}

func (c *callState) add(user domain.UserID) bool {
	if _, ok := c.members[user]; ok {
		return false
	}
	c.members[user] = struct{}{}
	c.order = append(c.order, user)
	return true
}

func (c *callState) remove(user domain.UserID) bool {
	if _, ok := c.members[user]; !ok {
		return false
	}
	delete(c.members, user)
	for i, u := range c.order {
		if u == user {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

// others copies the participant list excluding user.
func (c *callState) others(user domain.UserID) []domain.UserID {
	out := make([]domain.UserID, 0, len(c.order))
	for _, u := range c.order {
		if u != user {
			out = append(out, u)
		}
	}
	return out
}

// CascadeEntry is one affected call from a disconnect cascade.
type CascadeEntry struct {
	CallID    domain.CallID
	Remaining []domain.UserID
}

// CallTable tracks membership of every active call. A call with zero
// participants does not exist: the delete-when-empty check happens
// under the same lock as the removal.
type CallTable struct {
	mu    sync.Mutex
	calls map[domain.CallID]*callState
}

func NewCallTable() *CallTable {
	return &CallTable{calls: make(map[domain.CallID]*callState)}
}

func (t *CallTable) getOrCreate(id domain.CallID) *callState {
	c, ok := t.calls[id]
	if !ok {
		c = &callState{members: make(map[domain.UserID]struct{})}
		t.calls[id] = c
	}
	return c
}

// CreateOrTouch ensures a call record exists. A new record starts with
// just the creator as participant, or empty when creator is "".
func (t *CallTable) CreateOrTouch(id domain.CallID, creator domain.UserID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.calls[id]; ok {
		return
	}
	c := t.getOrCreate(id)
	c.creator = creator
	if creator != "" {
		c.add(creator)
	}
}

// Join adds user to the call, creating the record if needed. Returns
// the other participants at the time of the join and whether the user
// was newly added. Rejoining is a no-op that still returns the current
// others.
func (t *CallTable) Join(id domain.CallID, user domain.UserID) (others []domain.UserID, joined bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	c := t.getOrCreate(id)
	joined = c.add(user)
	return c.others(user), joined
}

// Leave removes user from the call. When the last participant leaves
// the record is deleted. Leaving a call or identity not present is a
// no-op with left == false.
func (t *CallTable) Leave(id domain.CallID, user domain.UserID) (remaining []domain.UserID, left bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	c, ok := t.calls[id]
	if !ok {
		return nil, false
	}
	if !c.remove(user) {
		return c.others(user), false
	}
	if len(c.members) == 0 {
		delete(t.calls, id)
		return nil, true
	}
	return c.others(user), true
}

// LeaveAll removes user from every call it is a member of, deleting
// calls that end up empty, and returns one entry per affected call.
func (t *CallTable) LeaveAll(user domain.UserID) []CascadeEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []CascadeEntry
	for id, c := range t.calls {
		if !c.remove(user) {
			continue
		}
		if len(c.members) == 0 {
			delete(t.calls, id)
			out = append(out, CascadeEntry{CallID: id})
			continue
		}
		out = append(out, CascadeEntry{CallID: id, Remaining: c.others(user)})
	}
	return out
}

// Snapshot is a read-only copy of every active call for APIs.
func (t *CallTable) Snapshot() []domain.Call {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]domain.Call, 0, len(t.calls))
	for id, c := range t.calls {
		out = append(out, domain.Call{
			ID:           id,
			Creator:      c.creator,
			Participants: append([]domain.UserID(nil), c.order...),
		})
	}
	return out
}

func (t *CallTable) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.calls)
}

// Participants returns the current participant list of one call.
func (t *CallTable) Participants(id domain.CallID) []domain.UserID {
	t.mu.Lock()
	defer t.mu.Unlock()
	c, ok := t.calls[id]
	if !ok {
		return nil
	}
	return append([]domain.UserID(nil), c.order...)
}
