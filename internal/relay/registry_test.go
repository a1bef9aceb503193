package relay

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/momaws232/ChatCord/internal/domain"
)

func TestRegistryLastRegistrationWins(t *testing.T) {
	r := NewRegistry()
	c1 := newFakeConn()
	c2 := newFakeConn()

	r.Register("h1", "alice", c1)
	r.Register("h2", "alice", c2)

	got, ok := r.Lookup("alice")
	require.True(t, ok)
	require.Same(t, c2, got)
}

func TestRegistryStaleUnregisterIgnored(t *testing.T) {
	r := NewRegistry()
	r.Register("h1", "alice", newFakeConn())
	c2 := newFakeConn()
	r.Register("h2", "alice", c2)

	// The old connection's disconnect arrives after the reconnect.
	require.False(t, r.Unregister("h1", "alice"))

	got, ok := r.Lookup("alice")
	require.True(t, ok)
	require.Same(t, c2, got)

	require.True(t, r.Unregister("h2", "alice"))
	_, ok = r.Lookup("alice")
	require.False(t, ok)
}

func TestRegistryUnregisterUnknownUser(t *testing.T) {
	r := NewRegistry()
	require.False(t, r.Unregister("h1", "ghost"))
}

func TestRegistryPeersExcludesSubject(t *testing.T) {
	r := NewRegistry()
	r.Register("h1", "alice", newFakeConn())
	r.Register("h2", "bob", newFakeConn())
	r.Register("h3", "carol", newFakeConn())

	require.Len(t, r.Peers("alice"), 2)
	require.Len(t, r.Peers("nobody"), 3)
}

func TestRegistryConcurrentRegisters(t *testing.T) {
	r := NewRegistry()
	const n = 64

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			user := domain.UserID(fmt.Sprintf("user-%d", i))
			r.Register(fmt.Sprintf("h-%d", i), user, newFakeConn())
		}(i)
	}
	wg.Wait()

	require.Equal(t, n, r.Len())
}
