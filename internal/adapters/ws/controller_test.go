package ws

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/momaws232/ChatCord/internal/relay"
)

func TestOriginAllowed(t *testing.T) {
	allowed := []string{"http://localhost:3000", "https://chat.example.com"}

	require.True(t, originAllowed("", allowed))
	require.True(t, originAllowed("http://localhost:3000", allowed))
	require.True(t, originAllowed("https://chat.example.com", allowed))
	require.False(t, originAllowed("https://evil.example.com", allowed))
	require.True(t, originAllowed("https://evil.example.com", []string{"*"}))
	require.False(t, originAllowed("https://chat.example.com", nil))
}

func TestWSConnTrySendDropsWhenFull(t *testing.T) {
	c := &wsConn{send: make(chan relay.Frame, 1)}

	require.NoError(t, c.TrySend(relay.Frame(`{}`)))
	require.ErrorIs(t, c.TrySend(relay.Frame(`{}`)), ErrBackpressure)
}
