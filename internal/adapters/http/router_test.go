package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/momaws232/ChatCord/internal/config"
	"github.com/momaws232/ChatCord/internal/relay"
)

func testConfig() *config.Config {
	return &config.Config{
		Mode:           "release",
		AllowedOrigins: []string{"*"},
		ReadLimit:      32768,
		PingPeriod:     54 * time.Second,
		WriteTimeout:   5 * time.Second,
		SendBuffer:     32,
	}
}

func startServer(t *testing.T) *httptest.Server {
	t.Helper()
	engine := SetupRouter(context.Background(), testConfig(), relay.New())
	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, userID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?userId=" + userID
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// waitEvent reads frames until one with the wanted event name arrives,
// skipping unrelated ones (presence chatter interleaves freely).
func waitEvent(t *testing.T, conn *websocket.Conn, event string) map[string]any {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	require.NoError(t, conn.SetReadDeadline(deadline))
	for {
		var m map[string]any
		require.NoError(t, conn.ReadJSON(&m), "waiting for %q", event)
		if m["event"] == event {
			return m
		}
	}
}

func awaitCall(t *testing.T, srv *httptest.Server, callID string) {
	t.Helper()
	require.Eventually(t, func() bool {
		resp, err := http.Get(srv.URL + "/api/calls")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return strings.Contains(string(body), callID)
	}, 2*time.Second, 10*time.Millisecond)
}

func TestStatusRoute(t *testing.T) {
	srv := startServer(t)

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "running")
}

func TestRejectsConnectionWithoutUserID(t *testing.T) {
	srv := startServer(t)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	require.NotNil(t, resp)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCallFlowOverWebSocket(t *testing.T) {
	srv := startServer(t)

	alice := dial(t, srv, "alice")
	bob := dial(t, srv, "bob")

	got := waitEvent(t, alice, "user-status-changed")
	require.Equal(t, "bob", got["userId"])
	require.Equal(t, "online", got["status"])

	require.NoError(t, alice.WriteJSON(map[string]any{
		"event": "create-call", "callId": "alice-bob", "creatorId": "alice",
	}))
	awaitCall(t, srv, "alice-bob")

	require.NoError(t, bob.WriteJSON(map[string]any{
		"event": "join-call", "callId": "alice-bob", "userId": "bob",
	}))

	got = waitEvent(t, bob, "call-participants")
	require.Equal(t, []any{"alice"}, got["users"])
	require.Equal(t, "alice-bob", got["callId"])

	got = waitEvent(t, alice, "user-joined-call")
	require.Equal(t, "bob", got["userId"])
	require.Equal(t, "alice-bob", got["callId"])

	require.NoError(t, alice.WriteJSON(map[string]any{
		"event": "call-signal", "to": "bob", "from": "alice",
		"callId": "alice-bob", "signal": map[string]any{"type": "offer", "sdp": "v=0"},
	}))

	got = waitEvent(t, bob, "call-signal")
	require.Equal(t, "alice", got["from"])
	require.Equal(t, "alice-bob", got["callId"])
	require.Equal(t, map[string]any{"type": "offer", "sdp": "v=0"}, got["signal"])

	// Bob dropping the transport cascades a leave to alice.
	bob.Close()
	got = waitEvent(t, alice, "user-left-call")
	require.Equal(t, "bob", got["userId"])
}

func TestDirectMessageOverWebSocket(t *testing.T) {
	srv := startServer(t)

	alice := dial(t, srv, "alice")
	bob := dial(t, srv, "bob")
	waitEvent(t, alice, "user-status-changed")

	require.NoError(t, alice.WriteJSON(map[string]any{
		"event": "send-direct-message", "to": "bob", "from": "alice", "message": "hey",
	}))

	got := waitEvent(t, bob, "direct-message-received")
	require.Equal(t, "alice", got["from"])
	require.Equal(t, "hey", got["message"])
}

func TestStatusAPI(t *testing.T) {
	srv := startServer(t)

	alice := dial(t, srv, "alice")
	defer alice.Close()
	require.NoError(t, alice.WriteJSON(map[string]any{
		"event": "create-call", "callId": "solo", "creatorId": "alice",
	}))
	awaitCall(t, srv, "solo")

	resp, err := http.Get(srv.URL + "/api/status")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body struct {
		Online      int `json:"online"`
		ActiveCalls int `json:"activeCalls"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, 1, body.Online)
	require.Equal(t, 1, body.ActiveCalls)
}
