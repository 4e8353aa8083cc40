package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gorilla "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testUpgrader = gorilla.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// dialTestClient starts a test server that registers every connection with
// the hub and returns a connected client-side websocket.
func dialTestClient(t *testing.T, hub *Hub) *gorilla.Conn {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		ServeWS(hub, conn, "")
	}))
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/"
	conn, _, err := gorilla.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn
}

func readEvent(t *testing.T, conn *gorilla.Conn) map[string]interface{} {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if hub.ClientCount() == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("hub never reached %d clients (have %d)", want, hub.ClientCount())
}

func TestHubWelcomeMessage(t *testing.T) {
	t.Parallel()

	hub := NewHub(nil)
	hub.Start()
	defer hub.Stop()

	conn := dialTestClient(t, hub)

	msg := readEvent(t, conn)
	assert.Equal(t, TypeConnection, msg["type"])

	data, ok := msg["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "connected", data["status"])
	assert.NotEmpty(t, data["client_id"])
}

func TestHubBroadcastReachesAllClients(t *testing.T) {
	t.Parallel()

	hub := NewHub(nil)
	hub.Start()
	defer hub.Stop()

	first := dialTestClient(t, hub)
	second := dialTestClient(t, hub)
	waitForClients(t, hub, 2)

	// Drain the welcome messages
	readEvent(t, first)
	readEvent(t, second)

	hub.Broadcast(TypeAnalysisComplete, map[string]interface{}{"records": 42})

	for _, conn := range []*gorilla.Conn{first, second} {
		msg := readEvent(t, conn)
		assert.Equal(t, TypeAnalysisComplete, msg["type"])

		data, ok := msg["data"].(map[string]interface{})
		require.True(t, ok)
		assert.EqualValues(t, 42, data["records"])
		assert.NotEmpty(t, msg["timestamp"])
	}
}

func TestHubBroadcastError(t *testing.T) {
	t.Parallel()

	hub := NewHub(nil)
	hub.Start()
	defer hub.Stop()

	conn := dialTestClient(t, hub)
	readEvent(t, conn) // welcome

	hub.BroadcastError("ANALYSIS_FAILED", "could not parse file")

	msg := readEvent(t, conn)
	assert.Equal(t, TypeError, msg["type"])

	data, ok := msg["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "ANALYSIS_FAILED", data["code"])
}

func TestHubClientCountAfterDisconnect(t *testing.T) {
	t.Parallel()

	hub := NewHub(nil)
	hub.Start()
	defer hub.Stop()

	conn := dialTestClient(t, hub)
	waitForClients(t, hub, 1)

	conn.Close()
	waitForClients(t, hub, 0)
}

func TestHubStopWhileBroadcasting(t *testing.T) {
	t.Parallel()

	hub := NewHub(nil)
	hub.Start()

	first := dialTestClient(t, hub)
	second := dialTestClient(t, hub)
	waitForClients(t, hub, 2)
	readEvent(t, first)
	readEvent(t, second)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			hub.Broadcast(TypeAnalysisComplete, map[string]interface{}{"seq": i})
		}
	}()

	hub.Stop()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("broadcaster did not finish after hub stop")
	}
	waitForClients(t, hub, 0)
}

func TestHubStopIsIdempotent(t *testing.T) {
	t.Parallel()

	hub := NewHub(nil)
	hub.Start()
	hub.Stop()
	hub.Stop()
	assert.Zero(t, hub.ClientCount())
}
