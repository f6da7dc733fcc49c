package websocket

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gorilla "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"namescan/internal/search"
)

func newTestServer(t *testing.T, hub *Hub) (*httptest.Server, string) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWS(hub, slog.Default(), w, r)
	}))
	t.Cleanup(srv.Close)
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	return srv, wsURL
}

func readEnvelope(t *testing.T, conn *gorilla.Conn) Envelope {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	var env Envelope
	require.NoError(t, json.Unmarshal(raw, &env))
	return env
}

func TestHub_BroadcastProgress(t *testing.T) {
	hub := NewHub(slog.Default())
	hub.Start()
	defer hub.Stop()

	_, wsURL := newTestServer(t, hub)

	conn, _, err := gorilla.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Give the register message time to reach the hub loop
	time.Sleep(50 * time.Millisecond)

	hub.BroadcastProgress(ProgressPayload{
		File:    "report_march.xlsx",
		Index:   1,
		Total:   3,
		Matches: 4,
	})

	env := readEnvelope(t, conn)
	assert.Equal(t, TypeProgress, env.Type)

	data, err := json.Marshal(env.Data)
	require.NoError(t, err)
	var payload ProgressPayload
	require.NoError(t, json.Unmarshal(data, &payload))
	assert.Equal(t, "report_march.xlsx", payload.File)
	assert.Equal(t, 1, payload.Index)
	assert.Equal(t, 3, payload.Total)
	assert.Equal(t, 4, payload.Matches)
	assert.Empty(t, payload.Error)
}

func TestHub_MultipleClients(t *testing.T) {
	hub := NewHub(slog.Default())
	hub.Start()
	defer hub.Stop()

	_, wsURL := newTestServer(t, hub)

	connA, _, err := gorilla.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer connA.Close()
	connB, _, err := gorilla.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer connB.Close()

	time.Sleep(50 * time.Millisecond)

	hub.Broadcast(TypeStatus, map[string]string{"state": "search_running"})

	for _, conn := range []*gorilla.Conn{connA, connB} {
		env := readEnvelope(t, conn)
		assert.Equal(t, TypeStatus, env.Type)
	}
}

func TestHub_StartTwice(t *testing.T) {
	hub := NewHub(slog.Default())
	hub.Start()
	hub.Start()
	hub.Stop()
	hub.Stop()
}

func TestProgressBroadcaster_OnWorkbook(t *testing.T) {
	hub := NewHub(slog.Default())
	hub.Start()
	defer hub.Stop()

	_, wsURL := newTestServer(t, hub)
	conn, _, err := gorilla.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	time.Sleep(50 * time.Millisecond)

	broadcaster := NewProgressBroadcaster(hub)
	broadcaster.OnWorkbook(search.ProgressEvent{
		File:  "broken.xls",
		Index: 2,
		Total: 2,
		Err:   errors.New("file is corrupt"),
	})

	env := readEnvelope(t, conn)
	assert.Equal(t, TypeProgress, env.Type)

	data, err := json.Marshal(env.Data)
	require.NoError(t, err)
	var payload ProgressPayload
	require.NoError(t, json.Unmarshal(data, &payload))
	assert.Equal(t, "broken.xls", payload.File)
	assert.Equal(t, "file is corrupt", payload.Error)
}
