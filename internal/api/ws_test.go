package api

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wsReply struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId"`
	Data      json.RawMessage `json:"data"`
}

func dialSession(t *testing.T, e *testEnv) *websocket.Conn {
	t.Helper()
	server := httptest.NewServer(e.router)
	t.Cleanup(server.Close)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readReply(t *testing.T, conn *websocket.Conn) wsReply {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var r wsReply
	require.NoError(t, conn.ReadJSON(&r))
	return r
}

func readSnapshot(t *testing.T, conn *websocket.Conn) (wsReply, SnapshotResponse) {
	t.Helper()
	r := readReply(t, conn)
	require.Equal(t, MsgSnapshot, r.Type, string(r.Data))
	var snap SnapshotResponse
	require.NoError(t, json.Unmarshal(r.Data, &snap))
	return r, snap
}

func readError(t *testing.T, conn *websocket.Conn) string {
	t.Helper()
	r := readReply(t, conn)
	require.Equal(t, MsgError, r.Type)
	var e ErrorResponse
	require.NoError(t, json.Unmarshal(r.Data, &e))
	return e.Error
}

func send(t *testing.T, conn *websocket.Conn, msgType string, data interface{}) {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(WSMessage{Type: msgType, Data: raw}))
}

func TestWebSocket_InitialSnapshot(t *testing.T) {
	e := newTestEnv(t)
	conn := dialSession(t, e)

	r, snap := readSnapshot(t, conn)
	assert.NotEmpty(t, r.SessionID)
	assert.Equal(t, "manual", snap.Mode)
	assert.Equal(t, 270.0, snap.Metrics.EthereumTPS)
	assert.InDelta(t, 240.0, snap.Metrics.SimulatedBitcoinTPS, 0.05)
}

func TestWebSocket_SetParams(t *testing.T) {
	e := newTestEnv(t)
	conn := dialSession(t, e)
	first, _ := readSnapshot(t, conn)

	body := manualBody()
	body["numberOfBlobs"] = 6
	send(t, conn, MsgSetParams, body)

	r, snap := readSnapshot(t, conn)
	assert.Equal(t, first.SessionID, r.SessionID)
	assert.Equal(t, 786432.0, snap.Metrics.TotalDataBytes)
	assert.InDelta(t, 120.0, snap.Metrics.SimulatedBitcoinTPS, 0.05)
}

func TestWebSocket_SelectModeAndQueryRange(t *testing.T) {
	e := newTestEnv(t)
	e.source.AddRange(100, 200, 27032, 100)
	conn := dialSession(t, e)
	readSnapshot(t, conn)

	send(t, conn, MsgQueryBlockRange, map[string]uint64{"start": 100, "end": 200})
	assert.Contains(t, readError(t, conn), "query mode")

	send(t, conn, MsgSelectMode, map[string]string{"mode": "query"})
	_, snap := readSnapshot(t, conn)
	assert.Equal(t, "query", snap.Mode)
	assert.InDelta(t, 270.32, snap.Metrics.EthereumTPS, 1e-9)

	send(t, conn, MsgQueryBlockRange, map[string]uint64{"start": 100, "end": 200})
	_, snap = readSnapshot(t, conn)
	require.NotNil(t, snap.BlockRange)
	assert.True(t, snap.BlockRange.Available)
	assert.Equal(t, 27032.0, *snap.Input.QueryTxCount)
	assert.Equal(t, 100.0, *snap.Input.QueryTimeIntervalSec)
	assert.Equal(t, uint64(100), *snap.Input.QueryStartBlock)

	// unknown range keeps the counts and records the range
	send(t, conn, MsgQueryBlockRange, map[string]uint64{"start": 300, "end": 400})
	_, snap = readSnapshot(t, conn)
	require.NotNil(t, snap.BlockRange)
	assert.False(t, snap.BlockRange.Available)
	assert.Equal(t, 27032.0, *snap.Input.QueryTxCount)
	assert.Equal(t, uint64(300), *snap.Input.QueryStartBlock)

	assert.Equal(t, 1.0, testutil.ToFloat64(e.metrics.ModeSwitchesTotal.WithLabelValues("query")))
}

func TestWebSocket_Errors(t *testing.T) {
	e := newTestEnv(t)
	conn := dialSession(t, e)
	readSnapshot(t, conn)

	send(t, conn, "bogus", map[string]string{})
	assert.Contains(t, readError(t, conn), "unknown message type")

	send(t, conn, MsgSelectMode, map[string]string{"mode": "hybrid"})
	assert.NotEmpty(t, readError(t, conn))

	body := manualBody()
	delete(body, "manualTPS")
	send(t, conn, MsgSetParams, body)
	assert.NotEmpty(t, readError(t, conn))

	require.NoError(t, conn.WriteJSON(WSMessage{Type: MsgSetParams}))
	assert.Contains(t, readError(t, conn), "missing message data")

	// session survives errors
	send(t, conn, MsgSetParams, manualBody())
	_, snap := readSnapshot(t, conn)
	assert.Equal(t, "manual", snap.Mode)
}
