package match

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httperrors "github.com/gokatarajesh/kickoff-quiz/pkg/http/errors"
	"github.com/gokatarajesh/kickoff-quiz/pkg/http/ws"
)

func dialHandler(t *testing.T, h *Handler, playerID string) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(h.HandleWebSocket))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?player_id=" + playerID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func sendWS(t *testing.T, conn *websocket.Conn, msgType string, payload any) {
	t.Helper()
	msg, err := ws.NewMessage(msgType, payload)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(msg))
}

func readWS(t *testing.T, conn *websocket.Conn, msgType string) ws.Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		var msg ws.Message
		require.NoError(t, conn.ReadJSON(&msg))
		if msg.Type == msgType {
			return msg
		}
	}
}

func TestWebSocketAnswerRequiresSeq(t *testing.T) {
	f := newServiceFixture(t, time.Minute)
	req := twoPlayers()
	r := 1200.0
	req.Players[0].Rating = &r
	req.Players[1].Rating = &r
	snap, err := f.svc.Create(t.Context(), req)
	require.NoError(t, err)

	h := NewHandler(f.svc, ws.NewHub(zerolog.Nop()), zerolog.Nop())
	conn := dialHandler(t, h, "b")

	sendWS(t, conn, ws.TypeSubmitAnswer, ws.SubmitAnswerPayload{MatchID: snap.MatchID})
	var errPayload ws.ErrorPayload
	require.NoError(t, json.Unmarshal(readWS(t, conn, ws.TypeError).Payload, &errPayload))
	assert.Equal(t, httperrors.ErrCodeMissingField, errPayload.Code)

	sendWS(t, conn, ws.TypeSubmitAnswer, ws.SubmitAnswerPayload{MatchID: snap.MatchID, Seq: snap.Seq})
	var ack ws.AnswerAckPayload
	require.NoError(t, json.Unmarshal(readWS(t, conn, ws.TypeAnswerAck).Payload, &ack))
	assert.True(t, ack.Accepted)
	assert.Equal(t, snap.Seq, ack.Seq)
}
