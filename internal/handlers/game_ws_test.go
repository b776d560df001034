// internal/handlers/game_ws_test.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/connortbot/yappers.live/internal/protocol"
)

func dialTestSocket(t *testing.T, ts *httptest.Server, gameID, playerID string) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c, _, err := websocket.Dial(ctx, ts.URL+"/ws/"+gameID+"/"+playerID, nil)
	require.NoError(t, err)
	return c
}

func writeFrame(t *testing.T, c *websocket.Conn, frame protocol.ClientFrame) {
	t.Helper()
	data, err := frame.MarshalJSON()
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, c.Write(ctx, websocket.MessageText, data))
}

func readServerFrame(t *testing.T, c *websocket.Conn) protocol.ServerFrame {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, data, err := c.Read(ctx)
	require.NoError(t, err)

	var frame protocol.ServerFrame
	require.NoError(t, frame.UnmarshalJSON(data))
	return frame
}

// readCloseStatus reads until the server closes the connection and returns
// the close code.
func readCloseStatus(t *testing.T, c *websocket.Conn) websocket.StatusCode {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for {
		_, _, err := c.Read(ctx)
		if err != nil {
			return websocket.CloseStatus(err)
		}
	}
}

func TestGameWSRebroadcastsChat(t *testing.T) {
	_, h := newTestServer(t)
	ts := httptest.NewServer(h)
	defer ts.Close()

	created := createTestGame(t, h, "alice", "yappers")
	joined := doJSON(t, h, "POST", "/games/join",
		map[string]string{"code": created.Game.Code, "username": "bob"})
	require.Equal(t, 200, joined.Code)
	var bob sessionResponse
	require.NoError(t, json.Unmarshal(joined.Body.Bytes(), &bob))

	alice := dialTestSocket(t, ts, created.Game.ID, created.PlayerID)
	defer alice.Close(websocket.StatusNormalClosure, "")
	bobConn := dialTestSocket(t, ts, created.Game.ID, bob.PlayerID)
	defer bobConn.Close(websocket.StatusNormalClosure, "")

	writeFrame(t, alice, protocol.ClientFrame{
		GameID:    created.Game.ID,
		PlayerID:  created.PlayerID,
		AuthToken: created.AuthToken,
		Message:   protocol.ChatMessage{Username: "alice", Message: "hi"},
	})

	for _, c := range []*websocket.Conn{alice, bobConn} {
		frame := readServerFrame(t, c)
		assert.Equal(t, created.Game.ID, frame.GameID)
		assert.Equal(t, created.PlayerID, frame.PlayerID)
		require.Equal(t, protocol.KindChatMessage, frame.Message.Kind())
		assert.Equal(t, "hi", frame.Message.(protocol.ChatMessage).Message)
	}
}

func TestGameWSClosesOnWrongGameFrame(t *testing.T) {
	_, h := newTestServer(t)
	ts := httptest.NewServer(h)
	defer ts.Close()

	created := createTestGame(t, h, "alice", "yappers")

	c := dialTestSocket(t, ts, created.Game.ID, created.PlayerID)
	defer c.Close(websocket.StatusNormalClosure, "")

	writeFrame(t, c, protocol.ClientFrame{
		GameID:    "some-other-game",
		PlayerID:  created.PlayerID,
		AuthToken: created.AuthToken,
		Message:   protocol.ChatMessage{Username: "alice", Message: "hi"},
	})

	assert.Equal(t, websocket.StatusCode(InvalidGameIDError), readCloseStatus(t, c))
}

func TestGameWSClosesOnBadToken(t *testing.T) {
	_, h := newTestServer(t)
	ts := httptest.NewServer(h)
	defer ts.Close()

	created := createTestGame(t, h, "alice", "yappers")

	c := dialTestSocket(t, ts, created.Game.ID, created.PlayerID)
	defer c.Close(websocket.StatusNormalClosure, "")

	writeFrame(t, c, protocol.ClientFrame{
		GameID:    created.Game.ID,
		PlayerID:  created.PlayerID,
		AuthToken: "not-a-token",
		Message:   protocol.ChatMessage{Username: "alice", Message: "hi"},
	})

	assert.Equal(t, websocket.StatusCode(InvalidAuthTokenError), readCloseStatus(t, c))
}

func TestGameWSRejectsNonMember(t *testing.T) {
	_, h := newTestServer(t)
	ts := httptest.NewServer(h)
	defer ts.Close()

	created := createTestGame(t, h, "alice", "yappers")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, resp, err := websocket.Dial(ctx, ts.URL+"/ws/"+created.Game.ID+"/stranger", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 403, resp.StatusCode)
}
