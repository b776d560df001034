// internal/handlers/game_ws.go
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"

	"github.com/connortbot/yappers.live/internal/game"
	"github.com/connortbot/yappers.live/internal/middleware"
	"github.com/connortbot/yappers.live/internal/models"
	"github.com/connortbot/yappers.live/internal/protocol"
)

// GameWSHandler upgrades GET /ws/{gameID}/{playerID} and runs the read loop.
// Every inbound frame carries the player's auth token; a frame whose token
// does not resolve to the path's player id is dropped with a policy close.
func (s *Server) GameWSHandler(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("gameID")
	playerID := r.PathValue("playerID")

	g, err := s.Games.GetGame(r.Context(), gameID, "")
	if err != nil {
		s.writeServiceError(w, err, "Unable to open socket")
		return
	}
	if !g.HasPlayer(playerID) {
		http.Error(w, "You are not a player in this game", http.StatusForbidden)
		return
	}

	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"}, // Adjust for production security.
	})
	if err != nil {
		s.Logger.Warnf("websocket accept error for game %s: %v", gameID, err)
		return
	}
	defer c.Close(websocket.StatusInternalError, "handler finished")

	middleware.LogWebSocketConnect(s.Logger, r.RemoteAddr, r.URL.Path)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	cl := s.Hub.Register(gameID, playerID)
	go s.writePump(ctx, c, cl)

	readErr := s.readPump(ctx, c, gameID, playerID)

	s.Hub.Unregister(gameID, cl)
	middleware.LogWebSocketDisconnect(s.Logger, r.RemoteAddr, r.URL.Path, readErr)

	// The player may come back; presence decides whether they count as online.
	if p := g.PlayerByID(playerID); p != nil {
		s.Hub.Broadcast(gameID, playerID, protocol.PlayerDisconnected{
			Username: p.Username,
			PlayerID: playerID,
		})
	}
}

// readPump consumes frames until the connection drops.
func (s *Server) readPump(ctx context.Context, c *websocket.Conn, gameID, playerID string) error {
	for {
		typ, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway ||
				strings.Contains(err.Error(), "context canceled") {
				return nil
			}
			return err
		}
		if typ != websocket.MessageText {
			continue
		}

		var frame protocol.ClientFrame
		if err := frame.UnmarshalJSON(data); err != nil {
			s.Logger.Warnf("game %s: invalid frame from %s: %v", gameID, playerID, err)
			continue
		}
		if frame.GameID != gameID {
			s.Logger.Warnf("game %s: frame addressed to wrong game %s", gameID, frame.GameID)
			c.Close(InvalidGameIDError, "frame addressed to wrong game")
			return nil
		}

		sub, err := s.Sessions.VerifyToken(frame.AuthToken)
		if err != nil || sub != playerID || frame.PlayerID != playerID {
			s.Logger.Warnf("game %s: rejecting frame with bad credentials from %s", gameID, playerID)
			c.Close(InvalidAuthTokenError, "invalid auth token")
			return nil
		}

		s.handleFrame(ctx, gameID, playerID, frame.Message)
	}
}

// handleFrame routes one authenticated message. Team-draft events go through
// the authoritative machine; everything else is rebroadcast as-is, with the
// auth token already stripped by the frame split.
func (s *Server) handleFrame(ctx context.Context, gameID, playerID string, msg protocol.Message) {
	switch m := msg.(type) {
	case protocol.GameStarted:
		if m.GameType != models.ModeTeamDraft {
			s.Hub.Broadcast(gameID, playerID, m)
			return
		}
		g, err := s.Games.StartTeamDraft(ctx, gameID, playerID)
		if err != nil {
			s.logFrameError(gameID, playerID, msg, err)
			return
		}
		s.Hub.Broadcast(gameID, playerID, protocol.GameStarted{
			GameType:         models.ModeTeamDraft,
			InitialTeamDraft: g.TeamDraft,
		})

	default:
		if protocol.TeamDraftKind(msg) {
			_, followups, err := s.Games.ApplyTeamDraft(ctx, gameID, playerID, msg)
			if err != nil {
				s.logFrameError(gameID, playerID, msg, err)
				return
			}
			for _, out := range followups {
				s.Hub.Broadcast(gameID, playerID, out)
			}
			return
		}
		s.Hub.Broadcast(gameID, playerID, msg)
	}
}

func (s *Server) logFrameError(gameID, playerID string, msg protocol.Message, err error) {
	level := logrus.WarnLevel
	if !errors.Is(err, game.ErrNotAllowed) && !errors.Is(err, game.ErrNotFound) {
		level = logrus.ErrorLevel
	}
	s.Logger.WithFields(logrus.Fields{
		"game_id":   gameID,
		"player_id": playerID,
		"type":      msg.Kind(),
	}).WithError(err).Log(level, "dropped socket event")
}

// writePump drains the hub client's buffer onto the wire and keeps the
// connection alive with pings.
func (s *Server) writePump(ctx context.Context, c *websocket.Conn, cl *HubClient) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case data, ok := <-cl.OutChan:
			if !ok {
				return
			}
			writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err := c.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				s.Logger.Warnf("failed to write to websocket for player %s: %v", cl.PlayerID, err)
				return
			}
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
			err := c.Ping(pingCtx)
			cancel()
			if err != nil {
				s.Logger.Warnf("ping failed for player %s, assuming disconnect: %v", cl.PlayerID, err)
				return
			}
		}
	}
}
