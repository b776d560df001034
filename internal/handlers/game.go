// internal/handlers/game.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/connortbot/yappers.live/internal/game"
	"github.com/connortbot/yappers.live/internal/models"
	"github.com/connortbot/yappers.live/internal/protocol"
)

type gameResponse struct {
	Game *models.Game `json:"game"`
}

type sessionResponse struct {
	Game      *models.Game `json:"game"`
	PlayerID  string       `json:"player_id"`
	AuthToken string       `json:"auth_token"`
}

type leaveResponse struct {
	Game    *models.Game `json:"game,omitempty"`
	Deleted bool         `json:"deleted,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeServiceError maps the service error taxonomy onto HTTP statuses.
// Preconditions come back as a generic 400 because the service does not
// report which one failed; validation failures carry their reason.
func (s *Server) writeServiceError(w http.ResponseWriter, err error, notAllowedMsg string) {
	var v *game.ValidationError
	switch {
	case errors.As(err, &v):
		http.Error(w, v.Reason, http.StatusBadRequest)
	case errors.Is(err, game.ErrNotFound):
		http.Error(w, "Game not found", http.StatusNotFound)
	case errors.Is(err, game.ErrNotAllowed):
		http.Error(w, notAllowedMsg, http.StatusBadRequest)
	default:
		s.Logger.WithError(err).Error("request failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// CreateGameHandler makes a new room with the caller as host.
func (s *Server) CreateGameHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string          `json:"username"`
		GameMode models.GameMode `json:"game_mode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if req.GameMode == "" {
		req.GameMode = models.ModeYappers
	}

	g, playerID, err := s.Games.CreateGame(r.Context(), req.Username, req.GameMode)
	if err != nil {
		s.writeServiceError(w, err, "Unable to create game")
		return
	}

	token, err := s.Sessions.CreateToken(playerID)
	if err != nil {
		s.Logger.WithError(err).Error("failed to sign session token")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, sessionResponse{Game: g, PlayerID: playerID, AuthToken: token})
}

// JoinGameHandler adds a player to the room behind a join code. A taken
// username and an unknown code are deliberately indistinguishable.
func (s *Server) JoinGameHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code     string `json:"code"`
		Username string `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	g, playerID, err := s.Games.JoinGame(r.Context(), req.Code, req.Username)
	if err != nil {
		if errors.Is(err, game.ErrNotAllowed) {
			http.Error(w, "Game not found or username taken", http.StatusNotFound)
			return
		}
		s.writeServiceError(w, err, "Unable to join game")
		return
	}

	token, err := s.Sessions.CreateToken(playerID)
	if err != nil {
		s.Logger.WithError(err).Error("failed to sign session token")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	p := g.PlayerByID(playerID)
	s.Hub.Broadcast(g.ID, playerID, protocol.PlayerJoined{
		Username: p.Username,
		PlayerID: playerID,
	})

	writeJSON(w, http.StatusOK, sessionResponse{Game: g, PlayerID: playerID, AuthToken: token})
}

// GetGameHandler serves the polling transport. The optional playerId query
// parameter refreshes that player's presence stamp.
func (s *Server) GetGameHandler(w http.ResponseWriter, r *http.Request) {
	g, err := s.Games.GetGame(r.Context(), r.PathValue("id"), r.URL.Query().Get("playerId"))
	if err != nil {
		s.writeServiceError(w, err, "Unable to fetch game")
		return
	}
	writeJSON(w, http.StatusOK, gameResponse{Game: g})
}

func (s *Server) RejoinGameHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PlayerID string `json:"player_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	g, err := s.Games.RejoinGame(r.Context(), r.PathValue("id"), req.PlayerID)
	if err != nil {
		s.writeServiceError(w, err, "Unable to rejoin game")
		return
	}
	writeJSON(w, http.StatusOK, gameResponse{Game: g})
}

func (s *Server) LeaveGameHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PlayerID string `json:"player_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	gameID := r.PathValue("id")

	// Capture the username before removal for the broadcast.
	var username string
	if before, err := s.Games.GetGame(r.Context(), gameID, ""); err == nil {
		if p := before.PlayerByID(req.PlayerID); p != nil {
			username = p.Username
		}
	}

	g, deleted, err := s.Games.LeaveGame(r.Context(), gameID, req.PlayerID)
	if err != nil {
		s.writeServiceError(w, err, "Unable to leave game")
		return
	}
	if deleted {
		writeJSON(w, http.StatusOK, leaveResponse{Deleted: true})
		return
	}

	s.Hub.Broadcast(gameID, req.PlayerID, protocol.PlayerLeft{
		Username: username,
		PlayerID: req.PlayerID,
	})
	writeJSON(w, http.StatusOK, leaveResponse{Game: g})
}

func (s *Server) ChatHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PlayerID string `json:"player_id"`
		Message  string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	g, err := s.Games.SendChatMessage(r.Context(), r.PathValue("id"), req.PlayerID, req.Message)
	if err != nil {
		s.writeServiceError(w, err, "Unable to send message")
		return
	}

	if p := g.PlayerByID(req.PlayerID); p != nil {
		s.Hub.Broadcast(g.ID, req.PlayerID, protocol.ChatMessage{
			Username: p.Username,
			Message:  g.Chat[len(g.Chat)-1].Message,
		})
	}
	writeJSON(w, http.StatusOK, gameResponse{Game: g})
}

func (s *Server) StartRoundHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PlayerID string `json:"player_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	g, err := s.Games.StartRound(r.Context(), r.PathValue("id"), req.PlayerID)
	if err != nil {
		s.writeServiceError(w, err, "Unable to start round")
		return
	}

	s.Hub.Broadcast(g.ID, req.PlayerID, protocol.GameStarted{
		GameType:         g.GameMode,
		InitialTeamDraft: g.TeamDraft,
	})
	writeJSON(w, http.StatusOK, gameResponse{Game: g})
}

func (s *Server) EndRoundHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PlayerID string `json:"player_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	g, err := s.Games.EndRound(r.Context(), r.PathValue("id"), req.PlayerID)
	if err != nil {
		s.writeServiceError(w, err, "Unable to end round")
		return
	}

	s.Hub.Broadcast(g.ID, req.PlayerID, protocol.BackToLobby{})
	writeJSON(w, http.StatusOK, gameResponse{Game: g})
}

func (s *Server) StartCrossCluesHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PlayerID string `json:"player_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	g, err := s.Games.StartCrossClues(r.Context(), r.PathValue("id"), req.PlayerID)
	if err != nil {
		s.writeServiceError(w, err, "Unable to start game")
		return
	}

	s.Hub.Broadcast(g.ID, req.PlayerID, protocol.GameStarted{GameType: g.GameMode})
	writeJSON(w, http.StatusOK, gameResponse{Game: g})
}

func (s *Server) EndCrossCluesHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PlayerID string `json:"player_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	g, err := s.Games.EndCrossClues(r.Context(), r.PathValue("id"), req.PlayerID)
	if err != nil {
		s.writeServiceError(w, err, "Unable to end game")
		return
	}

	s.Hub.Broadcast(g.ID, req.PlayerID, protocol.BackToLobby{})
	writeJSON(w, http.StatusOK, gameResponse{Game: g})
}

func (s *Server) SubmitClueHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PlayerID string `json:"player_id"`
		Clue     string `json:"clue"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	g, err := s.Games.SubmitClue(r.Context(), r.PathValue("id"), req.PlayerID, req.Clue)
	if err != nil {
		s.writeServiceError(w, err, "Unable to submit clue")
		return
	}
	writeJSON(w, http.StatusOK, gameResponse{Game: g})
}

func (s *Server) CastVoteHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PlayerID   string `json:"player_id"`
		VoteID     string `json:"vote_id"`
		Coordinate string `json:"coordinate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	g, err := s.Games.CastVote(r.Context(), r.PathValue("id"), req.PlayerID, req.VoteID, req.Coordinate)
	if err != nil {
		s.writeServiceError(w, err, "Unable to cast vote")
		return
	}

	// A resolved board sends everyone back to the lobby.
	if g.State == models.StateLobby {
		s.Hub.Broadcast(g.ID, req.PlayerID, protocol.BackToLobby{})
	}
	writeJSON(w, http.StatusOK, gameResponse{Game: g})
}

func (s *Server) ForceResolveVoteHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PlayerID string `json:"player_id"`
		VoteID   string `json:"vote_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	g, err := s.Games.ForceResolveVote(r.Context(), r.PathValue("id"), req.PlayerID, req.VoteID)
	if err != nil {
		s.writeServiceError(w, err, "Unable to resolve vote")
		return
	}

	if g.State == models.StateLobby {
		s.Hub.Broadcast(g.ID, req.PlayerID, protocol.BackToLobby{})
	}
	writeJSON(w, http.StatusOK, gameResponse{Game: g})
}
