// internal/handlers/api_server.go
package handlers

import (
	"net/http"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/connortbot/yappers.live/internal/auth"
	"github.com/connortbot/yappers.live/internal/game"
	"github.com/connortbot/yappers.live/internal/middleware"
)

// Server wires the room service, session signer, and socket hub behind the
// HTTP surface.
type Server struct {
	Games    *game.Service
	Sessions *auth.Sessions
	Hub      *Hub
	Logger   *logrus.Logger
}

func NewServer(games *game.Service, sessions *auth.Sessions, hub *Hub, logger *logrus.Logger) *Server {
	return &Server{
		Games:    games,
		Sessions: sessions,
		Hub:      hub,
		Logger:   logger,
	}
}

// Routes builds the full route table with logging and CORS applied.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.HealthHandler)

	mux.HandleFunc("POST /games", s.CreateGameHandler)
	mux.HandleFunc("POST /games/join", s.JoinGameHandler)
	mux.HandleFunc("GET /games/{id}", s.GetGameHandler)
	mux.HandleFunc("POST /games/{id}/rejoin", s.RejoinGameHandler)
	mux.HandleFunc("POST /games/{id}/leave", s.LeaveGameHandler)
	mux.HandleFunc("POST /games/{id}/chat", s.ChatHandler)
	mux.HandleFunc("POST /games/{id}/start-round", s.StartRoundHandler)
	mux.HandleFunc("POST /games/{id}/end-round", s.EndRoundHandler)

	mux.HandleFunc("POST /games/{id}/cross-clues/start", s.StartCrossCluesHandler)
	mux.HandleFunc("POST /games/{id}/cross-clues/end", s.EndCrossCluesHandler)
	mux.HandleFunc("POST /games/{id}/cross-clues/clue", s.SubmitClueHandler)
	mux.HandleFunc("POST /games/{id}/cross-clues/vote", s.CastVoteHandler)
	mux.HandleFunc("POST /games/{id}/cross-clues/force-resolve", s.ForceResolveVoteHandler)

	mux.HandleFunc("GET /ws/{gameID}/{playerID}", s.GameWSHandler)

	handler := middleware.LogMiddleware(s.Logger)(mux)
	handler = middleware.CORSMiddleware(os.Getenv("ALLOWED_ORIGIN"))(handler)
	return handler
}

// HealthHandler answers readiness probes.
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
