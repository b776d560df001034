// internal/game/teamdraft.go
package game

import (
	"context"

	"github.com/connortbot/yappers.live/internal/models"
	"github.com/connortbot/yappers.live/internal/protocol"
	"github.com/connortbot/yappers.live/internal/teamdraft"
)

// StartTeamDraft begins the drafting mini-game. MaxRounds is pinned to the
// player count at start so everyone gets one turn as yapper.
func (s *Service) StartTeamDraft(ctx context.Context, gameID, playerID string) (*models.Game, error) {
	return s.mutate(ctx, gameID, func(g *models.Game) error {
		if g.HostID != playerID {
			return ErrNotAllowed
		}
		if g.GameMode != models.ModeTeamDraft || g.TeamDraft == nil {
			return ErrNotAllowed
		}
		if g.State == models.StatePlaying {
			return ErrNotAllowed
		}
		if len(g.Players) < MinRoundPlayers {
			return ErrNotAllowed
		}
		s.touch(g, playerID)

		g.TeamDraft.MaxRounds = len(g.Players)
		g.State = models.StatePlaying
		return nil
	})
}

// ApplyTeamDraft runs one client event through the drafting machine under the
// room lock and returns the messages to broadcast in order. A completed game
// resets the drafting state and puts the room back in the lobby; the
// CompleteGame message already carries the final tally.
func (s *Service) ApplyTeamDraft(ctx context.Context, gameID, senderID string, msg protocol.Message) (*models.Game, []protocol.Message, error) {
	var followups []protocol.Message
	g, err := s.mutate(ctx, gameID, func(g *models.Game) error {
		if !g.HasPlayer(senderID) {
			return ErrNotFound
		}
		if g.GameMode != models.ModeTeamDraft || g.State != models.StatePlaying || g.TeamDraft == nil {
			return ErrNotAllowed
		}
		if !teamdraft.Authorized(g.TeamDraft, senderID, msg) {
			return ErrNotAllowed
		}
		s.touch(g, senderID)

		out, err := s.draft.Apply(g.TeamDraft, g.Players, msg)
		if err != nil {
			return ErrNotAllowed
		}
		followups = out

		if g.TeamDraft.Phase == models.PhaseComplete {
			g.TeamDraft = models.NewTeamDraftState(g.Players[0].ID)
			g.State = models.StateLobby
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return g, followups, nil
}
