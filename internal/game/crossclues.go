// internal/game/crossclues.go
package game

import (
	"context"
	"math/rand"

	"github.com/google/uuid"

	"github.com/connortbot/yappers.live/internal/models"
)

// MinCrossCluesPlayers is the floor for a cross-clues game: a clue needs at
// least one voter besides the cluer.
const MinCrossCluesPlayers = 2

var (
	gridRows = []string{"A", "B", "C", "D", "E"}
	gridCols = []string{"1", "2", "3", "4", "5"}
)

// StartCrossClues deals a fresh 5x5 board: ten distinct words, a shuffled deck
// of all 25 coordinate cards, and one card in each player's hand.
func (s *Service) StartCrossClues(ctx context.Context, gameID, playerID string) (*models.Game, error) {
	return s.mutate(ctx, gameID, func(g *models.Game) error {
		if g.HostID != playerID {
			return ErrNotAllowed
		}
		if g.GameMode != models.ModeCrossClues {
			return ErrNotAllowed
		}
		if len(g.Players) < MinCrossCluesPlayers {
			return ErrNotAllowed
		}
		if g.State == models.StatePlaying {
			return ErrNotAllowed
		}
		s.touch(g, playerID)

		words := pickBoardWords(10)
		cards := make([]models.CrossCluesCard, 0, 25)
		for _, r := range gridRows {
			for _, c := range gridCols {
				cards = append(cards, models.CrossCluesCard{
					ID:         uuid.NewString(),
					Coordinate: r + c,
				})
			}
		}
		rand.Shuffle(len(cards), func(i, j int) {
			cards[i], cards[j] = cards[j], cards[i]
		})

		cc := &models.CrossCluesState{
			Grid:           map[string]models.CellStatus{},
			RowWords:       words[:5],
			ColWords:       words[5:],
			Cards:          cards,
			ActiveVotes:    []models.CrossCluesVote{},
			CompletedVotes: []models.CrossCluesVote{},
		}
		for i := range g.Players {
			dealCard(cc, g.Players[i].ID)
		}

		g.CrossClues = cc
		g.State = models.StatePlaying
		return nil
	})
}

// EndCrossClues abandons the board and reverts to lobby.
func (s *Service) EndCrossClues(ctx context.Context, gameID, playerID string) (*models.Game, error) {
	return s.mutate(ctx, gameID, func(g *models.Game) error {
		if g.HostID != playerID {
			return ErrNotAllowed
		}
		if g.State != models.StatePlaying || g.CrossClues == nil {
			return ErrNotAllowed
		}
		s.touch(g, playerID)
		g.CrossClues = nil
		g.State = models.StateLobby
		return nil
	})
}

// SubmitClue opens a vote on the caller's held card. A player with no card or
// with a vote already in flight on their card is rejected.
func (s *Service) SubmitClue(ctx context.Context, gameID, playerID, clue string) (*models.Game, error) {
	clue, err := ValidateClue(clue)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, gameID, func(g *models.Game) error {
		cc, err := activeBoard(g, playerID)
		if err != nil {
			return err
		}
		s.touch(g, playerID)

		card := cc.CardHeldBy(playerID)
		if card == nil {
			return ErrNotAllowed
		}
		if cc.ActiveVoteForCard(card.ID) {
			return ErrNotAllowed
		}

		cc.ActiveVotes = append(cc.ActiveVotes, models.CrossCluesVote{
			ID:         uuid.NewString(),
			CardID:     card.ID,
			Coordinate: card.Coordinate,
			Clue:       clue,
			CluerID:    playerID,
			Votes:      map[string]string{},
			Status:     models.VoteActive,
			CreatedAt:  s.now(),
		})
		return nil
	})
}

// CastVote records a guessed coordinate on an active vote. The cluer cannot
// vote on their own clue. Once every online non-cluer has voted the vote
// resolves immediately.
func (s *Service) CastVote(ctx context.Context, gameID, playerID, voteID, coordinate string) (*models.Game, error) {
	voteID, err := ValidateVoteID(voteID)
	if err != nil {
		return nil, err
	}
	coordinate, err = ValidateCoordinate(coordinate)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, gameID, func(g *models.Game) error {
		cc, err := activeBoard(g, playerID)
		if err != nil {
			return err
		}
		s.touch(g, playerID)

		vote := cc.ActiveVoteByID(voteID)
		if vote == nil {
			return ErrNotFound
		}
		if vote.CluerID == playerID {
			return ErrNotAllowed
		}
		vote.Votes[playerID] = coordinate

		if allOnlineVotersVoted(g, vote, s.now()) {
			resolveVote(g, cc, vote)
		}
		return nil
	})
}

// ForceResolveVote settles a stuck vote early. At least one guess must be in.
func (s *Service) ForceResolveVote(ctx context.Context, gameID, playerID, voteID string) (*models.Game, error) {
	voteID, err := ValidateVoteID(voteID)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, gameID, func(g *models.Game) error {
		cc, err := activeBoard(g, playerID)
		if err != nil {
			return err
		}
		s.touch(g, playerID)

		vote := cc.ActiveVoteByID(voteID)
		if vote == nil {
			return ErrNotFound
		}
		if len(vote.Votes) == 0 {
			return ErrNotAllowed
		}
		resolveVote(g, cc, vote)
		return nil
	})
}

// activeBoard fetches the board for a cross-clues game in play, checking that
// the caller is a member.
func activeBoard(g *models.Game, playerID string) (*models.CrossCluesState, error) {
	if !g.HasPlayer(playerID) {
		return nil, ErrNotFound
	}
	if g.GameMode != models.ModeCrossClues || g.State != models.StatePlaying || g.CrossClues == nil {
		return nil, ErrNotAllowed
	}
	return g.CrossClues, nil
}

// allOnlineVotersVoted reports whether every currently-online player other
// than the cluer has a guess recorded.
func allOnlineVotersVoted(g *models.Game, vote *models.CrossCluesVote, nowMillis int64) bool {
	for i := range g.Players {
		p := &g.Players[i]
		if p.ID == vote.CluerID || !p.OnlineAt(nowMillis) {
			continue
		}
		if _, ok := vote.Votes[p.ID]; !ok {
			return false
		}
	}
	return true
}

// resolveVote settles a vote: unanimous correct guesses fill the cell and
// score a point, anything else discards it. The card leaves the cluer's hand
// and a fresh one is dealt. A fully resolved grid ends the game.
func resolveVote(g *models.Game, cc *models.CrossCluesState, vote *models.CrossCluesVote) {
	success := len(vote.Votes) > 0
	for _, guess := range vote.Votes {
		if guess != vote.Coordinate {
			success = false
			break
		}
	}

	if success {
		cc.Grid[vote.Coordinate] = models.CellFilled
		cc.Score++
		vote.Result = models.VoteSuccess
	} else {
		cc.Grid[vote.Coordinate] = models.CellDiscarded
		vote.Result = models.VoteFailure
	}
	vote.Status = models.VoteResolved

	done := *vote
	for i := range cc.ActiveVotes {
		if cc.ActiveVotes[i].ID == done.ID {
			cc.ActiveVotes = append(cc.ActiveVotes[:i], cc.ActiveVotes[i+1:]...)
			break
		}
	}
	cc.CompletedVotes = append(cc.CompletedVotes, done)

	// The resolved card is spent; remove it and re-deal the cluer.
	for i := range cc.Cards {
		if cc.Cards[i].ID == done.CardID {
			cc.Cards = append(cc.Cards[:i], cc.Cards[i+1:]...)
			break
		}
	}
	dealCard(cc, done.CluerID)

	if cc.Complete() {
		g.State = models.StateLobby
	}
}

// dealCard assigns a random unassigned card to the player, if any remain.
func dealCard(cc *models.CrossCluesState, playerID string) {
	free := make([]int, 0, len(cc.Cards))
	for i := range cc.Cards {
		if cc.Cards[i].AssignedTo == "" {
			free = append(free, i)
		}
	}
	if len(free) == 0 {
		return
	}
	cc.Cards[free[rand.Intn(len(free))]].AssignedTo = playerID
}
