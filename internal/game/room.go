// internal/game/room.go
package game

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/connortbot/yappers.live/internal/models"
	"github.com/connortbot/yappers.live/internal/teamdraft"
)

// MinRoundPlayers is the floor for a yappers round: with fewer than three
// players the spy is trivially identified.
const MinRoundPlayers = 3

// Service is the authoritative room state machine. Every mutating operation
// locks the room id, loads the document, checks preconditions, transforms, and
// saves — so concurrent actions against the same room serialize rather than
// silently overwriting each other.
type Service struct {
	store Store
	locks *roomLocks
	draft *teamdraft.Engine
	log   *logrus.Logger
	now   func() int64
}

func NewService(store Store, logger *logrus.Logger) *Service {
	return &Service{
		store: store,
		locks: newRoomLocks(),
		draft: teamdraft.NewEngine(),
		log:   logger,
		now:   func() int64 { return time.Now().UnixMilli() },
	}
}

// mutate runs fn on the room document under the room lock and saves the
// result. fn returning an error aborts without a save.
func (s *Service) mutate(ctx context.Context, gameID string, fn func(g *models.Game) error) (*models.Game, error) {
	s.locks.Lock(gameID)
	defer s.locks.Unlock(gameID)

	g, err := s.store.Get(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if err := fn(g); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// touch refreshes the acting player's presence stamp.
func (s *Service) touch(g *models.Game, playerID string) {
	if p := g.PlayerByID(playerID); p != nil {
		p.LastSeenAt = s.now()
	}
}

// CreateGame creates a room with the caller as sole player and host. The join
// code retries until it is free in the store.
func (s *Service) CreateGame(ctx context.Context, username string, mode models.GameMode) (*models.Game, string, error) {
	username, err := ValidateUsername(username)
	if err != nil {
		return nil, "", err
	}
	switch mode {
	case models.ModeYappers, models.ModeCrossClues, models.ModeTeamDraft:
	default:
		return nil, "", &ValidationError{Reason: "Unknown game mode"}
	}

	var code string
	for {
		code = GenerateCode()
		exists, err := s.store.CodeExists(ctx, code)
		if err != nil {
			return nil, "", err
		}
		if !exists {
			break
		}
	}

	playerID := uuid.NewString()
	now := s.now()
	g := &models.Game{
		ID:     uuid.NewString(),
		Code:   code,
		HostID: playerID,
		Players: []models.Player{
			{ID: playerID, Username: username, LastSeenAt: now},
		},
		State:     models.StateLobby,
		GameMode:  mode,
		Chat:      []models.ChatMessage{},
		CreatedAt: now,
	}
	if mode == models.ModeTeamDraft {
		g.TeamDraft = models.NewTeamDraftState(playerID)
	}

	if err := s.store.Save(ctx, g); err != nil {
		return nil, "", err
	}

	s.log.WithFields(logrus.Fields{
		"game_id": g.ID,
		"code":    g.Code,
		"mode":    mode,
	}).Info("game created")
	return g, playerID, nil
}

// JoinGame adds a player to the room addressed by code. Fails with ErrNotFound
// for an unknown code and ErrNotAllowed for a case-insensitive username
// collision or a full room.
func (s *Service) JoinGame(ctx context.Context, code, username string) (*models.Game, string, error) {
	code, err := ValidateGameCode(code)
	if err != nil {
		return nil, "", err
	}
	username, err = ValidateUsername(username)
	if err != nil {
		return nil, "", err
	}

	// Resolve the code outside the lock, then re-read by id under it so a
	// concurrent join or leave cannot be lost.
	existing, err := s.store.GetByCode(ctx, code)
	if err != nil {
		return nil, "", err
	}

	playerID := uuid.NewString()
	g, err := s.mutate(ctx, existing.ID, func(g *models.Game) error {
		if len(g.Players) >= models.MaxPlayers {
			return ErrNotAllowed
		}
		for i := range g.Players {
			if strings.EqualFold(g.Players[i].Username, username) {
				return ErrNotAllowed
			}
		}
		g.Players = append(g.Players, models.Player{
			ID: playerID, Username: username, LastSeenAt: s.now(),
		})
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	return g, playerID, nil
}

// RejoinGame is an idempotent presence refresh for a reconnecting member.
func (s *Service) RejoinGame(ctx context.Context, gameID, playerID string) (*models.Game, error) {
	if _, err := ValidatePlayerID(playerID); err != nil {
		return nil, err
	}
	return s.mutate(ctx, gameID, func(g *models.Game) error {
		if !g.HasPlayer(playerID) {
			return ErrNotFound
		}
		s.touch(g, playerID)
		return nil
	})
}

// GetGame returns the current document. A non-empty playerID refreshes that
// player's presence stamp (the polling transport rides on this). Only a
// member's poll writes back, so a stranger's fetch cannot keep the room's
// TTL alive.
func (s *Service) GetGame(ctx context.Context, gameID, playerID string) (*models.Game, error) {
	if playerID == "" {
		return s.store.Get(ctx, gameID)
	}

	s.locks.Lock(gameID)
	defer s.locks.Unlock(gameID)

	g, err := s.store.Get(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if p := g.PlayerByID(playerID); p != nil {
		p.LastSeenAt = s.now()
		if err := s.store.Save(ctx, g); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// LeaveGame removes a player. Emptying the room deletes both store entries and
// returns deleted=true with a nil game. The host role passes to the first
// remaining player; an active yappers round whose spy left is archived.
func (s *Service) LeaveGame(ctx context.Context, gameID, playerID string) (*models.Game, bool, error) {
	if _, err := ValidatePlayerID(playerID); err != nil {
		return nil, false, err
	}

	s.locks.Lock(gameID)
	defer s.locks.Unlock(gameID)

	g, err := s.store.Get(ctx, gameID)
	if err != nil {
		return nil, false, err
	}

	removed := false
	var removedName string
	remaining := g.Players[:0]
	for _, p := range g.Players {
		if p.ID == playerID {
			removed = true
			removedName = p.Username
			continue
		}
		remaining = append(remaining, p)
	}
	if !removed {
		return nil, false, ErrNotFound
	}
	g.Players = remaining

	if len(g.Players) == 0 {
		if err := s.store.Delete(ctx, g); err != nil {
			return nil, false, err
		}
		s.log.WithField("game_id", g.ID).Info("game deleted, last player left")
		return nil, true, nil
	}

	if g.HostID == playerID {
		g.HostID = g.Players[0].ID
	}

	if g.State == models.StatePlaying && g.Round != nil && g.Round.SpyID == playerID {
		g.RoundHistory = append(g.RoundHistory, *g.Round)
		g.Round = nil
		g.State = models.StateLobby
	}

	g.Chat = append(g.Chat, models.ChatMessage{
		Username:  "System",
		Message:   removedName + " left the game",
		Timestamp: s.now(),
	})
	if len(g.Chat) > 100 {
		g.Chat = g.Chat[len(g.Chat)-100:]
	}

	if err := s.store.Save(ctx, g); err != nil {
		return nil, false, err
	}
	return g, false, nil
}

// SendChatMessage appends a chat entry tagged with the sender's current
// username and truncates the log to the most recent 100 entries.
func (s *Service) SendChatMessage(ctx context.Context, gameID, playerID, message string) (*models.Game, error) {
	message, err := ValidateMessage(message)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, gameID, func(g *models.Game) error {
		p := g.PlayerByID(playerID)
		if p == nil {
			return ErrNotFound
		}
		s.touch(g, playerID)
		g.Chat = append(g.Chat, models.ChatMessage{
			Username:  p.Username,
			Message:   message,
			Timestamp: s.now(),
		})
		if len(g.Chat) > 100 {
			g.Chat = g.Chat[len(g.Chat)-100:]
		}
		return nil
	})
}

// StartRound begins a yappers round: a uniformly random spy, and a thing drawn
// from the other players' usernames so the spy can never be the thing.
func (s *Service) StartRound(ctx context.Context, gameID, playerID string) (*models.Game, error) {
	return s.mutate(ctx, gameID, func(g *models.Game) error {
		if g.HostID != playerID {
			return ErrNotAllowed
		}
		if len(g.Players) < MinRoundPlayers {
			return ErrNotAllowed
		}
		if g.State == models.StatePlaying {
			return ErrNotAllowed
		}
		s.touch(g, playerID)

		spy := g.Players[rand.Intn(len(g.Players))]

		pool := make([]string, 0, len(g.Players))
		for i := range g.Players {
			pool = append(pool, g.Players[i].Username)
		}
		others := make([]string, 0, len(pool)-1)
		for _, t := range pool {
			if t != spy.Username {
				others = append(others, t)
			}
		}

		g.Round = &models.Round{
			SpyID: spy.ID,
			Thing: others[rand.Intn(len(others))],
		}
		g.ThingPool = pool
		g.State = models.StatePlaying
		return nil
	})
}

// EndRound archives the active yappers round and reverts to lobby.
func (s *Service) EndRound(ctx context.Context, gameID, playerID string) (*models.Game, error) {
	return s.mutate(ctx, gameID, func(g *models.Game) error {
		if g.HostID != playerID {
			return ErrNotAllowed
		}
		if g.State != models.StatePlaying || g.Round == nil {
			return ErrNotAllowed
		}
		s.touch(g, playerID)
		g.RoundHistory = append(g.RoundHistory, *g.Round)
		g.Round = nil
		g.State = models.StateLobby
		return nil
	})
}
