// internal/teamdraft/state.go

// Package teamdraft is the authoritative state machine for the team-draft
// game mode. Clients send intents over the socket; the server validates the
// sender against the current state, applies the transition, and returns the
// ordered list of messages to broadcast. Applying the same event sequence to
// the same starting state always yields the same result, so the room document
// in the store is the single source of truth.
package teamdraft

import (
	"time"

	"github.com/connortbot/yappers.live/internal/models"
	"github.com/connortbot/yappers.live/internal/protocol"
)

// Pacing delays for the HaltTimer messages that gate client-side transitions.
const (
	startDraftDelay    = 3 * time.Second
	pickShowcaseDelay  = 3 * time.Second
	toAwardingDelay    = 8 * time.Second
	nextRoundWaitDelay = 8 * time.Second
)

// Engine folds team-draft events into state. now supplies the unix-millis
// clock for HaltTimer deadlines and is swappable in tests.
type Engine struct {
	now func() int64
}

func NewEngine() *Engine {
	return &Engine{now: func() int64 { return time.Now().UnixMilli() }}
}

// Authorized reports whether senderID may emit the given event in the current
// state. Yapper-only: SetPool, SetCompetition, StartDraft, AwardPoint.
// Current-drafter-only: DraftPick, and only into their own pick list.
// Everything else is minted by the server and never accepted from a client.
func Authorized(td *models.TeamDraftState, senderID string, msg protocol.Message) bool {
	switch m := msg.(type) {
	case protocol.SetPool, protocol.SetCompetition, protocol.StartDraft, protocol.AwardPoint:
		return senderID == td.YapperID
	case protocol.DraftPick:
		return senderID == td.RoundData.CurrentDrafterID && m.DrafterID == senderID
	default:
		return false
	}
}

// Apply mutates td with the event and returns the broadcast sequence,
// beginning with the triggering event itself. The caller has already passed
// Authorized; Apply only enforces phase preconditions.
func (e *Engine) Apply(td *models.TeamDraftState, players []models.Player, msg protocol.Message) ([]protocol.Message, error) {
	switch m := msg.(type) {
	case protocol.SetPool:
		if td.Phase != models.PhaseYapperChoosing {
			return nil, ErrWrongPhase
		}
		td.RoundData.Pool = m.Pool
		return []protocol.Message{m}, nil

	case protocol.SetCompetition:
		if td.Phase != models.PhaseYapperChoosing {
			return nil, ErrWrongPhase
		}
		td.RoundData.Competition = m.Competition
		return []protocol.Message{m}, nil

	case protocol.StartDraft:
		return e.startDraft(td, players, m)

	case protocol.DraftPick:
		return e.draftPick(td, players, m)

	case protocol.AwardPoint:
		return e.awardPoint(td, players, m)

	default:
		return nil, ErrServerOnly
	}
}

func (e *Engine) startDraft(td *models.TeamDraftState, players []models.Player, m protocol.StartDraft) ([]protocol.Message, error) {
	if td.Phase != models.PhaseYapperChoosing {
		return nil, ErrWrongPhase
	}
	if m.StartingDrafterID == td.YapperID || indexOf(players, m.StartingDrafterID) < 0 {
		return nil, ErrUnknownPlayer
	}

	td.Phase = models.PhaseDrafting
	td.RoundData.StartingDrafterID = m.StartingDrafterID
	td.RoundData.CurrentDrafterID = m.StartingDrafterID
	td.RoundData.PlayerToPicks = make(map[string][]string)

	return []protocol.Message{
		protocol.HaltTimer{
			EndTimestampMillis: e.now() + startDraftDelay.Milliseconds(),
			Reason:             protocol.ReasonYapperStartingDraft,
		},
		m,
	}, nil
}

func (e *Engine) draftPick(td *models.TeamDraftState, players []models.Player, m protocol.DraftPick) ([]protocol.Message, error) {
	if td.Phase != models.PhaseDrafting {
		return nil, ErrWrongPhase
	}

	rd := &td.RoundData
	rd.PlayerToPicks[m.DrafterID] = append(rd.PlayerToPicks[m.DrafterID], m.Pick)

	out := []protocol.Message{m}

	if draftComplete(td, players) {
		td.Phase = models.PhaseAwarding
		out = append(out,
			protocol.HaltTimer{
				EndTimestampMillis: e.now() + pickShowcaseDelay.Milliseconds(),
				Reason:             protocol.ReasonDraftPickShowcase,
			},
			protocol.HaltTimer{
				EndTimestampMillis: e.now() + toAwardingDelay.Milliseconds(),
				Reason:             protocol.ReasonTransitionToAwarding,
			},
			protocol.AwardingPhase{},
		)
		return out, nil
	}

	next := nextDrafter(td, players)
	rd.CurrentDrafterID = next
	out = append(out,
		protocol.HaltTimer{
			EndTimestampMillis: e.now() + pickShowcaseDelay.Milliseconds(),
			Reason:             protocol.ReasonDraftPickShowcase,
		},
		protocol.NextDrafter{DrafterID: next},
	)
	return out, nil
}

func (e *Engine) awardPoint(td *models.TeamDraftState, players []models.Player, m protocol.AwardPoint) ([]protocol.Message, error) {
	if td.Phase != models.PhaseAwarding {
		return nil, ErrWrongPhase
	}
	if indexOf(players, m.PlayerID) < 0 {
		return nil, ErrUnknownPlayer
	}

	td.PlayerPoints[m.PlayerID]++
	out := []protocol.Message{m}

	if td.RoundData.Round >= td.MaxRounds {
		tally := make(map[string]int, len(td.PlayerPoints))
		for id, pts := range td.PlayerPoints {
			tally[id] = pts
		}
		td.Phase = models.PhaseComplete
		out = append(out, protocol.CompleteGame{PlayerPoints: tally})
		return out, nil
	}

	nextIndex := (td.YapperIndex + 1) % len(players)
	td.YapperIndex = nextIndex
	td.YapperID = players[nextIndex].ID
	td.Phase = models.PhaseYapperChoosing
	td.RoundData = models.TeamDraftRound{
		Round:         td.RoundData.Round + 1,
		TeamSize:      models.DefaultTeamSize,
		PlayerToPicks: make(map[string][]string),
	}

	out = append(out,
		protocol.HaltTimer{
			EndTimestampMillis: e.now() + nextRoundWaitDelay.Milliseconds(),
			Reason:             protocol.ReasonWaitingForNextRound,
		},
		protocol.NextRound{
			YapperID:    td.YapperID,
			YapperIndex: td.YapperIndex,
			Round:       td.RoundData.Round,
			TeamSize:    td.RoundData.TeamSize,
		},
	)
	return out, nil
}

// draftComplete reports whether every non-yapper holds a full team.
func draftComplete(td *models.TeamDraftState, players []models.Player) bool {
	for i := range players {
		if players[i].ID == td.YapperID {
			continue
		}
		if len(td.RoundData.PlayerToPicks[players[i].ID]) < td.RoundData.TeamSize {
			return false
		}
	}
	return true
}

// nextDrafter walks the room order from the current drafter, skipping the
// yapper, wrapping at the end.
func nextDrafter(td *models.TeamDraftState, players []models.Player) string {
	cur := indexOf(players, td.RoundData.CurrentDrafterID)
	if cur < 0 {
		cur = 0
	}
	next := (cur + 1) % len(players)
	for players[next].ID == td.YapperID {
		next = (next + 1) % len(players)
	}
	return players[next].ID
}

func indexOf(players []models.Player, id string) int {
	for i := range players {
		if players[i].ID == id {
			return i
		}
	}
	return -1
}
