// internal/protocol/messages.go
//
// The socket wire protocol. Every message is a closed sum: one struct per
// variant, discriminated on the wire by a "type" field. Decoding an unknown
// type is an error, so the handler switch stays exhaustive over this package.
package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/connortbot/yappers.live/internal/models"
)

// Message is a sealed union of every socket message variant.
type Message interface {
	Kind() string
}

// Wire discriminator values.
const (
	KindPlayerJoined       = "PlayerJoined"
	KindPlayerLeft         = "PlayerLeft"
	KindPlayerDisconnected = "PlayerDisconnected"
	KindChatMessage        = "ChatMessage"
	KindGameStarted        = "GameStarted"
	KindBackToLobby        = "BackToLobby"
	KindHaltTimer          = "HaltTimer"
	KindSetPool            = "SetPool"
	KindSetCompetition     = "SetCompetition"
	KindStartDraft         = "StartDraft"
	KindDraftPick          = "DraftPick"
	KindNextDrafter        = "NextDrafter"
	KindAwardingPhase      = "AwardingPhase"
	KindAwardPoint         = "AwardPoint"
	KindCompleteGame       = "CompleteGame"
	KindNextRound          = "NextRound"
)

type PlayerJoined struct {
	Username string `json:"username"`
	PlayerID string `json:"player_id"`
}

type PlayerLeft struct {
	Username string `json:"username"`
	PlayerID string `json:"player_id"`
}

type PlayerDisconnected struct {
	Username string `json:"username"`
	PlayerID string `json:"player_id"`
}

type ChatMessage struct {
	Username string `json:"username"`
	Message  string `json:"message"`
}

// GameStarted carries the mode and, for team draft, the server-seeded initial
// sub-state so every client starts its render from the same snapshot.
type GameStarted struct {
	GameType         models.GameMode        `json:"game_type"`
	InitialTeamDraft *models.TeamDraftState `json:"initial_team_draft_state,omitempty"`
}

type BackToLobby struct{}

// HaltTimer synchronizes a client-side countdown: clients pause until the
// given unix-millis deadline before acting on subsequent messages.
type HaltTimer struct {
	EndTimestampMillis int64  `json:"end_timestamp_ms"`
	Reason             string `json:"reason"`
}

// HaltTimer reasons emitted by the team-draft machine.
const (
	ReasonYapperStartingDraft  = "yapper_starting_draft"
	ReasonDraftPickShowcase    = "draft_pick_showcase"
	ReasonTransitionToAwarding = "transition_to_awarding"
	ReasonWaitingForNextRound  = "waiting_for_next_round"
)

type SetPool struct {
	Pool string `json:"pool"`
}

type SetCompetition struct {
	Competition string `json:"competition"`
}

type StartDraft struct {
	StartingDrafterID string `json:"starting_drafter_id"`
}

type DraftPick struct {
	DrafterID string `json:"drafter_id"`
	Pick      string `json:"pick"`
}

type NextDrafter struct {
	DrafterID string `json:"drafter_id"`
}

type AwardingPhase struct{}

type AwardPoint struct {
	PlayerID string `json:"player_id"`
}

type CompleteGame struct {
	PlayerPoints map[string]int `json:"player_points"`
}

type NextRound struct {
	YapperID    string `json:"yapper_id"`
	YapperIndex int    `json:"yapper_index"`
	Round       int    `json:"round"`
	TeamSize    int    `json:"team_size"`
}

func (PlayerJoined) Kind() string       { return KindPlayerJoined }
func (PlayerLeft) Kind() string         { return KindPlayerLeft }
func (PlayerDisconnected) Kind() string { return KindPlayerDisconnected }
func (ChatMessage) Kind() string        { return KindChatMessage }
func (GameStarted) Kind() string        { return KindGameStarted }
func (BackToLobby) Kind() string        { return KindBackToLobby }
func (HaltTimer) Kind() string          { return KindHaltTimer }
func (SetPool) Kind() string            { return KindSetPool }
func (SetCompetition) Kind() string     { return KindSetCompetition }
func (StartDraft) Kind() string         { return KindStartDraft }
func (DraftPick) Kind() string          { return KindDraftPick }
func (NextDrafter) Kind() string        { return KindNextDrafter }
func (AwardingPhase) Kind() string      { return KindAwardingPhase }
func (AwardPoint) Kind() string         { return KindAwardPoint }
func (CompleteGame) Kind() string       { return KindCompleteGame }
func (NextRound) Kind() string          { return KindNextRound }

// TeamDraftKind reports whether the variant belongs to the team-draft
// sub-union (routed through the authoritative state machine rather than
// rebroadcast directly).
func TeamDraftKind(m Message) bool {
	switch m.(type) {
	case SetPool, SetCompetition, StartDraft, DraftPick, NextDrafter,
		AwardingPhase, AwardPoint, CompleteGame, NextRound:
		return true
	}
	return false
}

// Marshal encodes a message with its "type" discriminator inlined.
func Marshal(m Message) ([]byte, error) {
	body, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]json.RawMessage{}
	}
	kind, err := json.Marshal(m.Kind())
	if err != nil {
		return nil, err
	}
	fields["type"] = kind
	return json.Marshal(fields)
}

// Unmarshal decodes a tagged message into its concrete variant.
func Unmarshal(data []byte) (Message, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("invalid message envelope: %w", err)
	}

	var (
		m   Message
		err error
	)
	switch head.Type {
	case KindPlayerJoined:
		m, err = decode[PlayerJoined](data)
	case KindPlayerLeft:
		m, err = decode[PlayerLeft](data)
	case KindPlayerDisconnected:
		m, err = decode[PlayerDisconnected](data)
	case KindChatMessage:
		m, err = decode[ChatMessage](data)
	case KindGameStarted:
		m, err = decode[GameStarted](data)
	case KindBackToLobby:
		m, err = decode[BackToLobby](data)
	case KindHaltTimer:
		m, err = decode[HaltTimer](data)
	case KindSetPool:
		m, err = decode[SetPool](data)
	case KindSetCompetition:
		m, err = decode[SetCompetition](data)
	case KindStartDraft:
		m, err = decode[StartDraft](data)
	case KindDraftPick:
		m, err = decode[DraftPick](data)
	case KindNextDrafter:
		m, err = decode[NextDrafter](data)
	case KindAwardingPhase:
		m, err = decode[AwardingPhase](data)
	case KindAwardPoint:
		m, err = decode[AwardPoint](data)
	case KindCompleteGame:
		m, err = decode[CompleteGame](data)
	case KindNextRound:
		m, err = decode[NextRound](data)
	default:
		return nil, fmt.Errorf("unknown message type %q", head.Type)
	}
	return m, err
}

func decode[T Message](data []byte) (Message, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", v.Kind(), err)
	}
	return v, nil
}
