// internal/models/game.go
package models

// GameMode selects which sub-machine a room runs.
type GameMode string

const (
	ModeYappers    GameMode = "yappers"
	ModeCrossClues GameMode = "cross-clues"
	ModeTeamDraft  GameMode = "team-draft"
)

// GameState is the top-level room state.
type GameState string

const (
	StateLobby   GameState = "lobby"
	StatePlaying GameState = "playing"
)

// MaxPlayers caps room membership.
const MaxPlayers = 8

// OnlineWindowMillis is the presence horizon: a player whose LastSeenAt is
// within this window counts as online for vote eligibility.
const OnlineWindowMillis = 30_000

// Player is one room member. Usernames are unique case-insensitively within a
// room; LastSeenAt is refreshed on every request attributable to the player.
type Player struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	LastSeenAt int64  `json:"last_seen_at,omitempty"`
}

// OnlineAt reports whether the player counts as online at the given unix-millis
// instant.
func (p *Player) OnlineAt(nowMillis int64) bool {
	return nowMillis-p.LastSeenAt < OnlineWindowMillis
}

// ChatMessage is one entry in the room chat log.
type ChatMessage struct {
	Username  string `json:"username"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

// Round is a yappers-mode round: one spy who does not know the thing.
type Round struct {
	SpyID string `json:"spy_id"`
	Thing string `json:"thing"`
}

// Game is the full room document, persisted as one JSON blob per room.
type Game struct {
	ID       string    `json:"id"`
	Code     string    `json:"code"`
	HostID   string    `json:"host_id"`
	Players  []Player  `json:"players"`
	State    GameState `json:"state"`
	GameMode GameMode  `json:"game_mode"`

	// yappers-specific
	Round        *Round   `json:"round,omitempty"`
	RoundHistory []Round  `json:"round_history,omitempty"`
	ThingPool    []string `json:"thing_pool,omitempty"`

	// cross-clues-specific
	CrossClues *CrossCluesState `json:"cross_clues,omitempty"`

	// team-draft-specific
	TeamDraft *TeamDraftState `json:"team_draft,omitempty"`

	Chat           []ChatMessage `json:"chat"`
	CreatedAt      int64         `json:"created_at"`
	LastActivityAt int64         `json:"last_activity_at"`
}

// PlayerByID returns the member with the given id, or nil.
func (g *Game) PlayerByID(playerID string) *Player {
	for i := range g.Players {
		if g.Players[i].ID == playerID {
			return &g.Players[i]
		}
	}
	return nil
}

// HasPlayer reports room membership.
func (g *Game) HasPlayer(playerID string) bool {
	return g.PlayerByID(playerID) != nil
}
