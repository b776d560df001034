// internal/models/teamdraft.go
package models

// TeamDraftPhase is the team-draft sub-machine phase.
type TeamDraftPhase string

const (
	PhaseYapperChoosing TeamDraftPhase = "yapper_choosing"
	PhaseDrafting       TeamDraftPhase = "drafting"
	PhaseAwarding       TeamDraftPhase = "awarding"
	PhaseComplete       TeamDraftPhase = "complete"
)

// Team-draft defaults. MaxRounds is overridden to the player count when the
// game starts.
const (
	DefaultTeamSize  = 2
	DefaultMaxRounds = 3
)

// TeamDraftRound is the per-round working data, cleared on NextRound.
type TeamDraftRound struct {
	Round       int    `json:"round"`
	Pool        string `json:"pool"`
	Competition string `json:"competition"`
	TeamSize    int    `json:"team_size"`

	StartingDrafterID string `json:"starting_drafter_id"`
	CurrentDrafterID  string `json:"current_drafter_id"`

	PlayerToPicks map[string][]string `json:"player_to_picks"`
}

// TeamDraftState is the full drafting mini-game state layered on a room.
type TeamDraftState struct {
	YapperID    string `json:"yapper_id"`
	YapperIndex int    `json:"yapper_index"`
	MaxRounds   int    `json:"max_rounds"`

	Phase     TeamDraftPhase `json:"phase"`
	RoundData TeamDraftRound `json:"round_data"`

	PlayerPoints map[string]int `json:"player_points"`
}

// NewTeamDraftState seeds a fresh state with the host as first yapper.
func NewTeamDraftState(yapperID string) *TeamDraftState {
	return &TeamDraftState{
		YapperID:    yapperID,
		YapperIndex: 0,
		MaxRounds:   DefaultMaxRounds,
		Phase:       PhaseYapperChoosing,
		RoundData: TeamDraftRound{
			Round:         1,
			TeamSize:      DefaultTeamSize,
			PlayerToPicks: make(map[string][]string),
		},
		PlayerPoints: make(map[string]int),
	}
}
