// internal/models/crossclues.go
package models

// CellStatus marks a resolved grid coordinate. A coordinate absent from the
// grid map is still available.
type CellStatus string

const (
	CellFilled    CellStatus = "filled"
	CellDiscarded CellStatus = "discarded"
)

// VoteStatus is the lifecycle of a CrossCluesVote.
type VoteStatus string

const (
	VoteActive   VoteStatus = "active"
	VoteResolved VoteStatus = "resolved"
)

// VoteResult is set when a vote resolves.
type VoteResult string

const (
	VoteSuccess VoteResult = "success"
	VoteFailure VoteResult = "failure"
)

// CrossCluesCard is one of the 25 coordinate cards. AssignedTo is empty while
// the card sits in the undealt pool.
type CrossCluesCard struct {
	ID         string `json:"id"`
	Coordinate string `json:"coordinate"`
	AssignedTo string `json:"assigned_to,omitempty"`
}

// CrossCluesVote is a clue under vote. Votes maps voter id to the guessed
// coordinate; the cluer never votes on their own clue.
type CrossCluesVote struct {
	ID         string            `json:"id"`
	CardID     string            `json:"card_id"`
	Coordinate string            `json:"coordinate"`
	Clue       string            `json:"clue"`
	CluerID    string            `json:"cluer_id"`
	Votes      map[string]string `json:"votes"`
	Status     VoteStatus        `json:"status"`
	Result     VoteResult        `json:"result,omitempty"`
	CreatedAt  int64             `json:"created_at"`
}

// CrossCluesState holds the 5x5 co-op grid. At most one active vote exists per
// card, and a player holds at most one card at a time.
type CrossCluesState struct {
	Grid           map[string]CellStatus `json:"grid"`
	RowWords       []string              `json:"row_words"`
	ColWords       []string              `json:"col_words"`
	Cards          []CrossCluesCard      `json:"cards"`
	ActiveVotes    []CrossCluesVote      `json:"active_votes"`
	CompletedVotes []CrossCluesVote      `json:"completed_votes"`
	Score          int                   `json:"score"`
}

// CardHeldBy returns the card currently assigned to the player, or nil.
func (cc *CrossCluesState) CardHeldBy(playerID string) *CrossCluesCard {
	for i := range cc.Cards {
		if cc.Cards[i].AssignedTo == playerID {
			return &cc.Cards[i]
		}
	}
	return nil
}

// CardByID returns the card with the given id, or nil.
func (cc *CrossCluesState) CardByID(cardID string) *CrossCluesCard {
	for i := range cc.Cards {
		if cc.Cards[i].ID == cardID {
			return &cc.Cards[i]
		}
	}
	return nil
}

// ActiveVoteByID returns the active vote with the given id, or nil.
func (cc *CrossCluesState) ActiveVoteByID(voteID string) *CrossCluesVote {
	for i := range cc.ActiveVotes {
		if cc.ActiveVotes[i].ID == voteID {
			return &cc.ActiveVotes[i]
		}
	}
	return nil
}

// ActiveVoteForCard reports whether the card already has a vote in flight.
func (cc *CrossCluesState) ActiveVoteForCard(cardID string) bool {
	for i := range cc.ActiveVotes {
		if cc.ActiveVotes[i].CardID == cardID {
			return true
		}
	}
	return false
}

// Complete reports whether all 25 coordinates have been resolved.
func (cc *CrossCluesState) Complete() bool {
	return len(cc.Grid) == 25
}
