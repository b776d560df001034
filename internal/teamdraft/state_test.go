// internal/teamdraft/state_test.go
package teamdraft

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/connortbot/yappers.live/internal/models"
	"github.com/connortbot/yappers.live/internal/protocol"
)

func testEngine() *Engine {
	return &Engine{now: func() int64 { return 1_000_000 }}
}

func testPlayers(n int) []models.Player {
	players := make([]models.Player, n)
	names := []string{"alice", "bob", "carol", "dave", "erin"}
	for i := range players {
		players[i] = models.Player{ID: names[i], Username: names[i]}
	}
	return players
}

func testState(players []models.Player) *models.TeamDraftState {
	td := models.NewTeamDraftState(players[0].ID)
	td.MaxRounds = len(players)
	return td
}

// runDraft drives a full draft: start with bob, then everyone picks until the
// machine transitions to awarding.
func runDraft(t *testing.T, e *Engine, td *models.TeamDraftState, players []models.Player) {
	t.Helper()
	_, err := e.Apply(td, players, protocol.StartDraft{StartingDrafterID: players[1].ID})
	require.NoError(t, err)
	for td.Phase == models.PhaseDrafting {
		_, err := e.Apply(td, players, protocol.DraftPick{
			DrafterID: td.RoundData.CurrentDrafterID,
			Pick:      "pick",
		})
		require.NoError(t, err)
	}
	require.Equal(t, models.PhaseAwarding, td.Phase)
}

func kinds(msgs []protocol.Message) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.Kind()
	}
	return out
}

func TestAuthorized(t *testing.T) {
	players := testPlayers(3)
	td := testState(players)
	td.RoundData.CurrentDrafterID = "bob"

	yapperOnly := []protocol.Message{
		protocol.SetPool{Pool: "x"},
		protocol.SetCompetition{Competition: "x"},
		protocol.StartDraft{StartingDrafterID: "bob"},
		protocol.AwardPoint{PlayerID: "bob"},
	}
	for _, m := range yapperOnly {
		assert.True(t, Authorized(td, "alice", m), "%s from yapper", m.Kind())
		assert.False(t, Authorized(td, "bob", m), "%s from non-yapper", m.Kind())
	}

	assert.True(t, Authorized(td, "bob", protocol.DraftPick{DrafterID: "bob"}))
	assert.False(t, Authorized(td, "carol", protocol.DraftPick{DrafterID: "carol"}), "only the current drafter picks")
	assert.False(t, Authorized(td, "bob", protocol.DraftPick{DrafterID: "carol"}), "a drafter picks only into their own list")

	serverOnly := []protocol.Message{
		protocol.NextDrafter{},
		protocol.AwardingPhase{},
		protocol.NextRound{},
		protocol.CompleteGame{},
	}
	for _, m := range serverOnly {
		assert.False(t, Authorized(td, "alice", m), "%s is never accepted from a client", m.Kind())
	}
}

func TestSetPoolAndCompetition(t *testing.T) {
	e := testEngine()
	players := testPlayers(3)
	td := testState(players)

	out, err := e.Apply(td, players, protocol.SetPool{Pool: "NBA players"})
	require.NoError(t, err)
	assert.Equal(t, []string{protocol.KindSetPool}, kinds(out))
	assert.Equal(t, "NBA players", td.RoundData.Pool)

	out, err = e.Apply(td, players, protocol.SetCompetition{Competition: "3v3 pickup"})
	require.NoError(t, err)
	assert.Equal(t, []string{protocol.KindSetCompetition}, kinds(out))
	assert.Equal(t, "3v3 pickup", td.RoundData.Competition)
}

func TestStartDraft(t *testing.T) {
	e := testEngine()
	players := testPlayers(3)
	td := testState(players)

	out, err := e.Apply(td, players, protocol.StartDraft{StartingDrafterID: "bob"})
	require.NoError(t, err)

	assert.Equal(t, models.PhaseDrafting, td.Phase)
	assert.Equal(t, "bob", td.RoundData.StartingDrafterID)
	assert.Equal(t, "bob", td.RoundData.CurrentDrafterID)

	require.Equal(t, []string{protocol.KindHaltTimer, protocol.KindStartDraft}, kinds(out))
	ht := out[0].(protocol.HaltTimer)
	assert.Equal(t, protocol.ReasonYapperStartingDraft, ht.Reason)
	assert.Equal(t, int64(1_003_000), ht.EndTimestampMillis)
}

func TestStartDraftRejectsYapperAsDrafter(t *testing.T) {
	e := testEngine()
	players := testPlayers(3)
	td := testState(players)

	_, err := e.Apply(td, players, protocol.StartDraft{StartingDrafterID: "alice"})
	assert.ErrorIs(t, err, ErrUnknownPlayer)

	_, err = e.Apply(td, players, protocol.StartDraft{StartingDrafterID: "stranger"})
	assert.ErrorIs(t, err, ErrUnknownPlayer)
}

func TestDraftPickRotationSkipsYapper(t *testing.T) {
	e := testEngine()
	players := testPlayers(3) // alice yapper, bob + carol drafting
	td := testState(players)

	_, err := e.Apply(td, players, protocol.StartDraft{StartingDrafterID: "bob"})
	require.NoError(t, err)

	out, err := e.Apply(td, players, protocol.DraftPick{DrafterID: "bob", Pick: "LeBron"})
	require.NoError(t, err)

	require.Equal(t, []string{protocol.KindDraftPick, protocol.KindHaltTimer, protocol.KindNextDrafter}, kinds(out))
	assert.Equal(t, "carol", td.RoundData.CurrentDrafterID)
	assert.Equal(t, []string{"LeBron"}, td.RoundData.PlayerToPicks["bob"])

	// carol → back to bob, wrapping past the yapper at index 0
	_, err = e.Apply(td, players, protocol.DraftPick{DrafterID: "carol", Pick: "Curry"})
	require.NoError(t, err)
	assert.Equal(t, "bob", td.RoundData.CurrentDrafterID)
}

func TestDraftCompletionMovesToAwarding(t *testing.T) {
	e := testEngine()
	players := testPlayers(3)
	td := testState(players)

	_, err := e.Apply(td, players, protocol.StartDraft{StartingDrafterID: "bob"})
	require.NoError(t, err)

	// TeamSize=2 and two drafters: four picks in total, last one closes.
	var out []protocol.Message
	for i := 0; i < 4; i++ {
		out, err = e.Apply(td, players, protocol.DraftPick{
			DrafterID: td.RoundData.CurrentDrafterID,
			Pick:      "pick",
		})
		require.NoError(t, err)
	}

	assert.Equal(t, models.PhaseAwarding, td.Phase)
	require.Equal(t, []string{
		protocol.KindDraftPick,
		protocol.KindHaltTimer,
		protocol.KindHaltTimer,
		protocol.KindAwardingPhase,
	}, kinds(out))
	assert.Equal(t, protocol.ReasonDraftPickShowcase, out[1].(protocol.HaltTimer).Reason)
	assert.Equal(t, protocol.ReasonTransitionToAwarding, out[2].(protocol.HaltTimer).Reason)
	assert.Len(t, td.RoundData.PlayerToPicks["bob"], 2)
	assert.Len(t, td.RoundData.PlayerToPicks["carol"], 2)
}

func TestAwardPointAdvancesRound(t *testing.T) {
	e := testEngine()
	players := testPlayers(3)
	td := testState(players)
	runDraft(t, e, td, players)

	out, err := e.Apply(td, players, protocol.AwardPoint{PlayerID: "bob"})
	require.NoError(t, err)

	require.Equal(t, []string{protocol.KindAwardPoint, protocol.KindHaltTimer, protocol.KindNextRound}, kinds(out))
	assert.Equal(t, protocol.ReasonWaitingForNextRound, out[1].(protocol.HaltTimer).Reason)

	next := out[2].(protocol.NextRound)
	assert.Equal(t, "bob", next.YapperID, "yapper rotates by index")
	assert.Equal(t, 1, next.YapperIndex)
	assert.Equal(t, 2, next.Round)

	assert.Equal(t, models.PhaseYapperChoosing, td.Phase)
	assert.Equal(t, "bob", td.YapperID)
	assert.Equal(t, 2, td.RoundData.Round)
	assert.Empty(t, td.RoundData.Pool)
	assert.Empty(t, td.RoundData.PlayerToPicks)
	assert.Equal(t, 1, td.PlayerPoints["bob"], "points carry across rounds")
}

func TestAwardPointAtMaxRoundsCompletes(t *testing.T) {
	e := testEngine()
	players := testPlayers(3)
	td := testState(players)
	td.MaxRounds = 1

	runDraft(t, e, td, players)

	out, err := e.Apply(td, players, protocol.AwardPoint{PlayerID: "carol"})
	require.NoError(t, err)

	require.Equal(t, []string{protocol.KindAwardPoint, protocol.KindCompleteGame}, kinds(out))
	assert.Equal(t, models.PhaseComplete, td.Phase)

	tally := out[1].(protocol.CompleteGame).PlayerPoints
	assert.Equal(t, 1, tally["carol"])
}

func TestAwardPointWrongPhase(t *testing.T) {
	e := testEngine()
	players := testPlayers(3)
	td := testState(players)

	_, err := e.Apply(td, players, protocol.AwardPoint{PlayerID: "bob"})
	assert.ErrorIs(t, err, ErrWrongPhase)
}

func TestServerOnlyEventsRejected(t *testing.T) {
	e := testEngine()
	players := testPlayers(3)
	td := testState(players)

	for _, m := range []protocol.Message{
		protocol.NextDrafter{DrafterID: "bob"},
		protocol.AwardingPhase{},
		protocol.NextRound{},
		protocol.CompleteGame{},
	} {
		_, err := e.Apply(td, players, m)
		assert.ErrorIs(t, err, ErrServerOnly, m.Kind())
	}
}

func TestApplyIsDeterministic(t *testing.T) {
	players := testPlayers(4)

	events := []protocol.Message{
		protocol.SetPool{Pool: "NBA players"},
		protocol.SetCompetition{Competition: "3v3"},
		protocol.StartDraft{StartingDrafterID: "bob"},
		protocol.DraftPick{DrafterID: "bob", Pick: "LeBron"},
		protocol.DraftPick{DrafterID: "carol", Pick: "Curry"},
		protocol.DraftPick{DrafterID: "dave", Pick: "Durant"},
		protocol.DraftPick{DrafterID: "bob", Pick: "Giannis"},
		protocol.DraftPick{DrafterID: "carol", Pick: "Jokic"},
		protocol.DraftPick{DrafterID: "dave", Pick: "Luka"},
		protocol.AwardPoint{PlayerID: "carol"},
	}

	replay := func() *models.TeamDraftState {
		e := testEngine()
		td := testState(players)
		for _, ev := range events {
			_, err := e.Apply(td, players, ev)
			require.NoError(t, err)
		}
		return td
	}

	first := replay()
	second := replay()
	assert.True(t, reflect.DeepEqual(first, second), "same event sequence must produce identical state")
}
