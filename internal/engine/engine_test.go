package engine

import (
	"testing"

	"gridblitz.dev/platform/internal/core"
)

func genericRoster(teamID core.TeamID) []core.Player {
	positions := []core.Position{
		core.PositionQB, core.PositionRB, core.PositionRB, core.PositionWR, core.PositionWR,
		core.PositionWR, core.PositionTE, core.PositionOL, core.PositionOL, core.PositionOL,
		core.PositionDL, core.PositionDL, core.PositionLB, core.PositionLB, core.PositionCB,
		core.PositionS, core.PositionK, core.PositionP,
	}
	var players []core.Player
	for i, pos := range positions {
		players = append(players, core.Player{
			ID:        core.PlayerID(string(teamID) + "-p" + string(rune('a'+i))),
			TeamID:    teamID,
			Position:  pos,
			Rating:    75,
			Speed:     75,
			Strength:  75,
			Awareness: 75,
			ClutchRating: 75,
		})
	}
	return players
}

func testConfig() Config {
	return Config{
		HomeTeam:   core.Team{ID: "home", OffenseRating: 75, DefenseRating: 75, PlayStyle: core.PlayStyleBalanced},
		AwayTeam:   core.Team{ID: "away", OffenseRating: 75, DefenseRating: 75, PlayStyle: core.PlayStyleBalanced},
		HomeRoster: genericRoster("home"),
		AwayRoster: genericRoster("away"),
		ServerSeed: "a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6e7f8a9b0c1d2e3f4a5b6c7d8e9f0a1b2",
		ClientSeed: "test-client-seed-12345",
		StartNonce: 0,
	}
}

func TestSimulateDeterministic(t *testing.T) {
	cfg := testConfig()
	a := Simulate(cfg)
	b := Simulate(cfg)

	n := 10
	if len(a.Events) < n || len(b.Events) < n {
		t.Fatalf("expected at least %d events, got %d and %d", n, len(a.Events), len(b.Events))
	}
	for i := 0; i < n; i++ {
		if a.Events[i].PlayResult.Description != b.Events[i].PlayResult.Description {
			t.Fatalf("event %d description diverged between runs", i)
		}
	}
}

func TestSimulateTermination(t *testing.T) {
	cfg := testConfig()
	result := Simulate(cfg)

	if result.TotalPlays < 100 || result.TotalPlays > 250 {
		t.Fatalf("totalPlays out of [100,250]: %d", result.TotalPlays)
	}
	if result.FinalState.HomeScore < 0 || result.FinalState.AwayScore < 0 {
		t.Fatal("final scores must be non-negative")
	}
}

func TestSimulateClockNeverNegative(t *testing.T) {
	cfg := testConfig()
	result := Simulate(cfg)
	for _, e := range result.Events {
		if e.GameState.Clock < 0 {
			t.Fatalf("event %d has negative clock: %d", e.EventNumber, e.GameState.Clock)
		}
	}
}

func TestTwoMinuteWarningFiresOnce(t *testing.T) {
	state := core.GameState{Quarter: core.Quarter4, Clock: 125, BallPosition: 25, Down: 1, YardsToGo: 10}
	AdvanceClock(&state, 10, false)
	if state.Clock > 120 {
		t.Fatalf("expected clock <= 120, got %d", state.Clock)
	}
	if !state.TwoMinuteWarningQ4 {
		t.Fatal("expected two-minute warning to have fired")
	}

	before := state.Clock
	AdvanceClock(&state, 5, false)
	if state.Clock != before-5 {
		t.Fatal("clock should continue decrementing after warning fires")
	}
}

func TestTwoMinuteWarningNeverInQ1OrQ3(t *testing.T) {
	state := core.GameState{Quarter: core.Quarter1, Clock: 125}
	AdvanceClock(&state, 10, false)
	if state.TwoMinuteWarningQ2 || state.TwoMinuteWarningQ4 {
		t.Fatal("two-minute warning must not fire in Q1")
	}

	state2 := core.GameState{Quarter: core.Quarter3, Clock: 125}
	AdvanceClock(&state2, 10, false)
	if state2.TwoMinuteWarningQ2 || state2.TwoMinuteWarningQ4 {
		t.Fatal("two-minute warning must not fire in Q3")
	}
}

func TestOTSuddenDeathRequiresSecondPossessionToConclude(t *testing.T) {
	state := core.GameState{Quarter: core.QuarterOT, HomeScore: 3, AwayScore: 0}

	RecordPossession(&state, core.TeamSideHome, "field_goal")
	if !state.HomePossessedOT {
		t.Fatal("expected home to be marked as possessed after its drive concluded")
	}
	// away's offensive drive is still in progress (no endDrive call yet);
	// the score already differs, but sudden death must not trigger on
	// away's mere snap of the ball.
	if isOvertimeSuddenDeathOver(state) {
		t.Fatal("game must not end on away's first snap, only once its drive concludes")
	}

	RecordPossession(&state, core.TeamSideAway, "turnover_on_downs")
	if !isOvertimeSuddenDeathOver(state) {
		t.Fatal("expected sudden death once both sides have completed a possession and the score differs")
	}
}

func TestFirstPossessionResultRecordsOnlyFirstDrive(t *testing.T) {
	state := core.GameState{Quarter: core.QuarterOT}
	RecordPossession(&state, core.TeamSideHome, "touchdown")
	RecordPossession(&state, core.TeamSideAway, "punt")
	if state.FirstPossessionResult != "touchdown" {
		t.Fatalf("expected firstPossessionResult to stick to the first recorded drive, got %q", state.FirstPossessionResult)
	}
}

func TestRecordPossessionNoopOutsideOvertime(t *testing.T) {
	state := core.GameState{Quarter: core.Quarter4}
	RecordPossession(&state, core.TeamSideHome, "touchdown")
	if state.HomePossessedOT || state.FirstPossessionResult != "" {
		t.Fatal("expected RecordPossession to be a no-op outside overtime")
	}
}

func TestEventLogDenseAndMonotonic(t *testing.T) {
	cfg := testConfig()
	result := Simulate(cfg)

	for i, e := range result.Events {
		if e.EventNumber != i+1 {
			t.Fatalf("event numbers not dense: index %d has number %d", i, e.EventNumber)
		}
		if i > 0 && e.DisplayTimestamp < result.Events[i-1].DisplayTimestamp {
			t.Fatalf("displayTimestamp decreased at event %d", i)
		}
	}

	last := result.Events[len(result.Events)-1]
	if last.GameState.HomeScore != result.FinalState.HomeScore || last.GameState.AwayScore != result.FinalState.AwayScore {
		t.Fatal("last event's game state does not match final recorded score")
	}
}
