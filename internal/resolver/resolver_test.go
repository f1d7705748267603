package resolver

import (
	"testing"

	"gridblitz.dev/platform/internal/core"
	"gridblitz.dev/platform/internal/rng"
)

func testRoster(teamID core.TeamID, style core.PlayStyle) Roster {
	team := core.Team{ID: teamID, PlayStyle: style, OffenseRating: 75, DefenseRating: 75}
	players := []core.Player{
		{ID: core.PlayerID(string(teamID) + "-qb"), TeamID: teamID, Position: core.PositionQB, Rating: 80, Awareness: 80, Strength: 70},
		{ID: core.PlayerID(string(teamID) + "-rb"), TeamID: teamID, Position: core.PositionRB, Rating: 78, Strength: 75},
		{ID: core.PlayerID(string(teamID) + "-wr1"), TeamID: teamID, Position: core.PositionWR, Rating: 80},
		{ID: core.PlayerID(string(teamID) + "-te"), TeamID: teamID, Position: core.PositionTE, Rating: 72},
		{ID: core.PlayerID(string(teamID) + "-ol"), TeamID: teamID, Position: core.PositionOL, Rating: 74},
		{ID: core.PlayerID(string(teamID) + "-dl"), TeamID: teamID, Position: core.PositionDL, Rating: 74},
		{ID: core.PlayerID(string(teamID) + "-lb"), TeamID: teamID, Position: core.PositionLB, Rating: 74},
		{ID: core.PlayerID(string(teamID) + "-cb"), TeamID: teamID, Position: core.PositionCB, Rating: 74},
		{ID: core.PlayerID(string(teamID) + "-s"), TeamID: teamID, Position: core.PositionS, Rating: 74},
		{ID: core.PlayerID(string(teamID) + "-k"), TeamID: teamID, Position: core.PositionK, Rating: 78},
		{ID: core.PlayerID(string(teamID) + "-p"), TeamID: teamID, Position: core.PositionP, Rating: 78},
	}
	return BuildRoster(team, players)
}

func baseState() core.GameState {
	return core.GameState{
		Quarter:      core.Quarter1,
		Clock:        900,
		Possession:   core.TeamSideHome,
		Down:         1,
		YardsToGo:    10,
		BallPosition: 25,
	}
}

func TestBigPlayRateWithinBounds(t *testing.T) {
	gen := rng.New("seed", "client", 0)
	offense := testRoster("home", core.PlayStyleBalanced)
	defense := testRoster("away", core.PlayStyleBalanced)

	const trials = 5000
	bigPlays := 0
	for i := 0; i < trials; i++ {
		state := baseState()
		call := SelectCall(state, offense, gen, 0)
		result := Resolve(state, call, offense, defense, gen, 0)
		if result.Turnover == nil && result.YardsGained >= 20 {
			bigPlays++
		}
	}
	rate := float64(bigPlays) / float64(trials)
	if rate < 0.01 || rate > 0.15 {
		t.Fatalf("big play rate %.3f outside tolerance", rate)
	}
}

func TestFieldGoalMonotonicAccuracy(t *testing.T) {
	accAt30 := fieldGoalAccuracy(30, 75)
	accAt45 := fieldGoalAccuracy(45, 75)
	accAt55 := fieldGoalAccuracy(55, 75)
	accAt70 := fieldGoalAccuracy(70, 75)
	if !(accAt30 >= accAt45 && accAt45 >= accAt55 && accAt55 >= accAt70) {
		t.Fatalf("field goal accuracy not monotonically decreasing: %v %v %v %v", accAt30, accAt45, accAt55, accAt70)
	}
	if accAt70 != 0 {
		t.Fatalf("expected 0%% accuracy at distance >= 70, got %v", accAt70)
	}
}

func TestFieldGoalFrom34YardsHighSuccess(t *testing.T) {
	gen := rng.New("seed", "client", 0)
	offense := testRoster("home", core.PlayStyleBalanced)
	state := baseState()
	state.BallPosition = 83

	made := 0
	const trials = 500
	for i := 0; i < trials; i++ {
		result := resolveFieldGoal(state, offense, gen)
		if result.Scoring != nil {
			made++
		}
	}
	rate := float64(made) / float64(trials)
	if rate < 0.85 {
		t.Fatalf("expected >=85%% success at 34 yards, got %.2f", rate)
	}
}

func TestPenaltyRateWithinBounds(t *testing.T) {
	gen := rng.New("seed", "client", 0)
	offense := testRoster("home", core.PlayStyleBalanced)
	defense := testRoster("away", core.PlayStyleBalanced)

	const trials = 4000
	penalized := 0
	for i := 0; i < trials; i++ {
		state := baseState()
		call := SelectCall(state, offense, gen, 0)
		result := Resolve(state, call, offense, defense, gen, 0)
		if result.Penalty != nil {
			penalized++
		}
	}
	rate := float64(penalized) / float64(trials)
	if rate < 0.04 || rate > 0.14 {
		t.Fatalf("penalty rate %.3f outside tolerance", rate)
	}
}

func TestDeclinedAndOffsettingPenaltiesLeaveStateUntouched(t *testing.T) {
	gen := rng.New("seed", "client", 0)
	offense := testRoster("home", core.PlayStyleBalanced)
	defense := testRoster("away", core.PlayStyleBalanced)
	state := baseState()

	for i := 0; i < 2000; i++ {
		call := SelectCall(state, offense, gen, 0)
		result := Resolve(state, call, offense, defense, gen, 0)
		if result.Penalty != nil && (result.Penalty.Declined || result.Penalty.Offsetting) {
			if result.YardsGained < -100 || result.YardsGained > 100 {
				t.Fatalf("declined/offsetting penalty unexpectedly mutated yardage: %+v", result)
			}
		}
	}
}
