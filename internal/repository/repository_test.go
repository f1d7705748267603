package repository

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"gridblitz.dev/platform/internal/core"
	"gridblitz.dev/platform/internal/db"
	"gridblitz.dev/platform/internal/seed"
	"gridblitz.dev/platform/internal/testutils"
)

var testDB *sql.DB

func TestMain(m *testing.M) {
	ctx := context.Background()

	container, err := testutils.NewPostgresContainer(ctx)
	if err != nil {
		panic("failed to create postgres container: " + err.Error())
	}

	wrapped, err := db.Connect(container.ConnStr)
	if err != nil {
		container.Terminate(ctx)
		panic("failed to connect to database: " + err.Error())
	}
	if err := wrapped.Migrate(ctx); err != nil {
		container.Terminate(ctx)
		panic("failed to run migrations: " + err.Error())
	}

	testDB = wrapped.DB

	code := m.Run()
	container.Terminate(ctx)
	os.Exit(code)
}

func TestTeamAndPlayerRoundTrip(t *testing.T) {
	ctx := context.Background()
	teams := NewTeamRepository(testDB)
	players := NewPlayerRepository(testDB)

	result, err := seed.GenerateLeague(ctx, teams, players, seed.LeagueOptions{Seed: "team-roundtrip", RosterSize: 26})
	if err != nil {
		t.Fatalf("GenerateLeague: %v", err)
	}
	if result.Teams != 32 {
		t.Fatalf("expected 32 teams, got %d", result.Teams)
	}
	if result.Players != 32*26 {
		t.Fatalf("expected %d players, got %d", 32*26, result.Players)
	}

	all, err := teams.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 32 {
		t.Fatalf("expected 32 listed teams, got %d", len(all))
	}

	roster, err := players.Roster(ctx, all[0].ID)
	if err != nil {
		t.Fatalf("Roster: %v", err)
	}
	if len(roster) != 26 {
		t.Fatalf("expected 26-player roster, got %d", len(roster))
	}

	got, err := teams.GetByID(ctx, all[0].ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Abbreviation != all[0].Abbreviation {
		t.Fatalf("GetByID returned mismatched team: %+v", got)
	}

	if _, err := teams.GetByID(ctx, core.TeamID("does-not-exist")); !core.IsNotFound(err) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestSeasonLifecycleCAS(t *testing.T) {
	ctx := context.Background()
	seasons := NewSeasonRepository(testDB)

	s := &core.Season{
		ID:           core.SeasonID(core.NewID()),
		SeasonNumber: 1,
		CurrentWeek:  1,
		TotalWeeks:   core.TotalWeeks,
		Status:       core.SeasonStatusRegular,
		MasterSeed:   "deadbeef",
	}
	if err := seasons.Create(ctx, s); err != nil {
		t.Fatalf("Create: %v", err)
	}

	ok, err := seasons.AdvanceWeek(ctx, s.ID, 1, 2)
	if err != nil {
		t.Fatalf("AdvanceWeek: %v", err)
	}
	if !ok {
		t.Fatalf("expected AdvanceWeek to succeed on first attempt")
	}

	ok, err = seasons.AdvanceWeek(ctx, s.ID, 1, 2)
	if err != nil {
		t.Fatalf("AdvanceWeek (stale): %v", err)
	}
	if ok {
		t.Fatalf("expected AdvanceWeek to fail once currentWeek moved on")
	}

	ok, err = seasons.TransitionStatus(ctx, s.ID, core.SeasonStatusRegular, core.SeasonStatusWildCard)
	if err != nil {
		t.Fatalf("TransitionStatus: %v", err)
	}
	if !ok {
		t.Fatalf("expected TransitionStatus to succeed")
	}

	got, err := seasons.GetByID(ctx, s.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != core.SeasonStatusWildCard || got.CurrentWeek != 2 {
		t.Fatalf("unexpected season state after transitions: %+v", got)
	}
}

func TestGameTransitionAndStandings(t *testing.T) {
	ctx := context.Background()
	teams := NewTeamRepository(testDB)
	players := NewPlayerRepository(testDB)
	seasons := NewSeasonRepository(testDB)
	games := NewGameRepository(testDB)
	standings := NewStandingsRepository(testDB)

	if _, err := seed.GenerateLeague(ctx, teams, players, seed.LeagueOptions{Seed: "game-test", RosterSize: 26}); err != nil {
		t.Fatalf("GenerateLeague: %v", err)
	}
	allTeams, err := teams.List(ctx)
	if err != nil {
		t.Fatalf("List teams: %v", err)
	}
	home, away := allTeams[0].ID, allTeams[1].ID

	s := &core.Season{
		ID:           core.SeasonID(core.NewID()),
		SeasonNumber: 2,
		CurrentWeek:  1,
		TotalWeeks:   core.TotalWeeks,
		Status:       core.SeasonStatusRegular,
		MasterSeed:   "cafef00d",
	}
	if err := seasons.Create(ctx, s); err != nil {
		t.Fatalf("Create season: %v", err)
	}

	teamIDs := []core.TeamID{home, away}
	if err := standings.InitializeForSeason(ctx, s.ID, teamIDs); err != nil {
		t.Fatalf("InitializeForSeason: %v", err)
	}

	g := core.Game{
		ID:             core.GameID(core.NewID()),
		SeasonID:       s.ID,
		Week:           1,
		GameType:       core.GameTypeRegular,
		HomeTeamID:     home,
		AwayTeamID:     away,
		Status:         core.GameStatusScheduled,
		ServerSeedHash: "deadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeef",
		ClientSeed:     "client-1",
	}
	if err := games.CreateBatch(ctx, []core.Game{g}); err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}

	ok, err := games.TransitionStatus(ctx, g.ID, core.GameStatusScheduled, core.GameStatusSimulating)
	if err != nil {
		t.Fatalf("TransitionStatus: %v", err)
	}
	if !ok {
		t.Fatalf("expected scheduled->simulating transition to succeed")
	}

	start := core.BroadcastStart{
		ServerSeedHash: g.ServerSeedHash,
		ClientSeed:     g.ClientSeed,
		ServerSeed:     "revealed-seed",
		HomeScore:      24,
		AwayScore:      17,
		TotalPlays:     142,
		FinalNonce:     142,
		BoxScore: core.BoxScore{
			HomeTotals: core.TeamTotals{TotalYards: 400},
			AwayTotals: core.TeamTotals{TotalYards: 310},
		},
		StartedAt: 1700000000000,
	}
	ok, err = games.StartBroadcast(ctx, g.ID, start)
	if err != nil {
		t.Fatalf("StartBroadcast: %v", err)
	}
	if !ok {
		t.Fatalf("expected StartBroadcast to succeed")
	}

	ok, err = games.Finalize(ctx, g.ID, 1700000003000)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if !ok {
		t.Fatalf("expected Finalize to succeed")
	}

	finished, err := games.GetByID(ctx, g.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if finished.Status != core.GameStatusCompleted {
		t.Fatalf("expected completed status, got %s", finished.Status)
	}
	if finished.HomeScore == nil || *finished.HomeScore != 24 {
		t.Fatalf("expected home score 24, got %+v", finished.HomeScore)
	}

	if err := standings.ApplyResult(ctx, core.StandingsUpdate{
		SeasonID:   s.ID,
		HomeTeamID: home,
		AwayTeamID: away,
		HomeScore:  24,
		AwayScore:  17,
	}); err != nil {
		t.Fatalf("ApplyResult: %v", err)
	}

	homeStandings, err := standings.Get(ctx, s.ID, home)
	if err != nil {
		t.Fatalf("Get standings: %v", err)
	}
	if homeStandings.Wins != 1 || homeStandings.Losses != 0 {
		t.Fatalf("expected home team 1-0, got %+v", homeStandings)
	}
	if homeStandings.Streak != "W1" {
		t.Fatalf("expected streak W1, got %q", homeStandings.Streak)
	}

	awayStandings, err := standings.Get(ctx, s.ID, away)
	if err != nil {
		t.Fatalf("Get away standings: %v", err)
	}
	if awayStandings.Losses != 1 || awayStandings.Streak != "L1" {
		t.Fatalf("expected away team 0-1 streak L1, got %+v", awayStandings)
	}
}
