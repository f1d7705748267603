package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"gridblitz.dev/platform/internal/broadcast"
	"gridblitz.dev/platform/internal/core"
	"gridblitz.dev/platform/internal/db"
	"gridblitz.dev/platform/internal/repository"
	"gridblitz.dev/platform/internal/season"
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

func newTestServer(t *testing.T) *Server {
	t.Helper()

	teams := repository.NewTeamRepository(testDB)
	players := repository.NewPlayerRepository(testDB)
	seasons := repository.NewSeasonRepository(testDB)
	games := repository.NewGameRepository(testDB)
	standings := repository.NewStandingsRepository(testDB)
	events := &fakeEventStore{byGame: map[core.GameID][]core.GameEvent{}}

	controller := season.New(seasons, games, teams, players, standings, events)
	stream := broadcast.New(games, events)

	return NewServer(Deps{
		Games:      games,
		Seasons:    seasons,
		Events:     events,
		Controller: controller,
		Stream:     stream,
		CronSecret: "test-secret",
	})
}

// fakeEventStore avoids depending on a live pgxpool for handler tests
// that never touch the event log.
type fakeEventStore struct {
	byGame map[core.GameID][]core.GameEvent
}

func (f *fakeEventStore) AppendEvents(ctx context.Context, gameID core.GameID, events []core.GameEvent) error {
	f.byGame[gameID] = append(f.byGame[gameID], events...)
	return nil
}

func (f *fakeEventStore) ListEvents(ctx context.Context, gameID core.GameID) ([]core.GameEvent, error) {
	return f.byGame[gameID], nil
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)

	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestSimulateRejectsMissingBearer(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/simulate", nil)

	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestSimulateAcceptsValidBearer(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/simulate", nil)
	req.Header.Set("Authorization", "Bearer test-secret")

	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestGetGameNotFound(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/game/missing", nil)

	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestGetGameMasksScoreAndSeedUntilCompleted(t *testing.T) {
	ctx := context.Background()
	teams := repository.NewTeamRepository(testDB)
	players := repository.NewPlayerRepository(testDB)
	seasons := repository.NewSeasonRepository(testDB)
	games := repository.NewGameRepository(testDB)

	if _, err := seed.GenerateLeague(ctx, teams, players, seed.LeagueOptions{Seed: "masking-test"}); err != nil {
		t.Fatalf("failed to generate league: %v", err)
	}
	teamList, err := teams.List(ctx)
	if err != nil || len(teamList) < 2 {
		t.Fatalf("failed to list seeded teams: %v", err)
	}

	seasonID := core.SeasonID(core.NewID())
	if err := seasons.Create(ctx, &core.Season{
		ID: seasonID, SeasonNumber: 1, CurrentWeek: 1, TotalWeeks: 18,
		Status: core.SeasonStatusRegular, MasterSeed: "masking-test-season",
	}); err != nil {
		t.Fatalf("failed to create season: %v", err)
	}

	gameID := core.GameID(core.NewID())
	game := core.Game{
		ID: gameID, SeasonID: seasonID, Week: 1, GameType: core.GameTypeRegular,
		HomeTeamID: teamList[0].ID, AwayTeamID: teamList[1].ID,
		Status: core.GameStatusScheduled, ServerSeedHash: "deadbeef", ClientSeed: "client-seed",
	}
	if err := games.CreateBatch(ctx, []core.Game{game}); err != nil {
		t.Fatalf("failed to create game: %v", err)
	}

	ok, err := games.StartBroadcast(ctx, gameID, core.BroadcastStart{
		ServerSeedHash: "deadbeef", ClientSeed: "client-seed", StartedAt: 1000,
		ServerSeed: "revealed-seed-value", HomeScore: 24, AwayScore: 10, TotalPlays: 150, FinalNonce: 1,
	})
	if err != nil || !ok {
		t.Fatalf("failed to start broadcast: ok=%v err=%v", ok, err)
	}

	s := newTestServer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/game/"+string(gameID), nil)
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var midBroadcast core.Game
	if err := json.Unmarshal(rec.Body.Bytes(), &midBroadcast); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if midBroadcast.HomeScore != nil || midBroadcast.AwayScore != nil || midBroadcast.ServerSeed != nil {
		t.Fatalf("expected score and seed hidden mid-broadcast, got homeScore=%v awayScore=%v serverSeed=%v",
			midBroadcast.HomeScore, midBroadcast.AwayScore, midBroadcast.ServerSeed)
	}

	if ok, err := games.Finalize(ctx, gameID, 2000); err != nil || !ok {
		t.Fatalf("failed to finalize: ok=%v err=%v", ok, err)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/game/"+string(gameID), nil)
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var completed core.Game
	if err := json.Unmarshal(rec.Body.Bytes(), &completed); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if completed.HomeScore == nil || *completed.HomeScore != 24 {
		t.Fatalf("expected homeScore 24 once completed, got %v", completed.HomeScore)
	}
	if completed.AwayScore == nil || *completed.AwayScore != 10 {
		t.Fatalf("expected awayScore 10 once completed, got %v", completed.AwayScore)
	}
	if completed.ServerSeed == nil || *completed.ServerSeed != "revealed-seed-value" {
		t.Fatalf("expected serverSeed revealed once completed, got %v", completed.ServerSeed)
	}
}

func TestCurrentGameReturnsOffseasonWithNoSeason(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/game/current", nil)

	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}
