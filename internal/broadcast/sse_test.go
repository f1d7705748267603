package broadcast

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gridblitz.dev/platform/internal/core"
)

type fakeGames struct{ games map[core.GameID]*core.Game }

func (f *fakeGames) GetByID(ctx context.Context, id core.GameID) (*core.Game, error) {
	g, ok := f.games[id]
	if !ok {
		return nil, core.NewNotFoundError("game", string(id))
	}
	return g, nil
}
func (f *fakeGames) List(ctx context.Context, filter core.GameFilter) ([]core.Game, error) {
	var out []core.Game
	for _, g := range f.games {
		if filter.SeasonID != "" && g.SeasonID != filter.SeasonID {
			continue
		}
		if filter.Week != 0 && g.Week != filter.Week {
			continue
		}
		out = append(out, *g)
	}
	return out, nil
}
func (f *fakeGames) CreateBatch(ctx context.Context, games []core.Game) error { return nil }
func (f *fakeGames) TransitionStatus(ctx context.Context, id core.GameID, expected, next core.GameStatus) (bool, error) {
	return false, nil
}
func (f *fakeGames) StartBroadcast(ctx context.Context, id core.GameID, start core.BroadcastStart) (bool, error) {
	return false, nil
}
func (f *fakeGames) Finalize(ctx context.Context, id core.GameID, completedAt int64) (bool, error) {
	return false, nil
}

type fakeEvents struct{ byGame map[core.GameID][]core.GameEvent }

func (f *fakeEvents) AppendEvents(ctx context.Context, gameID core.GameID, events []core.GameEvent) error {
	return nil
}
func (f *fakeEvents) ListEvents(ctx context.Context, gameID core.GameID) ([]core.GameEvent, error) {
	return f.byGame[gameID], nil
}

func testConfig() Config {
	return Config{HeartbeatInterval: time.Hour, ReconnectAfter: time.Hour, MaxEventDelay: 10 * time.Second}
}

// dataFrames extracts the JSON payload of every `data: ...` SSE frame
// from a recorded response body, in order.
func dataFrames(t *testing.T, body string) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimPrefix(line, "data: ")
		if line == "" || !strings.HasPrefix(line, "{") {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("unmarshal frame %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func TestServeGameNotFound(t *testing.T) {
	s := &Stream{Games: &fakeGames{games: map[core.GameID]*core.Game{}}, Events: &fakeEvents{byGame: map[core.GameID][]core.GameEvent{}}, Clock: systemClock{}, Config: testConfig()}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/game/missing/stream", nil)

	s.Serve(rec, req, "missing")

	frames := dataFrames(t, rec.Body.String())
	if len(frames) != 1 || frames[0]["type"] != "error" {
		t.Fatalf("expected a single error frame, got %v", frames)
	}
	if frames[0]["message"] != "Game not found" {
		t.Fatalf("unexpected message: %v", frames[0]["message"])
	}
}

func TestServeGameNotStartedYet(t *testing.T) {
	g := &core.Game{ID: "g1", Status: core.GameStatusScheduled}
	s := &Stream{
		Games:  &fakeGames{games: map[core.GameID]*core.Game{"g1": g}},
		Events: &fakeEvents{byGame: map[core.GameID][]core.GameEvent{}},
		Clock:  systemClock{}, Config: testConfig(),
	}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/game/g1/stream", nil)

	s.Serve(rec, req, "g1")

	frames := dataFrames(t, rec.Body.String())
	if len(frames) != 1 || frames[0]["message"] != "Game has not started yet" {
		t.Fatalf("expected not-started error, got %v", frames)
	}
}

func TestServeCompletedGameRunsFullSequence(t *testing.T) {
	started := time.Now().Add(-time.Minute)
	homeScore, awayScore := 27, 13
	box := core.BoxScore{MVP: "p1"}
	g := &core.Game{
		ID: "g1", SeasonID: "s1", Week: 1, Status: core.GameStatusCompleted,
		BroadcastStartedAt: &started, HomeScore: &homeScore, AwayScore: &awayScore, BoxScore: &box,
	}
	events := []core.GameEvent{
		{EventNumber: 1, DisplayTimestamp: 0},
		{EventNumber: 2, DisplayTimestamp: 500},
	}
	s := &Stream{
		Games:  &fakeGames{games: map[core.GameID]*core.Game{"g1": g}},
		Events: &fakeEvents{byGame: map[core.GameID][]core.GameEvent{"g1": events}},
		Clock:  systemClock{}, Config: testConfig(),
	}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/game/g1/stream", nil)

	s.Serve(rec, req, "g1")

	frames := dataFrames(t, rec.Body.String())
	if len(frames) != 3 {
		t.Fatalf("expected catchup, game_over, intermission frames, got %d: %v", len(frames), frames)
	}
	if frames[0]["type"] != "catchup" {
		t.Fatalf("expected first frame catchup, got %v", frames[0]["type"])
	}
	catchupEvents, _ := frames[0]["events"].([]any)
	if len(catchupEvents) != 2 {
		t.Fatalf("expected both events in catchup for a completed game, got %d", len(catchupEvents))
	}
	if frames[1]["type"] != "game_over" {
		t.Fatalf("expected second frame game_over, got %v", frames[1]["type"])
	}
	if frames[2]["type"] != "intermission" {
		t.Fatalf("expected third frame intermission, got %v", frames[2]["type"])
	}
	if frames[2]["message"] != "Week complete" {
		t.Fatalf("expected week-complete message with no other scheduled game, got %v", frames[2]["message"])
	}
}

func TestServeDisconnectStopsBeforeFutureEvents(t *testing.T) {
	started := time.Now()
	g := &core.Game{ID: "g1", SeasonID: "s1", Week: 1, Status: core.GameStatusBroadcasting, BroadcastStartedAt: &started}
	events := []core.GameEvent{{EventNumber: 1, DisplayTimestamp: 60_000}}
	s := &Stream{
		Games:  &fakeGames{games: map[core.GameID]*core.Game{"g1": g}},
		Events: &fakeEvents{byGame: map[core.GameID][]core.GameEvent{"g1": events}},
		Clock:  systemClock{}, Config: Config{HeartbeatInterval: time.Hour, ReconnectAfter: time.Hour, MaxEventDelay: 10 * time.Second},
	}

	rec := httptest.NewRecorder()
	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/api/game/g1/stream", nil).WithContext(ctx)
	cancel()

	s.Serve(rec, req, "g1")

	frames := dataFrames(t, rec.Body.String())
	if len(frames) != 1 || frames[0]["type"] != "catchup" {
		t.Fatalf("expected only the catchup frame before disconnect, got %v", frames)
	}
}

func TestPartitionEventsSplitsOnElapsed(t *testing.T) {
	events := []core.GameEvent{
		{EventNumber: 1, DisplayTimestamp: 0},
		{EventNumber: 2, DisplayTimestamp: 1000},
		{EventNumber: 3, DisplayTimestamp: 5000},
	}
	catchup, future := partitionEvents(events, 2*time.Second, false)
	if len(catchup) != 2 || len(future) != 1 {
		t.Fatalf("expected 2 catchup / 1 future, got %d/%d", len(catchup), len(future))
	}

	allCatchup, allFuture := partitionEvents(events, 0, true)
	if len(allCatchup) != 3 || len(allFuture) != 0 {
		t.Fatalf("expected all events in catchup once completed, got %d/%d", len(allCatchup), len(allFuture))
	}
}
