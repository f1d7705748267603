package eventstore

import (
	"context"
	"testing"

	"gridblitz.dev/platform/internal/core"
	"gridblitz.dev/platform/internal/testutils"
)

func sampleEvents(n int) []core.GameEvent {
	events := make([]core.GameEvent, n)
	for i := range events {
		events[i] = core.GameEvent{
			EventNumber:      i + 1,
			EventType:        core.EventTypeRun,
			DisplayTimestamp: int64(i) * 1500,
			PlayResult:       core.PlayResult{Type: core.EventTypeRun, YardsGained: 4},
		}
	}
	return events
}

func TestAppendAndListRoundTrip(t *testing.T) {
	ctx := context.Background()
	root, err := testutils.GetProjectRoot()
	if err != nil {
		t.Skipf("skipping: %v", err)
	}
	container, err := testutils.NewPostgresContainer(ctx, testutils.WithMigrations(root+"/internal/db/sql"))
	if err != nil {
		t.Skipf("skipping: could not start postgres container: %v", err)
	}
	defer container.Terminate(ctx)

	store, err := New(ctx, container.ConnStr)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer store.Close()

	gameID := core.GameID("game-1")
	events := sampleEvents(120)
	if err := store.AppendEvents(ctx, gameID, events); err != nil {
		t.Fatalf("AppendEvents: %v", err)
	}

	got, err := store.ListEvents(ctx, gameID)
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(got) != len(events) {
		t.Fatalf("expected %d events, got %d", len(events), len(got))
	}
	for i, e := range got {
		if e.EventNumber != i+1 {
			t.Fatalf("event %d out of order: number=%d", i, e.EventNumber)
		}
	}
}

func TestListEventsSinceOnlyReturnsLater(t *testing.T) {
	ctx := context.Background()
	root, err := testutils.GetProjectRoot()
	if err != nil {
		t.Skipf("skipping: %v", err)
	}
	container, err := testutils.NewPostgresContainer(ctx, testutils.WithMigrations(root+"/internal/db/sql"))
	if err != nil {
		t.Skipf("skipping: could not start postgres container: %v", err)
	}
	defer container.Terminate(ctx)

	store, err := New(ctx, container.ConnStr)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer store.Close()

	gameID := core.GameID("game-2")
	if err := store.AppendEvents(ctx, gameID, sampleEvents(10)); err != nil {
		t.Fatalf("AppendEvents: %v", err)
	}

	got, err := store.ListEventsSince(ctx, gameID, 7)
	if err != nil {
		t.Fatalf("ListEventsSince: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 events after event 7, got %d", len(got))
	}
	if got[0].EventNumber != 8 {
		t.Fatalf("expected first event to be number 8, got %d", got[0].EventNumber)
	}
}

func TestAppendIsIdempotentOnConflict(t *testing.T) {
	ctx := context.Background()
	root, err := testutils.GetProjectRoot()
	if err != nil {
		t.Skipf("skipping: %v", err)
	}
	container, err := testutils.NewPostgresContainer(ctx, testutils.WithMigrations(root+"/internal/db/sql"))
	if err != nil {
		t.Skipf("skipping: could not start postgres container: %v", err)
	}
	defer container.Terminate(ctx)

	store, err := New(ctx, container.ConnStr)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer store.Close()

	gameID := core.GameID("game-3")
	events := sampleEvents(5)
	if err := store.AppendEvents(ctx, gameID, events); err != nil {
		t.Fatalf("first AppendEvents: %v", err)
	}
	if err := store.AppendEvents(ctx, gameID, events); err != nil {
		t.Fatalf("second AppendEvents: %v", err)
	}

	count, err := store.Count(ctx, gameID)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 5 {
		t.Fatalf("expected 5 events after re-append, got %d", count)
	}
}
