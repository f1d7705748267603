// Package eventstore persists the append-only GameEvent log that the
// engine produces and that the broadcast layer replays to clients
// Writes are batched so a full simulation of 150-250 plays
// costs a handful of round trips instead of one per event.
package eventstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gridblitz.dev/platform/internal/core"
)

const appendBatchSize = 50

// Notifier is an optional post-append hook used to wake up live SSE
// streams in multi-process deployments without polling the store.
// *broadcast.Fanout satisfies this; left nil, appends are silent and
// streams fall back to their own wall-clock pacing, which remains
// correct on its own.
type Notifier interface {
	NotifyAppended(ctx context.Context, gameID string)
}

// Store writes and reads a game's event log against Postgres.
type Store struct {
	pool   *pgxpool.Pool
	Notify Notifier
}

// New opens a dedicated pgxpool against connStr for event-log traffic,
// separate from the *sql.DB the rest of the repository layer uses.
func New(ctx context.Context, connStr string) (*Store, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, core.NewPersistenceFailureError("eventstore.connect", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, core.NewPersistenceFailureError("eventstore.ping", err)
	}
	return &Store{pool: pool}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// AppendEvents writes events in chunks of appendBatchSize using
// pgx.Batch, so a partial failure rolls back only the offending chunk's
// transaction rather than the whole append.
func (s *Store) AppendEvents(ctx context.Context, gameID core.GameID, events []core.GameEvent) error {
	for start := 0; start < len(events); start += appendBatchSize {
		end := min(start+appendBatchSize, len(events))
		if err := s.appendChunk(ctx, gameID, events[start:end]); err != nil {
			return err
		}
	}
	if s.Notify != nil {
		s.Notify.NotifyAppended(ctx, string(gameID))
	}
	return nil
}

func (s *Store) appendChunk(ctx context.Context, gameID core.GameID, chunk []core.GameEvent) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return core.NewPersistenceFailureError("eventstore.append.begin", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, e := range chunk {
		payload, err := json.Marshal(e)
		if err != nil {
			return core.NewPersistenceFailureError("eventstore.append.marshal", err)
		}
		batch.Queue(`
			INSERT INTO game_events (game_id, event_number, event_type, display_timestamp, payload)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (game_id, event_number) DO NOTHING`,
			string(gameID), e.EventNumber, string(e.EventType), e.DisplayTimestamp, payload)
	}

	results := tx.SendBatch(ctx, batch)
	for range chunk {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return core.NewPersistenceFailureError("eventstore.append.exec", err)
		}
	}
	if err := results.Close(); err != nil {
		return core.NewPersistenceFailureError("eventstore.append.close", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return core.NewPersistenceFailureError("eventstore.append.commit", err)
	}
	return nil
}

// ListEvents returns every event recorded for gameID in event_number order.
func (s *Store) ListEvents(ctx context.Context, gameID core.GameID) ([]core.GameEvent, error) {
	return s.ListEventsSince(ctx, gameID, 0)
}

// ListEventsSince returns events with event_number > afterEventNumber, in
// order. The broadcast layer uses this for SSE catch-up replay: a
// reconnecting client passes the last event number it saw.
func (s *Store) ListEventsSince(ctx context.Context, gameID core.GameID, afterEventNumber int) ([]core.GameEvent, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT payload FROM game_events
		WHERE game_id = $1 AND event_number > $2
		ORDER BY event_number ASC`, string(gameID), afterEventNumber)
	if err != nil {
		return nil, core.NewPersistenceFailureError("eventstore.list", err)
	}
	defer rows.Close()

	var events []core.GameEvent
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, core.NewPersistenceFailureError("eventstore.list.scan", err)
		}
		var e core.GameEvent
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, core.NewPersistenceFailureError("eventstore.list.unmarshal", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, core.NewPersistenceFailureError("eventstore.list.rows", err)
	}
	return events, nil
}

// Count returns the number of events recorded for gameID, used to decide
// whether a reconnecting SSE client is already caught up.
func (s *Store) Count(ctx context.Context, gameID core.GameID) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `SELECT count(*) FROM game_events WHERE game_id = $1`, string(gameID)).Scan(&n)
	if err != nil {
		return 0, core.NewPersistenceFailureError("eventstore.count", fmt.Errorf("%w", err))
	}
	return n, nil
}

// DeleteForGame removes every event recorded for gameID. Used when a
// season is reset or a simulated game is discarded and re-run.
func (s *Store) DeleteForGame(ctx context.Context, gameID core.GameID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM game_events WHERE game_id = $1`, string(gameID))
	if err != nil {
		return core.NewPersistenceFailureError("eventstore.delete", err)
	}
	return nil
}
