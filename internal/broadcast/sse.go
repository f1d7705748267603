package broadcast

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
	"gridblitz.dev/platform/internal/core"
)

// Clock abstracts the business-time source used to decide which events
// are already "in the past" (elapsed since broadcast_started_at) so
// tests can construct deterministic catchup/future splits without
// waiting on real time. It never governs the stream's own liveness
// mechanics (heartbeats, the reconnect deadline, or how long a
// computed delay actually sleeps) — those are real wall-clock
// concerns, since they model an actual HTTP connection's lifetime.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Config is the pacing and liveness configuration shared by every
// stream this process serves.
type Config struct {
	HeartbeatInterval time.Duration
	ReconnectAfter    time.Duration
	MaxEventDelay     time.Duration
}

// DefaultConfig's defaults: 15s heartbeats, a 270s
// reconnect window, and future-event delays capped at 10s.
func DefaultConfig() Config {
	return Config{
		HeartbeatInterval: 15 * time.Second,
		ReconnectAfter:    270 * time.Second,
		MaxEventDelay:     10 * time.Second,
	}
}

// maxBurstEventsPerSecond caps how fast one viewer stream can emit
// events once scheduling delay has collapsed toward zero, e.g. right
// after catchup if the process briefly fell behind wall clock. It
// smooths delivery without ever dropping or reordering an event.
const maxBurstEventsPerSecond = 5

// Stream serves SSE connections for one game at a time. It holds no
// state across connections: the persisted store is read fresh on every
// Serve call, so no in-memory state is shared across streams. The
// control plane (internal/season) is the only writer to the store this
// package reads.
type Stream struct {
	Games  core.GameRepository
	Events core.EventStore
	Clock  Clock
	Config Config
}

// New builds a Stream with a system clock and default pacing;
// callers override Config from config.Broadcast before use.
func New(games core.GameRepository, events core.EventStore) *Stream {
	return &Stream{Games: games, Events: events, Clock: systemClock{}, Config: DefaultConfig()}
}

type waitOutcome int

const (
	waitElapsed waitOutcome = iota
	waitReconnect
	waitDisconnected
)

// Serve drives one SSE connection end to end. It
// returns once the stream ends: client disconnect, the 270s
// server-initiated reconnect, or a terminal error frame.
func (s *Stream) Serve(w http.ResponseWriter, r *http.Request, gameID core.GameID) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache, no-transform")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	ctx := r.Context()
	logger := log.FromContext(ctx)
	if logger == nil {
		logger = log.Default()
	}
	logger = logger.With("gameId", string(gameID))

	game, err := s.Games.GetByID(ctx, gameID)
	if err != nil {
		s.write(w, flusher, ErrorMessage{Type: MessageError, Message: "Game not found"})
		return
	}

	events, err := s.Events.ListEvents(ctx, gameID)
	if err != nil {
		logger.Error("listing events for stream", "err", err)
		s.write(w, flusher, ErrorMessage{Type: MessageError, Message: "Game not found"})
		return
	}
	if len(events) == 0 && game.Status == core.GameStatusScheduled {
		s.write(w, flusher, ErrorMessage{Type: MessageError, Message: "Game has not started yet"})
		return
	}

	completed := game.Status == core.GameStatusCompleted
	var elapsed time.Duration
	if game.BroadcastStartedAt != nil {
		elapsed = s.Clock.Now().Sub(*game.BroadcastStartedAt)
	}
	catchup, future := partitionEvents(events, elapsed, completed)

	var lastState core.GameState
	if len(events) > 0 {
		lastState = events[len(events)-1].GameState
	}
	if !s.write(w, flusher, CatchupMessage{Type: MessageCatchup, Events: catchup, GameState: lastState}) {
		return
	}

	heartbeat := time.NewTicker(s.Config.HeartbeatInterval)
	defer heartbeat.Stop()
	streamDeadline := time.Now().Add(s.Config.ReconnectAfter)
	pacer := rate.NewLimiter(rate.Limit(maxBurstEventsPerSecond), maxBurstEventsPerSecond)

	for _, ev := range future {
		due := s.Clock.Now()
		if game.BroadcastStartedAt != nil {
			due = game.BroadcastStartedAt.Add(time.Duration(ev.DisplayTimestamp) * time.Millisecond)
		}
		delay := due.Sub(s.Clock.Now())
		if delay < 0 {
			delay = 0
		}
		if delay > s.Config.MaxEventDelay {
			delay = s.Config.MaxEventDelay
		}

		switch s.wait(ctx, w, flusher, heartbeat, streamDeadline, delay) {
		case waitDisconnected:
			return
		case waitReconnect:
			s.write(w, flusher, ReconnectMessage{Type: MessageReconnect})
			return
		}

		if err := pacer.Wait(ctx); err != nil {
			return
		}
		if !s.write(w, flusher, PlayMessage{Type: MessagePlay, Event: ev}) {
			return
		}
	}

	if !completed {
		// The control plane hasn't finalized yet; hold the connection
		// open on heartbeats until the reconnect window closes so the
		// client's next attempt has a better chance of seeing it done.
		if s.wait(ctx, w, flusher, heartbeat, streamDeadline, time.Until(streamDeadline)) == waitReconnect {
			s.write(w, flusher, ReconnectMessage{Type: MessageReconnect})
		}
		return
	}

	switch s.wait(ctx, w, flusher, heartbeat, streamDeadline, 1500*time.Millisecond) {
	case waitDisconnected:
		return
	case waitReconnect:
		s.write(w, flusher, ReconnectMessage{Type: MessageReconnect})
		return
	}

	var box core.BoxScore
	var mvp core.PlayerID
	if game.BoxScore != nil {
		box = *game.BoxScore
		mvp = box.MVP
	}
	var homeScore, awayScore int
	if game.HomeScore != nil {
		homeScore = *game.HomeScore
	}
	if game.AwayScore != nil {
		awayScore = *game.AwayScore
	}
	if !s.write(w, flusher, GameOverMessage{
		Type:       MessageGameOver,
		BoxScore:   box,
		FinalScore: FinalScore{Home: homeScore, Away: awayScore},
		MVP:        mvp,
	}) {
		return
	}

	switch s.wait(ctx, w, flusher, heartbeat, streamDeadline, 2*time.Second) {
	case waitDisconnected:
		return
	case waitReconnect:
		s.write(w, flusher, ReconnectMessage{Type: MessageReconnect})
		return
	}

	nextID, message, countdown := s.nextGame(ctx, game)
	s.write(w, flusher, IntermissionMessage{Type: MessageIntermission, Message: message, NextGameID: nextID, Countdown: countdown})
}

// wait suspends for delay, waking early to emit heartbeats and
// watching both client disconnect and the reconnect deadline. Every
// suspension point here is cancellable via ctx. The
// deadline and delay are both real wall-clock durations regardless of
// what Stream.Clock reports, since they model the actual HTTP
// connection's lifetime.
func (s *Stream) wait(ctx context.Context, w http.ResponseWriter, flusher http.Flusher, heartbeat *time.Ticker, deadline time.Time, delay time.Duration) waitOutcome {
	dueAt := time.Now().Add(delay)

	for {
		remaining := time.Until(dueAt)
		untilDeadline := time.Until(deadline)
		dueAtDeadline := untilDeadline <= remaining

		effective := remaining
		if dueAtDeadline {
			effective = untilDeadline
		}
		if effective <= 0 {
			if dueAtDeadline {
				return waitReconnect
			}
			return waitElapsed
		}

		timer := time.NewTimer(effective)
		select {
		case <-ctx.Done():
			timer.Stop()
			return waitDisconnected
		case <-timer.C:
			if dueAtDeadline {
				return waitReconnect
			}
			return waitElapsed
		case <-heartbeat.C:
			timer.Stop()
			if _, err := fmt.Fprint(w, ": heartbeat\n\n"); err != nil {
				return waitDisconnected
			}
			flusher.Flush()
		}
	}
}

func (s *Stream) write(w http.ResponseWriter, flusher http.Flusher, v any) bool {
	data, err := json.Marshal(v)
	if err != nil {
		return false
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
		return false
	}
	flusher.Flush()
	return true
}

// partitionEvents splits events into catchup (already past, or the
// whole game once it's completed) and future.
func partitionEvents(events []core.GameEvent, elapsed time.Duration, completed bool) (catchup, future []core.GameEvent) {
	elapsedMs := elapsed.Milliseconds()
	for _, ev := range events {
		if completed || ev.DisplayTimestamp <= elapsedMs {
			catchup = append(catchup, ev)
		} else {
			future = append(future, ev)
		}
	}
	return catchup, future
}

// nextGame finds the next scheduled game in the same week, used for the
// intermission message's nextGameId.
func (s *Stream) nextGame(ctx context.Context, g *core.Game) (*core.GameID, string, int) {
	games, err := s.Games.List(ctx, core.GameFilter{SeasonID: g.SeasonID, Week: g.Week})
	if err != nil {
		return nil, "Week complete", 0
	}

	var next *core.Game
	for i := range games {
		if games[i].ID == g.ID || games[i].Status != core.GameStatusScheduled {
			continue
		}
		if next == nil || games[i].ID < next.ID {
			next = &games[i]
		}
	}
	if next == nil {
		return nil, "Week complete", 0
	}

	id := next.ID
	return &id, "Next game starting shortly", 15 * 60
}
