package broadcast

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
)

// channelPrefix namespaces broadcast notifications from the rest of the
// app's pub/sub traffic on the same Redis instance.
const channelPrefix = "gridblitz:broadcast:"

// Fanout is an optional hint that lets viewer streams wake up as soon
// as a new event is appended, when the API server and the tick worker
// run as separate processes and therefore can't share an in-memory
// signal. It is never required for correctness: every stream reads the
// event store directly, and a missed or delayed notification just
// means the next scheduled poll (or the pacer's own delay loop) picks
// the event up on its own. Single-process deployments can leave this
// nil entirely.
type Fanout struct {
	redis *redis.Client
}

// NewFanout wraps an existing Redis client; pass nil to disable fanout.
func NewFanout(client *redis.Client) *Fanout {
	if client == nil {
		return nil
	}
	return &Fanout{redis: client}
}

func gameChannel(gameID string) string {
	return channelPrefix + gameID
}

// NotifyAppended publishes a best-effort "new events exist" ping for a
// game; failures are logged and swallowed, never propagated, since the
// event store itself remains the source of truth.
func (f *Fanout) NotifyAppended(ctx context.Context, gameID string) {
	if f == nil {
		return
	}
	if err := f.redis.Publish(ctx, gameChannel(gameID), "appended").Err(); err != nil {
		log.FromContext(ctx).Warn("broadcast fanout publish failed", "gameId", gameID, "err", err)
	}
}

// Subscribe returns a channel of wake-up pings for one game's stream.
// Callers select on it alongside their own pacing timers purely as an
// optimization to reduce latency between append and emission; it is
// safe to ignore every message and fall back to the normal delay loop.
func (f *Fanout) Subscribe(ctx context.Context, gameID string) (<-chan struct{}, func()) {
	if f == nil {
		ch := make(chan struct{})
		return ch, func() {}
	}

	sub := f.redis.Subscribe(ctx, gameChannel(gameID))
	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		for range sub.Channel() {
			select {
			case out <- struct{}{}:
			default:
			}
		}
	}()
	return out, func() { _ = sub.Close() }
}
