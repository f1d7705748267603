// Package broadcast implements the Server-Sent-Events stream that
// replays a game's stored event log to arbitrarily many live viewers,
// with catch-up for late joiners and reconnect support. The
// store (games, events, standings, seasons) is the single source of
// truth; this package never writes to it.
package broadcast

import "gridblitz.dev/platform/internal/core"

// MessageType tags the kind of frame sent over the stream.
type MessageType string

const (
	MessageCatchup      MessageType = "catchup"
	MessagePlay         MessageType = "play"
	MessageGameOver     MessageType = "game_over"
	MessageIntermission MessageType = "intermission"
	MessageReconnect    MessageType = "reconnect"
	MessageError        MessageType = "error"
)

// CatchupMessage is emitted once per stream, immediately after connect,
// carrying every event whose displayTimestamp has already elapsed (or
// every event at all, once the game is completed).
type CatchupMessage struct {
	Type      MessageType     `json:"type"`
	Events    []core.GameEvent `json:"events"`
	GameState core.GameState   `json:"gameState"`
}

// PlayMessage carries one event paced against wall-clock elapsed time.
type PlayMessage struct {
	Type  MessageType    `json:"type"`
	Event core.GameEvent `json:"event"`
}

// FinalScore is the {home,away} pair reported in a game_over message.
type FinalScore struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// GameOverMessage is emitted 1.5s after the last event.
type GameOverMessage struct {
	Type       MessageType    `json:"type"`
	BoxScore   core.BoxScore  `json:"boxScore"`
	FinalScore FinalScore     `json:"finalScore"`
	MVP        core.PlayerID  `json:"mvp"`
}

// IntermissionMessage is emitted 2s after game_over.
type IntermissionMessage struct {
	Type       MessageType  `json:"type"`
	Message    string       `json:"message"`
	NextGameID *core.GameID `json:"nextGameId"`
	Countdown  int          `json:"countdown"`
}

// ReconnectMessage tells the client the 270s stream lifetime is up; the
// client is expected to reopen, and catchup makes the reopen seamless.
type ReconnectMessage struct {
	Type MessageType `json:"type"`
}

// ErrorMessage is a terminal frame; it is never mixed into a play
// stream, only sent in place of one.
type ErrorMessage struct {
	Type    MessageType `json:"type"`
	Message string      `json:"message"`
}
