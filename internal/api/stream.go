package api

import (
	"net/http"

	"gridblitz.dev/platform/internal/broadcast"
	"gridblitz.dev/platform/internal/core"
)

// StreamRoutes serves the per-game SSE broadcast.
type StreamRoutes struct {
	stream *broadcast.Stream
}

func NewStreamRoutes(stream *broadcast.Stream) *StreamRoutes {
	return &StreamRoutes{stream: stream}
}

func (sr *StreamRoutes) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/game/{gameId}/stream", sr.handleStream)
}

// handleStream godoc
// @Summary Live SSE broadcast for one game
// @Description text/event-stream; frames are catchup, play, game_over, intermission, reconnect, error
// @Tags game
// @Produce text/event-stream
// @Param gameId path string true "Game ID"
// @Router /api/game/{gameId}/stream [get]
func (sr *StreamRoutes) handleStream(w http.ResponseWriter, r *http.Request) {
	gameID := core.GameID(r.PathValue("gameId"))
	sr.stream.Serve(w, r, gameID)
}
