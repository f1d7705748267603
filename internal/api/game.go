package api

import (
	"net/http"
	"time"

	"gridblitz.dev/platform/internal/cache"
	"gridblitz.dev/platform/internal/core"
)

// currentGameCacheTTL is short: this endpoint reflects live broadcast
// progress and every tick or play emission can change it.
const currentGameCacheTTL = 5 * time.Second

// GameRoutes serves the read-only game endpoints spec.md §6 names:
// the current-game summary and a single game's full record.
type GameRoutes struct {
	games   core.GameRepository
	seasons core.SeasonRepository
	cache   *cache.Client
}

func NewGameRoutes(games core.GameRepository, seasons core.SeasonRepository, cacheClient *cache.Client) *GameRoutes {
	return &GameRoutes{games: games, seasons: seasons, cache: cacheClient}
}

func (gr *GameRoutes) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/game/current", gr.handleCurrentGame)
	mux.HandleFunc("GET /api/game/{gameId}", gr.handleGetGame)
}

// handleGetGame godoc
// @Summary Get a game
// @Description serverSeed stays null until the game is completed; homeScore/awayScore stay null while not completed to avoid spoilers.
// @Tags game
// @Produce json
// @Param gameId path string true "Game ID"
// @Success 200 {object} core.Game
// @Failure 404 {object} ErrorResponse
// @Router /api/game/{gameId} [get]
func (gr *GameRoutes) handleGetGame(w http.ResponseWriter, r *http.Request) {
	id := core.GameID(r.PathValue("gameId"))

	game, err := gr.games.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, maskUnrevealed(game))
}

// maskUnrevealed hides the final score and server seed until a game
// reaches GameStatusCompleted, so a mid-broadcast poll can't spoil the
// outcome the SSE stream is still pacing out.
func maskUnrevealed(g *core.Game) *core.Game {
	if g == nil || g.Status == core.GameStatusCompleted {
		return g
	}
	masked := *g
	masked.HomeScore = nil
	masked.AwayScore = nil
	masked.ServerSeed = nil
	return &masked
}

// WeekProgress reports how many of the current week's games have
// finished.
type WeekProgress struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// CurrentGameResponse is the body of GET /api/game/current.
type CurrentGameResponse struct {
	CurrentGame  *core.Game          `json:"currentGame"`
	NextGame     *core.Game          `json:"nextGame"`
	SeasonStatus core.SeasonStatus   `json:"seasonStatus"`
	CurrentWeek  int                 `json:"currentWeek"`
	SeasonNumber int                 `json:"seasonNumber"`
	WeekProgress WeekProgress        `json:"weekProgress"`
}

// handleCurrentGame godoc
// @Summary Current broadcast and week progress
// @Tags game
// @Produce json
// @Success 200 {object} CurrentGameResponse
// @Router /api/game/current [get]
func (gr *GameRoutes) handleCurrentGame(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cacheKey := ""
	if gr.cache != nil {
		cacheKey = gr.cache.EntityKey("current-game", "singleton")
		var cached CurrentGameResponse
		if gr.cache.Get(ctx, cacheKey, &cached) {
			writeJSON(w, http.StatusOK, cached)
			return
		}
	}

	active, err := gr.seasons.GetActive(ctx)
	if err != nil {
		if core.IsNotFound(err) {
			writeJSON(w, http.StatusOK, CurrentGameResponse{SeasonStatus: core.SeasonStatusOffseason})
			return
		}
		writeError(w, err)
		return
	}

	weekGames, err := gr.games.List(ctx, core.GameFilter{SeasonID: active.ID, Week: active.CurrentWeek})
	if err != nil {
		writeError(w, err)
		return
	}

	resp := CurrentGameResponse{
		SeasonStatus: active.Status,
		CurrentWeek:  active.CurrentWeek,
		SeasonNumber: active.SeasonNumber,
	}
	resp.WeekProgress.Total = len(weekGames)

	var current, next *core.Game
	for i := range weekGames {
		g := weekGames[i]
		switch g.Status {
		case core.GameStatusCompleted:
			resp.WeekProgress.Completed++
		case core.GameStatusBroadcasting, core.GameStatusSimulating:
			if current == nil {
				current = &weekGames[i]
			}
		case core.GameStatusScheduled:
			if next == nil || g.ID < next.ID {
				next = &weekGames[i]
			}
		}
	}
	resp.CurrentGame = maskUnrevealed(current)
	resp.NextGame = maskUnrevealed(next)

	if gr.cache != nil {
		_ = gr.cache.Set(ctx, cacheKey, resp, currentGameCacheTTL)
	}
	writeJSON(w, http.StatusOK, resp)
}
