// Package api provides the HTTP surface for the GridBlitz simulation
// and broadcast platform.
//
// @title GridBlitz API
// @description.markdown
// @version 1.0
// @BasePath /api
//
// @contact.name GridBlitz
//
// @license.name MPL-2.0
// @license.url https://opensource.org/license/mpl-2-0
//
// @tag.name simulate
// @tag.description Control-plane tick invocation
//
// @tag.name game
// @tag.description Game lifecycle and live broadcast
package api

import (
	_ "expvar"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"gridblitz.dev/platform/internal/broadcast"
	"gridblitz.dev/platform/internal/cache"
	"gridblitz.dev/platform/internal/core"
	"gridblitz.dev/platform/internal/season"
)

// Server is the full GridBlitz HTTP surface: one mux fed by several
// Registrars.
type Server struct {
	mux *http.ServeMux
}

// Deps are the dependencies NewServer wires into routes. cronSecret
// authorizes POST /api/simulate; an empty secret disables that route.
type Deps struct {
	Games      core.GameRepository
	Seasons    core.SeasonRepository
	Events     core.EventStore
	Cache      *cache.Client
	Controller *season.Controller
	Stream     *broadcast.Stream
	CronSecret string
}

func NewServer(deps Deps) *Server {
	return newServer(
		NewGameRoutes(deps.Games, deps.Seasons, deps.Cache),
		NewSimulateRoutes(deps.Controller, deps.CronSecret),
		NewStreamRoutes(deps.Stream),
	)
}

// newServer wires every registrar into one mux plus the fixed
// health/docs endpoints every deployment gets regardless of routes.
func newServer(registrars ...Registrar) *Server {
	mux := http.NewServeMux()

	for _, r := range registrars {
		r.RegisterRoutes(mux)
	}

	// @Summary Health check
	// @Description Check if the API server is running
	// @Tags health
	// @Produce json
	// @Success 200 {object} HealthResponse
	// @Router /health [get]
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
	})

	mux.HandleFunc("/docs/", httpSwagger.WrapHandler)
	mux.Handle("GET /debug/vars", http.DefaultServeMux)

	return &Server{mux: mux}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
