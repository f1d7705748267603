package api

import (
	"net/http"

	"github.com/charmbracelet/log"

	"gridblitz.dev/platform/internal/season"
)

// SimulateRoutes serves the cron-invoked tick endpoint.
type SimulateRoutes struct {
	controller *season.Controller
	cronSecret string
}

func NewSimulateRoutes(controller *season.Controller, cronSecret string) *SimulateRoutes {
	return &SimulateRoutes{controller: controller, cronSecret: cronSecret}
}

func (sr *SimulateRoutes) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/simulate", sr.handleSimulate)
}

// handleSimulate godoc
// @Summary Run one tick of the season state machine
// @Description Requires Authorization: Bearer <cronSecret>. Returns the single action the tick performed.
// @Tags simulate
// @Produce json
// @Success 200 {object} season.Result
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/simulate [post]
func (sr *SimulateRoutes) handleSimulate(w http.ResponseWriter, r *http.Request) {
	if !requireBearer(r, sr.cronSecret) {
		writeUnauthorized(w, "missing or invalid bearer token")
		return
	}

	result, err := sr.controller.Tick(r.Context())
	if err != nil {
		log.Error("tick failed", "err", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
