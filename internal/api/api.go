package api

import "net/http"

// Anything that can add its endpoints to a mux.
type Registrar interface {
	RegisterRoutes(mux *http.ServeMux)
}

// ErrorResponse is the JSON body for any non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}
