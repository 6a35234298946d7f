package server

import "net/http"

type endpointInfo struct {
	Path        string   `json:"path"`
	Methods     []string `json:"methods"`
	Description string   `json:"description"`
}

type discoveryResponse struct {
	Name        string         `json:"name"`
	Version     string         `json:"version"`
	Description string         `json:"description"`
	Modes       []string       `json:"modes"`
	Endpoints   []endpointInfo `json:"endpoints"`
}

func (s *Server) handleDiscovery(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	respondOK(w, reqID, discoveryResponse{
		Name:        "scoop API",
		Version:     "v1",
		Description: "Ice cream production scheduling simulator (FCFS and Round Robin)",
		Modes:       []string{"FCFS", "ROUND_ROBIN"},
		Endpoints: []endpointInfo{
			{"/api/v1/simulations", []string{"GET", "POST"}, "Run a simulation (POST) or list stored runs (GET, ?mode=&limit=&offset=)"},
			{"/api/v1/simulations/{id}", []string{"GET", "DELETE"}, "Single run with events and summary"},
			{"/api/v1/simulations/{id}/events", []string{"GET"}, "Event stream of a run in order"},
			{"/api/v1/health", []string{"GET"}, "Server health and version"},
		},
	})
}
