package server

import (
	"net/http"
	"runtime"
	"time"
)

type healthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
	Store     string `json:"store"`
	RateLimit string `json:"rate_limit"`
	Retention string `json:"retention"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	storeStatus := "unavailable"
	if s.store != nil {
		storeStatus = "sqlite"
	}
	retentionStatus := "disabled"
	if s.pruner != nil {
		retentionStatus = "enabled"
	}
	rateStatus := "disabled"
	if s.limiter != nil {
		rateStatus = "enabled"
	}

	respondOK(w, reqID, healthResponse{
		Status:    "healthy",
		Version:   "0.1.0",
		GoVersion: runtime.Version(),
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
		Store:     storeStatus,
		RateLimit: rateStatus,
		Retention: retentionStatus,
	})
}
