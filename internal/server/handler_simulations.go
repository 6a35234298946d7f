package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/me/scoop/internal/scheduler"
	"github.com/me/scoop/pkg/model"
)

type createSimulationRequest struct {
	Label   string          `json:"label"`
	Mode    string          `json:"mode"`
	Quantum int             `json:"quantum"`
	Jobs    []model.JobSpec `json:"jobs"`
}

func (s *Server) handleCreateSimulation(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	if s.config.MaxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes)
	}

	var req createSimulationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, reqID, http.StatusRequestEntityTooLarge, &model.APIError{
				Code:    model.ErrValidation,
				Message: fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit),
			})
			return
		}
		respondError(w, reqID, http.StatusBadRequest, &model.APIError{
			Code:    model.ErrValidation,
			Message: "Invalid JSON body: " + err.Error(),
		})
		return
	}

	if req.Mode == "" {
		respondError(w, reqID, http.StatusBadRequest,
			model.NewValidationError("missing required field",
				model.FieldError{Field: "mode", Message: "mode is required"}))
		return
	}
	mode, err := model.ParseMode(req.Mode)
	if err != nil {
		respondConfigError(w, reqID, err)
		return
	}

	if s.config.MaxJobs > 0 && len(req.Jobs) > s.config.MaxJobs {
		respondError(w, reqID, http.StatusBadRequest,
			model.NewValidationError("too many jobs",
				model.FieldError{
					Field:   "jobs",
					Value:   strconv.Itoa(len(req.Jobs)),
					Message: fmt.Sprintf("at most %d jobs per simulation", s.config.MaxJobs),
				}))
		return
	}

	slices, err := scheduler.EstimateSlices(req.Jobs, mode, req.Quantum)
	if err != nil {
		respondConfigError(w, reqID, err)
		return
	}
	if s.config.MaxSlices > 0 && slices > s.config.MaxSlices {
		respondError(w, reqID, http.StatusBadRequest,
			model.NewValidationError("simulation too large",
				model.FieldError{
					Field:   "jobs",
					Value:   strconv.Itoa(slices),
					Message: fmt.Sprintf("simulation would take more than %d slices; raise the quantum or shorten durations", s.config.MaxSlices),
				}))
		return
	}

	run, err := scheduler.Execute(req.Jobs, mode, req.Quantum, s.logger, nil)
	if err != nil {
		if model.IsConfigError(err) {
			respondConfigError(w, reqID, err)
			return
		}
		respondInternal(w, reqID, err)
		return
	}
	run.Label = req.Label

	if err := s.store.CreateRun(r.Context(), run); err != nil {
		respondInternal(w, reqID, err)
		return
	}

	s.logger.Info("simulation created", "id", run.ID, "mode", run.Mode, "jobs", len(run.Jobs), "events", len(run.Events))
	respondCreated(w, reqID, run)
}

func (s *Server) handleListSimulations(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	opts, apiErr := listOptionsFromQuery(r)
	if apiErr != nil {
		respondError(w, reqID, http.StatusBadRequest, apiErr)
		return
	}

	runs, total, err := s.store.ListRuns(r.Context(), opts)
	if err != nil {
		respondInternal(w, reqID, err)
		return
	}
	if runs == nil {
		runs = []*model.Run{}
	}

	respondList(w, reqID, runs, model.NewPagination(opts, len(runs), total))
}

func (s *Server) handleGetSimulation(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	run, err := s.store.GetRun(r.Context(), id)
	if err != nil {
		respondInternal(w, reqID, err)
		return
	}
	if run == nil {
		respondError(w, reqID, http.StatusNotFound, model.NewNotFoundError("simulation", id))
		return
	}

	respondOK(w, reqID, run)
}

func (s *Server) handleDeleteSimulation(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	run, err := s.store.GetRun(r.Context(), id)
	if err != nil {
		respondInternal(w, reqID, err)
		return
	}
	if run == nil {
		respondError(w, reqID, http.StatusNotFound, model.NewNotFoundError("simulation", id))
		return
	}
	if err := s.store.DeleteRun(r.Context(), id); err != nil {
		respondInternal(w, reqID, err)
		return
	}

	s.logger.Info("simulation deleted", "id", id)
	respondOK(w, reqID, map[string]any{"deleted": true})
}

func (s *Server) handleListSimulationEvents(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	run, err := s.store.GetRun(r.Context(), id)
	if err != nil {
		respondInternal(w, reqID, err)
		return
	}
	if run == nil {
		respondError(w, reqID, http.StatusNotFound, model.NewNotFoundError("simulation", id))
		return
	}

	events := run.Events
	if events == nil {
		events = []model.Event{}
	}
	respondOK(w, reqID, events)
}

// listOptionsFromQuery reads limit, offset and mode from the query string.
func listOptionsFromQuery(r *http.Request) (model.ListOptions, *model.APIError) {
	opts := model.DefaultListOptions()
	q := r.URL.Query()

	for _, p := range []struct {
		name string
		dst  *int
	}{
		{"limit", &opts.Limit},
		{"offset", &opts.Offset},
	} {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return opts, model.NewValidationError("invalid query parameter",
				model.FieldError{Field: p.name, Value: raw, Message: "must be an integer"})
		}
		*p.dst = n
	}

	if raw := q.Get("mode"); raw != "" {
		mode, err := model.ParseMode(raw)
		if err != nil {
			return opts, configErrorToAPI(err)
		}
		opts.Mode = mode
	}

	opts.Clamp()
	return opts, nil
}
