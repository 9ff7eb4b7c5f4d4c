package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"emtsim/internal/model"
	"emtsim/internal/patient"
	"emtsim/internal/service"

	"github.com/gorilla/mux"
)

// SessionHandler handles the in-encounter message loop and session reads
type SessionHandler struct {
	scenarioSvc  *service.ScenarioService
	encounterSvc *service.EncounterService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(scenarioSvc *service.ScenarioService, encounterSvc *service.EncounterService) *SessionHandler {
	return &SessionHandler{
		scenarioSvc:  scenarioSvc,
		encounterSvc: encounterSvc,
	}
}

// SessionVitalsResponse is the live vitals readout for observers
type SessionVitalsResponse struct {
	Vitals           model.VitalsSnapshot     `json:"vitals"`
	Consciousness    model.ConsciousnessLevel `json:"consciousness"`
	ElapsedMinutes   float64                  `json:"elapsedMinutes"`
	RemainingSeconds int                      `json:"remainingSeconds"`
}

// Get handles GET /api/sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	session, err := h.scenarioSvc.GetSession(r.Context(), id)
	if err != nil {
		writeSessionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

// Vitals handles GET /api/sessions/{id}/vitals
func (h *SessionHandler) Vitals(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	session, err := h.scenarioSvc.GetSession(r.Context(), id)
	if err != nil {
		writeSessionError(w, err)
		return
	}

	now := time.Now()
	sim := patient.New(session)
	writeJSON(w, http.StatusOK, SessionVitalsResponse{
		Vitals:           session.CurrentVitals(),
		Consciousness:    session.Consciousness,
		ElapsedMinutes:   session.ElapsedMinutes(now),
		RemainingSeconds: int(sim.RemainingTime(now).Seconds()),
	})
}

// Message handles POST /api/sessions/{id}/message
func (h *SessionHandler) Message(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req model.MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	update, err := h.encounterSvc.ProcessMessage(r.Context(), id, req.Text, time.Now())
	if err != nil {
		writeSessionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, update)
}

// End handles POST /api/sessions/{id}/end
func (h *SessionHandler) End(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	update, err := h.encounterSvc.EndSession(r.Context(), id, time.Now())
	if err != nil {
		writeSessionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, update)
}

// writeSessionError maps session lookup and lifecycle errors onto HTTP codes
func writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrSessionEnded):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrReportNotReady):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, model.ErrExamNotStarted),
		errors.Is(err, model.ErrExamAlreadyStarted),
		errors.Is(err, model.ErrExamComplete):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
