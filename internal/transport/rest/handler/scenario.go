package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"emtsim/internal/model"
	"emtsim/internal/service"
	"emtsim/internal/transport/rest/middleware"
)

// ScenarioHandler handles catalogue browsing and encounter creation
type ScenarioHandler struct {
	scenarioSvc *service.ScenarioService
}

// NewScenarioHandler creates a new scenario handler
func NewScenarioHandler(scenarioSvc *service.ScenarioService) *ScenarioHandler {
	return &ScenarioHandler{scenarioSvc: scenarioSvc}
}

// List handles GET /api/scenarios
func (h *ScenarioHandler) List(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	difficulty := r.URL.Query().Get("difficulty")

	scenarios, err := h.scenarioSvc.ListScenarios(r.Context(), category, difficulty)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if scenarios == nil {
		scenarios = []*model.Scenario{}
	}

	writeJSON(w, http.StatusOK, scenarios)
}

// Start handles POST /api/scenarios/start
func (h *ScenarioHandler) Start(w http.ResponseWriter, r *http.Request) {
	traineeID := middleware.GetTraineeID(r.Context())
	if traineeID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req model.StartScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.scenarioSvc.Start(r.Context(), traineeID, req, time.Now())
	if err != nil {
		if errors.Is(err, service.ErrScenarioNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}
