package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"emtsim/internal/model"
	"emtsim/internal/service"

	"github.com/gorilla/mux"
)

// ExamHandler handles the focused-exam question rounds
type ExamHandler struct {
	examSvc *service.ExamService
}

// NewExamHandler creates a new exam handler
func NewExamHandler(examSvc *service.ExamService) *ExamHandler {
	return &ExamHandler{examSvc: examSvc}
}

// Start handles POST /api/sessions/{id}/exam/start
func (h *ExamHandler) Start(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	resp, err := h.examSvc.Start(r.Context(), id)
	if err != nil {
		writeSessionError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// Answer handles POST /api/sessions/{id}/exam/answer
func (h *ExamHandler) Answer(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req model.ExamAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	resp, err := h.examSvc.Answer(r.Context(), id, req.Text)
	if err != nil {
		writeSessionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
