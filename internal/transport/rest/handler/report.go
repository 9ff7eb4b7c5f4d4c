package handler

import (
	"fmt"
	"net/http"

	"emtsim/internal/service"

	"github.com/gorilla/mux"
)

// ReportHandler serves post-encounter reports
type ReportHandler struct {
	reportSvc *service.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportSvc *service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

// Get handles GET /api/sessions/{id}/report
func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	report, err := h.reportSvc.Get(r.Context(), id)
	if err != nil {
		writeSessionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// GetPDF handles GET /api/sessions/{id}/report/pdf
func (h *ReportHandler) GetPDF(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	data, err := h.reportSvc.RenderPDF(r.Context(), id)
	if err != nil {
		writeSessionError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=encounter_%s.pdf", id))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
