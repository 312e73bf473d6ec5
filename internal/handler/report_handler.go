package handler

import (
	"net/http"

	"account-records/internal/report"
)

type ReportHandler struct {
	generator *report.Generator
}

func NewReportHandler(generator *report.Generator) *ReportHandler {
	return &ReportHandler{generator: generator}
}

// AccountReport streams the plain-text account listing.
func (h *ReportHandler) AccountReport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := h.generator.Write(w); err != nil {
		writeServiceError(w, err)
	}
}
