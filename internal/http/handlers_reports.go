package http

import (
	"net/http"

	"github.com/Ad2m1109/Spendora/internal/log"
)

type reportRequest struct {
	UserID        int64  `json:"userId"`
	ReportType    string `json:"reportType"`
	GeneratedDate string `json:"generatedDate"`
}

func (s *Server) handleCreateReport(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, log.OpCreate, err)
		return
	}
	id, err := s.svc.Reports.Create(r.Context(), req.UserID, req.ReportType, req.GeneratedDate)
	if err != nil {
		respondError(w, r, log.OpCreate, err)
		return
	}
	writeJSON(w, http.StatusCreated, createdResponse{Message: "Report generated successfully", ID: id})
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	userID, err := queryUserID(r)
	if err != nil {
		respondError(w, r, log.OpList, err)
		return
	}
	items, err := s.svc.Reports.ListByUser(r.Context(), userID)
	if err != nil {
		respondError(w, r, log.OpList, err)
		return
	}
	writeJSON(w, http.StatusOK, toReports(items))
}
