package http

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/Ad2m1109/Spendora/internal/core"
	"github.com/Ad2m1109/Spendora/internal/log"
)

type goalRequest struct {
	UserID        int64            `json:"userId"`
	GoalName      string           `json:"goalName"`
	TargetAmount  *decimal.Decimal `json:"targetAmount"`
	CurrentAmount *decimal.Decimal `json:"currentAmount"`
	CategoryID    int64            `json:"categoryId"`
}

type goalProgressRequest struct {
	CurrentAmount *decimal.Decimal `json:"currentAmount"`
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, log.OpCreate, err)
		return
	}
	id, err := s.svc.Goals.Create(r.Context(), core.GoalDraft{
		UserID:     req.UserID,
		Name:       req.GoalName,
		Target:     req.TargetAmount,
		Current:    req.CurrentAmount,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		respondError(w, r, log.OpCreate, err)
		return
	}
	writeJSON(w, http.StatusCreated, createdResponse{Message: "Goal created successfully", ID: id})
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	userID, err := queryUserID(r)
	if err != nil {
		respondError(w, r, log.OpList, err)
		return
	}
	items, err := s.svc.Goals.ListByUser(r.Context(), userID)
	if err != nil {
		respondError(w, r, log.OpList, err)
		return
	}
	writeJSON(w, http.StatusOK, toGoals(items))
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, log.OpUpdate, err)
		return
	}
	var req goalProgressRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, log.OpUpdate, err)
		return
	}
	n, err := s.svc.Goals.UpdateProgress(r.Context(), id, req.CurrentAmount)
	if err != nil {
		respondError(w, r, log.OpUpdate, err)
		return
	}
	respondAffected(w, n, "Goal updated successfully", "Goal not found")
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, log.OpDelete, err)
		return
	}
	n, err := s.svc.Goals.Delete(r.Context(), id)
	if err != nil {
		respondError(w, r, log.OpDelete, err)
		return
	}
	respondAffected(w, n, "Goal deleted successfully", "Goal not found")
}

func (s *Server) handleReconcileGoal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, log.OpReconcile, err)
		return
	}
	g, err := s.svc.Goals.Reconcile(r.Context(), id)
	if err != nil {
		respondError(w, r, log.OpReconcile, err)
		return
	}
	writeJSON(w, http.StatusOK, toGoal(g))
}
