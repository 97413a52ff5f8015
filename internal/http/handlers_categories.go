package http

import (
	"net/http"

	"github.com/Ad2m1109/Spendora/internal/log"
)

type categoryRequest struct {
	CategoryName string `json:"categoryName"`
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	items, err := s.svc.Categories.ListAll(r.Context())
	if err != nil {
		respondError(w, r, log.OpList, err)
		return
	}
	writeJSON(w, http.StatusOK, toCategories(items))
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, log.OpCreate, err)
		return
	}
	id, err := s.svc.Categories.Create(r.Context(), req.CategoryName)
	if err != nil {
		respondError(w, r, log.OpCreate, err)
		return
	}
	writeJSON(w, http.StatusCreated, createdResponse{Message: "Category created successfully", ID: id})
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, log.OpRead, err)
		return
	}
	c, err := s.svc.Categories.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, log.OpRead, err)
		return
	}
	writeJSON(w, http.StatusOK, categoryResponse{ID: c.ID, CategoryName: c.Name})
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, log.OpDelete, err)
		return
	}
	n, err := s.svc.Categories.Delete(r.Context(), id)
	if err != nil {
		respondError(w, r, log.OpDelete, err)
		return
	}
	respondAffected(w, n, "Category deleted successfully", "Category not found")
}
