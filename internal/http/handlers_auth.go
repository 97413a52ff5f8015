package http

import (
	"net/http"

	"github.com/Ad2m1109/Spendora/internal/auth"
	"github.com/Ad2m1109/Spendora/internal/log"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type profileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, log.OpRegister, err)
		return
	}
	id, err := s.svc.Users.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondError(w, r, log.OpRegister, err)
		return
	}
	writeJSON(w, http.StatusCreated, struct {
		Message string `json:"message"`
		UserID  int64  `json:"userId"`
	}{"User registered successfully", id})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, log.OpLogin, err)
		return
	}
	token, u, err := s.svc.Users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, r, log.OpLogin, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Token string       `json:"token"`
		User  userResponse `json:"user"`
	}{token, toUser(u)})
}

func (s *Server) handleCheckUserExists(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, log.OpRead, err)
		return
	}
	ok, err := s.svc.Users.Exists(r.Context(), req.Email)
	if err != nil {
		respondError(w, r, log.OpRead, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"exists": ok})
}

// selfOnly resolves the {id} path parameter and rejects tokens issued to
// another user.
func selfOnly(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, log.OpRead, err)
		return 0, false
	}
	caller, ok := auth.UserIDFromContext(r.Context())
	if !ok || caller != id {
		writeError(w, http.StatusForbidden, "forbidden")
		return 0, false
	}
	return id, true
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := selfOnly(w, r)
	if !ok {
		return
	}
	u, err := s.svc.Users.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, log.OpRead, err)
		return
	}
	writeJSON(w, http.StatusOK, toUser(u))
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := selfOnly(w, r)
	if !ok {
		return
	}
	var req profileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, log.OpUpdate, err)
		return
	}
	n, err := s.svc.Users.UpdateProfile(r.Context(), id, req.Name, req.Email)
	if err != nil {
		respondError(w, r, log.OpUpdate, err)
		return
	}
	respondAffected(w, n, "User updated successfully", "User not found")
}
