package httpserver

import (
	"net/http"

	"github.com/eklimov/taskdeck/internal/errs"
	"github.com/eklimov/taskdeck/internal/model"
)

// authEnvelope is the success shape for token-issuing endpoints. The user's
// credential material is excluded by the model's JSON tags.
type authEnvelope struct {
	Success bool        `json:"success"`
	Token   string      `json:"token"`
	Data    *model.User `json:"data"`
}

func (s *Server) respondToken(w http.ResponseWriter, status int, u *model.User, tok string) {
	s.setTokenCookie(w, tok)
	writeJSON(w, status, authEnvelope{Success: true, Token: tok, Data: u})
}

type credentialsReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsReq
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	u, tok, err := s.auth.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondToken(w, http.StatusCreated, u, tok)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsReq
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	u, tok, err := s.auth.Login(r.Context(), req.Username, req.Password, r.RemoteAddr)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondToken(w, http.StatusOK, u, tok)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFromCtx(r.Context())
	if !ok {
		s.respondError(w, r, errs.ErrUnauthorized)
		return
	}
	respondData(w, http.StatusOK, u)
}

// handleLogout clears the client-held cookie. Stateless tokens cannot be
// revoked server-side; a still-held bearer token stays valid until expiry or
// the next password change.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.clearTokenCookie(w)
	respondData(w, http.StatusOK, struct{}{})
}

type updateDetailsReq struct {
	Username string `json:"username"`
}

func (s *Server) handleUpdateDetails(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFromCtx(r.Context())
	if !ok {
		s.respondError(w, r, errs.ErrUnauthorized)
		return
	}
	var req updateDetailsReq
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	upd, err := s.auth.UpdateDetails(r.Context(), u.ID, req.Username)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, upd)
}

type updatePasswordReq struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (s *Server) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFromCtx(r.Context())
	if !ok {
		s.respondError(w, r, errs.ErrUnauthorized)
		return
	}
	var req updatePasswordReq
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	upd, tok, err := s.auth.UpdatePassword(r.Context(), u.ID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	// the fresh token keeps the caller logged in past the invalidation
	s.respondToken(w, http.StatusOK, upd, tok)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.auth.ListUsers(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondList(w, http.StatusOK, users, len(users))
}
