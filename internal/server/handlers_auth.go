package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/heraheo/JuniFit-sub000/internal/auth"
	"github.com/heraheo/JuniFit-sub000/internal/storage"
)

type registerRequest struct {
	Login       string `json:"login"`
	DisplayName string `json:"displayName"`
	Password    string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	req.Login = strings.TrimSpace(req.Login)
	if req.Login == "" || len(req.Password) < 8 {
		writeError(w, http.StatusBadRequest, "login required and password must be at least 8 characters")
		return
	}
	if req.DisplayName == "" {
		req.DisplayName = req.Login
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.log.Error("hashing password", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	profile, err := s.db.CreateProfile(r.Context(), req.Login, req.DisplayName, hash)
	if err != nil {
		if errors.Is(err, storage.ErrLoginTaken) {
			writeError(w, http.StatusConflict, "login already taken")
			return
		}
		s.log.Error("creating profile", "login", req.Login, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, profile)
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	token, profile, err := s.auth.Login(r.Context(), req.Login, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrBadCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid login or password")
			return
		}
		s.log.Error("login", "login", req.Login, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]any{"token": token, "profile": profile})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token := requestToken(r); token != "" {
		if err := s.auth.Logout(r.Context(), token); err != nil {
			s.log.Warn("logout", "error", err)
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	profile, ok := ProfileFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
