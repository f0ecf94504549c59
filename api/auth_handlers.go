package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/OpNop/TINY-API/cache"
	"github.com/OpNop/TINY-API/service"
)

const refreshCookieName = "refresh_token"

type loginRequest struct {
	Token string `json:"token"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, fmt.Errorf("%w: invalid request body", service.ErrBadRequest))
		return
	}

	result, err := s.auth.Login(r.Context(), req.Token)
	if err != nil {
		respondError(w, err)
		return
	}

	s.setRefreshCookie(w, result.RefreshToken)
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		respondError(w, fmt.Errorf("%w: missing refresh cookie", service.ErrBadRequest))
		return
	}

	result, err := s.auth.Refresh(r.Context(), cookie.Value)
	if err != nil {
		respondError(w, err)
		return
	}

	s.setRefreshCookie(w, result.RefreshToken)
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) setRefreshCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     "/",
		Domain:   s.cookieDomain,
		MaxAge:   int(cache.RefreshTokenTTL.Seconds()),
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	})
}
