package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/OpNop/TINY-API/models"
	"github.com/OpNop/TINY-API/service"
)

func (s *Server) handleBanList(w http.ResponseWriter, r *http.Request) {
	bans, err := s.members.ListBans(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	if bans == nil {
		bans = []*models.Ban{}
	}
	respondJSON(w, http.StatusOK, bans)
}

func (s *Server) handleMemberSearch(w http.ResponseWriter, r *http.Request) {
	account := r.URL.Query().Get("account")
	if account == "" {
		respondJSON(w, http.StatusOK, []*models.Member{})
		return
	}

	results, err := s.members.Search(r.Context(), account)
	if err != nil {
		respondError(w, err)
		return
	}
	if results == nil {
		results = []*models.Member{}
	}
	respondJSON(w, http.StatusOK, results)
}

// handleSearch is the global member search mounted at /search.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		respondError(w, fmt.Errorf("%w: missing query", service.ErrBadRequest))
		return
	}

	results, err := s.members.Search(r.Context(), q)
	if err != nil {
		respondError(w, err)
		return
	}
	if results == nil {
		results = []*models.Member{}
	}
	respondJSON(w, http.StatusOK, results)
}

func (s *Server) handleMemberProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.members.GetProfile(r.Context(), chi.URLParam(r, "account"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

type setKeyRequest struct {
	Key string `json:"key"`
}

func (s *Server) handleSetKey(w http.ResponseWriter, r *http.Request) {
	var req setKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Key == "" {
		respondError(w, fmt.Errorf("%w: an account and api key are required", service.ErrBadRequest))
		return
	}

	if err := s.members.SetKey(r.Context(), chi.URLParam(r, "account"), req.Key); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, true)
}

type memberUpdateRequest struct {
	Account string                 `json:"account"`
	Fields  map[string]interface{} `json:"fields"`
}

func (s *Server) handleMemberUpdate(w http.ResponseWriter, r *http.Request) {
	var req memberUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Account == "" {
		respondError(w, fmt.Errorf("%w: an account is required", service.ErrBadRequest))
		return
	}

	if err := s.members.Update(r.Context(), req.Account, req.Fields); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, true)
}

func (s *Server) handleGetDiscord(w http.ResponseWriter, r *http.Request) {
	link, err := s.members.GetDiscord(r.Context(), chi.URLParam(r, "account"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, link)
}

type setDiscordRequest struct {
	Discord string `json:"discord"`
}

func (s *Server) handleSetDiscord(w http.ResponseWriter, r *http.Request) {
	var req setDiscordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, fmt.Errorf("%w: invalid request body", service.ErrBadRequest))
		return
	}

	account := chi.URLParam(r, "account")
	err := s.members.Update(r.Context(), account, map[string]interface{}{"discord": req.Discord})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, true)
}

func (s *Server) handleNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := s.members.ListNotes(r.Context(), chi.URLParam(r, "account"), queryInt(r, "limit", 0))
	if err != nil {
		respondError(w, err)
		return
	}
	if notes == nil {
		notes = []*models.Note{}
	}
	respondJSON(w, http.StatusOK, notes)
}

type addNoteRequest struct {
	Message string `json:"message"`
}

func (s *Server) handleAddNote(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())
	if session == nil {
		respondError(w, fmt.Errorf("%w: notes require a member session", service.ErrBadRequest))
		return
	}

	var req addNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, fmt.Errorf("%w: invalid request body", service.ErrBadRequest))
		return
	}

	account := chi.URLParam(r, "account")
	if _, err := s.members.AddNote(r.Context(), account, session.Account, req.Message); err != nil {
		respondError(w, err)
		return
	}

	// Mirror the read endpoint: return the refreshed note list
	notes, err := s.members.ListNotes(r.Context(), account, 0)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, notes)
}
