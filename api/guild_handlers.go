package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/OpNop/TINY-API/models"
)

func (s *Server) handleGuildLogs(w http.ResponseWriter, r *http.Request) {
	filter := models.LogFilter{
		GuildID: chi.URLParam(r, "guild"),
		Type:    r.URL.Query().Get("type"),
		Page:    queryInt(r, "page", 1),
		Limit:   queryInt(r, "limit", 0),
	}

	page, err := s.guilds.ListLogs(r.Context(), filter)
	if err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("X-Page-Size", strconv.Itoa(page.PageSize))
	w.Header().Set("X-Result-Count", strconv.Itoa(len(page.Entries)))
	w.Header().Set("X-Page-Total", fmt.Sprintf("%d", page.PageTotal))
	w.Header().Set("X-Result-Total", fmt.Sprintf("%d", page.Total))

	if page.Entries == nil {
		page.Entries = []*models.LogEntry{}
	}
	respondJSON(w, http.StatusOK, page.Entries)
}

func (s *Server) handleGuildDetails(w http.ResponseWriter, r *http.Request) {
	details, err := s.guilds.Details(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, details)
}

func (s *Server) handleGuildStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.guilds.Stats(r.Context(), queryInt(r, "limit", 0))
	if err != nil {
		respondError(w, err)
		return
	}
	if stats == nil {
		stats = []*models.GuildStat{}
	}
	respondJSON(w, http.StatusOK, stats)
}

func (s *Server) handleGuildRoster(w http.ResponseWriter, r *http.Request) {
	roster, err := s.guilds.Roster(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, roster)
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
