package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/OpNop/TINY-API/models"
)

func (s *Server) handleLotteryStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.lottery.Status(time.Now()))
}

func (s *Server) handleLotteryPot(w http.ResponseWriter, r *http.Request) {
	pot, err := s.lottery.GetPot(r.Context(), time.Now())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, pot)
}

func (s *Server) handleLotteryImage(w http.ResponseWriter, r *http.Request) {
	pot, err := s.lottery.GetPot(r.Context(), time.Now())
	if err != nil {
		respondError(w, err)
		return
	}

	img, err := s.banner.Render(pot.Pot, pot.Entries)
	if err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(img)
}

func (s *Server) handleLotteryTickets(w http.ResponseWriter, r *http.Request) {
	tickets, err := s.lottery.GetTickets(r.Context(), chi.URLParam(r, "account"), time.Now())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int64{"tickets": tickets})
}

func (s *Server) handleLotteryHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := s.lottery.ListEntries(r.Context(), chi.URLParam(r, "account"))
	if err != nil {
		respondError(w, err)
		return
	}
	if entries == nil {
		entries = []*models.LotteryEntry{}
	}
	respondJSON(w, http.StatusOK, entries)
}
