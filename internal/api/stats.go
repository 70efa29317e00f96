package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"demodash/internal/aggregate"
	"demodash/internal/match"
)

// loadFiltered loads every match and applies the optional ?map= filter.
func (s *Server) loadFiltered(r *http.Request) ([]match.Match, error) {
	matches, err := s.matches.GetAllMatches(r.Context())
	if err != nil {
		return nil, err
	}
	if name := r.URL.Query().Get("map"); name != "" {
		matches = aggregate.FilterByMap(matches, name)
	}
	return matches, nil
}

// handleMeta lists the distinct maps and teams, for populating filters.
func (s *Server) handleMeta(w http.ResponseWriter, r *http.Request) {
	matches, err := s.matches.GetAllMatches(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "load matches")
		return
	}
	WriteJSON(w, http.StatusOK, map[string][]string{
		"maps":  aggregate.MapNames(matches),
		"teams": aggregate.TeamNames(matches),
	})
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	matches, err := s.loadFiltered(r)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "load matches")
		return
	}
	WriteJSON(w, http.StatusOK, aggregate.ComputeOverview(matches))
}

type teamStatsResponse struct {
	aggregate.TeamStats
	WinRate       float64 `json:"winRate"`
	PistolWinRate float64 `json:"pistolWinRate"`
	PlantRate     float64 `json:"plantRate"`
	DefuseRate    float64 `json:"defuseRate"`
	AvgKills      float64 `json:"avgKills"`
}

func (s *Server) handleTeamStats(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	matches, err := s.loadFiltered(r)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "load matches")
		return
	}
	stats := aggregate.ComputeTeamStats(matches, name)
	if stats.MatchesPlayed == 0 {
		WriteError(w, http.StatusNotFound, "no matches for team")
		return
	}
	WriteJSON(w, http.StatusOK, teamStatsResponse{
		TeamStats:     stats,
		WinRate:       stats.WinRate(),
		PistolWinRate: stats.PistolWinRate(),
		PlantRate:     stats.PlantRate(),
		DefuseRate:    stats.DefuseRate(),
		AvgKills:      stats.AvgKills(),
	})
}

func (s *Server) handleComparison(w http.ResponseWriter, r *http.Request) {
	teamA := r.URL.Query().Get("teamA")
	teamB := r.URL.Query().Get("teamB")
	if teamA == "" || teamB == "" {
		WriteError(w, http.StatusBadRequest, "teamA and teamB query parameters are required")
		return
	}
	matches, err := s.loadFiltered(r)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "load matches")
		return
	}
	WriteJSON(w, http.StatusOK, aggregate.ComputeComparison(matches, teamA, teamB))
}

func (s *Server) handleLeaderboards(w http.ResponseWriter, r *http.Request) {
	matches, err := s.loadFiltered(r)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "load matches")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"maps":   aggregate.TopMaps(matches),
		"rounds": aggregate.TopRounds(matches),
	})
}

func (s *Server) handleMissingRounds(w http.ResponseWriter, r *http.Request) {
	matches, err := s.matches.MatchesMissingRounds(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "load matches")
		return
	}
	summaries := make([]matchSummary, 0, len(matches))
	for _, m := range matches {
		summaries = append(summaries, summarize(m))
	}
	WriteJSON(w, http.StatusOK, summaries)
}
