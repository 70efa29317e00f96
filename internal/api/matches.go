package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"demodash/internal/aggregate"
	"demodash/internal/db"
	"demodash/internal/match"
)

// matchSummary is the list-view shape: header fields plus both the stored
// and the round-derived scores.
type matchSummary struct {
	ID            uuid.UUID `json:"id"`
	MapName       string    `json:"mapName"`
	Date          string    `json:"date"`
	Tournament    string    `json:"tournament,omitempty"`
	TeamA         teamView  `json:"teamA"`
	TeamB         teamView  `json:"teamB"`
	Rounds        int       `json:"rounds"`
	Winner        string    `json:"winner"`
	DerivedScoreA int       `json:"derivedScoreA"`
	DerivedScoreB int       `json:"derivedScoreB"`
}

type teamView struct {
	Name         string     `json:"name"`
	StartingSide match.Side `json:"startingSide"`
	Score        int        `json:"score"`
	Logo         string     `json:"logo,omitempty"`
}

func summarize(m match.Match) matchSummary {
	da, dbScore := m.DerivedScores()
	return matchSummary{
		ID:         m.ID,
		MapName:    m.MapName,
		Date:       m.Date,
		Tournament: m.Tournament,
		TeamA:      teamView{Name: m.TeamA.Name, StartingSide: m.TeamA.StartingSide, Score: m.TeamA.Score, Logo: m.TeamA.Logo},
		TeamB:      teamView{Name: m.TeamB.Name, StartingSide: m.TeamB.StartingSide, Score: m.TeamB.Score, Logo: m.TeamB.Logo},
		Rounds:     len(m.Rounds),
		Winner:     m.WinnerName(),

		DerivedScoreA: da,
		DerivedScoreB: dbScore,
	}
}

func (s *Server) handleListMatches(w http.ResponseWriter, r *http.Request) {
	matches, err := s.matches.GetAllMatches(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "load matches")
		return
	}
	if name := r.URL.Query().Get("map"); name != "" {
		matches = aggregate.FilterByMap(matches, name)
	}
	summaries := make([]matchSummary, 0, len(matches))
	for _, m := range matches {
		summaries = append(summaries, summarize(m))
	}
	WriteJSON(w, http.StatusOK, summaries)
}

// roundView adds each team's resolved side to the stored round.
type roundView struct {
	match.Round
	TeamASide match.Side `json:"teamASide"`
	TeamBSide match.Side `json:"teamBSide"`
}

type matchDetail struct {
	matchSummary
	Duration    string              `json:"duration"`
	TeamAHalves aggregate.HalfScore `json:"teamAHalves"`
	TeamBHalves aggregate.HalfScore `json:"teamBHalves"`
	RoundList   []roundView         `json:"roundList"`
}

func (s *Server) handleGetMatch(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid match id")
		return
	}
	m, err := s.matches.GetMatch(r.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		WriteError(w, http.StatusNotFound, "match not found")
		return
	}
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "load match")
		return
	}

	detail := matchDetail{
		matchSummary: summarize(m),
		Duration:     m.Duration,
		TeamAHalves:  aggregate.SplitHalves(m.Rounds, m.TeamA.StartingSide),
		TeamBHalves:  aggregate.SplitHalves(m.Rounds, m.TeamB.StartingSide),
	}
	for _, round := range m.Rounds {
		detail.RoundList = append(detail.RoundList, roundView{
			Round:     round,
			TeamASide: match.SideForRound(m.TeamA.StartingSide, round.Number),
			TeamBSide: match.SideForRound(m.TeamB.StartingSide, round.Number),
		})
	}
	WriteJSON(w, http.StatusOK, detail)
}

func (s *Server) handleDeleteMatch(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid match id")
		return
	}
	err = s.matches.DeleteMatch(r.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		WriteError(w, http.StatusNotFound, "match not found")
		return
	}
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "delete match")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleUpdateTeams(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid match id")
		return
	}

	var update match.TeamUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if update.Empty() {
		WriteError(w, http.StatusBadRequest, "no fields to update")
		return
	}
	if err := validateSides(update); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = s.matches.UpdateTeams(r.Context(), id, update)
	if errors.Is(err, db.ErrNotFound) {
		WriteError(w, http.StatusNotFound, "match not found")
		return
	}
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "update teams")
		return
	}

	m, err := s.matches.GetMatch(r.Context(), id)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "reload match")
		return
	}
	WriteJSON(w, http.StatusOK, summarize(m))
}

func validateSides(u match.TeamUpdate) error {
	for _, side := range []*match.Side{u.TeamASide, u.TeamBSide} {
		if side != nil && !side.Valid() {
			return errors.New("side must be CT or T")
		}
	}
	if u.TeamASide != nil && u.TeamBSide != nil && *u.TeamASide == *u.TeamBSide {
		return errors.New("teams cannot start on the same side")
	}
	return nil
}
