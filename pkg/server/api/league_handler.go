package api

import (
	"net/http"
)

func (s *Server) getDrivers(w http.ResponseWriter, r *http.Request) {
	data, err := s.league.Drivers(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

// getAvailableDrivers filters by the user given in the query (?user=) if present
func (s *Server) getAvailableDrivers(w http.ResponseWriter, r *http.Request) {
	data, err := s.league.AvailableDrivers(r.Context(), r.URL.Query().Get("user"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (s *Server) getTeams(w http.ResponseWriter, r *http.Request) {
	data, err := s.league.Teams(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (s *Server) getAvailableTeams(w http.ResponseWriter, r *http.Request) {
	data, err := s.league.AvailableTeams(r.Context(), r.URL.Query().Get("user"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (s *Server) getAvailableBonuses(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.league.Bonuses())
}

func (s *Server) getLeaderboard(w http.ResponseWriter, r *http.Request) {
	data, err := s.league.Leaderboard(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (s *Server) getRaces(w http.ResponseWriter, r *http.Request) {
	data, err := s.settlement.Races(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}
