package api

import (
	"net/http"

	"github.com/mpapenbr/fantasyf1-service-go/pkg/model"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/permission"
)

type (
	registerRequest struct {
		Username string `json:"username"`
	}
	nameRequest struct {
		Name string `json:"name"`
	}
	bonusRequest struct {
		Target string      `json:"target"`
		Bonus  model.Bonus `json:"bonus"`
	}
)

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	reg, err := s.roster.Register(r.Context(), req.Username)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, reg)
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	if err := s.requireObjectPermission(r, permission.PermissionReadRoster, username); err != nil {
		s.writeError(w, r, err)
		return
	}
	u, err := s.roster.User(r.Context(), username)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

type rosterFunc func(r *http.Request, username string) (*model.User, error)

// manageRoster runs fn for the user of the path if the caller may manage the roster
func (s *Server) manageRoster(fn rosterFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := r.PathValue("username")
		err := s.requireObjectPermission(r, permission.PermissionManageRoster, username)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		u, err := fn(r, username)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, u)
	}
}

func (s *Server) buyDriver(w http.ResponseWriter, r *http.Request) {
	s.manageRoster(func(r *http.Request, username string) (*model.User, error) {
		var req nameRequest
		if err := s.decode(r, &req); err != nil {
			return nil, err
		}
		return s.roster.BuyDriver(r.Context(), username, req.Name)
	})(w, r)
}

func (s *Server) changeDriver(w http.ResponseWriter, r *http.Request) {
	s.manageRoster(func(r *http.Request, username string) (*model.User, error) {
		var req nameRequest
		if err := s.decode(r, &req); err != nil {
			return nil, err
		}
		return s.roster.ChangeDriver(r.Context(), username, r.PathValue("old"), req.Name)
	})(w, r)
}

func (s *Server) buyTeam(w http.ResponseWriter, r *http.Request) {
	s.manageRoster(func(r *http.Request, username string) (*model.User, error) {
		var req nameRequest
		if err := s.decode(r, &req); err != nil {
			return nil, err
		}
		return s.roster.BuyTeam(r.Context(), username, req.Name)
	})(w, r)
}

func (s *Server) changeTeam(w http.ResponseWriter, r *http.Request) {
	s.manageRoster(func(r *http.Request, username string) (*model.User, error) {
		var req nameRequest
		if err := s.decode(r, &req); err != nil {
			return nil, err
		}
		return s.roster.ChangeTeam(r.Context(), username, r.PathValue("old"), req.Name)
	})(w, r)
}

func (s *Server) buyBonus(w http.ResponseWriter, r *http.Request) {
	s.manageRoster(func(r *http.Request, username string) (*model.User, error) {
		var req bonusRequest
		if err := s.decode(r, &req); err != nil {
			return nil, err
		}
		return s.roster.BuyBonus(r.Context(), username, req.Target, req.Bonus)
	})(w, r)
}
