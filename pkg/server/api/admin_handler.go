package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/mpapenbr/fantasyf1-service-go/pkg/model"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/permission"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/service/admin"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/service/settlement"
)

// raceRequest accepts the date as RFC3339 timestamp or as plain date (2006-01-02)
type raceRequest struct {
	Name      string   `json:"name"`
	Date      string   `json:"date"`
	Standings []string `json:"standings"`
}

func (rr *raceRequest) toRequest() (*settlement.Request, error) {
	ret := &settlement.Request{Name: rr.Name, Standings: rr.Standings}
	if rr.Date == "" {
		return ret, nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, rr.Date); err == nil {
			ret.Date = t
			return ret, nil
		}
	}
	return nil, fmt.Errorf("%w: invalid date %q", model.ErrInvalidInput, rr.Date)
}

func (s *Server) createDriver(w http.ResponseWriter, r *http.Request) {
	if err := s.requirePermission(r, permission.PermissionCreateDriver); err != nil {
		s.writeError(w, r, err)
		return
	}
	var d model.Driver
	if err := s.decode(r, &d); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.admin.CreateDriver(r.Context(), &d); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, &d)
}

func (s *Server) updateDriver(w http.ResponseWriter, r *http.Request) {
	if err := s.requirePermission(r, permission.PermissionUpdateDriver); err != nil {
		s.writeError(w, r, err)
		return
	}
	var upd admin.DriverUpdate
	if err := s.decode(r, &upd); err != nil {
		s.writeError(w, r, err)
		return
	}
	d, err := s.admin.UpdateDriver(r.Context(), r.PathValue("name"), &upd)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) deleteDriver(w http.ResponseWriter, r *http.Request) {
	if err := s.requirePermission(r, permission.PermissionDeleteDriver); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.admin.DeleteDriver(r.Context(), r.PathValue("name")); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Driver deleted successfully."})
}

func (s *Server) createTeam(w http.ResponseWriter, r *http.Request) {
	if err := s.requirePermission(r, permission.PermissionCreateTeam); err != nil {
		s.writeError(w, r, err)
		return
	}
	var t model.Team
	if err := s.decode(r, &t); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.admin.CreateTeam(r.Context(), &t); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, &t)
}

func (s *Server) deleteTeam(w http.ResponseWriter, r *http.Request) {
	if err := s.requirePermission(r, permission.PermissionDeleteTeam); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.admin.DeleteTeam(r.Context(), r.PathValue("name")); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Team deleted successfully."})
}

func (s *Server) createRace(w http.ResponseWriter, r *http.Request) {
	if err := s.requirePermission(r, permission.PermissionCreateRace); err != nil {
		s.writeError(w, r, err)
		return
	}
	var rr raceRequest
	if err := s.decode(r, &rr); err != nil {
		s.writeError(w, r, err)
		return
	}
	req, err := rr.toRequest()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	summary, err := s.settlement.SettleRace(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, summary)
}

func (s *Server) deleteRace(w http.ResponseWriter, r *http.Request) {
	if err := s.requirePermission(r, permission.PermissionDeleteRace); err != nil {
		s.writeError(w, r, err)
		return
	}
	id, err := uuid.FromString(r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: race id: %w", model.ErrInvalidInput, err))
		return
	}
	if err := s.settlement.DeleteRace(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Race deleted successfully."})
}
