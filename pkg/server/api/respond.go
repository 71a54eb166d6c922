package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/mpapenbr/fantasyf1-service-go/log"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/auth"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/model"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/permission"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/utils"
)

const maxBodySize = 1 << 20

type (
	errorResponse struct {
		Error string `json:"error"`
	}
	messageResponse struct {
		Message string `json:"message"`
	}
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, auth.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, model.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrAlreadyExists),
		errors.Is(err, model.ErrAlreadyOwned),
		errors.Is(err, model.ErrRosterFull):
		return http.StatusConflict
	case errors.Is(err, model.ErrInvalidStandings),
		errors.Is(err, model.ErrInsufficientBudget),
		errors.Is(err, model.ErrNotOwned),
		errors.Is(err, model.ErrUnknownBonus),
		errors.Is(err, model.ErrBonusTarget):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.l.Error("request failed",
			log.String("method", r.Method),
			log.String("path", r.URL.Path),
			log.ErrorField(err))
		msg = http.StatusText(status)
	}
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // client gone
	json.NewEncoder(w).Encode(v)
}

func (s *Server) decode(r *http.Request, v any) error {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("%w: %w", model.ErrInvalidInput, err)
	}
	if s.printRequests {
		s.l.Debug("request",
			log.String("path", r.URL.Path),
			log.String("body", string(data)))
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %w", model.ErrInvalidInput, err)
	}
	return nil
}

func (s *Server) checkClientVersion(next http.Handler) http.Handler {
	if s.minClientVersion == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v := r.Header.Get(ClientVersionHeader)
		if v != "" && !utils.CheckClientVersion(v, s.minClientVersion) {
			writeJSON(w, http.StatusUpgradeRequired, errorResponse{
				Error: fmt.Sprintf("client version %s not supported, need at least %s",
					v, s.minClientVersion),
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireObjectPermission checks perm against the roster owner
//
//nolint:whitespace // editor/linter issue
func (s *Server) requireObjectPermission(
	r *http.Request,
	perm permission.Permission,
	owner string,
) error {
	a := auth.FromContext(r.Context())
	if !s.pe.HasObjectPermission(a, perm, owner) {
		return fmt.Errorf("%w: %s", auth.ErrPermissionDenied, perm)
	}
	return nil
}

func (s *Server) requirePermission(r *http.Request, perm permission.Permission) error {
	a := auth.FromContext(r.Context())
	if !s.pe.HasPermission(a, perm) {
		return fmt.Errorf("%w: %s", auth.ErrPermissionDenied, perm)
	}
	return nil
}
