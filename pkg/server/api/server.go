package api

import (
	"net/http"

	"github.com/mpapenbr/fantasyf1-service-go/log"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/notify"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/permission"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/service/admin"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/service/league"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/service/roster"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/service/settlement"
)

const ClientVersionHeader = "x-ff1-client-version"

type (
	Server struct {
		settlement       *settlement.Service
		roster           *roster.Service
		league           *league.Service
		admin            *admin.Service
		pe               permission.PermissionEvaluator
		events           notify.Subscriber
		minClientVersion string
		printRequests    bool
		l                *log.Logger
	}
	Option func(*Server)
)

func WithSettlementService(s *settlement.Service) Option {
	return func(srv *Server) {
		srv.settlement = s
	}
}

func WithRosterService(s *roster.Service) Option {
	return func(srv *Server) {
		srv.roster = s
	}
}

func WithLeagueService(s *league.Service) Option {
	return func(srv *Server) {
		srv.league = s
	}
}

func WithAdminService(s *admin.Service) Option {
	return func(srv *Server) {
		srv.admin = s
	}
}

func WithPermissionEvaluator(pe permission.PermissionEvaluator) Option {
	return func(srv *Server) {
		srv.pe = pe
	}
}

// WithEvents enables the server sent events endpoint
func WithEvents(sub notify.Subscriber) Option {
	return func(srv *Server) {
		srv.events = sub
	}
}

// WithMinClientVersion rejects requests announcing an older client version.
// Requests without the version header are accepted.
func WithMinClientVersion(v string) Option {
	return func(srv *Server) {
		srv.minClientVersion = v
	}
}

func WithPrintRequests(b bool) Option {
	return func(srv *Server) {
		srv.printRequests = b
	}
}

func NewServer(opts ...Option) *Server {
	ret := &Server{
		l: log.Default().Named("api"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Register adds the api routes to mux
func (s *Server) Register(mux *http.ServeMux) {
	handle := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, s.checkClientVersion(h))
	}
	handle("GET /drivers", s.getDrivers)
	handle("GET /availableDrivers", s.getAvailableDrivers)
	handle("GET /teams", s.getTeams)
	handle("GET /availableTeams", s.getAvailableTeams)
	handle("GET /availableBonuses", s.getAvailableBonuses)
	handle("GET /leaderboard", s.getLeaderboard)
	handle("GET /races", s.getRaces)
	handle("POST /register", s.register)
	handle("GET /events", s.streamEvents)

	handle("GET /users/{username}", s.getUser)
	handle("POST /users/{username}/drivers", s.buyDriver)
	handle("PUT /users/{username}/drivers/{old}", s.changeDriver)
	handle("POST /users/{username}/teams", s.buyTeam)
	handle("PUT /users/{username}/teams/{old}", s.changeTeam)
	handle("POST /users/{username}/bonuses", s.buyBonus)

	handle("POST /createDriver", s.createDriver)
	handle("PUT /updateDriver/{name}", s.updateDriver)
	handle("DELETE /deleteDriver/{name}", s.deleteDriver)
	handle("POST /createTeam", s.createTeam)
	handle("DELETE /deleteTeam/{name}", s.deleteTeam)
	handle("POST /createRace", s.createRace)
	handle("DELETE /deleteRace/{id}", s.deleteRace)
}
