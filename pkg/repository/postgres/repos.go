package postgres

import (
	"github.com/mpapenbr/fantasyf1-service-go/pkg/repository"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/repository/api"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/repository/postgres/driver"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/repository/postgres/race"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/repository/postgres/team"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/repository/postgres/user"
)

type pgRepositories struct {
	driverRepository api.DriverRepository
	teamRepository   api.TeamRepository
	raceRepository   api.RaceRepository
	userRepository   api.UserRepository
}

var _ api.Repositories = (*pgRepositories)(nil)

// NewRepositories creates the repositories using conn (usually a *pgxpool.Pool).
// Inside api.TransactionManager.RunInTx the repositories use the transaction instead.
func NewRepositories(conn repository.Querier) api.Repositories {
	return &pgRepositories{
		driverRepository: driver.NewDriverRepository(conn),
		teamRepository:   team.NewTeamRepository(conn),
		raceRepository:   race.NewRaceRepository(conn),
		userRepository:   user.NewUserRepository(conn),
	}
}

func (r *pgRepositories) Driver() api.DriverRepository {
	return r.driverRepository
}

func (r *pgRepositories) Team() api.TeamRepository {
	return r.teamRepository
}

func (r *pgRepositories) Race() api.RaceRepository {
	return r.raceRepository
}

func (r *pgRepositories) User() api.UserRepository {
	return r.userRepository
}
