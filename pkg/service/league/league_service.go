package league

import (
	"context"
	"sort"

	"github.com/samber/lo"

	"github.com/mpapenbr/fantasyf1-service-go/pkg/catalog"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/model"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/repository/api"
)

type (
	Service struct {
		repos   api.Repositories
		catalog *catalog.Catalog
	}

	// Standing is a leaderboard entry
	Standing struct {
		Rank int         `json:"rank"`
		User *model.User `json:"user"`
	}
)

func NewService(repos api.Repositories, c *catalog.Catalog) *Service {
	return &Service{repos: repos, catalog: c}
}

func (s *Service) Drivers(ctx context.Context) ([]*model.Driver, error) {
	return s.repos.Driver().LoadAll(ctx)
}

func (s *Service) Teams(ctx context.Context) ([]*model.Team, error) {
	return s.repos.Team().LoadAll(ctx)
}

// AvailableDrivers returns the drivers a user may buy: not owned and affordable.
// An empty username returns all drivers.
//
//nolint:whitespace // editor/linter issue
func (s *Service) AvailableDrivers(ctx context.Context, username string) (
	[]*model.Driver, error,
) {
	drivers, err := s.repos.Driver().LoadAll(ctx)
	if err != nil || username == "" {
		return drivers, err
	}
	u, err := s.repos.User().LoadByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return lo.Filter(drivers, func(d *model.Driver, _ int) bool {
		return !u.OwnsDriver(d.Name) && d.Price.LessThanOrEqual(u.TotalBudget)
	}), nil
}

// AvailableTeams returns the teams a user may buy: not owned and affordable.
// An empty username returns all teams.
//
//nolint:whitespace // editor/linter issue
func (s *Service) AvailableTeams(ctx context.Context, username string) (
	[]*model.Team, error,
) {
	teams, err := s.repos.Team().LoadAll(ctx)
	if err != nil || username == "" {
		return teams, err
	}
	u, err := s.repos.User().LoadByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return lo.Filter(teams, func(t *model.Team, _ int) bool {
		return !u.OwnsTeam(t.Name) && t.Price.LessThanOrEqual(u.TotalBudget)
	}), nil
}

func (s *Service) Bonuses() []catalog.Entry {
	return s.catalog.Bonuses
}

// Leaderboard orders users by total points, ties are ordered by username and
// share the same rank.
func (s *Service) Leaderboard(ctx context.Context) ([]Standing, error) {
	users, err := s.repos.User().LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	return Rank(users), nil
}

func Rank(users []*model.User) []Standing {
	sorted := append([]*model.User(nil), users...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if c := sorted[i].TotalPoints.Cmp(sorted[j].TotalPoints); c != 0 {
			return c > 0
		}
		return sorted[i].Username < sorted[j].Username
	})
	ret := make([]Standing, len(sorted))
	for i, u := range sorted {
		rank := i + 1
		if i > 0 && u.TotalPoints.Equal(sorted[i-1].TotalPoints) {
			rank = ret[i-1].Rank
		}
		ret[i] = Standing{Rank: rank, User: u}
	}
	return ret
}
