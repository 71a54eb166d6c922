// Package scoring converts race standings into championship points for drivers
// and points/budget for users.
//
// Users are settled per standings position. A team is credited once per race,
// at the position of its best placed driver, not at every visit of one of its
// drivers.
package scoring

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/mpapenbr/fantasyf1-service-go/log"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/model"
)

var (
	driverDivisor = decimal.NewFromInt(10)
	teamDivisor   = decimal.NewFromInt(20)
)

type (
	Settler struct {
		parallelism int
		l           *log.Logger
	}
	Option func(*Settler)

	// Result contains updated copies of the records passed to Settle.
	// Drivers and Users keep the order of the input, Credits is aligned with Users.
	Result struct {
		Drivers []*model.Driver
		Users   []*model.User
		Credits []model.UserCredit
	}
)

// WithParallelism limits the number of users settled concurrently.
// Values < 1 mean no limit.
func WithParallelism(n int) Option {
	return func(s *Settler) {
		s.parallelism = n
	}
}

func WithLogger(l *log.Logger) Option {
	return func(s *Settler) {
		s.l = l
	}
}

func NewSettler(opts ...Option) *Settler {
	ret := &Settler{
		parallelism: 1,
		l:           log.Default().Named("settlement"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Settle settles race with a sequential Settler
//
//nolint:whitespace // editor/linter issue
func Settle(
	race *model.Race,
	drivers []*model.Driver,
	users []*model.User,
) (*Result, error) {
	return NewSettler().Settle(race, drivers, users)
}

// ValidateStandings checks that every known driver appears exactly once and
// that the standings contain known drivers only.
func ValidateStandings(standings []string, drivers []*model.Driver) error {
	known := lo.SliceToMap(drivers, func(d *model.Driver) (string, bool) {
		return d.Name, true
	})
	seen := make(map[string]bool, len(standings))
	for i, name := range standings {
		if !known[name] {
			return fmt.Errorf("%w: unknown driver %q at position %d",
				model.ErrInvalidStandings, name, i+1)
		}
		if seen[name] {
			return fmt.Errorf("%w: driver %q listed more than once",
				model.ErrInvalidStandings, name)
		}
		seen[name] = true
	}
	missing := lo.FilterMap(drivers, func(d *model.Driver, _ int) (string, bool) {
		return d.Name, !seen[d.Name]
	})
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s",
			model.ErrInvalidStandings, strings.Join(missing, ", "))
	}
	return nil
}

// Settle converts the standings of race into championship points for drivers
// and points/budget for users. The arguments are not modified.
// Nothing is computed if the standings are invalid.
//
//nolint:whitespace // editor/linter issue
func (s *Settler) Settle(
	race *model.Race,
	drivers []*model.Driver,
	users []*model.User,
) (*Result, error) {
	if err := ValidateStandings(race.Standings, drivers); err != nil {
		return nil, err
	}
	placement := NewPlacement(race.Standings, drivers)

	// driver results must be complete before users are processed
	ret := &Result{
		Drivers: lo.Map(drivers, func(d *model.Driver, _ int) *model.Driver {
			c := *d
			c.ChampionshipPoints += placement.DriverPoints(d.Name)
			return &c
		}),
		Users:   make([]*model.User, len(users)),
		Credits: make([]model.UserCredit, len(users)),
	}

	var g errgroup.Group
	if s.parallelism > 0 {
		g.SetLimit(s.parallelism)
	}
	for i := range users {
		g.Go(func() error {
			ret.Users[i], ret.Credits[i] = s.settleUser(users[i], placement)
			return nil
		})
	}
	//nolint:errcheck // settleUser never fails
	g.Wait()

	s.l.Debug("race settled",
		log.String("race", race.Name),
		log.Int("drivers", len(drivers)),
		log.Int("users", len(users)))
	return ret, nil
}

// settleUser applies the race to a copy of u.
// Each team target is resolved once per race at the position of its best placed driver.
//
//nolint:whitespace // editor/linter issue
func (s *Settler) settleUser(u *model.User, p *Placement) (
	*model.User, model.UserCredit,
) {
	ret := u.Clone()
	credit := model.UserCredit{Username: u.Username}
	gained := decimal.Zero
	resolvedTeams := make(map[string]bool)

	for idx, name := range p.Standings() {
		dr := ResolveDriver(BasePoints(idx), name, ret.PendingBonuses(name), p)
		if ret.OwnsDriver(name) {
			gained = gained.Add(decimal.NewFromInt(int64(dr.Points)).Div(driverDivisor))
		}
		consume(ret, name, dr.Consumed)
		credit.Consumed = append(credit.Consumed, dr.Consumed...)

		team, ok := p.TeamOf(name)
		if !ok || team == "" || resolvedTeams[team] {
			continue
		}
		resolvedTeams[team] = true
		tr := ResolveTeam(p.TeamPoints(team), team, ret.PendingBonuses(team), p)
		if ret.OwnsTeam(team) {
			gained = gained.Add(decimal.NewFromInt(int64(tr.Points)).Div(teamDivisor))
		}
		consume(ret, team, tr.Consumed)
		credit.Consumed = append(credit.Consumed, tr.Consumed...)
	}

	ret.TotalPoints = ret.TotalPoints.Add(gained)
	ret.TotalBudget = ret.TotalBudget.Add(gained)
	credit.Points = gained
	if len(credit.Consumed) > 0 || !gained.IsZero() {
		s.l.Debug("user settled",
			log.String("user", u.Username),
			log.String("gained", gained.String()),
			log.Any("consumed", credit.Consumed))
	}
	return ret, credit
}

func consume(u *model.User, target string, consumed []model.Bonus) {
	if len(consumed) == 0 {
		return
	}
	remaining := RemoveConsumed(u.Bonuses[target], consumed)
	if len(remaining) == 0 {
		delete(u.Bonuses, target)
		return
	}
	u.Bonuses[target] = remaining
}
