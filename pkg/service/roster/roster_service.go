package roster

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/mpapenbr/fantasyf1-service-go/log"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/catalog"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/model"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/repository/api"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/utils"
)

var validUsername = regexp.MustCompile(`^[A-Za-z0-9_.-]{3,32}$`)

type (
	Service struct {
		repos         api.Repositories
		txMgr         api.TransactionManager
		catalog       *catalog.Catalog
		initialBudget decimal.Decimal
		bonusPrice    decimal.Decimal
		l             *log.Logger
	}
	Option func(*Service)

	// Registration is returned once, the api key is not stored in plain text
	Registration struct {
		User   *model.User `json:"user"`
		APIKey string      `json:"api_key"`
	}
)

func WithRepositories(r api.Repositories) Option {
	return func(s *Service) {
		s.repos = r
	}
}

func WithTransactionManager(tm api.TransactionManager) Option {
	return func(s *Service) {
		s.txMgr = tm
	}
}

func WithInitialBudget(budget decimal.Decimal) Option {
	return func(s *Service) {
		s.initialBudget = budget
	}
}

// WithBonusPrice is used if no catalog is configured
func WithBonusPrice(price decimal.Decimal) Option {
	return func(s *Service) {
		s.bonusPrice = price
	}
}

// WithCatalog sets the bonus catalog. The price of bonuses is taken from
// the catalog entries.
func WithCatalog(c *catalog.Catalog) Option {
	return func(s *Service) {
		s.catalog = c
	}
}

func NewService(opts ...Option) (*Service, error) {
	ret := &Service{
		initialBudget: model.DefaultInitialBudget,
		bonusPrice:    model.DefaultBonusPrice,
		l:             log.Default().Named("service.roster"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.catalog == nil {
		c, err := catalog.Load(ret.bonusPrice)
		if err != nil {
			return nil, err
		}
		ret.catalog = c
	}
	return ret, nil
}

// Register creates a user with the initial budget and an empty roster.
func (s *Service) Register(ctx context.Context, username string) (*Registration, error) {
	if !validUsername.MatchString(username) {
		return nil, fmt.Errorf("%w: username %q", model.ErrInvalidInput, username)
	}
	apiKey, hash := utils.NewAPIKey()
	u := &model.User{
		Username:    username,
		Drivers:     []string{},
		Teams:       []string{},
		TotalPoints: decimal.Zero,
		TotalBudget: s.initialBudget,
		Bonuses:     map[string][]model.Bonus{},
	}
	if err := s.repos.User().Create(ctx, u, hash); err != nil {
		return nil, err
	}
	s.l.Info("user registered", log.String("user", username))
	return &Registration{User: u, APIKey: apiKey}, nil
}

func (s *Service) User(ctx context.Context, username string) (*model.User, error) {
	return s.repos.User().LoadByUsername(ctx, username)
}

// BuyDriver adds the driver to the roster and charges its price.
func (s *Service) BuyDriver(ctx context.Context, username, name string) (*model.User, error) {
	return s.modify(ctx, username, func(ctx context.Context, u *model.User) error {
		if u.OwnsDriver(name) {
			return fmt.Errorf("driver %q: %w", name, model.ErrAlreadyOwned)
		}
		if len(u.Drivers) >= model.MaxDrivers {
			return fmt.Errorf("%w: max %d drivers", model.ErrRosterFull, model.MaxDrivers)
		}
		d, err := s.repos.Driver().LoadByName(ctx, name)
		if err != nil {
			return err
		}
		if err := charge(u, d.Price); err != nil {
			return err
		}
		u.Drivers = append(u.Drivers, name)
		return nil
	})
}

// ChangeDriver replaces oldName by newName. The current price of oldName is refunded.
//
//nolint:whitespace // editor/linter issue
func (s *Service) ChangeDriver(
	ctx context.Context,
	username, oldName, newName string,
) (*model.User, error) {
	return s.modify(ctx, username, func(ctx context.Context, u *model.User) error {
		idx := slices.Index(u.Drivers, oldName)
		if idx < 0 {
			return fmt.Errorf("driver %q: %w", oldName, model.ErrNotOwned)
		}
		if u.OwnsDriver(newName) {
			return fmt.Errorf("driver %q: %w", newName, model.ErrAlreadyOwned)
		}
		oldDriver, err := s.repos.Driver().LoadByName(ctx, oldName)
		if err != nil {
			return err
		}
		newDriver, err := s.repos.Driver().LoadByName(ctx, newName)
		if err != nil {
			return err
		}
		u.TotalBudget = u.TotalBudget.Add(oldDriver.Price)
		if err := charge(u, newDriver.Price); err != nil {
			return err
		}
		u.Drivers[idx] = newName
		return nil
	})
}

// BuyTeam adds the team to the roster and charges its price.
func (s *Service) BuyTeam(ctx context.Context, username, name string) (*model.User, error) {
	return s.modify(ctx, username, func(ctx context.Context, u *model.User) error {
		if u.OwnsTeam(name) {
			return fmt.Errorf("team %q: %w", name, model.ErrAlreadyOwned)
		}
		if len(u.Teams) >= model.MaxTeams {
			return fmt.Errorf("%w: max %d teams", model.ErrRosterFull, model.MaxTeams)
		}
		t, err := s.repos.Team().LoadByName(ctx, name)
		if err != nil {
			return err
		}
		if err := charge(u, t.Price); err != nil {
			return err
		}
		u.Teams = append(u.Teams, name)
		return nil
	})
}

// ChangeTeam replaces oldName by newName. The current price of oldName is refunded.
//
//nolint:whitespace // editor/linter issue
func (s *Service) ChangeTeam(
	ctx context.Context,
	username, oldName, newName string,
) (*model.User, error) {
	return s.modify(ctx, username, func(ctx context.Context, u *model.User) error {
		idx := slices.Index(u.Teams, oldName)
		if idx < 0 {
			return fmt.Errorf("team %q: %w", oldName, model.ErrNotOwned)
		}
		if u.OwnsTeam(newName) {
			return fmt.Errorf("team %q: %w", newName, model.ErrAlreadyOwned)
		}
		oldTeam, err := s.repos.Team().LoadByName(ctx, oldName)
		if err != nil {
			return err
		}
		newTeam, err := s.repos.Team().LoadByName(ctx, newName)
		if err != nil {
			return err
		}
		u.TotalBudget = u.TotalBudget.Add(oldTeam.Price)
		if err := charge(u, newTeam.Price); err != nil {
			return err
		}
		u.Teams[idx] = newName
		return nil
	})
}

// BuyBonus adds a pending bonus tag for target (a driver or team name).
// The target does not need to be part of the roster.
//
//nolint:whitespace // editor/linter issue
func (s *Service) BuyBonus(
	ctx context.Context,
	username, target string,
	tag model.Bonus,
) (*model.User, error) {
	entry, ok := s.catalog.Lookup(tag)
	if !ok {
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownBonus, tag)
	}
	return s.modify(ctx, username, func(ctx context.Context, u *model.User) error {
		kind, err := s.targetKind(ctx, target)
		if err != nil {
			return err
		}
		if !tag.AppliesTo(kind) {
			return fmt.Errorf("%w: %s on %q", model.ErrBonusTarget, tag, target)
		}
		if err := charge(u, entry.Price); err != nil {
			return err
		}
		if u.Bonuses == nil {
			u.Bonuses = map[string][]model.Bonus{}
		}
		u.Bonuses[target] = append(u.Bonuses[target], tag)
		return nil
	})
}

func (s *Service) targetKind(ctx context.Context, target string) (model.TargetKind, error) {
	_, err := s.repos.Driver().LoadByName(ctx, target)
	if err == nil {
		return model.TargetDriver, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return 0, err
	}
	if _, err = s.repos.Team().LoadByName(ctx, target); err != nil {
		return 0, err
	}
	return model.TargetTeam, nil
}

// modify runs fn on the locked user row and stores the result
//
//nolint:whitespace // editor/linter issue
func (s *Service) modify(
	ctx context.Context,
	username string,
	fn func(ctx context.Context, u *model.User) error,
) (*model.User, error) {
	var ret *model.User
	err := s.txMgr.RunInTx(ctx, func(ctx context.Context) error {
		u, err := s.repos.User().LoadByUsernameForUpdate(ctx, username)
		if err != nil {
			return err
		}
		if err := fn(ctx, u); err != nil {
			return err
		}
		if err := s.repos.User().Update(ctx, u); err != nil {
			return err
		}
		ret = u
		return nil
	})
	if err != nil {
		s.l.Debug("roster not changed", log.String("user", username), log.ErrorField(err))
		return nil, err
	}
	return ret, nil
}

func charge(u *model.User, price decimal.Decimal) error {
	if u.TotalBudget.LessThan(price) {
		return fmt.Errorf("%w: price %s, budget %s",
			model.ErrInsufficientBudget, price.String(), u.TotalBudget.String())
	}
	u.TotalBudget = u.TotalBudget.Sub(price)
	return nil
}

