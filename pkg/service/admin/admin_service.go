package admin

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mpapenbr/fantasyf1-service-go/log"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/model"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/repository/api"
)

type (
	Service struct {
		repos api.Repositories
		txMgr api.TransactionManager
		l     *log.Logger
	}

	// DriverUpdate holds the attributes to change, nil values are kept
	DriverUpdate struct {
		Team  *string          `json:"team,omitempty"`
		Price *decimal.Decimal `json:"price,omitempty"`
	}
)

func NewService(repos api.Repositories, txMgr api.TransactionManager) *Service {
	return &Service{
		repos: repos,
		txMgr: txMgr,
		l:     log.Default().Named("service.admin"),
	}
}

// CreateDriver stores a new driver. The team of the driver must exist.
func (s *Service) CreateDriver(ctx context.Context, d *model.Driver) error {
	if err := validateDriver(d); err != nil {
		return err
	}
	return s.txMgr.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.repos.Team().LoadByName(ctx, d.Team); err != nil {
			return err
		}
		if err := s.repos.Driver().Create(ctx, d); err != nil {
			return err
		}
		s.l.Info("driver created", log.String("driver", d.Name), log.String("team", d.Team))
		return nil
	})
}

// UpdateDriver changes team and/or price of a driver
//
//nolint:whitespace // editor/linter issue
func (s *Service) UpdateDriver(
	ctx context.Context,
	name string,
	upd *DriverUpdate,
) (*model.Driver, error) {
	var ret *model.Driver
	err := s.txMgr.RunInTx(ctx, func(ctx context.Context) error {
		d, err := s.repos.Driver().LoadByName(ctx, name)
		if err != nil {
			return err
		}
		if upd.Team != nil {
			if _, err := s.repos.Team().LoadByName(ctx, *upd.Team); err != nil {
				return err
			}
			d.Team = *upd.Team
		}
		if upd.Price != nil {
			d.Price = *upd.Price
		}
		if err := validateDriver(d); err != nil {
			return err
		}
		if err := s.repos.Driver().Upsert(ctx, d); err != nil {
			return err
		}
		ret = d
		return nil
	})
	return ret, err
}

func (s *Service) DeleteDriver(ctx context.Context, name string) error {
	n, err := s.repos.Driver().DeleteByName(ctx, name)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("driver %q: %w", name, model.ErrNotFound)
	}
	s.l.Info("driver deleted", log.String("driver", name))
	return nil
}

func (s *Service) CreateTeam(ctx context.Context, t *model.Team) error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("%w: team name is required", model.ErrInvalidInput)
	}
	if t.Price.IsNegative() {
		return fmt.Errorf("%w: negative price", model.ErrInvalidInput)
	}
	if err := s.repos.Team().Create(ctx, t); err != nil {
		return err
	}
	s.l.Info("team created", log.String("team", t.Name))
	return nil
}

func (s *Service) DeleteTeam(ctx context.Context, name string) error {
	n, err := s.repos.Team().DeleteByName(ctx, name)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("team %q: %w", name, model.ErrNotFound)
	}
	s.l.Info("team deleted", log.String("team", name))
	return nil
}

func validateDriver(d *model.Driver) error {
	switch {
	case strings.TrimSpace(d.Name) == "":
		return fmt.Errorf("%w: driver name is required", model.ErrInvalidInput)
	case strings.TrimSpace(d.Team) == "":
		return fmt.Errorf("%w: team is required", model.ErrInvalidInput)
	case d.Price.IsNegative():
		return fmt.Errorf("%w: negative price", model.ErrInvalidInput)
	}
	return nil
}
