package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mpapenbr/fantasyf1-service-go/log"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/model"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/repository/api"
)

var ErrInvalidSeason = errors.New("invalid season file")

type Season struct {
	Year    int            `yaml:"season"`
	Teams   []model.Team   `yaml:"teams"`
	Drivers []model.Driver `yaml:"drivers"`
}

func ParseFile(file string) (*Season, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads a season document. Every driver must reference a team of the
// same document, names must be unique and prices must not be negative.
func Parse(r io.Reader) (*Season, error) {
	var ret Season
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&ret); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSeason, err)
	}
	if err := ret.validate(); err != nil {
		return nil, err
	}
	return &ret, nil
}

func (s *Season) validate() error {
	teams := map[string]bool{}
	for _, t := range s.Teams {
		if t.Name == "" || t.Price.IsNegative() {
			return fmt.Errorf("%w: team %q", ErrInvalidSeason, t.Name)
		}
		if teams[t.Name] {
			return fmt.Errorf("%w: duplicate team %q", ErrInvalidSeason, t.Name)
		}
		teams[t.Name] = true
	}
	drivers := map[string]bool{}
	for _, d := range s.Drivers {
		if d.Name == "" || d.Price.IsNegative() {
			return fmt.Errorf("%w: driver %q", ErrInvalidSeason, d.Name)
		}
		if drivers[d.Name] {
			return fmt.Errorf("%w: duplicate driver %q", ErrInvalidSeason, d.Name)
		}
		if !teams[d.Team] {
			return fmt.Errorf("%w: driver %q references unknown team %q",
				ErrInvalidSeason, d.Name, d.Team)
		}
		drivers[d.Name] = true
	}
	return nil
}

// Apply upserts the teams and then the drivers of the season in one transaction.
// Championship points of existing drivers are kept.
//
//nolint:whitespace // editor/linter issue
func Apply(
	ctx context.Context,
	repos api.Repositories,
	txMgr api.TransactionManager,
	s *Season,
) error {
	l := log.Default().Named("seed")
	return txMgr.RunInTx(ctx, func(ctx context.Context) error {
		for i := range s.Teams {
			if err := repos.Team().Upsert(ctx, &s.Teams[i]); err != nil {
				return fmt.Errorf("team %s: %w", s.Teams[i].Name, err)
			}
		}
		for i := range s.Drivers {
			if err := repos.Driver().Upsert(ctx, &s.Drivers[i]); err != nil {
				return fmt.Errorf("driver %s: %w", s.Drivers[i].Name, err)
			}
		}
		l.Info("season applied",
			log.Int("season", s.Year),
			log.Int("teams", len(s.Teams)),
			log.Int("drivers", len(s.Drivers)))
		return nil
	})
}
