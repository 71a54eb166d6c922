package settlement

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/mpapenbr/fantasyf1-service-go/log"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/model"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/notify"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/repository/api"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/scoring"
)

type (
	Request struct {
		Name      string    `json:"name"`
		Date      time.Time `json:"date"`
		Standings []string  `json:"standings"`
	}

	Service struct {
		repos     api.Repositories
		txMgr     api.TransactionManager
		settler   *scoring.Settler
		publisher notify.Publisher
		tracer    trace.Tracer
		counter   metric.Int64Counter
		credits   metric.Float64Counter
		l         *log.Logger
	}
	Option func(*Service)
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

func WithSettler(settler *scoring.Settler) Option {
	return func(s *Service) {
		s.settler = settler
	}
}

func WithPublisher(p notify.Publisher) Option {
	return func(s *Service) {
		s.publisher = p
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

func NewService(opts ...Option) *Service {
	ret := &Service{
		l: log.Default().Named("service.settlement"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.settler == nil {
		ret.settler = scoring.NewSettler()
	}
	if ret.publisher == nil {
		ret.publisher = notify.NewNopPublisher()
	}
	if ret.tracer == nil {
		ret.tracer = otel.Tracer("ff1")
	}
	meter := otel.Meter("ff1")
	ret.counter, _ = meter.Int64Counter("ff1.settlements",
		metric.WithDescription("number of settled races"))
	ret.credits, _ = meter.Float64Counter("ff1.settlement.credits",
		metric.WithDescription("points credited to users by settlements"))
	return ret
}

// SettleRace creates the race and applies its standings to drivers and users.
// Everything is stored in a single transaction. Driver rows and then user rows
// are locked while the race is settled, so concurrent settlements run one
// after the other.
//
//nolint:funlen // by design
func (s *Service) SettleRace(ctx context.Context, req *Request) (
	*model.SettlementSummary, error,
) {
	ctx, span := s.tracer.Start(ctx, "SettleRace",
		trace.WithAttributes(
			attribute.String("race.name", req.Name),
			attribute.Int("race.entries", len(req.Standings))))
	defer span.End()

	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: race name is required", model.ErrInvalidInput)
	}
	race := &model.Race{
		Name:      req.Name,
		Date:      req.Date,
		Standings: req.Standings,
	}
	if race.Date.IsZero() {
		race.Date = time.Now().UTC()
	}

	var summary *model.SettlementSummary
	err := s.txMgr.RunInTx(ctx, func(ctx context.Context) error {
		drivers, err := s.repos.Driver().LoadAllForUpdate(ctx)
		if err != nil {
			return err
		}
		users, err := s.repos.User().LoadAllForUpdate(ctx)
		if err != nil {
			return err
		}
		res, err := s.settler.Settle(race, drivers, users)
		if err != nil {
			return err
		}
		if err := s.repos.Race().Create(ctx, race); err != nil {
			return err
		}
		if err := s.repos.Driver().UpdateChampionshipPoints(ctx, res.Drivers); err != nil {
			return err
		}
		for _, u := range res.Users {
			if err := s.repos.User().Update(ctx, u); err != nil {
				return err
			}
		}
		summary = &model.SettlementSummary{
			RaceID:    race.ID,
			RaceName:  race.Name,
			Date:      race.Date,
			Standings: race.Standings,
			Credits:   res.Credits,
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.l.Warn("race not settled", log.String("race", req.Name), log.ErrorField(err))
		return nil, err
	}

	total := lo.SumBy(summary.Credits, func(c model.UserCredit) float64 {
		return c.Points.InexactFloat64()
	})
	s.counter.Add(ctx, 1)
	s.credits.Add(ctx, total)
	span.SetAttributes(attribute.Int("race.users", len(summary.Credits)))
	s.l.Info("race settled",
		log.String("race", race.Name),
		log.String("id", race.ID.String()),
		log.Int("users", len(summary.Credits)),
		log.Float64("credited", total))

	if err := s.publisher.RaceSettled(ctx, summary); err != nil {
		s.l.Warn("could not publish settlement", log.ErrorField(err))
	}
	return summary, nil
}

// DeleteRace removes the race record. Points already credited are kept.
func (s *Service) DeleteRace(ctx context.Context, id uuid.UUID) error {
	var race *model.Race
	err := s.txMgr.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		if race, err = s.repos.Race().LoadByID(ctx, id); err != nil {
			return err
		}
		_, err = s.repos.Race().DeleteByID(ctx, id)
		return err
	})
	if err != nil {
		return err
	}
	s.l.Info("race deleted", log.String("race", race.Name), log.String("id", id.String()))
	if err := s.publisher.RaceDeleted(ctx, race); err != nil {
		s.l.Warn("could not publish race deletion", log.ErrorField(err))
	}
	return nil
}

// Races returns all races ordered by date
func (s *Service) Races(ctx context.Context) ([]*model.Race, error) {
	return s.repos.Race().LoadAll(ctx)
}
