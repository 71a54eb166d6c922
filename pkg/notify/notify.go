package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/mpapenbr/fantasyf1-service-go/log"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/model"
)

const (
	SubjectRaceSettled = "race.settled"
	SubjectRaceDeleted = "race.deleted"
)

type (
	// Publisher informs other components about league changes
	Publisher interface {
		RaceSettled(ctx context.Context, summary *model.SettlementSummary) error
		RaceDeleted(ctx context.Context, race *model.Race) error
	}

	// msgPublisher is satisfied by *nats.Conn
	msgPublisher interface {
		Publish(subj string, data []byte) error
	}

	NatsPublisher struct {
		conn   msgPublisher
		prefix string
		l      *log.Logger
	}
	Option func(*NatsPublisher)

	nopPublisher struct{}
)

var (
	_ Publisher    = (*NatsPublisher)(nil)
	_ Publisher    = nopPublisher{}
	_ msgPublisher = (*nats.Conn)(nil)
)

func WithSubjectPrefix(prefix string) Option {
	return func(p *NatsPublisher) {
		p.prefix = prefix
	}
}

func WithLogger(l *log.Logger) Option {
	return func(p *NatsPublisher) {
		p.l = l
	}
}

func NewNatsPublisher(conn *nats.Conn, opts ...Option) *NatsPublisher {
	return newNatsPublisher(conn, opts...)
}

func newNatsPublisher(conn msgPublisher, opts ...Option) *NatsPublisher {
	ret := &NatsPublisher{
		conn:   conn,
		prefix: "ff1",
		l:      log.Default().Named("notify"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Connect connects to the nats server at url.
func Connect(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name("ff1"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn("nats disconnected", log.ErrorField(err))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("nats reconnected", log.String("url", nc.ConnectedUrl()))
		}),
	)
}

// NewNopPublisher is used when no nats server is configured
func NewNopPublisher() Publisher {
	return nopPublisher{}
}

//nolint:whitespace // editor/linter issue
func (p *NatsPublisher) RaceSettled(
	ctx context.Context,
	summary *model.SettlementSummary,
) error {
	return p.publish(SubjectRaceSettled, summary)
}

func (p *NatsPublisher) RaceDeleted(ctx context.Context, race *model.Race) error {
	return p.publish(SubjectRaceDeleted, race)
}

func (p *NatsPublisher) Subject(name string) string {
	if p.prefix == "" {
		return name
	}
	return fmt.Sprintf("%s.%s", p.prefix, name)
}

func (p *NatsPublisher) publish(name string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	subj := p.Subject(name)
	p.l.Debug("publish", log.String("subject", subj), log.Int("size", len(data)))
	return p.conn.Publish(subj, data)
}

func (nopPublisher) RaceSettled(context.Context, *model.SettlementSummary) error {
	return nil
}

func (nopPublisher) RaceDeleted(context.Context, *model.Race) error {
	return nil
}
