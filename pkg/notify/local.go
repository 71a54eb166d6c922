package notify

import (
	"context"
	"errors"
	"sync"

	"github.com/mpapenbr/fantasyf1-service-go/pkg/model"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/utils/broadcast"
)

type (
	// Event is delivered to in-process subscribers. Exactly one of Summary
	// and Race is set, depending on Type.
	Event struct {
		Type    string                   `json:"type"`
		Summary *model.SettlementSummary `json:"summary,omitempty"`
		Race    *model.Race              `json:"race,omitempty"`
	}

	// Subscriber gives access to the events of a LocalPublisher
	Subscriber interface {
		Subscribe() <-chan Event
		CancelSubscription(<-chan Event)
	}

	LocalPublisher struct {
		source    chan Event
		bcst      broadcast.Server[Event]
		done      chan struct{}
		closeOnce sync.Once
	}

	multiPublisher []Publisher
)

var (
	_ Publisher  = (*LocalPublisher)(nil)
	_ Subscriber = (*LocalPublisher)(nil)
)

// NewLocalPublisher fans out events to subscribers of this process
func NewLocalPublisher() *LocalPublisher {
	source := make(chan Event)
	return &LocalPublisher{
		source: source,
		bcst:   broadcast.NewServer("events", source),
		done:   make(chan struct{}),
	}
}

//nolint:whitespace // editor/linter issue
func (p *LocalPublisher) RaceSettled(
	ctx context.Context,
	summary *model.SettlementSummary,
) error {
	return p.send(ctx, Event{Type: SubjectRaceSettled, Summary: summary})
}

func (p *LocalPublisher) RaceDeleted(ctx context.Context, race *model.Race) error {
	return p.send(ctx, Event{Type: SubjectRaceDeleted, Race: race})
}

func (p *LocalPublisher) Subscribe() <-chan Event {
	return p.bcst.Subscribe()
}

func (p *LocalPublisher) CancelSubscription(ch <-chan Event) {
	p.bcst.CancelSubscription(ch)
}

// Close stops the delivery. Events published afterwards are dropped.
func (p *LocalPublisher) Close() {
	p.closeOnce.Do(func() {
		close(p.done)
		p.bcst.Close()
	})
}

func (p *LocalPublisher) send(ctx context.Context, e Event) error {
	select {
	case p.source <- e:
		return nil
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Multi publishes to all publishers. Errors are joined, a failing publisher
// does not prevent the others from being called.
func Multi(pubs ...Publisher) Publisher {
	return multiPublisher(pubs)
}

//nolint:whitespace // editor/linter issue
func (m multiPublisher) RaceSettled(
	ctx context.Context,
	summary *model.SettlementSummary,
) error {
	var err error
	for _, p := range m {
		err = errors.Join(err, p.RaceSettled(ctx, summary))
	}
	return err
}

func (m multiPublisher) RaceDeleted(ctx context.Context, race *model.Race) error {
	var err error
	for _, p := range m {
		err = errors.Join(err, p.RaceDeleted(ctx, race))
	}
	return err
}
