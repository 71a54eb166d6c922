package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/fantasyf1-service-go/pkg/model"
)

func TestLocalPublisher(t *testing.T) {
	p := NewLocalPublisher()
	defer p.Close()
	ch := p.Subscribe()
	defer p.CancelSubscription(ch)

	summary := &model.SettlementSummary{RaceID: uuid.Must(uuid.NewV4()), RaceName: "Monza"}
	require.NoError(t, p.RaceSettled(context.Background(), summary))

	select {
	case e := <-ch:
		assert.Equal(t, SubjectRaceSettled, e.Type)
		assert.Equal(t, summary.RaceID, e.Summary.RaceID)
		assert.Nil(t, e.Race)
	case <-time.After(time.Second):
		t.Fatal("no event received")
	}
}

func TestLocalPublisherClosed(t *testing.T) {
	p := NewLocalPublisher()
	p.Close()
	p.Close()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, p.RaceDeleted(ctx, &model.Race{Name: "Monza"}))
	assert.NoError(t, ctx.Err())

	ch := p.Subscribe()
	_, more := <-ch
	assert.False(t, more, "subscription on closed publisher must be closed")
}

func TestMulti(t *testing.T) {
	ok := &recorder{}
	failing := &recorder{err: errors.New("nats down")}
	p := Multi(newNatsPublisher(failing), newNatsPublisher(ok))

	err := p.RaceDeleted(context.Background(), &model.Race{Name: "Monza"})
	assert.Error(t, err)
	assert.Len(t, failing.subjects, 1)
	assert.Equal(t, []string{"ff1.race.deleted"}, ok.subjects)
}
