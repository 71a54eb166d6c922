//nolint:funlen // ok for tests
package roster

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/fantasyf1-service-go/pkg/model"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/repository/postgres"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/utils"
	"github.com/mpapenbr/fantasyf1-service-go/testsupport/testdb"
)

func setup(t *testing.T) *Service {
	t.Helper()
	pool := testdb.InitTestDbWithBaseData()
	svc, err := NewService(
		WithRepositories(postgres.NewRepositories(pool)),
		WithTransactionManager(postgres.NewTransactionManager(pool)),
		WithInitialBudget(decimal.NewFromInt(100)),
	)
	require.NoError(t, err)
	return svc
}

func assertBudget(t *testing.T, want string, u *model.User) {
	t.Helper()
	assert.Truef(t, decimal.RequireFromString(want).Equal(u.TotalBudget),
		"want %s, got %s", want, u.TotalBudget.String())
}

func TestRegister(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, "alice")
	require.NoError(t, err)
	assert.NotEmpty(t, reg.APIKey)
	assertBudget(t, "100", reg.User)

	u, err := svc.repos.User().LoadByAPIKeyHash(ctx, utils.HashAPIKey(reg.APIKey))
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)

	_, err = svc.Register(ctx, "alice")
	assert.ErrorIs(t, err, model.ErrAlreadyExists)

	_, err = svc.Register(ctx, "a b")
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestBuyDriver(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, "alice")
	require.NoError(t, err)

	tests := []struct {
		name       string
		driver     string
		wantErr    error
		wantBudget string
	}{
		{name: "first", driver: "Norris", wantBudget: "70"},
		{name: "already owned", driver: "Norris", wantErr: model.ErrAlreadyOwned},
		{name: "unknown", driver: "Senna", wantErr: model.ErrNotFound},
		{name: "second", driver: "Leclerc", wantBudget: "42"},
		{name: "roster full", driver: "Albon", wantErr: model.ErrRosterFull},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := svc.BuyDriver(ctx, "alice", tt.driver)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, u.OwnsDriver(tt.driver))
			assertBudget(t, tt.wantBudget, u)
		})
	}

	_, err = svc.BuyDriver(ctx, "nobody", "Norris")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestChangeDriver(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, "alice")
	require.NoError(t, err)
	_, err = svc.BuyDriver(ctx, "alice", "Albon")
	require.NoError(t, err)

	u, err := svc.ChangeDriver(ctx, "alice", "Albon", "Norris")
	require.NoError(t, err)
	assert.Equal(t, []string{"Norris"}, u.Drivers)
	assertBudget(t, "70", u)

	_, err = svc.ChangeDriver(ctx, "alice", "Albon", "Sainz")
	assert.ErrorIs(t, err, model.ErrNotOwned)
	_, err = svc.ChangeDriver(ctx, "alice", "Norris", "Norris")
	assert.ErrorIs(t, err, model.ErrAlreadyOwned)
}

func TestBuyTeam_Budget(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, "alice")
	require.NoError(t, err)
	for _, d := range []string{"Norris", "Leclerc"} {
		_, err = svc.BuyDriver(ctx, "alice", d)
		require.NoError(t, err)
	}
	// 42 left
	u, err := svc.BuyTeam(ctx, "alice", "McLaren")
	require.NoError(t, err)
	assertBudget(t, "17", u)

	_, err = svc.BuyTeam(ctx, "alice", "Ferrari")
	assert.ErrorIs(t, err, model.ErrInsufficientBudget)

	u, err = svc.BuyTeam(ctx, "alice", "Williams")
	require.NoError(t, err)
	assertBudget(t, "9", u)

	_, err = svc.BuyTeam(ctx, "alice", "Ferrari")
	assert.ErrorIs(t, err, model.ErrRosterFull)

	u, err = svc.ChangeTeam(ctx, "alice", "McLaren", "Ferrari")
	require.NoError(t, err)
	assert.Equal(t, []string{"Ferrari", "Williams"}, u.Teams)
	assertBudget(t, "14", u)

	// budget is never negative
	user, err := svc.User(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, user.TotalBudget.IsNegative())
}

func TestBuyBonus(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, "alice")
	require.NoError(t, err)

	tests := []struct {
		name    string
		target  string
		tag     model.Bonus
		wantErr error
	}{
		{name: "2x driver", target: "Norris", tag: model.BonusDouble},
		{name: "2x team", target: "McLaren", tag: model.BonusDouble},
		{name: "second 2x driver", target: "Norris", tag: model.BonusDouble},
		{name: "beat teammate", target: "Albon", tag: model.BonusBeatTeammate},
		{name: "both drivers", target: "Williams", tag: model.BonusBothDrivers},
		{
			name: "beat teammate on team", target: "Williams",
			tag: model.BonusBeatTeammate, wantErr: model.ErrBonusTarget,
		},
		{
			name: "both drivers on driver", target: "Albon",
			tag: model.BonusBothDrivers, wantErr: model.ErrBonusTarget,
		},
		{name: "unknown tag", target: "Albon", tag: "pole", wantErr: model.ErrUnknownBonus},
		{name: "unknown target", target: "Senna", tag: model.BonusDouble, wantErr: model.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.BuyBonus(ctx, "alice", tt.target, tt.tag)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
	u, err := svc.User(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []model.Bonus{model.BonusDouble, model.BonusDouble}, u.Bonuses["Norris"])
	assertBudget(t, "95", u)
}
