//nolint:funlen,errcheck // ok for tests
package postgres_test

import (
	"context"
	"errors"
	"testing"

	"github.com/gofrs/uuid/v5"
	"github.com/google/go-cmp/cmp"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gotest.tools/v3/assert"

	"github.com/mpapenbr/fantasyf1-service-go/pkg/model"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/repository"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/repository/postgres"
	"github.com/mpapenbr/fantasyf1-service-go/testsupport/basedata"
	"github.com/mpapenbr/fantasyf1-service-go/testsupport/testdb"
)

var decimalComparer = cmp.Comparer(func(a, b decimal.Decimal) bool {
	return a.Equal(b)
})

func TestDriverRepository(t *testing.T) {
	pool := testdb.InitTestDbWithBaseData()
	repo := postgres.NewRepositories(pool).Driver()
	ctx := context.Background()

	all, err := repo.LoadAll(ctx)
	assert.NilError(t, err)
	assert.Equal(t, len(all), len(basedata.SampleDrivers()))
	// sorted by name
	assert.Equal(t, all[0].Name, "Albon")

	d, err := repo.LoadByName(ctx, "Norris")
	assert.NilError(t, err)
	assert.DeepEqual(t, d, basedata.SampleDrivers()[0], decimalComparer)

	_, err = repo.LoadByName(ctx, "Unknown")
	assert.Assert(t, errors.Is(err, repository.ErrNoData))

	err = repo.Create(ctx, basedata.SampleDrivers()[0])
	assert.Assert(t, errors.Is(err, model.ErrAlreadyExists))

	upd := &model.Driver{Name: "Norris", Team: "Ferrari", Price: decimal.NewFromInt(40)}
	assert.NilError(t, repo.Upsert(ctx, upd))
	d, _ = repo.LoadByName(ctx, "Norris")
	assert.Equal(t, d.Team, "Ferrari")
	assert.Assert(t, d.Price.Equal(decimal.NewFromInt(40)))

	d.ChampionshipPoints = 25
	assert.NilError(t, repo.UpdateChampionshipPoints(ctx, []*model.Driver{d}))
	d, _ = repo.LoadByName(ctx, "Norris")
	assert.Equal(t, d.ChampionshipPoints, 25)

	err = repo.UpdateChampionshipPoints(ctx, []*model.Driver{{Name: "Unknown"}})
	assert.Assert(t, errors.Is(err, repository.ErrNoData))

	n, err := repo.DeleteByName(ctx, "Norris")
	assert.NilError(t, err)
	assert.Equal(t, n, 1)
	n, _ = repo.DeleteByName(ctx, "Norris")
	assert.Equal(t, n, 0)
}

func TestTeamRepository(t *testing.T) {
	pool := testdb.InitTestDbWithBaseData()
	repo := postgres.NewRepositories(pool).Team()
	ctx := context.Background()

	all, err := repo.LoadAll(ctx)
	assert.NilError(t, err)
	assert.DeepEqual(t, all, basedata.SampleTeams(), decimalComparer)

	assert.NilError(t, repo.Upsert(ctx,
		&model.Team{Name: "Ferrari", Price: decimal.NewFromInt(22)}))
	team, err := repo.LoadByName(ctx, "Ferrari")
	assert.NilError(t, err)
	assert.Assert(t, team.Price.Equal(decimal.NewFromInt(22)))

	_, err = repo.LoadByName(ctx, "Unknown")
	assert.Assert(t, errors.Is(err, repository.ErrNoData))

	n, err := repo.DeleteByName(ctx, "Williams")
	assert.NilError(t, err)
	assert.Equal(t, n, 1)
}

func TestRaceRepository(t *testing.T) {
	pool := testdb.InitTestDbWithBaseData()
	repo := postgres.NewRepositories(pool).Race()
	ctx := context.Background()

	race := &model.Race{
		Name:      "Imola",
		Date:      basedata.TestTime(),
		Standings: basedata.SampleStandings(),
	}
	assert.NilError(t, repo.Create(ctx, race))
	assert.Assert(t, !race.ID.IsNil())

	loaded, err := repo.LoadByID(ctx, race.ID)
	assert.NilError(t, err)
	assert.Equal(t, loaded.Name, race.Name)
	assert.Assert(t, loaded.Date.Equal(race.Date))
	assert.DeepEqual(t, loaded.Standings, race.Standings)

	all, err := repo.LoadAll(ctx)
	assert.NilError(t, err)
	assert.Equal(t, len(all), 1)

	_, err = repo.LoadByID(ctx, uuid.Must(uuid.NewV4()))
	assert.Assert(t, errors.Is(err, repository.ErrNoData))

	n, err := repo.DeleteByID(ctx, race.ID)
	assert.NilError(t, err)
	assert.Equal(t, n, 1)
}

func TestUserRepository(t *testing.T) {
	pool := testdb.InitTestDbWithBaseData()
	repo := postgres.NewRepositories(pool).User()
	ctx := context.Background()

	u := &model.User{
		Username:    "alice",
		TotalPoints: decimal.Zero,
		TotalBudget: decimal.NewFromInt(100),
	}
	assert.NilError(t, repo.Create(ctx, u, "hash-alice"))
	err := repo.Create(ctx, u, "hash-other")
	assert.Assert(t, errors.Is(err, model.ErrAlreadyExists))

	loaded, err := repo.LoadByAPIKeyHash(ctx, "hash-alice")
	assert.NilError(t, err)
	assert.Equal(t, loaded.Username, "alice")
	assert.DeepEqual(t, loaded.Drivers, []string{})
	assert.DeepEqual(t, loaded.Bonuses, map[string][]model.Bonus{})

	loaded.Drivers = []string{"Norris"}
	loaded.Teams = []string{"McLaren"}
	loaded.TotalBudget = decimal.RequireFromString("45.5")
	loaded.TotalPoints = decimal.RequireFromString("4.3")
	loaded.Bonuses = map[string][]model.Bonus{
		"Norris":  {model.BonusDouble, model.BonusBeatTeammate},
		"McLaren": {model.BonusBothDrivers},
	}
	assert.NilError(t, repo.Update(ctx, loaded))

	again, err := repo.LoadByUsername(ctx, "alice")
	assert.NilError(t, err)
	assert.DeepEqual(t, again, loaded, decimalComparer)

	_, err = repo.LoadByUsername(ctx, "bob")
	assert.Assert(t, errors.Is(err, model.ErrNotFound))
	assert.Assert(t, errors.Is(err, repository.ErrNoData))
	err = repo.Update(ctx, &model.User{Username: "bob"})
	assert.Assert(t, errors.Is(err, repository.ErrNoData))
}

func TestTransactionManager(t *testing.T) {
	pool := testdb.InitTestDbWithBaseData()
	repos := postgres.NewRepositories(pool)
	tm := postgres.NewTransactionManager(pool)
	ctx := context.Background()
	errAbort := errors.New("abort")

	err := tm.RunInTx(ctx, func(ctx context.Context) error {
		drivers, err := repos.Driver().LoadAllForUpdate(ctx)
		assert.NilError(t, err)
		assert.Equal(t, len(drivers), len(basedata.SampleDrivers()))
		users, err := repos.User().LoadAllForUpdate(ctx)
		assert.NilError(t, err)
		assert.Equal(t, len(users), 0)
		if _, err := repos.Driver().DeleteByName(ctx, "Norris"); err != nil {
			return err
		}
		// nested call joins the outer transaction
		return tm.RunInTx(ctx, func(ctx context.Context) error {
			_, err := repos.Driver().LoadByName(ctx, "Norris")
			assert.Assert(t, errors.Is(err, repository.ErrNoData))
			return errAbort
		})
	})
	assert.Assert(t, errors.Is(err, errAbort))

	d, err := repos.Driver().LoadByName(ctx, "Norris")
	assert.NilError(t, err)
	assert.Equal(t, d.Name, "Norris")
}

func TestUserBonusesMustBeObject(t *testing.T) {
	pool := testdb.InitTestDbWithBaseData()
	repo := postgres.NewRepositories(pool).User()
	ctx := context.Background()
	assert.NilError(t, repo.Create(ctx, &model.User{
		Username:    "alice",
		TotalPoints: decimal.Zero,
		TotalBudget: decimal.NewFromInt(100),
	}, "hash-alice"))

	for _, value := range []string{`[]`, `"2x"`, `null`, `1`} {
		_, err := pool.Exec(ctx,
			"update app_user set bonuses=$1::jsonb where username='alice'", value)
		var pgErr *pgconn.PgError
		assert.Assert(t, errors.As(err, &pgErr), value)
		assert.Equal(t, pgErr.Code, pgerrcode.CheckViolation, value)
	}

	users, err := repo.LoadAll(ctx)
	assert.NilError(t, err)
	assert.Equal(t, len(users), 1)
}
