//nolint:whitespace // can't make both editor and linter happy
package driver

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mpapenbr/fantasyf1-service-go/pkg/model"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/repository"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/repository/api"
	repoCtx "github.com/mpapenbr/fantasyf1-service-go/pkg/repository/context"
)

var selector = `select d.name, d.team, d.price, d.championship_points from driver d`

type repo struct {
	conn repository.Querier
}

var _ api.DriverRepository = (*repo)(nil)

func NewDriverRepository(conn repository.Querier) api.DriverRepository {
	return &repo{conn: conn}
}

func (r *repo) Create(ctx context.Context, driver *model.Driver) error {
	_, err := r.getExecutor(ctx).Exec(ctx, `
	insert into driver (name, team, price, championship_points)
	values ($1,$2,$3,$4)
	`,
		driver.Name, driver.Team, driver.Price, driver.ChampionshipPoints)
	return repository.CheckUniqueViolation(err, "driver "+driver.Name)
}

func (r *repo) Upsert(ctx context.Context, driver *model.Driver) error {
	_, err := r.getExecutor(ctx).Exec(ctx, `
	insert into driver (name, team, price, championship_points)
	values ($1,$2,$3,$4)
	on conflict (name) do update set team=excluded.team, price=excluded.price
	`,
		driver.Name, driver.Team, driver.Price, driver.ChampionshipPoints)
	return err
}

func (r *repo) LoadByName(ctx context.Context, name string) (*model.Driver, error) {
	row := r.getExecutor(ctx).QueryRow(ctx,
		fmt.Sprintf("%s where d.name=$1", selector), name)
	ret, err := readData(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("driver %q: %w", name, repository.ErrNoData)
	}
	return ret, err
}

func (r *repo) LoadAll(ctx context.Context) ([]*model.Driver, error) {
	return r.loadMany(ctx, fmt.Sprintf("%s order by d.name asc", selector))
}

func (r *repo) LoadAllForUpdate(ctx context.Context) ([]*model.Driver, error) {
	return r.loadMany(ctx,
		fmt.Sprintf("%s order by d.name asc for update", selector))
}

func (r *repo) loadMany(ctx context.Context, query string) ([]*model.Driver, error) {
	rows, err := r.getExecutor(ctx).Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ret := make([]*model.Driver, 0)
	for rows.Next() {
		item, err := readData(rows)
		if err != nil {
			return nil, err
		}
		ret = append(ret, item)
	}
	return ret, rows.Err()
}

func (r *repo) UpdateChampionshipPoints(
	ctx context.Context,
	drivers []*model.Driver,
) error {
	exec := r.getExecutor(ctx)
	for _, d := range drivers {
		tag, err := exec.Exec(ctx,
			"update driver set championship_points=$1 where name=$2",
			d.ChampionshipPoints, d.Name)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("driver %q: %w", d.Name, repository.ErrNoData)
		}
	}
	return nil
}

// deletes an entry from the database, returns number of rows deleted.
func (r *repo) DeleteByName(ctx context.Context, name string) (int, error) {
	tag, err := r.getExecutor(ctx).Exec(ctx, "delete from driver where name=$1", name)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (r *repo) getExecutor(ctx context.Context) repository.Querier {
	if executor := repoCtx.FromContext(ctx); executor != nil {
		return executor
	}
	return r.conn
}

func readData(row pgx.Row) (*model.Driver, error) {
	var item model.Driver
	if err := row.Scan(
		&item.Name, &item.Team, &item.Price, &item.ChampionshipPoints,
	); err != nil {
		return nil, err
	}
	return &item, nil
}
