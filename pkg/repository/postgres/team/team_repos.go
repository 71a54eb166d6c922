//nolint:whitespace // can't make both editor and linter happy
package team

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

var selector = `select t.name, t.price from team t`

type repo struct {
	conn repository.Querier
}

var _ api.TeamRepository = (*repo)(nil)

func NewTeamRepository(conn repository.Querier) api.TeamRepository {
	return &repo{conn: conn}
}

func (r *repo) Create(ctx context.Context, team *model.Team) error {
	_, err := r.getExecutor(ctx).Exec(ctx,
		"insert into team (name, price) values ($1,$2)",
		team.Name, team.Price)
	return repository.CheckUniqueViolation(err, "team "+team.Name)
}

func (r *repo) Upsert(ctx context.Context, team *model.Team) error {
	_, err := r.getExecutor(ctx).Exec(ctx, `
	insert into team (name, price) values ($1,$2)
	on conflict (name) do update set price=excluded.price
	`,
		team.Name, team.Price)
	return err
}

func (r *repo) LoadByName(ctx context.Context, name string) (*model.Team, error) {
	row := r.getExecutor(ctx).QueryRow(ctx,
		fmt.Sprintf("%s where t.name=$1", selector), name)
	ret, err := readData(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("team %q: %w", name, repository.ErrNoData)
	}
	return ret, err
}

func (r *repo) LoadAll(ctx context.Context) ([]*model.Team, error) {
	rows, err := r.getExecutor(ctx).Query(ctx,
		fmt.Sprintf("%s order by t.name asc", selector))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ret := make([]*model.Team, 0)
	for rows.Next() {
		item, err := readData(rows)
		if err != nil {
			return nil, err
		}
		ret = append(ret, item)
	}
	return ret, rows.Err()
}

// deletes an entry from the database, returns number of rows deleted.
func (r *repo) DeleteByName(ctx context.Context, name string) (int, error) {
	tag, err := r.getExecutor(ctx).Exec(ctx, "delete from team where name=$1", name)
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

func readData(row pgx.Row) (*model.Team, error) {
	var item model.Team
	if err := row.Scan(&item.Name, &item.Price); err != nil {
		return nil, err
	}
	return &item, nil
}
