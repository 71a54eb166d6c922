//nolint:whitespace // can't make both editor and linter happy
package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/samber/lo"

	"github.com/mpapenbr/fantasyf1-service-go/pkg/model"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/repository"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/repository/api"
	repoCtx "github.com/mpapenbr/fantasyf1-service-go/pkg/repository/context"
)

var selector = `select u.username, u.drivers, u.teams, u.total_points, u.total_budget,
	u.bonuses from app_user u`

type repo struct {
	conn repository.Querier
}

var _ api.UserRepository = (*repo)(nil)

func NewUserRepository(conn repository.Querier) api.UserRepository {
	return &repo{conn: conn}
}

func (r *repo) Create(ctx context.Context, user *model.User, apiKeyHash string) error {
	_, err := r.getExecutor(ctx).Exec(ctx, `
	insert into app_user (
		username, api_key_hash, drivers, teams, total_points, total_budget, bonuses
	) values ($1,$2,$3,$4,$5,$6,$7)
	`,
		user.Username, apiKeyHash,
		nonNil(user.Drivers), nonNil(user.Teams),
		user.TotalPoints, user.TotalBudget, bonuses(user))
	return repository.CheckUniqueViolation(err, "user "+user.Username)
}

func (r *repo) LoadByUsername(ctx context.Context, username string) (
	*model.User, error,
) {
	return r.loadOne(ctx, fmt.Sprintf("%s where u.username=$1", selector), username)
}

func (r *repo) LoadByUsernameForUpdate(ctx context.Context, username string) (
	*model.User, error,
) {
	return r.loadOne(ctx,
		fmt.Sprintf("%s where u.username=$1 for update", selector), username)
}

func (r *repo) LoadByAPIKeyHash(ctx context.Context, hash string) (
	*model.User, error,
) {
	return r.loadOne(ctx, fmt.Sprintf("%s where u.api_key_hash=$1", selector), hash)
}

func (r *repo) LoadAll(ctx context.Context) ([]*model.User, error) {
	return r.loadMany(ctx, fmt.Sprintf("%s order by u.username asc", selector))
}

func (r *repo) LoadAllForUpdate(ctx context.Context) ([]*model.User, error) {
	return r.loadMany(ctx,
		fmt.Sprintf("%s order by u.username asc for update", selector))
}

func (r *repo) Update(ctx context.Context, user *model.User) error {
	tag, err := r.getExecutor(ctx).Exec(ctx, `
	update app_user set drivers=$1, teams=$2, total_points=$3, total_budget=$4,
	bonuses=$5 where username=$6
	`,
		nonNil(user.Drivers), nonNil(user.Teams),
		user.TotalPoints, user.TotalBudget, bonuses(user),
		user.Username)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %q: %w", user.Username, repository.ErrNoData)
	}
	return nil
}

func (r *repo) loadOne(ctx context.Context, query string, arg any) (
	*model.User, error,
) {
	row := r.getExecutor(ctx).QueryRow(ctx, query, arg)
	ret, err := readData(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("user: %w", repository.ErrNoData)
	}
	return ret, err
}

func (r *repo) loadMany(ctx context.Context, query string) ([]*model.User, error) {
	rows, err := r.getExecutor(ctx).Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ret := make([]*model.User, 0)
	for rows.Next() {
		item, err := readData(rows)
		if err != nil {
			return nil, err
		}
		ret = append(ret, item)
	}
	return ret, rows.Err()
}

func (r *repo) getExecutor(ctx context.Context) repository.Querier {
	if executor := repoCtx.FromContext(ctx); executor != nil {
		return executor
	}
	return r.conn
}

func readData(row pgx.Row) (*model.User, error) {
	var item model.User
	if err := row.Scan(
		&item.Username, &item.Drivers, &item.Teams,
		&item.TotalPoints, &item.TotalBudget, &item.Bonuses,
	); err != nil {
		return nil, err
	}
	if item.Bonuses == nil {
		item.Bonuses = map[string][]model.Bonus{}
	}
	return &item, nil
}

// columns are declared not null
func nonNil(list []string) []string {
	return lo.Ternary(list == nil, []string{}, list)
}

func bonuses(u *model.User) map[string][]model.Bonus {
	return lo.Ternary(u.Bonuses == nil, map[string][]model.Bonus{}, u.Bonuses)
}
