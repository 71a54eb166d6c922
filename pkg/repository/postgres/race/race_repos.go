//nolint:whitespace // can't make both editor and linter happy
package race

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/mpapenbr/fantasyf1-service-go/pkg/model"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/repository"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/repository/api"
	repoCtx "github.com/mpapenbr/fantasyf1-service-go/pkg/repository/context"
)

var selector = `select r.id, r.name, r.race_date, r.standings from race r`

type repo struct {
	conn repository.Querier
}

var _ api.RaceRepository = (*repo)(nil)

func NewRaceRepository(conn repository.Querier) api.RaceRepository {
	return &repo{conn: conn}
}

// Create stores the race. A new id is assigned if race.ID is not set.
func (r *repo) Create(ctx context.Context, race *model.Race) error {
	if race.ID.IsNil() {
		id, err := uuid.NewV4()
		if err != nil {
			return err
		}
		race.ID = id
	}
	_, err := r.getExecutor(ctx).Exec(ctx, `
	insert into race (id, name, race_date, standings) values ($1,$2,$3,$4)
	`,
		race.ID, race.Name, race.Date, race.Standings)
	return repository.CheckUniqueViolation(err, "race "+race.ID.String())
}

func (r *repo) LoadByID(ctx context.Context, id uuid.UUID) (*model.Race, error) {
	row := r.getExecutor(ctx).QueryRow(ctx,
		fmt.Sprintf("%s where r.id=$1", selector), id)
	ret, err := readData(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("race %s: %w", id, repository.ErrNoData)
	}
	return ret, err
}

func (r *repo) LoadAll(ctx context.Context) ([]*model.Race, error) {
	rows, err := r.getExecutor(ctx).Query(ctx,
		fmt.Sprintf("%s order by r.race_date asc, r.name asc", selector))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ret := make([]*model.Race, 0)
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
func (r *repo) DeleteByID(ctx context.Context, id uuid.UUID) (int, error) {
	tag, err := r.getExecutor(ctx).Exec(ctx, "delete from race where id=$1", id)
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

func readData(row pgx.Row) (*model.Race, error) {
	var item model.Race
	if err := row.Scan(&item.ID, &item.Name, &item.Date, &item.Standings); err != nil {
		return nil, err
	}
	return &item, nil
}
