package api

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/mpapenbr/fantasyf1-service-go/pkg/model"
)

type Repositories interface {
	Driver() DriverRepository
	Team() TeamRepository
	Race() RaceRepository
	User() UserRepository
}

type DriverRepository interface {
	Create(ctx context.Context, driver *model.Driver) error
	// Upsert creates the driver or updates team and price of an existing one
	Upsert(ctx context.Context, driver *model.Driver) error
	LoadByName(ctx context.Context, name string) (*model.Driver, error)
	LoadAll(ctx context.Context) ([]*model.Driver, error)
	// LoadAllForUpdate locks all driver rows until the surrounding transaction ends
	LoadAllForUpdate(ctx context.Context) ([]*model.Driver, error)
	UpdateChampionshipPoints(ctx context.Context, drivers []*model.Driver) error
	DeleteByName(ctx context.Context, name string) (int, error)
}

type TeamRepository interface {
	Create(ctx context.Context, team *model.Team) error
	Upsert(ctx context.Context, team *model.Team) error
	LoadByName(ctx context.Context, name string) (*model.Team, error)
	LoadAll(ctx context.Context) ([]*model.Team, error)
	DeleteByName(ctx context.Context, name string) (int, error)
}

type RaceRepository interface {
	Create(ctx context.Context, race *model.Race) error
	LoadByID(ctx context.Context, id uuid.UUID) (*model.Race, error)
	LoadAll(ctx context.Context) ([]*model.Race, error)
	DeleteByID(ctx context.Context, id uuid.UUID) (int, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User, apiKeyHash string) error
	LoadByUsername(ctx context.Context, username string) (*model.User, error)
	// LoadByUsernameForUpdate locks the user row until the surrounding
	// transaction ends
	LoadByUsernameForUpdate(ctx context.Context, username string) (*model.User, error)
	LoadByAPIKeyHash(ctx context.Context, hash string) (*model.User, error)
	LoadAll(ctx context.Context) ([]*model.User, error)
	// LoadAllForUpdate locks all user rows until the surrounding transaction ends
	LoadAllForUpdate(ctx context.Context) ([]*model.User, error)
	// Update stores roster, points, budget and bonuses
	Update(ctx context.Context, user *model.User) error
}

type TransactionManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
