package tcpostgres

import (
	"context"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const defaultImage = "postgres:17-alpine"

// PostgresContainer is the container holding the ff1 test database
type PostgresContainer struct {
	testcontainers.Container
}

type (
	containerConfig struct {
		req   testcontainers.ContainerRequest
		reuse bool
	}
	PostgresContainerOption func(cfg *containerConfig)
)

func WithImage(image string) PostgresContainerOption {
	return func(cfg *containerConfig) {
		cfg.req.Image = image
	}
}

func WithWaitStrategy(strategies ...wait.Strategy) PostgresContainerOption {
	return func(cfg *containerConfig) {
		cfg.req.WaitingFor = wait.ForAll(strategies...).WithDeadline(time.Minute)
	}
}

func WithPort(port string) PostgresContainerOption {
	return func(cfg *containerConfig) {
		cfg.req.ExposedPorts = append(cfg.req.ExposedPorts, port)
	}
}

// WithName names the container. Named containers are reused by test
// packages running in parallel.
func WithName(containerName string) PostgresContainerOption {
	return func(cfg *containerConfig) {
		cfg.req.Name = containerName
		cfg.reuse = true
	}
}

func WithInitialDatabase(user, password, dbName string) PostgresContainerOption {
	return func(cfg *containerConfig) {
		cfg.req.Env["POSTGRES_USER"] = user
		cfg.req.Env["POSTGRES_PASSWORD"] = password
		cfg.req.Env["POSTGRES_DB"] = dbName
	}
}

//nolint:whitespace // editor/linter issue
func SetupPostgres(ctx context.Context, opts ...PostgresContainerOption) (
	*PostgresContainer, error,
) {
	cfg := &containerConfig{
		req: testcontainers.ContainerRequest{
			Image: defaultImage,
			Env:   map[string]string{"TZ": "UTC"},
			// durability is irrelevant for throw-away test data
			Cmd: []string{"postgres", "-c", "fsync=off", "-c", "synchronous_commit=off"},
		},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	container, err := testcontainers.GenericContainer(ctx,
		testcontainers.GenericContainerRequest{
			ContainerRequest: cfg.req,
			Started:          true,
			Reuse:            cfg.reuse,
		})
	if err != nil {
		return nil, err
	}
	return &PostgresContainer{Container: container}, nil
}
