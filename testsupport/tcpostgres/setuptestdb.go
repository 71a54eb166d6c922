//nolint:errcheck // testsetup
package tcpostgres

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/mpapenbr/fantasyf1-service-go/pkg/db/migrate"
	database "github.com/mpapenbr/fantasyf1-service-go/pkg/db/postgres"
)

// create a pg connection pool for the ff1 testdatabase
func SetupTestDb() *pgxpool.Pool {
	ctx := context.Background()
	port, err := nat.NewPort("tcp", "5432")
	if err != nil {
		log.Fatal(err)
	}
	container, err := SetupPostgres(ctx,
		WithPort(string(port)),
		WithInitialDatabase("postgres", "password", "postgres"),
		WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
		WithName("fantasyf1-service-test"),
	)
	if err != nil {
		log.Fatal(err)
	}
	containerPort, _ := container.MappedPort(ctx, port)
	host, _ := container.Host(ctx)
	dbURL := fmt.Sprintf("postgresql://postgres:password@%s:%s/postgres",
		host, containerPort.Port())

	return setupPool(dbURL)
}

// uses the database referenced by TESTDB_URL
func SetupExternalTestDb() *pgxpool.Pool {
	return setupPool(os.Getenv("TESTDB_URL"))
}

func setupPool(dbURL string) *pgxpool.Pool {
	if err := migrate.MigrateDb(dbURL); err != nil {
		log.Fatal(err)
	}
	pool, err := database.NewPool(context.Background(), dbURL)
	if err != nil {
		log.Fatal(err)
	}
	return pool
}

func ClearUserTable(pool *pgxpool.Pool) {
	pool.Exec(context.Background(), "delete from app_user")
}

func ClearRaceTable(pool *pgxpool.Pool) {
	pool.Exec(context.Background(), "delete from race")
}

func ClearDriverTable(pool *pgxpool.Pool) {
	pool.Exec(context.Background(), "delete from driver")
}

func ClearTeamTable(pool *pgxpool.Pool) {
	pool.Exec(context.Background(), "delete from team")
}

func ClearAllTables(pool *pgxpool.Pool) {
	ClearUserTable(pool)
	ClearRaceTable(pool)
	ClearDriverTable(pool)
	ClearTeamTable(pool)
}
