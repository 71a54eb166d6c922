package testdb

import (
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mpapenbr/fantasyf1-service-go/testsupport/basedata"
	tcpg "github.com/mpapenbr/fantasyf1-service-go/testsupport/tcpostgres"
)

// InitTestDb returns a pool for an empty, migrated test database.
// TESTDB_URL selects an external database instead of a testcontainer.
func InitTestDb() *pgxpool.Pool {
	var pool *pgxpool.Pool

	if os.Getenv("TESTDB_URL") != "" {
		pool = tcpg.SetupExternalTestDb()
	} else {
		pool = tcpg.SetupTestDb()
	}
	tcpg.ClearAllTables(pool)
	return pool
}

// InitTestDbWithBaseData is InitTestDb plus the basedata teams and drivers
func InitTestDbWithBaseData() *pgxpool.Pool {
	pool := InitTestDb()
	basedata.CreateBaseData(pool)
	return pool
}
