package migrate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"

	"github.com/mpapenbr/fantasyf1-service-go/log"
	cmdutil "github.com/mpapenbr/fantasyf1-service-go/pkg/cmd/util"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/config"
	dbMigrate "github.com/mpapenbr/fantasyf1-service-go/pkg/db/migrate"
)

// embeddedSource selects the migrations compiled into the binary
const embeddedSource = "embedded"

func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "performs database migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return startMigration(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&config.MigrationSourceURL,
		"migration-source-url",
		"m",
		embeddedSource,
		"url to migration files (example: file:///migrations)")

	return cmd
}

func startMigration(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cmdutil.SetupLogger()
	cmdutil.WaitForRequiredServices(ctx)

	if config.MigrationSourceURL == embeddedSource {
		log.Info("Using embedded migrations")
		return dbMigrate.MigrateDb(config.DB)
	}
	log.Info("Using migrations files at", log.String("source", config.MigrationSourceURL))
	dbURL := prepareURLForDB(config.DB)

	m, err := migrate.New(config.MigrationSourceURL, dbURL)
	if err != nil {
		return fmt.Errorf("could not create migration: %w", err)
	}
	defer m.Close()
	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		log.Info("No Migration required")
		return nil
	}
	return err
}

func prepareURLForDB(url string) string {
	options := "sslmode="
	if strings.Contains(url, options) {
		return url
	}
	if strings.Contains(url, "?") {
		return fmt.Sprintf("%s&%sdisable", url, options)
	} else {
		return fmt.Sprintf("%s?%sdisable", url, options)
	}
}
