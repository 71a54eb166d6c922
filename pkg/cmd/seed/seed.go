package seed

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/fantasyf1-service-go/log"
	cmdutil "github.com/mpapenbr/fantasyf1-service-go/pkg/cmd/util"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/repository/postgres"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/seed"
)

var seasonFile string

func NewSeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "creates or updates teams and drivers from a season file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context())
		},
	}
	cmd.Flags().StringVarP(&seasonFile,
		"file",
		"f",
		"season.yml",
		"yaml file containing teams and drivers of the season")
	return cmd
}

func runSeed(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	_, sqlLogger := cmdutil.SetupLogger()
	s, err := seed.ParseFile(seasonFile)
	if err != nil {
		return err
	}
	cmdutil.WaitForRequiredServices(ctx)
	pool := cmdutil.NewPool(sqlLogger)
	defer pool.Close()

	if err := seed.Apply(ctx,
		postgres.NewRepositories(pool),
		postgres.NewTransactionManager(pool),
		s); err != nil {
		return err
	}
	log.Info("seed done", log.String("file", seasonFile))
	return nil
}
