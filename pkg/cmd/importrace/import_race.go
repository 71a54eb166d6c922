package importrace

import (
	"context"
	"encoding/json"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/fantasyf1-service-go/log"
	cmdutil "github.com/mpapenbr/fantasyf1-service-go/pkg/cmd/util"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/config"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/importer"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/repository/postgres"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/scoring"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/service/settlement"
)

type importConfig struct {
	file          string
	standingsPath string
	name          string
	date          string
	dryRun        bool
}

var cfg importConfig

func NewImportRaceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import-race",
		Short: "settles a race using the standings of a json results feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context())
		},
	}
	cmd.Flags().StringVarP(&cfg.file,
		"file",
		"f",
		"",
		"json file containing the race results")
	cmd.Flags().StringVar(&cfg.standingsPath,
		"standings-path",
		importer.DefaultStandingsPath,
		"JSONPath selecting the driver names in finishing order")
	cmd.Flags().StringVar(&cfg.name,
		"name",
		"",
		"name of the race")
	cmd.Flags().StringVar(&cfg.date,
		"date",
		"",
		"date of the race (2006-01-02), defaults to now")
	cmd.Flags().BoolVar(&cfg.dryRun,
		"dry-run",
		false,
		"only print the extracted standings")
	cmd.Flags().IntVar(&config.SettlementParallelism,
		"settlement-parallelism",
		runtime.NumCPU(),
		"max number of users settled concurrently")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

//nolint:funlen // by design
func runImport(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	_, sqlLogger := cmdutil.SetupLogger()
	standings, err := importer.StandingsFromFile(cfg.file, cfg.standingsPath)
	if err != nil {
		return err
	}
	log.Info("standings extracted",
		log.String("file", cfg.file),
		log.Strings("standings", standings))
	if cfg.dryRun {
		return printJSON(standings)
	}
	req := &settlement.Request{Name: cfg.name, Standings: standings}
	if cfg.date != "" {
		if req.Date, err = time.Parse(time.DateOnly, cfg.date); err != nil {
			return err
		}
	}

	cmdutil.WaitForRequiredServices(ctx)
	pool := cmdutil.NewPool(sqlLogger)
	defer pool.Close()
	publisher, closePublisher := cmdutil.NewPublisher()
	defer closePublisher()

	svc := settlement.NewService(
		settlement.WithRepositories(postgres.NewRepositories(pool)),
		settlement.WithTransactionManager(postgres.NewTransactionManager(pool)),
		settlement.WithPublisher(publisher),
		settlement.WithSettler(scoring.NewSettler(
			scoring.WithParallelism(config.SettlementParallelism))),
	)
	summary, err := svc.SettleRace(ctx, req)
	if err != nil {
		return err
	}
	return printJSON(summary)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
