package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	_ "net/http/pprof" //nolint:gosec // profiling port is opt-in
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
	otlpruntime "go.opentelemetry.io/contrib/instrumentation/runtime"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mpapenbr/fantasyf1-service-go/log"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/auth"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/catalog"
	cmdutil "github.com/mpapenbr/fantasyf1-service-go/pkg/cmd/util"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/config"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/db/postgres"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/model"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/notify"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/permission"
	repoApi "github.com/mpapenbr/fantasyf1-service-go/pkg/repository/api"
	pgRepos "github.com/mpapenbr/fantasyf1-service-go/pkg/repository/postgres"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/scoring"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/server/api"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/server/health"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/service/admin"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/service/league"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/service/roster"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/service/settlement"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/utils/cache"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/utils/cache/loadercache"
)

var appConfig config.Config // holds processed config values

//nolint:funlen // by design
func NewServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "starts the fantasy league api server",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			appConfig = config.Config{}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return startServer(cmd.Context())
		},
	}
	cmd.Flags().StringVarP(&config.ServerAddr,
		"server-addr",
		"a",
		"localhost:8080",
		"api server listen address")
	cmd.Flags().BoolVar(&config.EnableTelemetry,
		"enable-telemetry",
		false,
		"enables telemetry")
	cmd.Flags().StringVar(&config.TelemetryEndpoint,
		"telemetry-endpoint",
		"localhost:4317",
		"Endpoint that receives open telemetry data (use 'stdout' for console output)")
	cmd.Flags().IntVar(&config.ProfilingPort,
		"profiling-port",
		0,
		"port to use for providing profiling data")
	cmd.Flags().BoolVar(&appConfig.PrintRequests,
		"print-requests",
		false,
		"if true and log level is debug, request payloads are logged")
	cmd.Flags().StringVar(&config.AdminToken,
		"admin-token",
		"",
		"admin token value")
	cmd.Flags().StringVar(&config.OIDCIssuerURL,
		"oidc-issuer-url",
		"",
		"issuer of bearer ID tokens (empty disables bearer authentication)")
	cmd.Flags().StringVar(&config.OIDCClientID,
		"oidc-client-id",
		"ff1",
		"expected audience of bearer ID tokens")
	cmd.Flags().StringVar(&config.OIDCUsernameClaim,
		"oidc-username-claim",
		"preferred_username",
		"ID token claim holding the username")
	cmd.Flags().StringVar(&config.TLSCertFile,
		"tls-cert-file",
		"",
		"file containing the TLS certificate")
	cmd.Flags().StringVar(&config.TLSKeyFile,
		"tls-key-file",
		"",
		"file containing the TLS key")
	cmd.Flags().StringVar(&config.TLSCAFile,
		"tls-ca-file",
		"",
		"file containing the CA for client certificates")
	cmd.Flags().StringVar(&config.InitialBudget,
		"initial-budget",
		"100",
		"budget of newly registered users")
	cmd.Flags().StringVar(&config.BonusPrice,
		"bonus-price",
		"1",
		"price of a single bonus")
	cmd.Flags().IntVar(&config.SettlementParallelism,
		"settlement-parallelism",
		runtime.NumCPU(),
		"max number of users settled concurrently")
	cmd.Flags().StringVar(&config.MinClientVersion,
		"min-client-version",
		"",
		"minimum client version announced in header x-ff1-client-version")
	cmd.Flags().StringVar(&config.UserCacheExpiration,
		"user-cache-expiration",
		"5m",
		"duration authenticated users are cached")
	return cmd
}

//nolint:funlen,cyclop // by design
func startServer(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger, sqlLogger := cmdutil.SetupLogger()
	ctx = log.AddToContext(ctx, logger)

	log.Debug("Config:",
		log.String("db", config.DB),
		log.String("addr", config.ServerAddr),
		log.String("nats", config.NatsURL),
		log.String("oidcIssuer", config.OIDCIssuerURL),
	)

	if config.ProfilingPort > 0 {
		log.Info("Starting profiling server on port", log.Int("port", config.ProfilingPort))
		go func() {
			//nolint:gosec // profiling only
			err := http.ListenAndServe(
				fmt.Sprintf("localhost:%d", config.ProfilingPort),
				nil)
			if err != nil {
				log.Error("Profiling server stopped", log.ErrorField(err))
			}
		}()
	}

	cmdutil.WaitForRequiredServices(ctx)

	var telemetry *config.Telemetry
	var extraTracer []pgx.QueryTracer
	if config.EnableTelemetry {
		log.Info("Enabling telemetry")
		var err error
		if telemetry, err = config.SetupTelemetry(ctx); err == nil {
			extraTracer = append(extraTracer, postgres.NewOtlpTracer())
		} else {
			log.Warn("Could not setup telemetry", log.ErrorField(err))
		}
		err = otlpruntime.Start(otlpruntime.WithMinimumReadMemStatsInterval(time.Second))
		if err != nil {
			log.Warn("Could not start runtime metrics", log.ErrorField(err))
		}
	}

	pool := cmdutil.NewPool(sqlLogger, extraTracer...)
	defer pool.Close()
	natsPublisher, closePublisher := cmdutil.NewPublisher()
	defer closePublisher()
	localPublisher := notify.NewLocalPublisher()
	defer localPublisher.Close()
	publisher := notify.Multi(localPublisher, natsPublisher)

	repos := pgRepos.NewRepositories(pool)
	txMgr := pgRepos.NewTransactionManager(pool)
	bonusPrice := cmdutil.ParseDecimal("bonus-price", config.BonusPrice, model.DefaultBonusPrice)
	c, err := catalog.Load(bonusPrice)
	if err != nil {
		return err
	}
	rosterService, err := roster.NewService(
		roster.WithRepositories(repos),
		roster.WithTransactionManager(txMgr),
		roster.WithCatalog(c),
		roster.WithInitialBudget(cmdutil.ParseDecimal("initial-budget",
			config.InitialBudget, model.DefaultInitialBudget)),
	)
	if err != nil {
		return err
	}
	apiServer := api.NewServer(
		api.WithSettlementService(settlement.NewService(
			settlement.WithRepositories(repos),
			settlement.WithTransactionManager(txMgr),
			settlement.WithPublisher(publisher),
			settlement.WithSettler(scoring.NewSettler(
				scoring.WithParallelism(config.SettlementParallelism))),
		)),
		api.WithRosterService(rosterService),
		api.WithLeagueService(league.NewService(repos, c)),
		api.WithAdminService(admin.NewService(repos, txMgr)),
		api.WithPermissionEvaluator(permission.NewPermissionEvaluator()),
		api.WithEvents(localPublisher),
		api.WithMinClientVersion(config.MinClientVersion),
		api.WithPrintRequests(appConfig.PrintRequests),
	)

	mux := http.NewServeMux()
	apiServer.Register(mux)
	if err := health.Register(mux, health.NewChecker(pool)); err != nil {
		return err
	}
	authMiddleware, err := newAuthMiddleware(ctx, repos)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              config.ServerAddr,
		Handler:           h2c.NewHandler(newCORS().Handler(authMiddleware(mux)), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
		TLSConfig:         NewTLSConfigProvider(ctx),
	}
	// event streams end when the publisher closes their subscriptions
	server.RegisterOnShutdown(localPublisher.Close)
	serverErr := make(chan error, 1)
	go func() {
		log.Info("Starting api server",
			log.String("addr", config.ServerAddr),
			log.Bool("tls", server.TLSConfig != nil))
		var err error
		if server.TLSConfig != nil {
			err = server.ListenAndServeTLS("", "")
		} else {
			err = server.ListenAndServe()
		}
		serverErr <- err
	}()
	setupGoRoutinesDump()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	select {
	case v := <-sigChan:
		log.Debug("Got signal ", log.Any("signal", v))
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error("server could not be started", log.ErrorField(err))
			return err
		}
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("server shutdown", log.ErrorField(err))
	}
	if telemetry != nil {
		telemetry.Shutdown()
	}
	log.Info("Server terminated")
	return nil
}

//nolint:whitespace // editor/linter issue
func newAuthMiddleware(
	ctx context.Context,
	repos repoApi.Repositories,
) (func(http.Handler) http.Handler, error) {
	expiration, err := time.ParseDuration(config.UserCacheExpiration)
	if err != nil {
		log.Warn("Invalid duration value. Setting default 5m", log.ErrorField(err))
		expiration = 5 * time.Minute
	}
	var userCache cache.Cache[string, model.User] = loadercache.New(
		loadercache.WithExpiration[string, model.User](expiration),
		loadercache.WithLoader[string, model.User](
			func(ctx context.Context, hash string) (*model.User, error) {
				return repos.User().LoadByAPIKeyHash(ctx, hash)
			}))
	opts := []auth.Option{
		auth.WithAdminToken(config.AdminToken),
		auth.WithUserCache(userCache),
	}
	if config.OIDCIssuerURL != "" {
		p, err := auth.NewOIDCAuthenticator(ctx,
			config.OIDCIssuerURL, config.OIDCClientID, config.OIDCUsernameClaim)
		if err != nil {
			return nil, fmt.Errorf("oidc provider %s: %w", config.OIDCIssuerURL, err)
		}
		opts = append(opts, auth.WithProvider(p))
	}
	return auth.NewMiddleware(opts...), nil
}

func setupGoRoutinesDump() {
	go func() {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGQUIT)
		buf := make([]byte, 1<<20)
		for {
			<-sigs
			stacklen := runtime.Stack(buf, true)
			fmt.Printf("=== received SIGQUIT ===\n*** goroutine dump...\n%s\n*** end\n",
				buf[:stacklen])
		}
	}()
}

func newCORS() *cors.Cors {
	return cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
		},
		AllowOriginFunc: func(origin string) bool {
			return true
		},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{
			"Accept",
			"Accept-Encoding",
			"Content-Encoding",
			"Grpc-Status",
			"Grpc-Message",
		},
		// browsers cap this value (FF 24h, Chrome 2h)
		MaxAge: int(2 * time.Hour / time.Second),
	})
}
