package util

import (
	"context"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgx-contrib/pgxtrace"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/mpapenbr/fantasyf1-service-go/log"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/config"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/db/postgres"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/notify"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/utils"
)

func ParseLogLevel(l string, defaultVal log.Level) log.Level {
	level, err := log.ParseLevel(l)
	if err != nil {
		return defaultVal
	}
	return level
}

// SetupLogger creates the application and the sql logger according to the
// log config values. The application logger becomes the default logger.
func SetupLogger() (logger, sqlLogger *log.Logger) {
	opts := []log.Option{log.WithCaller(true), log.AddCallerSkip(1)}
	if config.LogFilter != "" {
		if filter, err := log.WithFilter(config.LogFilter); err == nil {
			opts = append(opts, filter)
		} else {
			log.Warn("ignoring invalid log filter", log.ErrorField(err))
		}
	}
	switch config.LogFormat {
	case "json":
		logger = log.New(os.Stderr,
			ParseLogLevel(config.LogLevel, log.InfoLevel), opts...)
		sqlLogger = log.New(os.Stderr,
			ParseLogLevel(config.SQLLogLevel, log.InfoLevel), opts...)
	default:
		logger = log.DevLogger(os.Stderr,
			ParseLogLevel(config.LogLevel, log.DebugLevel), opts...)
		sqlLogger = log.DevLogger(os.Stderr,
			ParseLogLevel(config.SQLLogLevel, log.InfoLevel), opts...)
	}
	log.ResetDefault(logger)
	return logger, sqlLogger.Named("sql")
}

// WaitForRequiredServices blocks until the database (and nats, if configured)
// accept tcp connections. Startup is aborted if they are not ready in time.
func WaitForRequiredServices(ctx context.Context) {
	timeout, err := time.ParseDuration(config.WaitForServices)
	if err != nil {
		log.Warn("Invalid duration value. Setting default 60s", log.ErrorField(err))
		timeout = 60 * time.Second
	}
	addrs := []string{utils.ExtractAddr(config.DB)}
	if config.NatsURL != "" {
		addrs = append(addrs, utils.ExtractAddr(config.NatsURL))
	}
	g, gCtx := errgroup.WithContext(ctx)
	for _, addr := range addrs {
		if addr == "" {
			continue
		}
		g.Go(func() error {
			return utils.WaitForTCP(gCtx, addr, timeout)
		})
	}
	log.Debug("Waiting for connection checks to return")
	if err := g.Wait(); err != nil {
		log.Fatal("required services not ready", log.ErrorField(err))
	}
	log.Debug("Required services are available")
}

// NewPool creates the database pool. SQL statements are logged by sqlLogger,
// extra tracers are added to the tracer chain.
func NewPool(sqlLogger *log.Logger, extra ...pgx.QueryTracer) *pgxpool.Pool {
	tracer := pgxtrace.CompositeQueryTracer{
		postgres.NewMyTracer(sqlLogger, log.DebugLevel),
	}
	tracer = append(tracer, extra...)
	return postgres.InitWithURL(config.DB, postgres.WithTracer(tracer))
}

// NewPublisher connects to nats if configured. The returned func closes the
// connection after pending messages are flushed.
func NewPublisher() (notify.Publisher, func()) {
	if config.NatsURL == "" {
		return notify.NewNopPublisher(), func() {}
	}
	conn, err := notify.Connect(config.NatsURL)
	if err != nil {
		log.Fatal("could not connect to nats", log.ErrorField(err))
	}
	pub := notify.NewNatsPublisher(conn,
		notify.WithSubjectPrefix(config.NatsSubjectPrefix))
	return pub, func() {
		if err := conn.Drain(); err != nil {
			log.Warn("nats drain", log.ErrorField(err))
		}
	}
}

// ParseDecimal returns def if value is not a valid decimal
func ParseDecimal(name, value string, def decimal.Decimal) decimal.Decimal {
	ret, err := decimal.NewFromString(value)
	if err != nil {
		log.Warn("Invalid decimal value, using default",
			log.String("name", name),
			log.String("value", value),
			log.String("default", def.String()))
		return def
	}
	return ret
}
