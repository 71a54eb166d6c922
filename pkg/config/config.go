package config

// this holds the resolved configuration values from CLI
//
//nolint:lll // readablity
var (
	DB                     string // connection string for the database
	WaitForServices        string // duration to wait for other services to be ready
	LogLevel               string // sets the log level (zap log level values)
	SQLLogLevel            string // sets the log level for sql subsystem
	LogFormat              string // text vs json
	LogFilter              string // zapfilter rules applied to the logger
	MigrationSourceURL     string // location of migration files
	EnableTelemetry        bool   // enable telemetry
	TelemetryEndpoint      string // endpoint for telemetry ("stdout" writes to console)
	ProfilingPort          int    // port for profiling
	ServerAddr             string // listen addr for the api server
	TLSCertFile            string // path to TLS certificate
	TLSKeyFile             string // path to TLS key
	TLSCAFile              string // path to TLS CA
	AdminToken             string // token for admin access
	OIDCIssuerURL          string // issuer for bearer token verification (optional)
	OIDCClientID           string // expected audience of bearer tokens
	OIDCUsernameClaim      string // claim holding the username
	NatsURL                string // nats server url, empty disables notifications
	NatsSubjectPrefix      string // prefix for published subjects
	InitialBudget          string // budget of newly registered users
	BonusPrice             string // price of a single bonus tag
	SettlementParallelism  int    // max number of users settled concurrently
	MinClientVersion       string // minimum accepted client version (semver)
	UserCacheExpiration    string // how long authenticated users are cached
)

// Config holds the configuration values which are used by the application
type Config struct {
	PrintRequests bool // if true, request payloads are logged on debug level
}
