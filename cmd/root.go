/*
	Copyright 2024 Markus Papenbrock
*/

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	importRaceCmd "github.com/mpapenbr/fantasyf1-service-go/pkg/cmd/importrace"
	migrateCmd "github.com/mpapenbr/fantasyf1-service-go/pkg/cmd/migrate"
	seedCmd "github.com/mpapenbr/fantasyf1-service-go/pkg/cmd/seed"
	serverCmd "github.com/mpapenbr/fantasyf1-service-go/pkg/cmd/server"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/config"
	"github.com/mpapenbr/fantasyf1-service-go/version"
)

const envPrefix = "FF1"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:     "ff1",
	Short:   "Fantasy Formula 1 league backend",
	Long:    "Settles races, manages rosters and serves the fantasy league api.",
	Version: version.FullVersion,
}

// Execute runs the ff1 command line
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is $HOME/.ff1.yml)")

	rootCmd.PersistentFlags().StringVar(&config.DB, "db",
		"postgresql://DB_USERNAME:DB_USER_PASSWORD@DB_HOST:5432/fantasyf1",
		"Connection string for the database")
	rootCmd.PersistentFlags().StringVar(&config.WaitForServices,
		"wait-for-services",
		"15s",
		"Duration to wait for other services to be ready")
	rootCmd.PersistentFlags().StringVar(&config.LogLevel,
		"log-level",
		"info",
		"controls the log level (debug, info, warn, error, fatal)")
	rootCmd.PersistentFlags().StringVar(&config.SQLLogLevel,
		"sql-log-level",
		"info",
		"controls the log level for sql methods")
	rootCmd.PersistentFlags().StringVar(&config.LogFormat,
		"log-format",
		"json",
		"controls the log output format (json, text)")
	rootCmd.PersistentFlags().StringVar(&config.LogFilter,
		"log-filter",
		"",
		"zapfilter rules for fine grained logging (example: '*:* debug:api*')")
	rootCmd.PersistentFlags().StringVar(&config.NatsURL,
		"nats-url",
		"",
		"nats server for settlement notifications (empty disables notifications)")
	rootCmd.PersistentFlags().StringVar(&config.NatsSubjectPrefix,
		"nats-subject-prefix",
		"ff1",
		"prefix of published nats subjects")

	rootCmd.AddCommand(migrateCmd.NewMigrateCmd())
	rootCmd.AddCommand(serverCmd.NewServerCmd())
	rootCmd.AddCommand(seedCmd.NewSeedCmd())
	rootCmd.AddCommand(importRaceCmd.NewImportRaceCmd())
}

// initConfig reads the config file and FF1_* environment variables.
// Values from both sources apply to flags not given on the command line.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)
		// .ff1.yml in the home or working directory
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".ff1")
	}
	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
	bindCommandTree(rootCmd, viper.GetViper())
}

func bindCommandTree(cmd *cobra.Command, v *viper.Viper) {
	bindFlags(cmd, v)
	for _, sub := range cmd.Commands() {
		bindCommandTree(sub, v)
	}
}

// bindFlags maps each flag to its viper key. Dashes become underscores for
// the environment, e.g. --admin-token is read from FF1_ADMIN_TOKEN.
func bindFlags(cmd *cobra.Command, v *viper.Viper) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if strings.Contains(f.Name, "-") {
			env := envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
			if err := v.BindEnv(f.Name, env); err != nil {
				fmt.Fprintf(os.Stderr, "Could not bind env var %s: %v\n", env, err)
			}
		}
		if f.Changed || !v.IsSet(f.Name) {
			return
		}
		if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name))); err != nil {
			fmt.Fprintf(os.Stderr, "Could not set flag %s: %v\n", f.Name, err)
		}
	})
}
