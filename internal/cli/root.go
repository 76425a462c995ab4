// Package vqabench wires the cobra command tree of the vqabench CLI.
package vqabench

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mwiater/vqabench/internal/appconfig"
	"github.com/mwiater/vqabench/internal/logging"
	"github.com/mwiater/vqabench/internal/metrics"
)

var (
	cfgFile       string
	currentConfig *appconfig.Config
	appVersion    = "dev"
	appCommit     = "none"
	appDate       = "unknown"
)

var (
	boolFlags   = []string{"debug"}
	stringFlags = []string{"logFile", "logLevel", "dataDir", "resultsDir", "datasetsFile", "metricsFile"}
	intFlags    = []string{"timeout"}
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:           "vqabench",
	Short:         "vqabench: Vietnamese QA benchmark and semantic QA toolkit",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureConfigLoaded(); err != nil {
			return err
		}

		// viper resolves flags > config file > flag defaults per key.
		var cfg appconfig.Config
		if err := viper.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("unmarshal config: %w", err)
		}
		cfg.ConfigPath = viper.ConfigFileUsed()
		cfg.ApplyDefaults()
		if err := cfg.ResolveAPIKeys(); err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		currentConfig = &cfg

		if err := logging.Init(cfg.LogFilePath(), cfg.LogLevel, cfg.Debug); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		if cfg.MetricsEnabled() {
			metrics.Register()
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if cfg == nil || !cfg.MetricsEnabled() {
			return nil
		}
		if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
		logging.LogEvent("metrics written to %s", cfg.MetricsFile)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", appVersion, appCommit, appDate)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	defer logging.Close()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logging.Close()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", appconfig.DefaultConfigPath, "config file (e.g., config/config.json)")

	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().String("logFile", "", "path to the log file")
	rootCmd.PersistentFlags().String("logLevel", "", "file log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("dataDir", "", "directory holding benchmark files and index artifacts")
	rootCmd.PersistentFlags().String("resultsDir", "", "directory for experiment reports")
	rootCmd.PersistentFlags().String("datasetsFile", "", "dataset registry (YAML)")
	rootCmd.PersistentFlags().String("metricsFile", "", "write Prometheus metrics to this textfile after the run")
	rootCmd.PersistentFlags().Int("timeout", 0, "model request timeout in seconds (0 = default)")

	bindFlags()
}

// boundFlags returns the persistent flag names mirrored into viper keys.
func boundFlags() []string {
	return append(append(append([]string{}, boolFlags...), stringFlags...), intFlags...)
}

// bindFlags binds the persistent flags to viper keys so flags override config.
func bindFlags() {
	for _, name := range boundFlags() {
		_ = viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

// ensureConfigLoaded reads the config file. A missing file is not an error;
// flags and built-in defaults apply.
func ensureConfigLoaded() error {
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load config: %w", err)
	}
	return nil
}

// GetConfig returns the loaded application configuration for other packages.
func GetConfig() *appconfig.Config {
	return currentConfig
}

// SetVersionInfo allows the main package to inject build-time variables.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

// requireConfig returns the loaded config or an error when PersistentPreRunE did not run.
func requireConfig() (*appconfig.Config, error) {
	cfg := GetConfig()
	if cfg == nil {
		return nil, errors.New("configuration not loaded")
	}
	return cfg, nil
}
