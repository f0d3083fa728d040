// File: cmd/root.go

// Package cmd wires the CLI surface: one subcommand per dashboard operation,
// persistent flags for config, logging and browser behavior, and the shared
// browser workflow every operation runs through.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/dvalis/opendnsctl/internal/config"
	"github.com/dvalis/opendnsctl/internal/observability"
)

var (
	cfgFile string

	// appCfg is populated in PersistentPreRunE and read by every subcommand.
	appCfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "opendnsctl",
	Short: "Manage OpenDNS content filtering categories through the dashboard.",
	Long: `opendnsctl drives the OpenDNS dashboard through a real browser session to
inspect and change per-network content filtering categories. Credentials and
the desired category list live in a flat opendns.conf file; saved snapshots
can be replayed later with the apply command.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initializeConfig(); err != nil {
			return err
		}

		cfg, err := config.Load(viper.GetViper())
		if err != nil {
			// Fall back to a usable logger so the failure itself gets reported.
			observability.InitializeLogger(config.LoggerConfig{Level: "info", Format: "console", ServiceName: "opendnsctl"})
			return err
		}
		appCfg = cfg

		observability.InitializeLogger(cfg.Logger)
		observability.GetLogger().Debug("Starting opendnsctl", zap.String("version", Version))
		return nil
	},
}

// Execute runs the root command. Any top-level failure exits with code 1.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if logger := observability.GetLogger(); logger != nil {
			logger.Error("Command failed", zap.Error(err))
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		observability.Sync()
		os.Exit(1)
	}
	observability.Sync()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&cfgFile, "config", "c", "", "application config file (default is ./opendnsctl.yaml)")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.String("log-file", "", "also write JSON logs to this file")
	pf.Bool("headless", true, "run the browser headless")
	pf.Bool("debug", false, "capture screenshots and page dumps on failures")

	cobra.CheckErr(viper.BindPFlag("logger.level", pf.Lookup("log-level")))
	cobra.CheckErr(viper.BindPFlag("logger.log_file", pf.Lookup("log-file")))
	cobra.CheckErr(viper.BindPFlag("browser.headless", pf.Lookup("headless")))
	cobra.CheckErr(viper.BindPFlag("browser.debug", pf.Lookup("debug")))

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

// initializeConfig layers defaults, the optional YAML config file and
// OPENDNSCTL_* environment variables onto the global viper instance.
func initializeConfig() error {
	v := viper.GetViper()
	config.SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("opendnsctl")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("OPENDNSCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// No config file is fine: defaults, env and flags cover everything.
	}
	return nil
}
