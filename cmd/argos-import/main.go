// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the argos-import CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is configured from the log.* settings before any subcommand runs.
var logger = logrus.New()

// rootCmd is the base command for the argos-import CLI.
var rootCmd = &cobra.Command{
	Use:   "argos-import",
	Short: "Convert ARGOS satellite-tracking files into a point feature class",
	Long: `argos-import reads a folder of ARGOS tracking text files, parses each
two-line observation record, and writes one point feature per record into a
GeoPackage feature class with TagID, LC and Date attributes.

Use "import" to build a feature class and "export" to dump one as GeoJSON
or YAML.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := configureLogging(logConfig())
		if err != nil {
			return err
		}
		logger = l
		if f := viper.ConfigFileUsed(); f != "" {
			logger.Debugf("Using config file: %s", f)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./argos-import.yaml or ~/.config/argos-import/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-file", "", "also write log entries to this rotating file")

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.max_age_days", 30)
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log.file", rootCmd.PersistentFlags().Lookup("log-file"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("argos-import")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "argos-import"))
		}
	}

	viper.SetEnvPrefix("ARGOS_IMPORT")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			fmt.Fprintln(os.Stderr, "warning: reading config:", err)
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
