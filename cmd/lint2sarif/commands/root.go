// Copyright (C) 2025 l3montree GmbH
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package commands

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/l3montree-dev/lint2sarif/cmd/lint2sarif/config"
	"github.com/lmittmann/tint"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var cfgFile string

// Version information - set via ldflags during build
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
	builtBy = "unknown"
)

const (
	defaultConfigFilename = ".lint2sarif"
)

var RootCmd = &cobra.Command{
	SilenceUsage:      true,
	Use:               "lint2sarif",
	Short:             "Convert static analysis output to SARIF",
	Version:           version,
	DisableAutoGenTag: true,
	Long: `Convert static analysis output to SARIF

lint2sarif turns the native output of clippy, hadolint, shellcheck and
clang-tidy into SARIF 2.1.0 reports that code scanning platforms understand.
Each tool has its own subcommand reading from stdin or input files and writing
to stdout or an output file. Configuration can be provided via a ./.lint2sarif
config file or environment variables (prefix LINT2SARIF_).`,
	Example: `  # Pipe a linter straight into a report
  hadolint -f json Dockerfile | lint2sarif hadolint -o results.sarif.json

  # Convert a saved shellcheck run
  lint2sarif shellcheck -i shellcheck.json -o results.sarif.json

  # Convert a cargo clippy message stream with workspace relative paths
  cargo clippy --message-format json | lint2sarif clippy --cargoMetadata metadata.json`,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// init the logger - get the level
		level, err := cmd.Flags().GetString("logLevel")
		if err != nil {
			return err
		}

		switch level {
		case "debug":
			initLogger(slog.LevelDebug)
		case "info":
			initLogger(slog.LevelInfo)
		case "warn":
			initLogger(slog.LevelWarn)
		case "error":
			initLogger(slog.LevelError)
		default:
			initLogger(slog.LevelInfo)
		}

		err = initializeConfig(cmd)
		if err != nil {
			return err
		}

		return nil
	},
}

func Execute() {
	err := RootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Add version details command
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("lint2sarif\n")
			fmt.Printf("Version:    %s\n", version)
			fmt.Printf("Commit:     %s\n", commit)
			fmt.Printf("Built:      %s\n", date)
			fmt.Printf("Built by:   %s\n", builtBy)
		},
	}

	RootCmd.AddCommand(
		versionCmd,
		NewClippyCommand(),
		NewHadolintCommand(),
		NewShellcheckCommand(),
		NewClangTidyCommand(),
	)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: ./"+defaultConfigFilename+".yaml)")
	RootCmd.PersistentFlags().StringP("logLevel", "l", "info", "Set the log level. Options: debug, info, warn, error")
}

// initLogger initializes the logger with a tint handler.
// tint is a simple logging library that allows to add colors to the log output.
// this is obviously not required, but it makes the logs easier to read.
func initLogger(level slog.Leveler) {
	// slog.HandlerOptions
	w := os.Stderr

	// set global logger with custom options
	slog.SetDefault(slog.New(
		tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
			AddSource:  true,
		}),
	))
}

func initializeConfig(cmd *cobra.Command) error {
	// Set the base name of the config file, without the file extension.
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(defaultConfigFilename)
	}

	// Set as many paths as you like where viper should look for the
	// config file. We are only looking in the current working directory.
	viper.AddConfigPath(".")

	viper.AddConfigPath("/etc/lint2sarif/")
	// Attempt to read the config file, gracefully ignoring errors
	// caused by a config file not being found. Return an error
	// if we cannot parse the config file.
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if there isn't a config file
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		} else {
			slog.Debug("no config file found")
		}
	}

	viper.SetEnvPrefix("LINT2SARIF")
	// Environment variables can't have dashes in them, so bind them to their equivalent
	// keys with underscores, e.g. --favorite-color to STING_FAVORITE_COLOR
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	// Bind to environment variables
	// Works great for simple config names, but needs help for names
	// like --favorite-color which we fix in the bindFlags function
	viper.AutomaticEnv()

	// Bind the current command's flags to viper
	bindFlags(cmd)

	config.ParseBaseConfig()
	return nil
}

// Bind each cobra flag to its associated viper configuration (config file and environment variable)
func bindFlags(cmd *cobra.Command) {

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		configName := f.Name

		// Apply the viper config value to the flag when the flag is not set and viper has a value.
		// Slice values do not survive the string round trip, viper.Unmarshal picks them up directly.
		if !f.Changed && viper.IsSet(configName) && f.Value.Type() != "stringArray" {
			val := viper.Get(configName)
			cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val)) // nolint: errcheck
		}

		// Bind the flag to viper
		if err := viper.BindPFlag(configName, f); err != nil {
			slog.Error("could not bind flag to viper", "err", err)
		}
	})
}
