// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mia-platform/calllog/internal/server"
)

const (
	configFileFlagName  = "config-file"
	configFileFlagShort = "c"
	configFileFlagUsage = "Path to a YAML file with the logging configuration. If not set the environment is used."

	watchFlagName    = "watch"
	watchFlagUsage   = "Reload the logging configuration when the file passed with --config-file changes"
	defaultWatchFlag = false
)

// flags collects the CLI options of the serve command.
type flags struct {
	configFile string
	watch      bool
}

// addFlags registers the CLI flags on cmd.
func (f *flags) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.configFile, configFileFlagName, configFileFlagShort, "", configFileFlagUsage)
	cmd.Flags().BoolVar(&f.watch, watchFlagName, defaultWatchFlag, watchFlagUsage)
}

// toOptions builds an options instance from the parsed flags.
func (f *flags) toOptions() *options {
	return &options{
		configFile:    f.configFile,
		watch:         f.watch,
		serverFactory: server.NewServer,
	}
}
