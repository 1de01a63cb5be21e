// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
)

const (
	serveCmdUsage = "serve"
	serveCmdShort = "start the sample server with call logging enabled"
	serveCmdLong  = `Start an HTTP server whose echo routes are decorated with call logging.
	Every call of the echo service logs its start, its end and how long it took,
	together with the request it was serving.

	Logging is configured with the HTTP_LOGGING_ENABLED and HTTP_LOGGING_LEVEL
	environment variables, or with a YAML file passed with --config-file:

	  http:
	    logging:
	      enabled: true
	      level: INFO`

	serveCmdExample = `# Start the server reading the logging configuration from the environment
	calllog serve

	# Start the server and reload the logging configuration when the file changes
	calllog serve --config-file config.yaml --watch`
)

// ServeCmd returns the Cobra command that starts the sample server.
func ServeCmd() *cobra.Command {
	flags := &flags{}
	cmd := &cobra.Command{
		Use:     serveCmdUsage,
		Short:   heredoc.Doc(serveCmdShort),
		Long:    heredoc.Doc(serveCmdLong),
		Example: heredoc.Doc(serveCmdExample),

		SilenceErrors: true,
		SilenceUsage:  true,

		Args:              cobra.NoArgs,
		ValidArgsFunction: cobra.NoFileCompletions,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := flags.toOptions()
			if err := opts.validate(); err != nil {
				return handleError(cmd, err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := opts.execute(ctx); err != nil {
				return handleError(cmd, err)
			}

			return nil
		},
	}

	flags.addFlags(cmd)
	return cmd
}
