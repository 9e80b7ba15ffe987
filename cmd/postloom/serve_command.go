package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"postloom/internal/webui"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bind string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the browser image demo",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			if bind != "" {
				cfg.Paths.WebBind = bind
			}

			server, err := webui.New(cfg, logger)
			if err != nil {
				return err
			}

			serveCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return server.Start(serveCtx)
		},
	}

	cmd.Flags().StringVar(&bind, "bind", "", "Listen address (default from configuration)")
	return cmd
}
