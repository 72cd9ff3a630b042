package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/abiiranathan/twigcheck/audit"
	"github.com/abiiranathan/twigcheck/server"
)

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve <path>",
		Short: "Serve the audit report as JSON over HTTP",
		Long: `serve starts an HTTP server. Every GET /report re-runs the audit
against the current state of the project and returns the JSON report.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, args[0])
			if err != nil {
				return err
			}
			defer s.closer.Close()

			run := func(ctx context.Context) (*audit.Report, error) {
				return s.runner(audit.NopTracer).Run(ctx)
			}
			cmd.Printf("Serving report for %s on %s\n", s.cfg.Root, s.cfg.Addr)
			return server.ListenAndServe(cmd.Context(), s.cfg.Addr, server.NewRouter(run, s.logger), s.logger)
		},
	}
	cmd.Flags().String("addr", ":8080", "listen address")
	return cmd
}
