package cmd

import (
	"condexpr/pkg/server"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

func (a *app) newServeCmd() *cobra.Command {
	var addr string
	c := &cobra.Command{
		Use:   "serve",
		Short: "Serve POST /parse and a /ws websocket endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				a.cfg.Server.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := server.New(a.cfg.Server, a.service(), a.log)
			return srv.ListenAndServe(ctx)
		},
	}
	c.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return c
}

func (a *app) newTokenCmd() *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)
	c := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for the server (needs server.jwt_secret)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if ttl == 0 {
				ttl = a.cfg.Server.TokenTTL.Duration
			}
			tok, err := server.IssueToken(a.cfg.Server.JWTSecret, subject, ttl)
			if err != nil {
				return fmt.Errorf("issue token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	c.Flags().StringVar(&subject, "subject", "cli", "token subject")
	c.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default server.token_ttl)")
	return c
}
