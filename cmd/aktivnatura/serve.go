package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	aktivnatura "github.com/Juraj2254/pd-aktivnatura-blog-website"
	"github.com/Juraj2254/pd-aktivnatura-blog-website/views"
)

func newServeCmd() *cobra.Command {
	var (
		addr      string
		staticDir string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := aktivnatura.LoadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}
			app := aktivnatura.New(cfg, views.Default(cfg), aktivnatura.WithStaticDir(staticDir))
			defer app.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return app.Start(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides ADDR)")
	cmd.Flags().StringVar(&staticDir, "static", "public", "directory served under /public, uploads go to <static>/uploads")
	return cmd
}
