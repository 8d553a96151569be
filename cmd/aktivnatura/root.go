package main

import (
	"github.com/spf13/cobra"

	aktivnatura "github.com/Juraj2254/pd-aktivnatura-blog-website"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "aktivnatura",
		Short: "PD Aktivnatura website and CMS",
		Long: `aktivnatura serves the PD Aktivnatura hiking club website and admin dashboard.

Configuration is read from the environment (and a .env file when present):
  SESSION_SECRET, SITE_URL, DATABASE_PATH, BOOTSTRAP_ADMIN_EMAIL, ...

Example usage:
  aktivnatura serve                         # Run the web server
  aktivnatura sitemap -o public/sitemap.xml # Write the sitemap to a file
  aktivnatura users grant ana@example.com   # Give a user the admin role`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newSitemapCmd(), newUsersCmd(), newVersionCmd())
	return root
}

// openStore loads the configuration and opens the database without
// starting the web server.
func openStore() (aktivnatura.SiteConfig, *aktivnatura.Store, error) {
	cfg, err := aktivnatura.LoadConfig()
	if err != nil {
		return cfg, nil, err
	}
	store, err := aktivnatura.NewStore(cfg.DatabasePath)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, store, nil
}
