package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	aktivnatura "github.com/Juraj2254/pd-aktivnatura-blog-website"
)

func newSitemapCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "sitemap",
		Short: "Generate sitemap.xml from published content",
		Long: `Generate sitemap.xml for the static pages and every published trip and post.

Examples:
  aktivnatura sitemap                         # Print to stdout
  aktivnatura sitemap -o public/sitemap.xml   # Write to a file`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			data, err := aktivnatura.BuildSitemap(cmd.Context(), store, cfg.URL, time.Now())
			if err != nil {
				return err
			}
			if out == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "sitemap written to %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (default stdout)")
	return cmd
}
