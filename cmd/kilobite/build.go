package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *cli) buildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Render the site into static files",
		Long: `The build command renders every public page, the feed, the sitemap and
the not-found page into the output directory, copies the public directory
alongside them and downscales oversized images.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := c.newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			res, err := app.Build(cmd.Context(), c.v.GetString("out"))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Built %d pages, copied %d files, resized %d images into %s\n",
				res.Pages, res.Files, res.Images, app.Config.OutputDir)
			return nil
		},
	}
	cmd.Flags().String("out", "dist", "output directory")
	cmd.Flags().Bool("drafts", false, "publish posts marked draft")
	return cmd
}
