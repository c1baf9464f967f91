package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eringen/kilobite"
	"github.com/eringen/kilobite/content"
	"github.com/eringen/kilobite/siteconfig"
)

var errCheckFailed = errors.New("check failed")

func (c *cli) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the site configuration and content",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := c.serverConfig()
			out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
			failed := false

			site, err := kilobite.LoadSite(cfg.SiteFile)
			var verr *siteconfig.ValidationError
			switch {
			case errors.As(err, &verr):
				failed = true
				fmt.Fprintln(errOut, "site configuration is invalid:")
				for _, f := range verr.Fields() {
					fmt.Fprintf(errOut, "  %s\n", f)
				}
			case err != nil:
				return err
			default:
				fmt.Fprintf(out, "site: %q ok\n", site.Title())
			}

			coll, err := content.Load(cfg.ContentDir, content.LoadOptions{IncludeDrafts: true})
			if err != nil {
				failed = true
				fmt.Fprintln(errOut, err)
			} else {
				fmt.Fprintf(out, "content: %d posts, %d projects, %d pages ok\n",
					len(coll.Posts), len(coll.Projects), len(coll.Pages))
			}

			if failed {
				return errCheckFailed
			}
			return nil
		},
	}
}
