package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func (c *cli) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the site over HTTP",
		Long: `The serve command indexes the content directory and serves the site.
With --watch, edits under the content directory are picked up without a
restart. The site configuration is read once at startup.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := c.newApp()
			if err != nil {
				return err
			}
			defer app.Close()
			if err := app.Init(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errc := make(chan error, 1)
			go func() { errc <- app.Start() }()

			if c.v.GetBool("watch") {
				go func() {
					if err := app.Watch(ctx); err != nil {
						app.Log.Error("content watcher stopped", zap.Error(err))
					}
				}()
			}

			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
			}
			app.Log.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return app.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().String("addr", ":3000", "listen address")
	cmd.Flags().Bool("watch", false, "reload content when files change")
	cmd.Flags().Bool("drafts", false, "publish posts marked draft")
	return cmd
}
