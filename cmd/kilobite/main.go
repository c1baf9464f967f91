// Command kilobite serves, builds and scaffolds Kilobite sites.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if err := newRootCmd(newCLI()).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "kilobite",
		Short: "Kilobite - a small blog engine built with Go and Echo",
		Long: `Kilobite renders a Markdown content tree with a site configuration file
(site.yaml) into a blog. It can serve the site, build it into static files,
validate the configuration, or scaffold a new site.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.readConfig(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.cfgFile, "config", "", "server config file (default is ./kilobite.yaml)")
	pf.String("site", "", "site configuration file (default is ./site.yaml, falling back to the built-in site)")
	pf.String("content", "content", "Markdown content directory")
	pf.String("public", "public", "directory served as-is from the site root")
	pf.String("db", "data/kilobite.db", "SQLite index path")
	pf.String("url", "http://localhost:3000", "canonical site URL")
	pf.String("log-level", "info", "log level: debug, info, warn, error")

	root.AddCommand(
		c.serveCmd(),
		c.buildCmd(),
		c.checkCmd(),
		initCmd(),
		versionCmd(),
	)
	return root
}

func newCLI() *cli {
	return &cli{v: viper.New()}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the kilobite version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "kilobite %s\n", version)
		},
	}
}
